// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

type hclRule struct {
	Kind       string `hcl:"kind,optional"`
	Old        string `hcl:"old,optional"`
	Anchor     string `hcl:"anchor,optional"`
	Delimiters string `hcl:"delimiters,optional"`
	Depth      int    `hcl:"depth,optional"`
	New        string `hcl:"new,optional"`
	NewFile    string `hcl:"new_file,optional"`
	Files      string `hcl:"files,optional"`
	Optional   bool   `hcl:"optional,optional"`
}

type hclPatch struct {
	Name   string    `hcl:"name,label"`
	Files  []string  `hcl:"files"`
	Output string    `hcl:"output,optional"`
	Rules  []hclRule `hcl:"rule,block"`
}

type hclConfig struct {
	Root    string     `hcl:"root,optional"`
	Patches []hclPatch `hcl:"patch,block"`
}

// 📝 Parse parses the config from HCL. Expressions can read the process
// environment through the env object, e.g. root = env.APP_ROOT.
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "patchrc.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	cfg := &Config{Root: hclCfg.Root}
	for _, hp := range hclCfg.Patches {
		patch := Patch{
			Name:   hp.Name,
			Files:  hp.Files,
			Output: hp.Output,
		}
		for _, r := range hp.Rules {
			patch.Rules = append(patch.Rules, Rule(r))
		}
		cfg.Patches = append(cfg.Patches, patch)
	}

	return cfg, nil
}

// envObject exposes the process environment to HCL expressions
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || !hclIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vars)
}

func hclIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c == '-' || (c >= '0' && c <= '9')):
		default:
			return false
		}
	}
	return true
}
