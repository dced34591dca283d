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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/span"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 Rule is one edit inside a patch
type Rule struct {
	Kind       string `json:"kind,omitempty" yaml:"kind,omitempty"`             // literal (default) or span
	Old        string `json:"old,omitempty" yaml:"old,omitempty"`               // text to replace (literal)
	Anchor     string `json:"anchor,omitempty" yaml:"anchor,omitempty"`         // start of the span (span)
	Delimiters string `json:"delimiters,omitempty" yaml:"delimiters,omitempty"` // pair such as "()" (span)
	Depth      int    `json:"depth,omitempty" yaml:"depth,omitempty"`           // depth open after anchor (span)
	New        string `json:"new,omitempty" yaml:"new,omitempty"`               // replacement text
	NewFile    string `json:"new_file,omitempty" yaml:"new_file,omitempty"`     // file holding the replacement text
	Files      string `json:"files,omitempty" yaml:"files,omitempty"`           // glob restricting the rule
	Optional   bool   `json:"optional,omitempty" yaml:"optional,omitempty"`     // skip instead of fail on no match
}

// 📦 Patch is a named set of rules applied to a set of files
type Patch struct {
	Name   string   `json:"name,omitempty" yaml:"name,omitempty"`
	Files  []string `json:"files" yaml:"files"`                       // globs relative to root
	Output string   `json:"output,omitempty" yaml:"output,omitempty"` // single-file output path, default in place
	Rules  []Rule   `json:"rules" yaml:"rules"`
}

// 📚 Config represents the complete configuration
type Config struct {
	Root    string  `json:"root,omitempty" yaml:"root,omitempty"`
	Patches []Patch `json:"patches" yaml:"patches"`

	location string
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}
	cfg.location = path

	if err := cfg.Resolve(filepath.Dir(path)); err != nil {
		return nil, errors.Errorf("resolving config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	logger.Debug().Str("path", path).Int("patches", len(cfg.Patches)).Str("hash", cfg.Hash()).Msg("configuration loaded")

	return cfg, nil
}

// Location returns the file the config was loaded from, if any
func (cfg *Config) Location() string {
	return cfg.location
}

// 🧭 Resolve expands environment variables in path fields, anchors the
// root at baseDir and reads replacement text from new_file references.
func (cfg *Config) Resolve(baseDir string) error {
	cfg.Root = ExpandEnv(cfg.Root)
	if cfg.Root == "" {
		cfg.Root = baseDir
	} else if !filepath.IsAbs(cfg.Root) {
		cfg.Root = filepath.Join(baseDir, cfg.Root)
	}
	cfg.Root = filepath.Clean(cfg.Root)

	for i := range cfg.Patches {
		p := &cfg.Patches[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("patch-%d", i)
		}
		for j := range p.Files {
			p.Files[j] = filepath.ToSlash(ExpandEnv(p.Files[j]))
		}
		p.Output = ExpandEnv(p.Output)

		for j := range p.Rules {
			r := &p.Rules[j]
			if r.NewFile == "" {
				continue
			}
			if r.New != "" {
				return errors.Errorf("patch %q rule %d: new and new_file are mutually exclusive", p.Name, j)
			}
			newPath := ExpandEnv(r.NewFile)
			if !filepath.IsAbs(newPath) {
				newPath = filepath.Join(baseDir, newPath)
			}
			data, err := os.ReadFile(newPath)
			if err != nil {
				return errors.Errorf("patch %q rule %d: reading new_file: %w", p.Name, j, err)
			}
			r.New = string(data)
		}
	}

	return nil
}

// 🔍 Validate checks if the configuration is valid
func (cfg *Config) Validate() error {
	if len(cfg.Patches) == 0 {
		return errors.Errorf("at least one patch is required")
	}

	names := make(map[string]bool, len(cfg.Patches))
	for i, p := range cfg.Patches {
		if p.Name != "" {
			if names[p.Name] {
				return errors.Errorf("patch %d: duplicate name %q", i, p.Name)
			}
			names[p.Name] = true
		}

		if err := p.Validate(); err != nil {
			return errors.Errorf("patch %q: %w", p.Name, err)
		}
	}

	return nil
}

// 🔍 Validate checks a single patch definition
func (p *Patch) Validate() error {
	if len(p.Files) == 0 {
		return errors.Errorf("files is required")
	}
	for _, f := range p.Files {
		if f == "" {
			return errors.Errorf("files must not contain empty entries")
		}
		if !doublestar.ValidatePattern(f) {
			return errors.Errorf("invalid files pattern %q", f)
		}
	}

	if p.Output != "" {
		if len(p.Files) != 1 || isGlob(p.Files[0]) {
			return errors.Errorf("output requires exactly one non-glob file")
		}
	}

	if len(p.Rules) == 0 {
		return errors.Errorf("at least one rule is required")
	}

	rules, err := p.ReplacementRules()
	if err != nil {
		return err
	}

	return text.NewSimpleTextReplacer().ValidateRules(rules)
}

// 🔄 ReplacementRules converts the patch rules into text engine rules
func (p *Patch) ReplacementRules() ([]text.ReplacementRule, error) {
	rules := make([]text.ReplacementRule, 0, len(p.Rules))
	for i, r := range p.Rules {
		rule := text.ReplacementRule{
			Kind:           text.RuleKind(r.Kind),
			FromText:       r.Old,
			Anchor:         r.Anchor,
			Depth:          r.Depth,
			ToText:         r.New,
			FileFilterGlob: r.Files,
			Optional:       r.Optional,
		}

		switch rule.EffectiveKind() {
		case text.KindLiteral:
			if r.Anchor != "" || r.Delimiters != "" || r.Depth != 0 {
				return nil, errors.Errorf("rule %d: anchor, delimiters and depth only apply to span rules", i)
			}
		case text.KindSpan:
			if r.Old != "" {
				return nil, errors.Errorf("rule %d: old only applies to literal rules", i)
			}
			d, err := span.ParseDelimiters(r.Delimiters)
			if err != nil {
				return nil, errors.Errorf("rule %d: %w", i, err)
			}
			rule.Delimiters = d
		}

		rules = append(rules, rule)
	}
	return rules, nil
}

// 📝 Hash returns a stable hash of the resolved configuration
func (cfg *Config) Hash() string {
	data, err := json.Marshal(cfg)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%d patches @ %s", len(cfg.Patches), cfg.Root)
}

// Select returns the patches with the given names, or all patches when
// names is empty.
func (cfg *Config) Select(names ...string) ([]Patch, error) {
	if len(names) == 0 {
		return cfg.Patches, nil
	}

	byName := make(map[string]Patch, len(cfg.Patches))
	for _, p := range cfg.Patches {
		byName[p.Name] = p
	}

	selected := make([]Patch, 0, len(names))
	for _, name := range names {
		p, ok := byName[name]
		if !ok {
			return nil, errors.Errorf("unknown patch %q", name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}

// isGlob reports whether pattern has any doublestar meta characters
func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{\\")
}
