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

package operation

import (
	"context"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// ErrPatchPending is returned by check runs when a patch would change files.
var ErrPatchPending = errors.Base("patch pending")

// 🎯 Operation is a unit of work the runner executes
type Operation interface {
	// Name identifies the operation in logs
	Name() string
	// Execute runs the operation
	Execute(ctx context.Context) error
}

// Mode selects what an apply operation does with patched content
type Mode int

const (
	// ModeApply writes patched content
	ModeApply Mode = iota
	// ModeDryRun reports what would change without writing
	ModeDryRun
	// ModeCheck is ModeDryRun that fails with ErrPatchPending on any change
	ModeCheck
)

// 🔧 Options contains configuration for an operation
type Options struct {
	// Patch is the patch definition to apply
	Patch config.Patch
	// Files reads, writes and tracks files under the patch root
	Files *status.Manager
	// Replacer applies the patch rules
	Replacer text.TextReplacer
	// Logger prints the per-file report
	Logger *log.Logger
	// Mode selects apply, dry run or check
	Mode Mode
	// Diff renders a diff for every changed file
	Diff bool
	// Backup copies each file to .bak before overwriting it in place
	Backup bool
}

// 🧱 BaseOperation holds what every operation needs
type BaseOperation struct {
	Options
}

// 🏭 NewBaseOperation validates opts and wraps them
func NewBaseOperation(opts Options) (BaseOperation, error) {
	if opts.Files == nil {
		return BaseOperation{}, errors.Errorf("file manager is required")
	}
	if opts.Logger == nil {
		return BaseOperation{}, errors.Errorf("logger is required")
	}
	if opts.Replacer == nil {
		opts.Replacer = text.NewSimpleTextReplacer()
	}
	return BaseOperation{Options: opts}, nil
}

// Name implements Operation.Name
func (op *BaseOperation) Name() string {
	return op.Patch.Name
}
