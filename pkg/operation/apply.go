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
	"bytes"
	"context"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/status"
	"github.com/walteh/patchrc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 📄 FileReport is the outcome of patching a single file
type FileReport struct {
	Path         string
	Output       string
	Status       status.FileStatus
	Replacements int
	OldSize      int
	NewSize      int
	Diff         string
	Err          error
}

// 📦 ApplyOperation applies one patch definition to every file it matches
type ApplyOperation struct {
	BaseOperation

	reports []FileReport
}

var _ Operation = (*ApplyOperation)(nil)

// 🏭 NewApplyOperation creates a new apply operation
func NewApplyOperation(opts Options) (*ApplyOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	return &ApplyOperation{BaseOperation: base}, nil
}

// Reports returns the per-file outcomes of the last Execute
func (op *ApplyOperation) Reports() []FileReport {
	return op.reports
}

// 🏃 Execute runs the apply operation. Files are processed in order and the
// first failing file stops the patch. Nothing is written for a file whose
// rules did not all succeed.
func (op *ApplyOperation) Execute(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("patch", op.Patch.Name).Logger()
	ctx = logger.WithContext(ctx)

	rules, err := op.Patch.ReplacementRules()
	if err != nil {
		return errors.Errorf("building rules: %w", err)
	}
	if err := op.Replacer.ValidateRules(rules); err != nil {
		return errors.Errorf("validating rules: %w", err)
	}

	// Reporting modes accept a tree the patch was already applied to.
	if op.Mode != ModeApply {
		for i := range rules {
			rules[i].AllowApplied = true
		}
	}

	files, err := op.Files.Glob(ctx, op.Patch.Files...)
	if err != nil {
		return errors.Errorf("matching files: %w", err)
	}

	op.reports = nil
	op.Logger.StartPatchOperation(ctx, log.PatchOperation{
		Name:   op.Patch.Name,
		Root:   op.Files.BaseDir(),
		Files:  len(files),
		DryRun: op.Mode != ModeApply,
	})
	defer op.Logger.EndPatchOperation(ctx)

	op.Files.StartOperation(ctx, len(files))
	defer op.Files.FinishOperation(ctx)

	pending := 0
	for i, file := range files {
		report, err := op.processFile(ctx, file, rules)
		op.reports = append(op.reports, report)
		op.logReport(ctx, report)
		if err != nil {
			return errors.Errorf("patching %s: %w", file, err)
		}
		if report.Status == status.StatusPending {
			pending++
		}
		op.Files.UpdateProgress(ctx, i+1)
	}

	if op.Mode == ModeCheck && pending > 0 {
		return errors.WithDetails(ErrPatchPending, "patch", op.Patch.Name, "files", pending)
	}

	return nil
}

// 📄 processFile patches a single file
func (op *ApplyOperation) processFile(ctx context.Context, file string, rules []text.ReplacementRule) (FileReport, error) {
	report := FileReport{Path: file, Output: file}
	if op.Patch.Output != "" {
		report.Output = op.Patch.Output
	}

	fail := func(err error) (FileReport, error) {
		report.Status = status.StatusFailed
		report.Err = err
		op.Files.TrackFile(ctx, file, status.FileInfo{Status: status.StatusFailed, Error: err})
		return report, err
	}

	content, err := op.Files.ReadFile(ctx, file)
	if err != nil {
		return fail(err)
	}
	report.OldSize = len(content)

	result, err := op.Replacer.ReplaceText(ctx, file, bytes.NewReader(content), rules)
	if err != nil {
		return fail(err)
	}
	report.Replacements = result.ReplacementCount
	report.NewSize = len(result.ModifiedContent)

	// Writing to a separate output counts as a change even when the rules
	// left the content as it was.
	changed := result.WasModified
	if report.Output != file {
		existing, err := op.Files.ReadFile(ctx, report.Output)
		changed = err != nil || !bytes.Equal(existing, result.ModifiedContent)
	}

	if op.Diff && result.WasModified {
		report.Diff = RenderDiff(string(result.OriginalContent), string(result.ModifiedContent))
	}

	switch {
	case !changed:
		report.Status = status.StatusUnchanged
	case op.Mode != ModeApply:
		report.Status = status.StatusPending
	default:
		if op.Backup && report.Output == file {
			if err := op.Files.BackupFile(ctx, file); err != nil {
				return fail(errors.Errorf("backing up: %w", err))
			}
		}
		if err := op.Files.WriteFileAtomic(ctx, report.Output, result.ModifiedContent); err != nil {
			return fail(errors.Errorf("writing output: %w", err))
		}
		report.Status = status.StatusPatched
	}

	op.Files.TrackContent(ctx, report.Output, report.Status, result.ModifiedContent)
	return report, nil
}

func (op *ApplyOperation) logReport(ctx context.Context, report FileReport) {
	entry := log.FileOperation{
		Path:         report.Path,
		Output:       report.Output,
		Status:       report.Status.String(),
		IsModified:   report.Status == status.StatusPatched || report.Status == status.StatusPending,
		IsFailed:     report.Status == status.StatusFailed,
		Replacements: report.Replacements,
		OldSize:      report.OldSize,
		NewSize:      report.NewSize,
	}
	op.Logger.LogFileOperation(ctx, entry)

	switch report.Status {
	case status.StatusPatched:
		op.Logger.LogSizeSummary(entry)
	case status.StatusFailed:
		op.Logger.Errorf("%s: %v", report.Path, report.Err)
	}
	op.Logger.LogDiff(report.Diff)
}
