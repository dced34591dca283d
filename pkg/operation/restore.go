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

	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// ♻️ RestoreOperation puts back the .bak copies an apply run with backups left
type RestoreOperation struct {
	BaseOperation
}

var _ Operation = (*RestoreOperation)(nil)

// 🏭 NewRestoreOperation creates a new restore operation
func NewRestoreOperation(opts Options) (*RestoreOperation, error) {
	base, err := NewBaseOperation(opts)
	if err != nil {
		return nil, err
	}
	if base.Patch.Output != "" {
		return nil, errors.Errorf("patch %q writes to %s and keeps no backup", base.Patch.Name, base.Patch.Output)
	}
	return &RestoreOperation{BaseOperation: base}, nil
}

// 🏃 Execute restores every matched file that has a backup
func (op *RestoreOperation) Execute(ctx context.Context) error {
	files, err := op.Files.Glob(ctx, op.Patch.Files...)
	if err != nil {
		return errors.Errorf("matching files: %w", err)
	}

	op.Logger.StartPatchOperation(ctx, log.PatchOperation{
		Name:  op.Patch.Name,
		Root:  op.Files.BaseDir(),
		Files: len(files),
	})
	defer op.Logger.EndPatchOperation(ctx)

	restored := 0
	for _, file := range files {
		exists, err := op.Files.FileExists(ctx, file+".bak")
		if err != nil {
			return errors.Errorf("checking backup of %s: %w", file, err)
		}
		if !exists {
			continue
		}
		if err := op.Files.RestoreFile(ctx, file); err != nil {
			return errors.Errorf("restoring %s: %w", file, err)
		}
		op.Files.TrackFile(ctx, file, status.FileInfo{Status: status.StatusRestored})
		op.Logger.LogFileOperation(ctx, log.FileOperation{Path: file, Status: status.StatusRestored.String(), IsModified: true})
		restored++
	}

	if restored == 0 {
		op.Logger.Warningf("%s: no backups found", op.Patch.Name)
	}
	return nil
}
