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

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 OperationRunner executes operations
type OperationRunner struct {
	jobs int
}

// 🏗️ NewRunner creates a new runner. With jobs > 1 up to that many
// operations run at once; the operations must then touch disjoint files.
func NewRunner(jobs int) *OperationRunner {
	if jobs < 1 {
		jobs = 1
	}
	return &OperationRunner{jobs: jobs}
}

// 🏃 Run executes every operation and returns the joined errors of those
// that failed. A failing operation does not stop the others.
func (r *OperationRunner) Run(ctx context.Context, ops ...Operation) error {
	errs := make([]error, len(ops))

	if r.jobs == 1 {
		for i, op := range ops {
			errs[i] = r.execute(ctx, op)
		}
		return errors.Join(errs...)
	}

	var g errgroup.Group
	g.SetLimit(r.jobs)
	for i, op := range ops {
		g.Go(func() error {
			errs[i] = r.execute(ctx, op)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (r *OperationRunner) execute(ctx context.Context, op Operation) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("operation %s cancelled: %w", op.Name(), err)
	}

	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("operation", op.Name()).Msg("executing operation")

	if err := op.Execute(ctx); err != nil {
		return errors.Errorf("operation %s: %w", op.Name(), err)
	}
	return nil
}
