package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"github.com/walteh/patchrc/pkg/status"
	"gitlab.com/tozd/go/errors"
)

type buildFunc func(operation.Options) (operation.Operation, error)

func applyBuilder(opts operation.Options) (operation.Operation, error) {
	return operation.NewApplyOperation(opts)
}

func restoreBuilder(opts operation.Options) (operation.Operation, error) {
	return operation.NewRestoreOperation(opts)
}

// runSettings controls how the selected patches run
type runSettings struct {
	patches []string
	mode    operation.Mode
	diff    bool
	backup  bool
	jobs    int
}

// runPatches builds one operation per selected patch and runs them. The
// console logger on ctx is shared when operations run one by one. With
// jobs > 1 each operation prints to its own buffer and the buffers are
// copied to out in config order once all operations finish.
func runPatches(ctx context.Context, o *opts.RootOpts, out io.Writer, s runSettings, build buildFunc) (*status.Manager, error) {
	cfg, err := o.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}

	patches, err := cfg.Select(s.patches...)
	if err != nil {
		return nil, errors.Errorf("selecting patches: %w", err)
	}

	files := status.New(cfg.Root)
	consoles := make([]*bytes.Buffer, len(patches))
	ops := make([]operation.Operation, 0, len(patches))

	for i, p := range patches {
		logger := log.FromContext(ctx)
		if s.jobs > 1 {
			consoles[i] = &bytes.Buffer{}
			logger = log.New(ctx, consoles[i])
		}

		op, err := build(operation.Options{
			Patch:  p,
			Files:  files,
			Logger: logger,
			Mode:   s.mode,
			Diff:   s.diff,
			Backup: s.backup,
		})
		if err != nil {
			return nil, errors.Errorf("creating operation for %s: %w", p.Name, err)
		}
		ops = append(ops, op)
	}

	runErr := operation.NewRunner(s.jobs).Run(ctx, ops...)

	for _, buf := range consoles {
		if buf != nil {
			if _, err := io.Copy(out, buf); err != nil {
				return nil, errors.Errorf("writing output: %w", err)
			}
		}
	}

	return files, runErr
}

// summarize counts the tracked files per status
func summarize(ctx context.Context, files *status.Manager) string {
	if files == nil {
		return "no files processed"
	}

	infos, err := files.ListFiles(ctx)
	if err != nil || len(infos) == 0 {
		return "no files processed"
	}

	counts := make(map[status.FileStatus]int)
	for _, info := range infos {
		counts[info.Status]++
	}

	var parts []string
	for _, st := range []status.FileStatus{
		status.StatusPatched,
		status.StatusPending,
		status.StatusRestored,
		status.StatusUnchanged,
		status.StatusFailed,
	} {
		if n := counts[st]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, st))
		}
	}
	return strings.Join(parts, ", ")
}
