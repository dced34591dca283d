package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var (
		dryRun bool
		s      runSettings
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply patches to files",
		Long: `Apply runs every rule of each selected patch over the files it matches.
A file is only written when all of its rules succeed. With --dry-run nothing
is written and the files that would change are reported as pending.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())
			out := cmd.OutOrStdout()

			s.mode = operation.ModeApply
			header := "applying patches"
			if dryRun {
				s.mode = operation.ModeDryRun
				header = "dry run"
			}
			log.FromContext(ctx).Header(header)

			files, err := runPatches(ctx, o, out, s, applyBuilder)
			if err != nil {
				return errors.Errorf("applying patches: %w", err)
			}

			o.UserLogger.LogStateChange(summarize(ctx, files))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing files")
	cmd.Flags().BoolVar(&s.diff, "diff", false, "print a diff for every changed file")
	cmd.Flags().BoolVar(&s.backup, "backup", false, "keep a .bak copy of files patched in place")
	cmd.Flags().StringSliceVarP(&s.patches, "patch", "p", nil, "only apply the named patch (repeatable)")
	cmd.Flags().IntVarP(&s.jobs, "jobs", "j", 1, "patches to apply concurrently")

	return cmd
}
