package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	var s runSettings

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether patches would change any file",
		Long: `Check runs the patches without writing anything and fails when a file
would change or a rule no longer matches. Use it in CI to catch patches that
were never applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())
			out := cmd.OutOrStdout()

			s.mode = operation.ModeCheck
			log.FromContext(ctx).Header("checking patches")

			files, err := runPatches(ctx, o, out, s, applyBuilder)
			if errors.Is(err, operation.ErrPatchPending) {
				o.UserLogger.LogValidation(false, "files need patching: "+summarize(ctx, files), nil)
			}
			if err != nil {
				return errors.Errorf("checking patches: %w", err)
			}

			o.UserLogger.LogValidation(true, "all files are up to date", nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&s.diff, "diff", false, "print a diff for every file that would change")
	cmd.Flags().StringSliceVarP(&s.patches, "patch", "p", nil, "only check the named patch (repeatable)")
	cmd.Flags().IntVarP(&s.jobs, "jobs", "j", 1, "patches to check concurrently")

	return cmd
}
