package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewRestoreCmd creates a new restore command
func NewRestoreCmd(o *opts.RootOpts) *cobra.Command {
	var s runSettings

	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore files from the backups of a previous apply",
		Long: `Restore moves the .bak copies left by "apply --backup" back over the
patched files. Patches that write to a separate output have no backups and
are rejected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			log.FromContext(ctx).Header("restoring backups")

			s.jobs = 1
			files, err := runPatches(ctx, o, out, s, restoreBuilder)
			if err != nil {
				return errors.Errorf("restoring files: %w", err)
			}

			o.UserLogger.LogStateChange(summarize(ctx, files))
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&s.patches, "patch", "p", nil, "only restore the named patch (repeatable)")

	return cmd
}
