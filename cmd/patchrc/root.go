package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
)

// newRootCmd creates the root command with every subcommand attached
func newRootCmd(o *opts.RootOpts) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Apply reviewed text patches to source files",
		Long: `patchrc applies data-driven patches to source files. A patch names the
files it targets and an ordered list of rules; a rule either replaces literal
text or replaces a delimiter-balanced span that starts at an anchor.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger := setupLogging(o.LogOutput, o.Debug)
			ctx := logger.WithContext(cmd.Context())
			ctx = log.NewContext(ctx, log.New(ctx, cmd.OutOrStdout()))
			cmd.SetContext(ctx)

			o.UserLogger = log.NewUserLogger(ctx, cmd.OutOrStdout())
			return nil
		},
	}

	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewRestoreCmd(o),
		commands.NewLocateCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".patchrc.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().StringSliceVar(&o.EnvFiles, "env-file", []string{".env"}, "env files loaded before the config is expanded")
}

// setupLogging creates the structured logger for the run
func setupLogging(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
