package main

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newRootCmd builds the command tree; user-facing output goes to console
func newRootCmd(console io.Writer) *cobra.Command {
	o := &opts.RootOpts{}

	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "Apply ordered, idempotent text patches to static site files",
		Long: `patchrc applies declarative find-and-replace patch sets to JavaScript, CSS,
HTML and JSON files, then syntax-checks what it wrote. Running it again on
already-patched files changes nothing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zlog := setupLogging(o.Debug)
			ctx := log.NewContext(zlog.WithContext(cmd.Context()), log.New(console, zlog))
			cmd.SetContext(ctx)

			if err := o.Reload(ctx); err != nil {
				return err
			}
			return nil
		},
	}

	// Add shared flags
	addRootFlags(rootCmd, o)

	rootCmd.AddCommand(
		commands.NewApplyCmd(o),
		commands.NewCheckCmd(o),
		commands.NewWatchCmd(o),
		newVersionCmd(),
	)
	rootCmd.SetOut(console)

	return rootCmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, o *opts.RootOpts) {
	cmd.PersistentFlags().StringVarP(&o.ConfigFile, "config", "c", ".patchrc.hcl", "config file path")
	cmd.PersistentFlags().StringVarP(&o.Root, "root", "r", "", "target root, overrides the config")
	cmd.PersistentFlags().BoolVarP(&o.Debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// exitCode maps a command error to a process exit status
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *opts.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
