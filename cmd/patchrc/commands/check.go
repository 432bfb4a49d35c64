package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates the check command
func NewCheckCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show what apply would change",
		Long: `Check is a dry run: it prints a diff for every file that would change and
exits non-zero if any file is out of date, missing, or fails a rule.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "check").Logger().WithContext(cmd.Context())

			log.FromContext(ctx).Header("checking patch sets")

			summary, err := o.Run(ctx, opts.RunOptions{DryRun: true, Diffs: true})
			if err != nil {
				return errors.Errorf("checking patch sets: %w", err)
			}

			if !summary.OK() || summary.Pending() {
				return &opts.ExitError{Code: 1}
			}
			return nil
		},
	}

	return cmd
}
