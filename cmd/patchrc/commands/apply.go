package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates the apply command
func NewApplyCmd(o *opts.RootOpts) *cobra.Command {
	var strict, dryRun bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply every configured patch set",
		Long: `Apply runs each patch set against its files, in the order they are declared.
For every file it will:
1. Read the current content
2. Apply the rules in order
3. Write the file back if anything changed
4. Syntax-check the result

A missing file or a failing rule is reported and the run continues.
With --strict, content that fails the syntax check is never written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "apply").Logger().WithContext(cmd.Context())

			log.FromContext(ctx).Header("applying patch sets")

			summary, err := o.Run(ctx, opts.RunOptions{Strict: strict, DryRun: dryRun})
			if err != nil {
				return errors.Errorf("applying patch sets: %w", err)
			}

			if code := summary.ExitCode(); code != 0 {
				return &opts.ExitError{Code: code}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "validate before writing and skip files that fail")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would change without writing")

	return cmd
}
