package opts

import (
	"context"
	"strconv"

	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/report"
	"github.com/walteh/patchrc/pkg/runner"
	"github.com/walteh/patchrc/pkg/store"
	"github.com/walteh/patchrc/pkg/validate"
	"gitlab.com/tozd/go/errors"
)

// RootOpts contains shared options used by all commands
type RootOpts struct {
	ConfigFile string // Path to the config file
	Root       string // Overrides the config's root when set
	Debug      bool

	Config *config.Config
}

// TargetRoot returns the directory patch targets are resolved against
func (o *RootOpts) TargetRoot() string {
	if o.Root != "" {
		return o.Root
	}
	return o.Config.ResolveRoot()
}

// Reload re-reads the config file
func (o *RootOpts) Reload(ctx context.Context) error {
	cfg, err := config.LoadConfig(ctx, o.ConfigFile)
	if err != nil {
		return errors.Errorf("loading config: %w", err)
	}
	o.Config = cfg
	return nil
}

// RunOptions selects how a batch runs
type RunOptions struct {
	Strict bool
	DryRun bool
	Diffs  bool
}

// Run wires store, validator and runner from the config and applies every pair
func (o *RootOpts) Run(ctx context.Context, ro RunOptions) (*report.Summary, error) {
	cfg := o.Config
	if cfg == nil {
		return nil, errors.Errorf("config not loaded")
	}

	var dirOpts []store.DirOption
	if cfg.AtomicWrites {
		dirOpts = append(dirOpts, store.WithAtomicWrites())
	}
	st := store.NewDir(o.TargetRoot(), dirOpts...)

	var v validate.Validator
	if !cfg.SkipValidation {
		timeout, err := cfg.Timeout()
		if err != nil {
			return nil, err
		}
		v = validate.Bounded(validate.NewSyntax(), timeout)
	}

	mode := runner.ModeWarn
	if ro.Strict || cfg.Strict {
		mode = runner.ModeStrict
	}

	r, err := runner.New(runner.Options{
		Store:     st,
		Validator: v,
		Mode:      mode,
		DryRun:    ro.DryRun,
	})
	if err != nil {
		return nil, errors.Errorf("creating runner: %w", err)
	}

	pairs, err := cfg.Pairs(ctx, st.FS())
	if err != nil {
		return nil, errors.Errorf("resolving targets: %w", err)
	}

	var repOpts []report.Option
	if ro.Diffs {
		repOpts = append(repOpts, report.WithDiffs())
	}

	return report.New(r, log.FromContext(ctx), repOpts...).RunAll(ctx, pairs)
}

// ExitError carries a process exit code without an extra message
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "exit status " + strconv.Itoa(e.Code)
}
