package commands

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

const watchDebounce = 200 * time.Millisecond

// NewWatchCmd creates the watch command
func NewWatchCmd(o *opts.RootOpts) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-apply patch sets whenever the config changes",
		Long: `Watch applies every patch set once, then reloads the config file and applies
again each time it is saved. Runs never overlap. Stop with Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "watch").Logger().WithContext(cmd.Context())
			return watch(ctx, o, opts.RunOptions{Strict: strict})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "validate before writing and skip files that fail")

	return cmd
}

func watch(ctx context.Context, o *opts.RootOpts, ro opts.RunOptions) error {
	logger := zerolog.Ctx(ctx)
	console := log.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	configPath, err := filepath.Abs(o.ConfigFile)
	if err != nil {
		return errors.Errorf("resolving config path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return errors.Errorf("watching %s: %w", filepath.Dir(configPath), err)
	}

	apply := func() error {
		console.Header("applying patch sets")
		if _, err := o.Run(ctx, ro); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			console.Errorf("run failed: %v", err)
		}
		console.Infof("watching %s", o.ConfigFile)
		return nil
	}

	if err := apply(); err != nil {
		return err
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != configPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug().Str("event", event.Op.String()).Msg("config changed")
			debounce = time.After(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watch error")

		case <-debounce:
			debounce = nil
			if err := o.Reload(ctx); err != nil {
				console.Errorf("%v", err)
				continue
			}
			if err := apply(); err != nil {
				return err
			}
		}
	}
}
