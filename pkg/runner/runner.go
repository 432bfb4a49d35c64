// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner applies one patch set to one file: read, patch, write, validate.
package runner

import (
	"context"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/store"
	"github.com/walteh/patchrc/pkg/validate"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrRuleFailed marks a result where a rule could not be applied
	ErrRuleFailed = errors.Base("patch rule failed")

	// ErrRejected marks a strict-mode result refused by validation
	ErrRejected = errors.Base("patched content failed validation")
)

// Mode decides how validation relates to the write
type Mode int

const (
	// ModeWarn writes first and validates afterwards; warnings are advisory
	ModeWarn Mode = iota
	// ModeStrict validates the candidate in memory and only writes on success
	ModeStrict
)

// String returns a string representation of Mode
func (m Mode) String() string {
	if m == ModeStrict {
		return "strict"
	}
	return "warn"
}

// 🔧 Options contains configuration for the runner
type Options struct {
	// Store is the file-system boundary (required)
	Store store.Store
	// Validator checks patched content; nil disables validation
	Validator validate.Validator
	// Mode selects warn-after-write or validate-before-write
	Mode Mode
	// DryRun computes results and diffs without writing
	DryRun bool
}

// 🏃 Runner applies patch sets to files
type Runner struct {
	store     store.Store
	validator validate.Validator
	mode      Mode
	dryRun    bool
}

// 🏭 New creates a runner with the given options
func New(opts Options) (*Runner, error) {
	if opts.Store == nil {
		return nil, errors.Errorf("store is required")
	}
	return &Runner{
		store:     opts.Store,
		validator: opts.Validator,
		mode:      opts.Mode,
		dryRun:    opts.DryRun,
	}, nil
}

// Mode returns the validation mode
func (r *Runner) Mode() Mode {
	return r.mode
}

// DryRun reports whether the runner skips writes
func (r *Runner) DryRun() bool {
	return r.dryRun
}

// Run applies set to the file at path.
//
// Per-file problems (missing file, read or write failure, failed rule,
// validation) are reported in the Result. The returned error is reserved for
// a cancelled context or a store that is unavailable altogether.
func (r *Runner) Run(ctx context.Context, path string, set *patch.Set) (*Result, error) {
	start := time.Now()
	logger := zerolog.Ctx(ctx).With().Str("path", path).Str("patch_set", set.Name).Logger()

	res := &Result{
		Path:       path,
		SetName:    set.Name,
		Validation: validate.NotRun("not applied"),
	}
	finish := func() (*Result, error) {
		res.Duration = time.Since(start)
		return res, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.Errorf("running %s on %s: %w", set.Name, path, err)
	}

	// 📥 Load
	original, err := r.store.ReadFile(ctx, path)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUnavailable):
			return nil, errors.Errorf("reading %s: %w", path, err)
		case errors.Is(err, store.ErrNotFound):
			res.Status = StatusNotFound
		default:
			res.Status = StatusReadFailed
		}
		res.Err = err
		logger.Warn().Err(err).Str("status", res.Status.String()).Msg("skipping file")
		return finish()
	}
	res.OriginalHash = store.Checksum(original)

	// 🩹 Patch
	final, rules := set.Apply(string(original))
	res.Rules = rules
	res.FinalHash = store.Checksum([]byte(final))
	res.Changed = final != string(original)

	for _, rule := range rules {
		ev := logger.Debug()
		if rule.Err != nil {
			ev = logger.Error().Err(rule.Err)
		}
		ev.Str("rule", rule.ID).Str("outcome", rule.Outcome.String()).Msg("rule evaluated")
	}

	if again, _ := set.Apply(final); again != final {
		res.Unstable = true
		logger.Warn().Msg("patch set is not idempotent: a second application changes the file again")
	}

	if patch.Failed(rules) {
		res.Status = StatusRuleFailed
		res.Err = errors.Errorf("%w: %s", ErrRuleFailed, firstFailure(rules))
		return finish()
	}

	if !res.Changed {
		res.Status = StatusUnchanged
		logger.Debug().Msg("already patched")
		return finish()
	}

	if r.dryRun {
		res.Status = StatusWouldUpdate
		res.Validation = r.validate(ctx, path, final)
		res.Diff, err = unifiedDiff(path, string(original), final)
		if err != nil {
			logger.Debug().Err(err).Msg("building diff")
		}
		return finish()
	}

	if r.mode == ModeStrict {
		res.Validation = r.validate(ctx, path, final)
		if res.Validation.Status == validate.StatusWarning {
			res.Status = StatusRejected
			res.Err = errors.Errorf("%w: %s", ErrRejected, res.Validation.Message)
			logger.Warn().Str("validation", res.Validation.Message).Msg("write rejected")
			return finish()
		}
	}

	// 💾 Write
	if err := r.store.WriteFile(ctx, path, []byte(final)); err != nil {
		if errors.Is(err, store.ErrUnavailable) {
			return nil, errors.Errorf("writing %s: %w", path, err)
		}
		res.Status = StatusWriteFailed
		res.Err = err
		logger.Error().Err(err).Msg("write failed")
		return finish()
	}
	res.Written = true
	res.Status = StatusUpdated
	logger.Info().Strs("rules", res.Applied()).Msg("file patched")

	// ✅ Validate after the fact
	if r.mode == ModeWarn {
		res.Validation = r.validate(ctx, path, final)
		if res.Validation.Status == validate.StatusWarning {
			logger.Warn().Str("validation", res.Validation.Message).Msg("patched file failed validation")
		}
	}

	return finish()
}

func (r *Runner) validate(ctx context.Context, path, content string) validate.Outcome {
	if r.validator == nil {
		return validate.NotRun("no validator configured")
	}
	return r.validator.Validate(ctx, path, []byte(content))
}

func firstFailure(rules []patch.RuleResult) string {
	for _, rule := range rules {
		if rule.Outcome == patch.OutcomeFailed {
			if rule.Err != nil {
				return rule.Err.Error()
			}
			return rule.ID
		}
	}
	return ""
}

// unifiedDiff renders the change as a git-style unified diff
func unifiedDiff(path, before, after string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
}
