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

// Package report drives a runner over a batch of files and summarizes the outcome.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/runner"
	"github.com/walteh/patchrc/pkg/validate"
	"gitlab.com/tozd/go/errors"
)

// 📎 Pair binds a target path to the patch set applied to it
type Pair struct {
	Path string
	Set  *patch.Set
}

// 🔧 Option configures a Reporter
type Option func(*Reporter)

// WithDiffs prints dry-run diffs beneath each file
func WithDiffs() Option {
	return func(r *Reporter) {
		r.showDiffs = true
	}
}

// 📣 Reporter runs pairs in order and reports each outcome
type Reporter struct {
	runner    *runner.Runner
	console   *log.Logger
	showDiffs bool
}

// 🏭 New creates a reporter
func New(r *runner.Runner, console *log.Logger, opts ...Option) *Reporter {
	rep := &Reporter{
		runner:  r,
		console: console,
	}
	for _, opt := range opts {
		opt(rep)
	}
	return rep
}

// RunAll applies every pair sequentially, in the order given.
//
// A missing or failing file never aborts the batch. The error is only set
// when the context is cancelled or the store goes away; the summary then
// holds what completed before that.
func (r *Reporter) RunAll(ctx context.Context, pairs []Pair) (*Summary, error) {
	start := time.Now()
	summary := &Summary{RunID: uuid.NewString()}

	zlog := zerolog.Ctx(ctx).With().Str("run_id", summary.RunID).Logger()
	ctx = zlog.WithContext(ctx)

	r.console.StartBatch(ctx, log.BatchOperation{
		RunID:  summary.RunID,
		Files:  len(pairs),
		Mode:   r.runner.Mode().String(),
		DryRun: r.runner.DryRun(),
	})
	defer r.console.EndBatch(ctx)

	for i, pair := range pairs {
		if pair.Set == nil {
			summary.Duration = time.Since(start)
			return summary, errors.Errorf("pair %d (%s): patch set is required", i, pair.Path)
		}

		res, err := r.runner.Run(ctx, pair.Path, pair.Set)
		if err != nil {
			summary.Duration = time.Since(start)
			return summary, errors.Errorf("running batch: %w", err)
		}

		summary.add(res)
		r.logResult(ctx, res, len(pair.Set.Rules))
	}

	summary.Duration = time.Since(start)

	zlog.Info().
		Int("updated", summary.Counts.Updated).
		Int("unchanged", summary.Counts.Unchanged).
		Int("would_update", summary.Counts.WouldUpdate).
		Int("not_found", summary.Counts.NotFound).
		Int("failed", summary.Counts.Failed).
		Int("rejected", summary.Counts.Rejected).
		Int("warnings", summary.Counts.Warnings).
		Dur("duration", summary.Duration).
		Msg("run summary")

	r.render(summary)

	return summary, nil
}

func (r *Reporter) logResult(ctx context.Context, res *runner.Result, total int) {
	op := log.FileOperation{
		Path:        res.Path,
		Set:         res.SetName,
		Status:      res.Status.String(),
		IsUpdated:   res.Status == runner.StatusUpdated,
		IsPending:   res.Status == runner.StatusWouldUpdate,
		IsMissing:   res.Status == runner.StatusNotFound,
		IsFailed:    res.Status.Failed(),
		HasWarning:  res.Validation.Status == validate.StatusWarning,
		IsUnstable:  res.Unstable,
		RulesTotal:  total,
		RulesActive: patch.Applied(res.Rules),
	}

	switch {
	case res.Err != nil:
		op.Detail = res.Err.Error()
	case op.HasWarning:
		op.Detail = res.Validation.Message
	case res.Unstable:
		op.Detail = "patch set changes the file again when reapplied"
	}

	r.console.LogFileOperation(ctx, op)

	for _, rule := range res.Rules {
		if rule.Outcome != patch.OutcomeApplied && rule.Outcome != patch.OutcomeFailed {
			continue
		}
		ro := log.RuleOperation{ID: rule.ID, Outcome: rule.Outcome.String()}
		if rule.Err != nil {
			ro.Detail = rule.Err.Error()
		}
		r.console.LogRuleOperation(ctx, ro)
	}

	if r.showDiffs && res.Diff != "" {
		r.console.LogDiff(ctx, res.Diff)
	}
}

func (r *Reporter) render(s *Summary) {
	r.console.LogNewline()
	if err := r.console.Table(s.rows()); err != nil {
		r.console.Warningf("rendering summary: %v", err)
	}
	r.console.LogNewline()

	if s.Counts.Warnings > 0 {
		r.console.Warningf("%d file(s) failed validation (advisory)", s.Counts.Warnings)
	}
	if s.Counts.Unstable > 0 {
		r.console.Warningf("%d patch set(s) are not idempotent", s.Counts.Unstable)
	}

	if !s.OK() {
		r.console.Errorf("%d file(s) not found, %d failed, %d rejected",
			s.Counts.NotFound, s.Counts.Failed, s.Counts.Rejected)
		return
	}

	if s.Counts.WouldUpdate > 0 {
		r.console.Infof("%d file(s) would be patched", s.Counts.WouldUpdate)
		return
	}
	r.console.Successf("%d file(s) patched, %d already up to date", s.Counts.Updated, s.Counts.Unchanged)
}
