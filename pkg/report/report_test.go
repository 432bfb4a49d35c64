package report_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/report"
	"github.com/walteh/patchrc/pkg/runner"
	"github.com/walteh/patchrc/pkg/store"
	"github.com/walteh/patchrc/pkg/validate"
)

// balanced warns when braces do not pair up
var balanced = validate.Func(func(ctx context.Context, path string, content []byte) validate.Outcome {
	if bytes.Count(content, []byte("{")) != bytes.Count(content, []byte("}")) {
		return validate.Warningf("unbalanced braces")
	}
	return validate.OK()
})

func fixBrace() *patch.Set {
	return &patch.Set{
		Name: "cart-fixes",
		Rules: []patch.Rule{
			{ID: "extra-brace", Match: patch.MustRegexp(`\);\s*\}\s*\}`), Replace: patch.Template(");\n}")},
		},
	}
}

func breakBraces() *patch.Set {
	return &patch.Set{
		Name: "broken",
		Rules: []patch.Rule{
			{ID: "drop-brace", Match: patch.Literal("x();\n}"), Replace: patch.Template("x();")},
		},
	}
}

func newReporter(t *testing.T, mem *store.Memory, opts runner.Options, ropts ...report.Option) (*report.Reporter, *bytes.Buffer) {
	t.Helper()

	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})

	opts.Store = mem
	r, err := runner.New(opts)
	require.NoError(t, err, "creating runner")

	buf := &bytes.Buffer{}
	return report.New(r, log.New(buf, zerolog.Nop()), ropts...), buf
}

func TestReporter_RunAll(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		pairs     func() []report.Pair
		opts      runner.Options
		want      report.Counts
		wantOK    bool
		wantPaths []string
		wantLines []string
	}{
		{
			name: "batch_with_missing_file_continues",
			files: map[string]string{
				"js/cart.js":     "a(){\n  x();\n}\n}\n",
				"js/checkout.js": "b(){\n  x();\n}\n",
			},
			pairs: func() []report.Pair {
				return []report.Pair{
					{Path: "js/cart.js", Set: fixBrace()},
					{Path: "js/missing.js", Set: fixBrace()},
					{Path: "js/checkout.js", Set: fixBrace()},
				}
			},
			opts:      runner.Options{Validator: balanced},
			want:      report.Counts{Updated: 1, Unchanged: 1, NotFound: 1},
			wantOK:    false,
			wantPaths: []string{"js/cart.js", "js/missing.js", "js/checkout.js"},
			wantLines: []string{"✓ js/cart.js", "✗ js/missing.js", "• js/checkout.js", "applied          extra-brace", "❌ 1 file(s) not found, 0 failed, 0 rejected"},
		},
		{
			name:  "validator_warning_is_advisory",
			files: map[string]string{"js/cart.js": "a(){\n  x();\n}\n"},
			pairs: func() []report.Pair {
				return []report.Pair{{Path: "js/cart.js", Set: breakBraces()}}
			},
			opts:      runner.Options{Validator: balanced},
			want:      report.Counts{Updated: 1, Warnings: 1},
			wantOK:    true,
			wantPaths: []string{"js/cart.js"},
			wantLines: []string{"⚠ js/cart.js", "unbalanced braces", "⚠️  1 file(s) failed validation (advisory)", "✅ 1 file(s) patched, 0 already up to date"},
		},
		{
			name:  "strict_rejection_fails_the_run",
			files: map[string]string{"js/cart.js": "a(){\n  x();\n}\n"},
			pairs: func() []report.Pair {
				return []report.Pair{{Path: "js/cart.js", Set: breakBraces()}}
			},
			opts:      runner.Options{Validator: balanced, Mode: runner.ModeStrict},
			want:      report.Counts{Rejected: 1, Warnings: 1},
			wantOK:    false,
			wantPaths: []string{"js/cart.js"},
			wantLines: []string{"! js/cart.js", "rejected"},
		},
		{
			name:  "dry_run_counts_pending",
			files: map[string]string{"js/cart.js": "a(){\n  x();\n}\n}\n"},
			pairs: func() []report.Pair {
				return []report.Pair{{Path: "js/cart.js", Set: fixBrace()}}
			},
			opts:      runner.Options{Validator: balanced, DryRun: true},
			want:      report.Counts{WouldUpdate: 1},
			wantOK:    true,
			wantPaths: []string{"js/cart.js"},
			wantLines: []string{"⟳ js/cart.js", "would-update", "ℹ️  1 file(s) would be patched"},
		},
		{
			name: "rule_failure_counts_failed",
			files: map[string]string{
				"js/cart.js": "a(){\n  x();\n}\n",
			},
			pairs: func() []report.Pair {
				return []report.Pair{{Path: "js/cart.js", Set: &patch.Set{
					Name: "bad",
					Rules: []patch.Rule{{
						ID:    "boom",
						Match: patch.Literal("x()"),
						Replace: patch.ReplaceFunc(func(m patch.Match) (string, error) {
							return "", assert.AnError
						}),
					}},
				}}}
			},
			want:      report.Counts{Failed: 1},
			wantOK:    false,
			wantPaths: []string{"js/cart.js"},
			wantLines: []string{"! js/cart.js", "failed           boom"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := store.NewMemory(tt.files)
			rep, buf := newReporter(t, mem, tt.opts)

			summary, err := rep.RunAll(context.Background(), tt.pairs())
			require.NoError(t, err, "run should not error")

			if diff := cmp.Diff(tt.want, summary.Counts); diff != "" {
				t.Errorf("counts mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.wantOK, summary.OK(), "summary ok should match")
			if tt.wantOK {
				assert.Equal(t, 0, summary.ExitCode(), "exit code should be zero")
			} else {
				assert.Equal(t, 1, summary.ExitCode(), "exit code should be non-zero")
			}

			paths := make([]string, 0, len(summary.Results))
			for _, res := range summary.Results {
				paths = append(paths, res.Path)
			}
			assert.Equal(t, tt.wantPaths, paths, "results should keep caller order")

			_, err = uuid.Parse(summary.RunID)
			assert.NoError(t, err, "run id should be a uuid")

			output := buf.String()
			for _, want := range tt.wantLines {
				assert.Contains(t, output, want, "output should contain %q", want)
			}
		})
	}
}

func TestReporter_ShowsDiffs(t *testing.T) {
	mem := store.NewMemory(map[string]string{"js/cart.js": "a(){\n  x();\n}\n}\n"})
	rep, buf := newReporter(t, mem, runner.Options{DryRun: true}, report.WithDiffs())

	summary, err := rep.RunAll(context.Background(), []report.Pair{{Path: "js/cart.js", Set: fixBrace()}})
	require.NoError(t, err, "run should not error")
	assert.True(t, summary.Pending(), "dry run should report pending changes")

	output := buf.String()
	assert.Contains(t, output, "--- a/js/cart.js", "diff header should be printed")
	assert.Contains(t, output, "+++ b/js/cart.js", "diff header should be printed")
	assert.Empty(t, mem.Writes(), "dry run should not write")
}

func TestReporter_StopsOnUnavailableStore(t *testing.T) {
	mem := store.NewMemory(map[string]string{"a.js": "x"})
	mem.Unavailable = true
	rep, _ := newReporter(t, mem, runner.Options{})

	summary, err := rep.RunAll(context.Background(), []report.Pair{
		{Path: "a.js", Set: fixBrace()},
		{Path: "b.js", Set: fixBrace()},
	})
	require.Error(t, err, "unavailable store should abort the run")
	assert.ErrorIs(t, err, store.ErrUnavailable, "error should wrap the store error")
	require.NotNil(t, summary, "partial summary should be returned")
	assert.Empty(t, summary.Results, "nothing should have completed")
}

func TestReporter_RequiresSet(t *testing.T) {
	rep, _ := newReporter(t, store.NewMemory(nil), runner.Options{})

	_, err := rep.RunAll(context.Background(), []report.Pair{{Path: "a.js"}})
	require.Error(t, err, "missing set should error")
	assert.True(t, strings.Contains(err.Error(), "patch set is required"), "error should name the problem")
}
