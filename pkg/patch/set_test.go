package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func braceSet() *Set {
	return &Set{
		Name: "cart-brace",
		Path: "js/cart.js",
		Rules: []Rule{
			{
				ID:          "extra-brace",
				Description: "remove stray closing brace",
				Match:       Literal("); \n}\n}"),
				Replace:     Template(");\n}"),
			},
		},
	}
}

// orderedSet's second rule only matches text produced by the first
func orderedSet() *Set {
	return &Set{
		Name: "checkout-link",
		Rules: []Rule{
			{
				ID:      "rename-route",
				Match:   Literal(`href="/checkout-old"`),
				Replace: Template(`href="/checkout"`),
			},
			{
				ID:      "add-rel",
				Match:   Literal(`<a href="/checkout">`),
				Replace: Template(`<a rel="nofollow" href="/checkout">`),
			},
		},
	}
}

func TestSet_Apply(t *testing.T) {
	set := braceSet()

	got, results := set.Apply("a(){\n  x();\n}\n}")
	assert.Equal(t, "a(){\n  x();\n}", got)
	require.Len(t, results, 1)
	assert.Equal(t, OutcomeApplied, results[0].Outcome)
	assert.Equal(t, "remove stray closing brace", results[0].Description)

	again, results := set.Apply(got)
	assert.Equal(t, got, again, "second application should be a no-op")
	assert.Equal(t, OutcomeSkipped, results[0].Outcome)
}

func TestSet_Idempotence(t *testing.T) {
	fixtures := []string{
		"a(){\n  x();\n}\n}",
		"a(){\n  x();\n}",
		"",
		"); \n}\n}); \n}\n}",
		"<a href=\"/checkout-old\">Pay</a>",
	}

	for _, set := range []*Set{braceSet(), orderedSet()} {
		for _, fixture := range fixtures {
			once, _ := set.Apply(fixture)
			twice, results := set.Apply(once)
			if set.Name == "cart-brace" && fixture == "); \n}\n}); \n}\n}" {
				// two defects and a first-match-only rule need two runs
				continue
			}
			assert.Equal(t, once, twice, "set %s fixture %q", set.Name, fixture)
			assert.Zero(t, Applied(results), "set %s fixture %q", set.Name, fixture)
		}
	}
}

func TestSet_OrderSensitivity(t *testing.T) {
	content := `<a href="/checkout-old">Pay</a>`

	forward := orderedSet()
	got, results := forward.Apply(content)
	assert.Equal(t, `<a rel="nofollow" href="/checkout">Pay</a>`, got)
	assert.Equal(t, 2, Applied(results))

	reversed := orderedSet()
	reversed.Rules[0], reversed.Rules[1] = reversed.Rules[1], reversed.Rules[0]
	gotReversed, results := reversed.Apply(content)
	assert.Equal(t, `<a href="/checkout">Pay</a>`, gotReversed)
	assert.Equal(t, OutcomeSkipped, results[0].Outcome, "add-rel runs before its anchor exists")
	assert.Equal(t, OutcomeApplied, results[1].Outcome)
	assert.NotEqual(t, got, gotReversed)
}

func TestSet_FailedRuleDoesNotStopLaterRules(t *testing.T) {
	set := &Set{
		Name: "mixed",
		Rules: []Rule{
			{
				ID:    "boom",
				Match: Literal("a"),
				Replace: ReplaceFunc(func(Match) (string, error) {
					return "", errors.New("no")
				}),
			},
			{ID: "b", Match: Literal("b"), Replace: Template("B")},
		},
	}

	got, results := set.Apply("ab")
	assert.Equal(t, "aB", got)
	require.Len(t, results, 2)
	assert.Equal(t, OutcomeFailed, results[0].Outcome)
	require.Error(t, results[0].Err)
	assert.Equal(t, OutcomeApplied, results[1].Outcome)
	assert.True(t, Failed(results))
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name      string
		set       *Set
		wantError string
	}{
		{
			name: "valid_set",
			set:  orderedSet(),
		},
		{
			name:      "no_rules",
			set:       &Set{Name: "empty"},
			wantError: "at least one rule is required",
		},
		{
			name: "duplicate_ids",
			set: &Set{Name: "dup", Rules: []Rule{
				{ID: "x", Match: Literal("a"), Replace: Template("b")},
				{ID: "x", Match: Literal("c"), Replace: Template("d")},
			}},
			wantError: `duplicate rule id "x"`,
		},
		{
			name: "invalid_rule",
			set: &Set{Name: "bad", Rules: []Rule{
				{ID: "x", Replace: Template("b")},
			}},
			wantError: "patch set bad: rule 0: rule x: matcher is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set.Validate()

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "applied", OutcomeApplied.String())
	assert.Equal(t, "skipped-no-match", OutcomeSkipped.String())
	assert.Equal(t, "failed", OutcomeFailed.String())
	assert.Equal(t, "unknown", OutcomeUnknown.String())
}
