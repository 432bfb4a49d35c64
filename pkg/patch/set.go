package patch

import (
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the per-rule result of applying a Set
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeApplied         // The rule matched and changed the content
	OutcomeSkipped         // The rule found nothing to change
	OutcomeFailed          // The replacement could not be computed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeSkipped:
		return "skipped-no-match"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RuleResult records what one rule did
type RuleResult struct {
	ID          string
	Description string
	Outcome     Outcome
	Err         error
}

// 📦 Set is an ordered sequence of rules bound to one target file.
// Later rules may depend on text produced by earlier ones.
type Set struct {
	Name  string
	Path  string
	Rules []Rule
}

// Apply threads content through every rule in declared order.
// A failed rule leaves the content as it was and the remaining rules still run.
func (s *Set) Apply(content string) (string, []RuleResult) {
	results := make([]RuleResult, 0, len(s.Rules))
	current := content
	for i := range s.Rules {
		rule := &s.Rules[i]
		res := RuleResult{ID: rule.ID, Description: rule.Description}

		next, applied, err := rule.Apply(current)
		switch {
		case err != nil:
			res.Outcome = OutcomeFailed
			res.Err = err
		case applied:
			res.Outcome = OutcomeApplied
			current = next
		default:
			res.Outcome = OutcomeSkipped
		}
		results = append(results, res)
	}
	return current, results
}

// Validate checks every rule and that rule IDs are unique
func (s *Set) Validate() error {
	if len(s.Rules) == 0 {
		return errors.Errorf("patch set %s: at least one rule is required", s.Name)
	}
	seen := make(map[string]bool, len(s.Rules))
	for i := range s.Rules {
		rule := &s.Rules[i]
		if err := rule.Validate(); err != nil {
			return errors.Errorf("patch set %s: rule %d: %w", s.Name, i, err)
		}
		if seen[rule.ID] {
			return errors.Errorf("patch set %s: duplicate rule id %q", s.Name, rule.ID)
		}
		seen[rule.ID] = true
	}
	return nil
}

// Failed reports whether any rule in results failed
func Failed(results []RuleResult) bool {
	for _, r := range results {
		if r.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Applied counts the rules in results that changed the content
func Applied(results []RuleResult) int {
	n := 0
	for _, r := range results {
		if r.Outcome == OutcomeApplied {
			n++
		}
	}
	return n
}
