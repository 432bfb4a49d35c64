package runner

import (
	"time"

	"github.com/walteh/patchrc/pkg/patch"
	"github.com/walteh/patchrc/pkg/validate"
)

// 📊 Status is the file-level outcome of one run
type Status int

const (
	StatusUnknown     Status = iota
	StatusUpdated            // Content changed and was written
	StatusUnchanged          // Nothing to do, no write
	StatusWouldUpdate        // Dry run: content would change
	StatusNotFound           // Target path does not exist
	StatusReadFailed         // Target exists but could not be read
	StatusRuleFailed         // A rule could not compute its replacement
	StatusRejected           // Strict mode: validation refused the candidate
	StatusWriteFailed        // The write back failed
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusUpdated:
		return "updated"
	case StatusUnchanged:
		return "unchanged"
	case StatusWouldUpdate:
		return "would-update"
	case StatusNotFound:
		return "not-found"
	case StatusReadFailed:
		return "read-failed"
	case StatusRuleFailed:
		return "rule-failed"
	case StatusRejected:
		return "rejected"
	case StatusWriteFailed:
		return "write-failed"
	default:
		return "unknown"
	}
}

// Failed reports whether the status is a hard per-file failure
func (s Status) Failed() bool {
	switch s {
	case StatusReadFailed, StatusRuleFailed, StatusRejected, StatusWriteFailed:
		return true
	default:
		return false
	}
}

// 📄 Result is the outcome of running one patch set against one file
type Result struct {
	Path    string // Target path as supplied by the caller
	SetName string // Name of the patch set

	Rules []patch.RuleResult // Per-rule outcomes in declared order

	Status  Status
	Changed bool // Final content differs from the original
	Written bool // A write happened

	OriginalHash string // SHA-256 of the content as read
	FinalHash    string // SHA-256 of the content after all rules

	Validation validate.Outcome

	// Unstable is set when applying the set again would change the content again
	Unstable bool

	// Diff is a unified diff, only filled on dry runs
	Diff string

	Err      error
	Duration time.Duration
}

// Applied returns the IDs of the rules that changed the content
func (r *Result) Applied() []string {
	ids := make([]string, 0, len(r.Rules))
	for _, rule := range r.Rules {
		if rule.Outcome == patch.OutcomeApplied {
			ids = append(ids, rule.ID)
		}
	}
	return ids
}
