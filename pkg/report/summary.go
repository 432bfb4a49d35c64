package report

import (
	"strconv"
	"time"

	"github.com/walteh/patchrc/pkg/runner"
	"github.com/walteh/patchrc/pkg/validate"
)

// 🔢 Counts tallies file-level outcomes of a run
type Counts struct {
	Updated     int
	Unchanged   int
	WouldUpdate int
	NotFound    int
	Failed      int // read, rule, and write failures
	Rejected    int // strict mode refusals
	Warnings    int // validator warnings, advisory
	Unstable    int // patch sets that change a file again on reapply
}

// 📊 Summary is the outcome of a whole run
type Summary struct {
	RunID    string
	Results  []*runner.Result
	Counts   Counts
	Duration time.Duration
}

func (s *Summary) add(res *runner.Result) {
	s.Results = append(s.Results, res)

	switch res.Status {
	case runner.StatusUpdated:
		s.Counts.Updated++
	case runner.StatusUnchanged:
		s.Counts.Unchanged++
	case runner.StatusWouldUpdate:
		s.Counts.WouldUpdate++
	case runner.StatusNotFound:
		s.Counts.NotFound++
	case runner.StatusRejected:
		s.Counts.Rejected++
	default:
		if res.Status.Failed() {
			s.Counts.Failed++
		}
	}

	if res.Validation.Status == validate.StatusWarning {
		s.Counts.Warnings++
	}
	if res.Unstable {
		s.Counts.Unstable++
	}
}

// OK is true when every file was found and none hard-failed.
// Validator warnings do not count against it.
func (s *Summary) OK() bool {
	return s.Counts.NotFound == 0 && s.Counts.Failed == 0 && s.Counts.Rejected == 0
}

// Pending is true when a dry run found files that would change
func (s *Summary) Pending() bool {
	return s.Counts.WouldUpdate > 0
}

// ExitCode maps the summary to a process exit status
func (s *Summary) ExitCode() int {
	if s.OK() {
		return 0
	}
	return 1
}

func (s *Summary) rows() [][]string {
	c := s.Counts
	rows := [][]string{
		{"Outcome", "Files"},
		{"updated", strconv.Itoa(c.Updated)},
		{"unchanged", strconv.Itoa(c.Unchanged)},
	}
	if c.WouldUpdate > 0 {
		rows = append(rows, []string{"would-update", strconv.Itoa(c.WouldUpdate)})
	}
	return append(rows,
		[]string{"not-found", strconv.Itoa(c.NotFound)},
		[]string{"failed", strconv.Itoa(c.Failed)},
		[]string{"rejected", strconv.Itoa(c.Rejected)},
		[]string{"warnings", strconv.Itoa(c.Warnings)},
		[]string{"unstable", strconv.Itoa(c.Unstable)},
	)
}
