// Package validate provides advisory well-formedness checks for patched files.
//
// A Validator never blocks on its own: it returns an Outcome and the caller
// decides whether a warning matters.
package validate

import (
	"context"
	"fmt"
)

// Status is the result class of a validation
type Status int

const (
	StatusNotRun  Status = iota // No validator ran, or it does not know the file type
	StatusOK                    // Content parsed cleanly
	StatusWarning               // Content failed the check
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusWarning:
		return "warning"
	default:
		return "not-run"
	}
}

// Outcome is what a Validator reports
type Outcome struct {
	Status  Status
	Message string
}

// OK returns an ok outcome
func OK() Outcome {
	return Outcome{Status: StatusOK}
}

// NotRun returns a not-run outcome with a reason
func NotRun(reason string) Outcome {
	return Outcome{Status: StatusNotRun, Message: reason}
}

// Warningf returns a warning outcome
func Warningf(format string, args ...any) Outcome {
	return Outcome{Status: StatusWarning, Message: fmt.Sprintf(format, args...)}
}

// Validator checks content destined for path
type Validator interface {
	Validate(ctx context.Context, path string, content []byte) Outcome
}

// Func adapts a function to Validator
type Func func(ctx context.Context, path string, content []byte) Outcome

// Validate implements Validator
func (f Func) Validate(ctx context.Context, path string, content []byte) Outcome {
	return f(ctx, path, content)
}
