package validate

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

type bounded struct {
	inner   Validator
	timeout time.Duration
}

// Bounded runs inner under a deadline. An expired deadline or a panic in inner
// becomes a warning instead of a hang or a crash.
func Bounded(inner Validator, timeout time.Duration) Validator {
	return &bounded{inner: inner, timeout: timeout}
}

func (b *bounded) Validate(ctx context.Context, path string, content []byte) Outcome {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	// buffered so a late inner validator never blocks forever
	done := make(chan Outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- Warningf("validator panicked: %v", r)
			}
		}()
		done <- b.inner.Validate(ctx, path, content)
	}()

	select {
	case out := <-done:
		return out
	case <-ctx.Done():
		zerolog.Ctx(ctx).Warn().Str("path", path).Dur("timeout", b.timeout).Msg("validation timed out")
		return Warningf("validation did not finish within %s", b.timeout)
	}
}
