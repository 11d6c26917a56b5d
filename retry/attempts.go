package retry

import (
	"context"

	"github.com/amp-labs/amp-iterator/contexts"
)

// Attempts is the maximum number of calls. Zero retries forever.
type Attempts uint

type ctxKey string

const attemptKey ctxKey = "attempt"

func withAttempt(ctx context.Context, attempt uint) context.Context {
	return contexts.WithValue(ctx, attemptKey, attempt)
}

// Attempt returns the zero-based index of the running attempt, or 0 outside Do.
func Attempt(ctx context.Context) uint {
	attempt, _ := contexts.GetValue[ctxKey, uint](ctx, attemptKey)

	return attempt
}
