package retry

import (
	"math"
	"time"
)

// Backoff computes the wait after the attempt with the given zero-based index.
type Backoff interface {
	Delay(attempt uint) time.Duration
}

// ExpBackoff waits Base * Factor^attempt, clamped to [Base, Max].
type ExpBackoff struct {
	Base   time.Duration
	Max    time.Duration
	Factor float64
}

func (b ExpBackoff) Delay(attempt uint) time.Duration {
	d := time.Duration(float64(b.Base) * math.Pow(b.Factor, float64(attempt)))

	return min(max(d, b.Base), b.Max)
}
