package retry

import (
	"math/rand/v2"
	"time"
)

// Jitter is the share of each delay that is randomized, from 0 to 1.
// Negative values disable it.
type Jitter float64

const (
	// EqualJitter waits delay/2 plus a random share of the other half.
	EqualJitter Jitter = 0.5
	// FullJitter waits a random duration between 0 and delay.
	FullJitter Jitter = 1.0
	// WithoutJitter waits exactly delay.
	WithoutJitter Jitter = -1.0
)

func (j Jitter) apply(d time.Duration) time.Duration {
	if j <= 0 {
		return d
	}

	r := rand.Float64() * float64(d) //nolint:gosec

	if j < 1 {
		r = float64(j)*r + float64(1-j)*float64(d)
	}

	return time.Duration(r)
}
