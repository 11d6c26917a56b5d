package retry

import "time"

// Option configures Do and DoValue.
type Option func(*options)

type options struct {
	attempts Attempts
	backoff  Backoff
	jitter   Jitter
	timeout  time.Duration
}

// WithAttempts sets the maximum number of calls (default 3).
func WithAttempts(a Attempts) Option {
	return func(o *options) {
		o.attempts = a
	}
}

// WithBackoff replaces the default 100ms to 2s exponential backoff.
func WithBackoff(b Backoff) Option {
	return func(o *options) {
		o.backoff = b
	}
}

// WithJitter replaces the default FullJitter.
func WithJitter(j Jitter) Option {
	return func(o *options) {
		o.jitter = j
	}
}

// WithTimeout bounds each call. Zero, the default, means no bound.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}
