// Package retry runs operations that may fail transiently, waiting between
// attempts with exponential backoff and jitter.
//
//	doc, err := retry.DoValue(ctx, func(ctx context.Context) (*value.Map, error) {
//	    return fetchOnce(ctx, url)
//	}, retry.WithAttempts(3))
//
// An operation stops the loop early by returning an error wrapped with Abort.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/zero"
)

const (
	defaultAttempts      = 3
	defaultBaseDelay     = 100 * time.Millisecond
	defaultMaxDelay      = 2 * time.Second
	defaultBackoffFactor = 2.0
)

func newOptions(opts []Option) *options {
	o := &options{
		attempts: defaultAttempts,
		backoff: ExpBackoff{
			Base:   defaultBaseDelay,
			Max:    defaultMaxDelay,
			Factor: defaultBackoffFactor,
		},
		jitter: FullJitter,
	}

	for _, option := range opts {
		option(o)
	}

	return o
}

// Do calls f until it succeeds, returns an aborted error, or runs out of
// attempts. The error of the last attempt is returned.
func Do(ctx context.Context, f func(ctx context.Context) error, opts ...Option) error {
	_, err := DoValue(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, f(ctx)
	}, opts...)

	return err
}

// DoValue is Do for operations returning a value.
func DoValue[T any](ctx context.Context, f func(ctx context.Context) (T, error), opts ...Option) (T, error) {
	o := newOptions(opts)

	var err error

	for attempt := uint(0); ; attempt++ {
		var val T

		val, err = call(withAttempt(ctx, attempt), f, o.timeout)
		if err == nil {
			return val, nil
		}

		// Only Abort ends the loop early; a foreign Temporary() is ignored.
		var p *permanentError
		if errors.As(err, &p) {
			return zero.Value[T](), p.error
		}

		if ctx.Err() != nil {
			return zero.Value[T](), ctx.Err()
		}

		if o.attempts != 0 && attempt+1 >= uint(o.attempts) {
			break
		}

		delay := o.jitter.apply(o.backoff.Delay(attempt))

		logger.Get(ctx).Debug("retrying", "attempt", attempt+1, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()

			return zero.Value[T](), ctx.Err()
		case <-timer.C:
		}
	}

	return zero.Value[T](), err
}

func call[T any](ctx context.Context, f func(ctx context.Context) (T, error), timeout time.Duration) (T, error) {
	if timeout <= 0 {
		return f(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return f(ctx)
}
