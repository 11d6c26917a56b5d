// Package contexts holds typed helpers around context.Context.
package contexts

import "context"

// EnsureContext returns the first non-nil context, or context.Background().
func EnsureContext(ctx ...context.Context) context.Context {
	for _, c := range ctx {
		if c != nil {
			return c
		}
	}

	return context.Background()
}

// IsContextAlive reports whether ctx is non-nil and not yet done. It never blocks.
func IsContextAlive(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	select {
	case <-ctx.Done():
		return false
	default:
		return true
	}
}

// WithValue stores value under key. A nil ctx is replaced by context.Background().
func WithValue[K comparable, V any](ctx context.Context, key K, value V) context.Context {
	return context.WithValue(EnsureContext(ctx), key, value)
}

// GetValue reads the value stored under key. It reports false when ctx is nil,
// the key is absent, or the stored value is not a V.
func GetValue[K comparable, V any](ctx context.Context, key K) (V, bool) {
	var zero V

	if ctx == nil {
		return zero, false
	}

	v, ok := ctx.Value(key).(V)
	if !ok {
		return zero, false
	}

	return v, true
}
