// Package envutil reads typed configuration from environment variables.
//
//	level := envutil.SlogLevel(ctx, "LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()
//
// Values can be overridden per context with WithEnvOverride, which keeps tests
// away from process-wide state.
package envutil

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/amp-labs/amp-iterator/contexts"
)

type envContextKey string

// WithEnvOverride makes readers using ctx see value for key, whatever the
// process environment says.
func WithEnvOverride(ctx context.Context, key string, value string) context.Context {
	return contexts.WithValue(ctx, envContextKey(key), value)
}

func get(ctx context.Context, key string) Reader[string] {
	if val, ok := contexts.GetValue[envContextKey, string](ctx, envContextKey(key)); ok {
		return Reader[string]{key: key, present: true, value: val}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String reads key as raw text.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

// Bool reads key with strconv.ParseBool rules.
func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), parseBool), opts)
}

// Int reads key as a base-10 integer.
func Int(ctx context.Context, key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(ctx, key), parseInt), opts)
}

// Duration reads key with time.ParseDuration rules ("5s", "250ms").
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(ctx, key), time.ParseDuration), opts)
}

// SlogLevel reads key as one of debug, info, warn or error, ignoring case and
// surrounding space.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(Map(get(ctx, key), normalize), parseSlogLevel), opts)
}

// OneOf reads key and fails unless it is one of allowed.
func OneOf(ctx context.Context, key string, allowed []string, opts ...Option[string]) Reader[string] {
	return apply(Map(Map(get(ctx, key), normalize), inSet(allowed)), opts)
}
