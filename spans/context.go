package spans

import (
	"context"

	"github.com/amp-labs/amp-iterator/contexts"
	"go.opentelemetry.io/otel/trace"
)

type contextKey string

// TracerKey is the context key under which WithTracer stores the tracer.
const TracerKey contextKey = "tracer"

// WithTracer returns a context whose spans are started with tracer.
func WithTracer(ctx context.Context, tracer trace.Tracer) context.Context {
	return contexts.WithValue[contextKey, trace.Tracer](ctx, TracerKey, tracer)
}

// TracerFromContext returns the tracer stored by WithTracer.
func TracerFromContext(ctx context.Context) (trace.Tracer, bool) {
	return contexts.GetValue[contextKey, trace.Tracer](ctx, TracerKey)
}
