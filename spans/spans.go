// Package spans runs operations inside OpenTelemetry spans taken from a
// tracer stored on the context:
//
//	m, err := spans.StartValErr[*value.Map](ctx, "codec.Decode",
//		spans.WithAttributes(attribute.String("format", "json")),
//	).Enter(func(ctx context.Context, span trace.Span) (*value.Map, error) {
//		return decode(ctx, r)
//	})
//
// Without a tracer the operation runs unchanged and the miss is counted.
package spans

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// StartErr prepares a span around an operation returning only an error.
func StartErr(ctx context.Context, name string, opts ...Option) *StartErrorOrchestrator {
	return &StartErrorOrchestrator{ctx: ctx, name: name, opts: opts}
}

// StartValErr prepares a span around an operation returning a value and an
// error.
func StartValErr[Value any](ctx context.Context, name string, opts ...Option) *StartValueErrorOrchestrator[Value] {
	return &StartValueErrorOrchestrator[Value]{ctx: ctx, name: name, opts: opts}
}

type StartErrorOrchestrator struct {
	ctx  context.Context //nolint:containedctx
	name string
	opts []Option
}

// Enter runs f inside the span. A nil f is a no-op.
func (o *StartErrorOrchestrator) Enter(f func(ctx context.Context, span trace.Span) error) error {
	if f == nil {
		return nil
	}

	_, err := invoke(o.ctx, o.name, func(ctx context.Context, span trace.Span) (struct{}, error) {
		return struct{}{}, f(ctx, span)
	}, o.opts...)

	return err
}

type StartValueErrorOrchestrator[Value any] struct {
	ctx  context.Context //nolint:containedctx
	name string
	opts []Option
}

// Enter runs f inside the span. On error the zero Value is returned.
func (o *StartValueErrorOrchestrator[Value]) Enter(
	f func(ctx context.Context, span trace.Span) (Value, error),
) (Value, error) {
	return invoke(o.ctx, o.name, f, o.opts...)
}
