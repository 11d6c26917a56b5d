package spans

import (
	"context"
	"fmt"

	"github.com/amp-labs/amp-iterator/zero"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Option configures the span started by an orchestrator.
type Option func(*runner)

// WithAttributes sets attributes on the span at start.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return func(r *runner) {
		r.sso = append(r.sso, trace.WithAttributes(attrs...))
	}
}

// WithSpanKind sets the span kind. The default is SpanKindInternal.
func WithSpanKind(kind trace.SpanKind) Option {
	return func(r *runner) {
		r.spanKind = kind
	}
}

// WithErrorMessage prefixes the error status description.
func WithErrorMessage(description string) Option {
	return func(r *runner) {
		r.failure = description
	}
}

type runner struct {
	spanName string
	failure  string
	spanKind trace.SpanKind
	tracer   trace.Tracer
	sso      []trace.SpanStartOption
}

func newRunner(tracer trace.Tracer, spanName string, opts ...Option) *runner {
	r := &runner{
		spanName: spanName,
		spanKind: trace.SpanKindInternal,
		tracer:   tracer,
	}

	for _, option := range opts {
		if option != nil {
			option(r)
		}
	}

	return r
}

func runWithSpan[T any](
	ctx context.Context,
	r *runner,
	operation func(ctx context.Context, span trace.Span) (T, error),
) (T, error) {
	opts := append(r.sso[:len(r.sso):len(r.sso)], trace.WithSpanKind(r.spanKind))

	ctx, span := r.tracer.Start(ctx, r.spanName, opts...)
	defer span.End()

	defer func() {
		if panicErr := recover(); panicErr != nil {
			span.SetAttributes(attribute.Bool("panic", true))
			r.setErrorStatus(span, fmt.Errorf("panic: %v", panicErr))

			panic(panicErr)
		}
	}()

	val, err := operation(ctx, span)
	if err != nil {
		span.RecordError(err)
		r.setErrorStatus(span, err)

		return zero.Value[T](), err
	}

	span.SetStatus(codes.Ok, "ok")

	return val, nil
}

func (r *runner) setErrorStatus(span trace.Span, err error) {
	if len(r.failure) > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%s: %s", r.failure, err.Error()))
	} else {
		span.SetStatus(codes.Error, err.Error())
	}
}

func invoke[T any](
	ctx context.Context, name string,
	call func(ctx context.Context, span trace.Span) (T, error), opts ...Option,
) (T, error) {
	tracer, found := TracerFromContext(ctx)
	if !found || tracer == nil {
		spanWithoutTracerCounter.WithLabelValues(name).Inc()

		val, err := call(ctx, trace.SpanFromContext(ctx))
		if err != nil {
			return zero.Value[T](), err
		}

		return val, nil
	}

	return runWithSpan(ctx, newRunner(tracer, name, opts...), call)
}
