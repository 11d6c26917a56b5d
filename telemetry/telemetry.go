// Package telemetry sets up OpenTelemetry export for iterctl: traces for codec
// operations and, through the slog bridge, log records. Export is off unless
// OTEL_ENABLED is true and an endpoint is configured.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/logger"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	defaultServiceVersion = "1.0.0"
	defaultTimeout        = 5 * time.Second
)

var (
	mutex          sync.Mutex              //nolint:gochecknoglobals
	tracerProvider *sdktrace.TracerProvider //nolint:gochecknoglobals
	loggerProvider *sdklog.LoggerProvider   //nolint:gochecknoglobals
)

// Config holds the OpenTelemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string // Base OTLP/HTTP URL, e.g. http://localhost:4318
	Enabled        bool
	Logs           bool // Also export log records
	Timeout        time.Duration
}

// LoadConfigFromEnv reads the configuration from OTEL_ENABLED, OTEL_LOGS_ENABLED,
// OTEL_SERVICE_NAME, OTEL_SERVICE_VERSION, OTEL_EXPORTER_OTLP_ENDPOINT and
// OTEL_EXPORTER_OTLP_TIMEOUT. The service name defaults to the logging subsystem.
func LoadConfigFromEnv(ctx context.Context) (*Config, error) {
	enabled, err := envutil.Bool(ctx, "OTEL_ENABLED", envutil.Default(false)).Value()
	if err != nil {
		return nil, err
	}

	logs, err := envutil.Bool(ctx, "OTEL_LOGS_ENABLED", envutil.Default(true)).Value()
	if err != nil {
		return nil, err
	}

	svcName, err := envutil.String(ctx, "OTEL_SERVICE_NAME", envutil.Default(logger.GetSubsystem(ctx))).Value()
	if err != nil {
		return nil, err
	}

	svcVersion, err := envutil.String(ctx, "OTEL_SERVICE_VERSION", envutil.Default(defaultServiceVersion)).Value()
	if err != nil {
		return nil, err
	}

	endpoint, err := envutil.String(ctx, "OTEL_EXPORTER_OTLP_ENDPOINT", envutil.Default("")).Value()
	if err != nil {
		return nil, err
	}

	timeout, err := envutil.Duration(ctx, "OTEL_EXPORTER_OTLP_TIMEOUT", envutil.Default(defaultTimeout)).Value()
	if err != nil {
		return nil, err
	}

	return &Config{
		ServiceName:    svcName,
		ServiceVersion: svcVersion,
		Endpoint:       endpoint,
		Enabled:        enabled,
		Logs:           logs,
		Timeout:        timeout,
	}, nil
}

// Active reports whether Initialize would install exporters.
func (c *Config) Active() bool {
	return c != nil && c.Enabled && c.Endpoint != ""
}

// Initialize installs the global tracer provider and propagator. When log export
// is on it returns a slog.Handler feeding the OTLP log exporter, to be passed to
// logger.WithExtraHandler; otherwise the handler is nil.
func Initialize(ctx context.Context, config *Config) (slog.Handler, error) {
	if !config.Active() {
		logger.Get(ctx).Debug("OpenTelemetry export is disabled")

		return nil, nil //nolint:nilnil
	}

	mutex.Lock()
	defer mutex.Unlock()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", config.ServiceName),
			attribute.String("service.version", config.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceExporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(config.Endpoint+"/v1/traces"),
		otlptracehttp.WithTimeout(config.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	var handler slog.Handler

	if config.Logs {
		logExporter, err := otlploghttp.New(ctx,
			otlploghttp.WithEndpointURL(config.Endpoint+"/v1/logs"),
			otlploghttp.WithTimeout(config.Timeout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create OTLP log exporter: %w", err)
		}

		loggerProvider = sdklog.NewLoggerProvider(
			sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
			sdklog.WithResource(res),
		)

		handler = otelslog.NewHandler(config.ServiceName, otelslog.WithLoggerProvider(loggerProvider))
	}

	logger.Get(ctx).Debug("OpenTelemetry export initialized",
		"service", config.ServiceName,
		"version", config.ServiceVersion,
		"endpoint", config.Endpoint,
		"logs", config.Logs,
	)

	return handler, nil
}

// Shutdown flushes and stops whatever Initialize installed. It is safe to call
// when nothing was installed.
func Shutdown(ctx context.Context) error {
	mutex.Lock()
	defer mutex.Unlock()

	var errs []error

	if tracerProvider != nil {
		errs = append(errs, tracerProvider.Shutdown(ctx))
		tracerProvider = nil
	}

	if loggerProvider != nil {
		errs = append(errs, loggerProvider.Shutdown(ctx))
		loggerProvider = nil
	}

	return errors.Join(errs...)
}
