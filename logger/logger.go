// Package logger configures log/slog for iterctl and the libraries it uses,
// and hands out loggers that carry context-scoped values.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/amp-labs/amp-iterator/contexts"
	"github.com/amp-labs/amp-iterator/envutil"
)

// Default subsystem name, set by ConfigureLogging.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex serializes ConfigureLoggingWithOptions, which replaces global state.
var configMutex sync.Mutex //nolint:gochecknoglobals

type contextKey string

// Options is used to configure logging.
type Options struct {
	Subsystem   string
	JSON        bool
	MinLevel    slog.Level
	LegacyLevel slog.Level
	Output      io.Writer

	// Extra handlers receive every record as well, for example an
	// OpenTelemetry log bridge.
	Extra []slog.Handler
}

// ConfigureLoggingWithOptions installs a text or JSON handler as the slog
// default, redirects the standard log package into it, and returns the
// resulting logger. Errors annotated with AnnotateError are expanded into
// their attributes.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, handlerOpts)
	} else {
		handler = slog.NewTextHandler(opts.Output, handlerOpts)
	}

	if len(opts.Extra) > 0 {
		handler = newFanout(append([]slog.Handler{handler}, opts.Extra...)...)
	}

	handler = &slogErrorLogger{inner: handler}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Third-party packages may still use the log package.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.LegacyLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// Option adjusts the Options derived from the environment by ConfigureLogging.
type Option func(*Options)

// WithMinLevel overrides LOG_LEVEL.
func WithMinLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// WithOutput overrides LOG_OUTPUT.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// WithExtraHandler adds a handler that receives every record.
func WithExtraHandler(h slog.Handler) Option {
	return func(o *Options) {
		if h != nil {
			o.Extra = append(o.Extra, h)
		}
	}
}

// ErrInvalidLogOutput is returned when LOG_OUTPUT names an unknown destination.
var ErrInvalidLogOutput = errors.New("invalid log output")

// ConfigureLogging configures logging from the environment:
//
//	LOG_JSON          true for JSON output (default false)
//	LOG_LEVEL         debug, info, warn or error (default info)
//	LEGACY_LOG_LEVEL  level given to the standard log package (default info)
//	LOG_OUTPUT        stdout or stderr (default stderr)
//
// A malformed variable is a startup error and exits the process.
func ConfigureLogging(ctx context.Context, app string, opts ...Option) *slog.Logger {
	logJSON := envutil.Bool(ctx, "LOG_JSON", envutil.Default(false)).ValueOrFatal()
	minLevel := envutil.SlogLevel(ctx, "LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()
	legacyLevel := envutil.SlogLevel(ctx, "LEGACY_LOG_LEVEL", envutil.Default(slog.LevelInfo)).ValueOrFatal()
	output := envutil.Map(envutil.String(ctx, "LOG_OUTPUT"), parseOutput).
		WithDefault(os.Stderr).
		ValueOrFatal()

	options := Options{
		Subsystem:   app,
		JSON:        logJSON,
		MinLevel:    minLevel,
		LegacyLevel: legacyLevel,
		Output:      output,
	}

	for _, o := range opts {
		o(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

func parseOutput(name string) (*os.File, error) {
	switch name {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidLogOutput, name)
	}
}

// WithMuted marks ctx so that Get returns a logger producing no output.
func WithMuted(ctx context.Context, muted bool) context.Context {
	return contexts.WithValue(ctx, contextKey("mute"), muted)
}

func isMuted(ctx context.Context) bool {
	muted, _ := contexts.GetValue[contextKey, bool](ctx, contextKey("mute"))

	return muted
}

// WithSubsystem overrides the subsystem name for loggers obtained from ctx.
func WithSubsystem(ctx context.Context, name string) context.Context {
	return contexts.WithValue(ctx, contextKey("subsystem"), name)
}

// GetSubsystem returns the subsystem set on ctx, or the one given to
// ConfigureLogging.
func GetSubsystem(ctx context.Context) string {
	if sub, ok := contexts.GetValue[contextKey, string](ctx, contextKey("subsystem")); ok {
		return sub
	}

	if sub, ok := subsystem.Load().(string); ok {
		return sub
	}

	return ""
}

// With returns a context whose loggers carry the given key-value pairs.
func With(ctx context.Context, values ...any) context.Context {
	if len(values) == 0 && ctx != nil {
		return ctx
	}

	vals := append(getValues(ctx), values...) //nolint:gocritic

	return contexts.WithValue(ctx, contextKey("loggerValues"), vals)
}

func getValues(ctx context.Context) []any {
	vals, _ := contexts.GetValue[contextKey, []any](ctx, contextKey("loggerValues"))

	// Copy so that sibling contexts never share a backing array.
	return append([]any(nil), vals...)
}

// WithLogger makes Get build on base instead of the process default. Tests
// use it to send a context's logs to the test output.
func WithLogger(ctx context.Context, base *slog.Logger) context.Context {
	return contexts.WithValue(ctx, contextKey("base"), base)
}

var nullLogger = slog.New(slog.DiscardHandler) //nolint:gochecknoglobals

// Get returns the default logger, or the one set with WithLogger, decorated
// with the subsystem and the values added to ctx with With. A muted ctx
// yields a logger that discards everything.
func Get(ctx ...context.Context) *slog.Logger {
	realCtx := contexts.EnsureContext(ctx...)

	if isMuted(realCtx) {
		return nullLogger
	}

	logger := slog.Default()
	if base, ok := contexts.GetValue[contextKey, *slog.Logger](realCtx, contextKey("base")); ok && base != nil {
		logger = base
	}

	if sub := GetSubsystem(realCtx); sub != "" {
		logger = logger.With("subsystem", sub)
	}

	if vals := getValues(realCtx); len(vals) > 0 {
		logger = logger.With(vals...)
	}

	return logger
}
