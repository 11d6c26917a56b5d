package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amp-labs/amp-iterator/logger"
	"github.com/google/uuid"
)

// NewLoggingTransport wraps transport (http.DefaultTransport if nil) so that
// every request, and the response or error it produced, is logged under one
// UUIDv7 correlation ID. Requests and responses are logged at debug level,
// failures at error level, using the logger from ctx.
func NewLoggingTransport(ctx context.Context, transport http.RoundTripper) http.RoundTripper {
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &loggingTransport{
		log:       logger.Get(ctx),
		transport: transport,
	}
}

type loggingTransport struct {
	log       *slog.Logger
	transport http.RoundTripper
}

var _ http.RoundTripper = (*loggingTransport)(nil)

func (l *loggingTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	uuid7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("error generating UUID: %w", err)
	}

	log := l.log.With(
		"correlation_id", uuid7.String(),
		"method", request.Method,
		"url", request.URL.Redacted(),
	)

	log.Debug("HTTP request")

	start := time.Now()

	response, err := l.transport.RoundTrip(request)
	if err != nil {
		log.Error("HTTP request failed", "error", err, "duration", time.Since(start))

		return response, err
	}

	log.Debug("HTTP response",
		"status", response.StatusCode,
		"content_type", response.Header.Get("Content-Type"),
		"duration", time.Since(start),
	)

	return response, nil
}
