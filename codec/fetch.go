package codec

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/http/transport"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/retry"
	"github.com/amp-labs/amp-iterator/should"
	"github.com/amp-labs/amp-iterator/value"
)

// ErrHTTPStatus is returned by Fetch for a non-2xx response.
var ErrHTTPStatus = errors.New("unexpected HTTP status")

const (
	acceptHeader = "application/json, application/yaml;q=0.9, */*;q=0.1"

	defaultFetchAttempts   = 3
	defaultFetchRetryDelay = 200 * time.Millisecond
	maxFetchRetryDelay     = 5 * time.Second
)

// Fetch downloads and decodes a document with the client from
// transport.GetClient. Unset options are taken from, in order, the
// Content-Type header and the URL path's extensions. Content-Encoding is
// undone by the transport.
//
// Transport errors, 429 and 5xx responses are retried CODEC_FETCH_ATTEMPTS
// times in total (default 3), backing off from CODEC_FETCH_RETRY_DELAY
// (default 200ms).
func Fetch(ctx context.Context, rawURL string, opts Options) (*value.Map, error) {
	ctx = logger.With(ctx, "url", rawURL)

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, logger.AnnotateError(err, "url", rawURL)
	}

	attempts := envutil.Int(ctx, "CODEC_FETCH_ATTEMPTS", envutil.Default(defaultFetchAttempts)).
		ValueOrElse(defaultFetchAttempts)
	delay := envutil.Duration(ctx, "CODEC_FETCH_RETRY_DELAY", envutil.Default(defaultFetchRetryDelay)).
		ValueOrElse(defaultFetchRetryDelay)

	return retry.DoValue(ctx, func(ctx context.Context) (*value.Map, error) {
		return fetchOnce(ctx, rawURL, parsed, opts)
	},
		retry.WithAttempts(retry.Attempts(max(attempts, 1))),
		retry.WithBackoff(retry.ExpBackoff{Base: delay, Max: max(delay, maxFetchRetryDelay), Factor: 2}), //nolint:mnd
		retry.WithJitter(retry.EqualJitter),
	)
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func fetchOnce(ctx context.Context, rawURL string, parsed *url.URL, opts Options) (*value.Map, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Abort(logger.AnnotateError(err, "url", rawURL))
	}

	req.Header.Set("Accept", acceptHeader)

	rsp, err := transport.GetClient(ctx).Do(req)
	if err != nil {
		return nil, logger.AnnotateError(err, "url", rawURL, "attempt", retry.Attempt(ctx))
	}

	defer should.Close(ctx, rsp.Body, "closing response body")

	if rsp.StatusCode < http.StatusOK || rsp.StatusCode >= http.StatusMultipleChoices {
		err := logger.AnnotateError(fmt.Errorf("%w: %s", ErrHTTPStatus, rsp.Status),
			"url", rawURL, "status", rsp.StatusCode)
		if retryableStatus(rsp.StatusCode) {
			return nil, err
		}

		return nil, retry.Abort(err)
	}

	format, charset, ok := FormatFromMediaType(rsp.Header.Get("Content-Type"))
	if ok && opts.Format == "" {
		opts.Format = format
	}

	if opts.Charset == "" {
		opts.Charset = charset
	}

	if rsp.Uncompressed && opts.Compression == "" {
		opts.Compression = CompressionNone
	}

	opts = opts.ForPath(parsed.Path).withDefaults()

	m, err := Decode(ctx, rsp.Body, opts)
	if err != nil {
		return nil, retry.Abort(logger.AnnotateError(fmt.Errorf("decoding %s: %w", rawURL, err),
			"url", rawURL, "format", opts.Format, "compression", opts.Compression))
	}

	return m, nil
}
