// Package transport builds the HTTP client iterctl uses to fetch documents:
// an env-tuned http.Transport, optionally resolving through a DNS cache,
// wrapped by a Content-Encoding decompressor and a correlation-ID logger.
//
// The following environment variables tune the transport:
//
//   - HTTP_TRANSPORT_PREFER_POOLED: Enable connection pooling by default (default: true)
//   - HTTP_TRANSPORT_DNS_CACHE: Enable the DNS cache by default (default: false)
//   - HTTP_TRANSPORT_MAX_IDLE_CONNS: Maximum idle connections (default: 100)
//   - HTTP_TRANSPORT_IDLE_CONN_TIMEOUT: Idle connection timeout (default: 90s)
//   - HTTP_TRANSPORT_TLS_HANDSHAKE_TIMEOUT: TLS handshake timeout (default: 10s)
//   - HTTP_TRANSPORT_EXPECT_CONTINUE_TIMEOUT: Expect-Continue timeout (default: 1s)
//   - HTTP_TRANSPORT_DISABLE_HTTP2: Disable HTTP/2 negotiation (default: true)
//   - HTTP_TRANSPORT_FORCE_ATTEMPT_HTTP2: Force HTTP/2 attempts (default: false)
//   - HTTP_TRANSPORT_DIAL_TIMEOUT: Connection dial timeout (default: 30s)
//   - HTTP_TRANSPORT_DIAL_KEEPALIVE: TCP keep-alive duration (default: 30s)
//   - HTTP_CLIENT_TIMEOUT: Whole-request timeout for NewClient (default: 60s)
package transport

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"

	"github.com/amp-labs/amp-iterator/envutil"
)

// New returns a new http.Transport with the net/http defaults, overridable
// through the environment.
func New(ctx context.Context, options ...Option) *http.Transport {
	return create(ctx, readOptions(ctx, options...))
}

func create(ctx context.Context, cfg *config) *http.Transport {
	maxIdleConns := envutil.Int(ctx, "HTTP_TRANSPORT_MAX_IDLE_CONNS",
		envutil.Default(defaultMaxIdleConns)).
		ValueOrElse(defaultMaxIdleConns)

	idleConnTimeout := envutil.Duration(ctx, "HTTP_TRANSPORT_IDLE_CONN_TIMEOUT",
		envutil.Default(defaultIdleConnTimeout)).
		ValueOrElse(defaultIdleConnTimeout)

	tlsHandshakeTimeout := envutil.Duration(ctx, "HTTP_TRANSPORT_TLS_HANDSHAKE_TIMEOUT",
		envutil.Default(defaultTLSHandshakeTimeout)).
		ValueOrElse(defaultTLSHandshakeTimeout)

	expectContinueTimeout := envutil.Duration(ctx, "HTTP_TRANSPORT_EXPECT_CONTINUE_TIMEOUT",
		envutil.Default(defaultExpectContinueTimeout)).
		ValueOrElse(defaultExpectContinueTimeout)

	disableHTTP2 := envutil.Bool(ctx, "HTTP_TRANSPORT_DISABLE_HTTP2",
		envutil.Default(true)).
		ValueOrElse(true)

	forceAttemptHTTP2 := envutil.Bool(ctx, "HTTP_TRANSPORT_FORCE_ATTEMPT_HTTP2",
		envutil.Default(defaultForceAttemptHTTP2)).
		ValueOrElse(defaultForceAttemptHTTP2)

	dialTimeout := envutil.Duration(ctx, "HTTP_TRANSPORT_DIAL_TIMEOUT",
		envutil.Default(defaultTransportDialTimeout)).
		ValueOrElse(defaultTransportDialTimeout)

	keepAlive := envutil.Duration(ctx, "HTTP_TRANSPORT_DIAL_KEEPALIVE",
		envutil.Default(defaultKeepAlive)).
		ValueOrElse(defaultKeepAlive)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: keepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     forceAttemptHTTP2,
		MaxIdleConns:          maxIdleConns,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshakeTimeout,
		ExpectContinueTimeout: expectContinueTimeout,
		DisableKeepAlives:     cfg.DisableConnectionPooling,
		DisableCompression:    cfg.DisableCompression,
	}

	if disableHTTP2 {
		transport.TLSNextProto = map[string]func(string, *tls.Conn) http.RoundTripper{}
	}

	if cfg.EnableDNSCache {
		useDNSCacheDialer(transport, dialTimeout, keepAlive)
	}

	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec
		}
	}

	return transport
}

// NewClient returns a client whose transport decompresses every encoding the
// decompressor understands and logs each exchange with a correlation ID.
func NewClient(ctx context.Context, options ...Option) *http.Client {
	options = append(options, DisableCompression)

	timeout := envutil.Duration(ctx, "HTTP_CLIENT_TIMEOUT",
		envutil.Default(defaultClientTimeout)).
		ValueOrElse(defaultClientTimeout)

	return &http.Client{
		Transport: NewLoggingTransport(ctx, NewDecompressor(New(ctx, options...))),
		Timeout:   timeout,
	}
}
