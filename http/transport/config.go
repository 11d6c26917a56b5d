package transport

import (
	"context"

	"github.com/amp-labs/amp-iterator/envutil"
)

// Option adjusts how New and NewClient build a transport.
type Option func(*config)

type config struct {
	DisableConnectionPooling bool
	DisableCompression       bool
	EnableDNSCache           bool
	InsecureTLS              bool
}

// DisableConnectionPooling turns off keep-alives so every request dials anew.
func DisableConnectionPooling(c *config) {
	c.DisableConnectionPooling = true
}

// DisableCompression stops the transport from requesting gzip on its own.
// NewClient always sets it because the decompressor negotiates encodings.
func DisableCompression(c *config) {
	c.DisableCompression = true
}

// EnableDNSCache resolves hosts through a shared caching resolver.
func EnableDNSCache(c *config) {
	c.EnableDNSCache = true
}

// InsecureTLS skips certificate verification. Test servers only.
func InsecureTLS(c *config) {
	c.InsecureTLS = true
}

func readOptions(ctx context.Context, opts ...Option) *config {
	cfg := &config{}

	if !envutil.Bool(ctx, "HTTP_TRANSPORT_PREFER_POOLED", envutil.Default(true)).ValueOrElse(true) {
		cfg.DisableConnectionPooling = true
	}

	if envutil.Bool(ctx, "HTTP_TRANSPORT_DNS_CACHE", envutil.Default(false)).ValueOrElse(false) {
		cfg.EnableDNSCache = true
	}

	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	return cfg
}
