package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/rs/dnscache"
)

// dnsResolver is shared by every transport built with EnableDNSCache.
var dnsResolver = &dnscache.Resolver{} //nolint:gochecknoglobals

// useDNSCacheDialer makes trans resolve hosts through dnsResolver and dial
// the returned addresses in order until one connects.
func useDNSCacheDialer(trans *http.Transport, timeout, keepAlive time.Duration) {
	dialer := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: keepAlive,
	}

	trans.DialContext = func(ctx context.Context, network string, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, err
		}

		ips, err := dnsResolver.LookupHost(ctx, host)
		if err != nil {
			return nil, err
		}

		if len(ips) == 0 {
			return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
		}

		var conn net.Conn

		for _, ip := range ips {
			conn, err = dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
			if err == nil {
				return conn, nil
			}
		}

		return nil, err
	}
}

// RefreshDNSCache drops cached entries that were not used since the last
// refresh and re-resolves the rest.
func RefreshDNSCache() {
	dnsResolver.Refresh(true)
}
