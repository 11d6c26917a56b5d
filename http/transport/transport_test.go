package transport_test

import (
	"bytes"
	"compress/flate"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/http/transport"
	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payload = `{"b":2,"a":1,"title":"ordered documents travel compressed"}`

func compress(t *testing.T, encoding string, data string) []byte {
	t.Helper()

	var (
		buf bytes.Buffer
		w   io.WriteCloser
		err error
	)

	switch encoding {
	case "":
		return []byte(data)
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w, err = flate.NewWriter(&buf, flate.DefaultCompression)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		w, err = zstd.NewWriter(&buf)
	case "snappy":
		w = snappy.NewBufferedWriter(&buf)
	case "lz4":
		w = lz4.NewWriter(&buf)
	default:
		t.Fatalf("unknown encoding %q", encoding)
	}

	require.NoError(t, err)

	_, err = io.WriteString(w, data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return buf.Bytes()
}

func serve(t *testing.T, encoding string, seen chan<- http.Header) *httptest.Server {
	t.Helper()

	body := compress(t, encoding, payload)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			select {
			case seen <- r.Header.Clone():
			default:
			}
		}

		if encoding != "" {
			w.Header().Set("Content-Encoding", encoding)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	return server
}

func get(t *testing.T, client *http.Client, url string, header http.Header) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	require.NoError(t, err)

	for k, v := range header {
		req.Header[k] = v
	}

	rsp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rsp.Body.Close() })

	return rsp
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		tr := transport.New(t.Context())

		assert.Equal(t, 100, tr.MaxIdleConns)
		assert.Equal(t, 90*time.Second, tr.IdleConnTimeout)
		assert.Equal(t, 10*time.Second, tr.TLSHandshakeTimeout)
		assert.False(t, tr.DisableKeepAlives)
		assert.False(t, tr.DisableCompression)
		assert.NotNil(t, tr.TLSNextProto)
		assert.Empty(t, tr.TLSNextProto)
		assert.Nil(t, tr.TLSClientConfig)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Parallel()

		ctx := envutil.WithEnvOverride(t.Context(), "HTTP_TRANSPORT_MAX_IDLE_CONNS", "7")
		ctx = envutil.WithEnvOverride(ctx, "HTTP_TRANSPORT_IDLE_CONN_TIMEOUT", "5s")
		ctx = envutil.WithEnvOverride(ctx, "HTTP_TRANSPORT_DISABLE_HTTP2", "false")
		ctx = envutil.WithEnvOverride(ctx, "HTTP_TRANSPORT_PREFER_POOLED", "false")

		tr := transport.New(ctx)

		assert.Equal(t, 7, tr.MaxIdleConns)
		assert.Equal(t, 5*time.Second, tr.IdleConnTimeout)
		assert.Nil(t, tr.TLSNextProto)
		assert.True(t, tr.DisableKeepAlives)
	})

	t.Run("malformed values fall back to defaults", func(t *testing.T) {
		t.Parallel()

		ctx := envutil.WithEnvOverride(t.Context(), "HTTP_TRANSPORT_MAX_IDLE_CONNS", "many")

		assert.Equal(t, 100, transport.New(ctx).MaxIdleConns)
	})

	t.Run("options", func(t *testing.T) {
		t.Parallel()

		tr := transport.New(t.Context(),
			transport.DisableConnectionPooling,
			transport.DisableCompression,
			transport.InsecureTLS,
			nil,
		)

		assert.True(t, tr.DisableKeepAlives)
		assert.True(t, tr.DisableCompression)
		require.NotNil(t, tr.TLSClientConfig)
		assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	})
}

func TestDNSCache(t *testing.T) {
	t.Parallel()

	server := serve(t, "", nil)

	client := &http.Client{Transport: transport.New(t.Context(), transport.EnableDNSCache, transport.DisableConnectionPooling)}

	for range 2 {
		rsp := get(t, client, server.URL, nil)
		assert.Equal(t, http.StatusOK, rsp.StatusCode)
	}

	transport.RefreshDNSCache()

	rsp := get(t, client, server.URL, nil)
	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))
}

func TestDecompressor(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { transport.NewDecompressor(nil) })

	for _, encoding := range []string{"", "gzip", "deflate", "br", "zstd", "snappy", "lz4"} {
		t.Run("encoding "+encoding, func(t *testing.T) {
			t.Parallel()

			seen := make(chan http.Header, 1)
			server := serve(t, encoding, seen)
			client := &http.Client{
				Transport: transport.NewDecompressor(transport.New(t.Context(),
					transport.DisableCompression, transport.DisableConnectionPooling)),
			}

			rsp := get(t, client, server.URL, nil)

			body, err := io.ReadAll(rsp.Body)
			require.NoError(t, err)
			assert.Equal(t, payload, string(body))
			assert.Empty(t, rsp.Header.Get("Content-Encoding"))
			assert.Equal(t, transport.AcceptEncoding, (<-seen).Get("Accept-Encoding"))
		})
	}

	t.Run("caller encodings are kept", func(t *testing.T) {
		t.Parallel()

		seen := make(chan http.Header, 1)
		server := serve(t, "gzip", seen)
		client := &http.Client{
			Transport: transport.NewDecompressor(transport.New(t.Context(), transport.DisableCompression)),
		}

		rsp := get(t, client, server.URL, http.Header{"Accept-Encoding": {"gzip"}})

		body, err := io.ReadAll(rsp.Body)
		require.NoError(t, err)
		assert.Equal(t, payload, string(body))
		assert.Equal(t, "gzip", (<-seen).Get("Accept-Encoding"))
	})
}

func TestGetClient(t *testing.T) {
	t.Parallel()

	assert.Same(t, transport.GetClient(t.Context()), transport.GetClient(t.Context()))

	custom := &http.Client{}
	ctx := transport.WithClient(t.Context(), custom)
	assert.Same(t, custom, transport.GetClient(ctx))

	ctx = envutil.WithEnvOverride(t.Context(), "HTTP_CLIENT_TIMEOUT", "3s")
	assert.Equal(t, 3*time.Second, transport.NewClient(ctx).Timeout)
}

//nolint:paralleltest // Replaces the default logger.
func TestNewClient_Logging(t *testing.T) {
	var buf bytes.Buffer

	previous := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(previous) })

	server := serve(t, "zstd", nil)
	client := transport.NewClient(t.Context(), transport.DisableConnectionPooling)

	rsp := get(t, client, server.URL+"/doc.json?token=x", nil)
	body, err := io.ReadAll(rsp.Body)
	require.NoError(t, err)
	assert.Equal(t, payload, string(body))

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, closed.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req) //nolint:bodyclose
	require.Error(t, err)

	var records []map[string]any

	for line := range strings.SplitSeq(strings.TrimSpace(buf.String()), "\n") {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))

		records = append(records, rec)
	}

	require.Len(t, records, 4)

	assert.Equal(t, "HTTP request", records[0]["msg"])
	assert.Equal(t, "HTTP response", records[1]["msg"])
	assert.Equal(t, records[0]["correlation_id"], records[1]["correlation_id"])
	assert.InDelta(t, http.StatusOK, records[1]["status"], 0)
	assert.Equal(t, "application/json", records[1]["content_type"])
	assert.Contains(t, records[0]["url"], "/doc.json")

	assert.Equal(t, "HTTP request failed", records[3]["msg"])
	assert.Equal(t, "ERROR", records[3]["level"])
	assert.Equal(t, records[2]["correlation_id"], records[3]["correlation_id"])
	assert.NotEqual(t, records[0]["correlation_id"], records[2]["correlation_id"])
}
