package transport

import (
	"net/http"

	"github.com/amp-labs/amp-iterator/assert"
	"github.com/amp-labs/amp-iterator/closer"
	"github.com/fereidani/httpdecompressor"
)

// AcceptEncoding is advertised by the decompressor on requests that do not
// name their own encodings.
const AcceptEncoding = "gzip, deflate, br, zstd"

// NewDecompressor wraps roundTripper so that response bodies are decoded
// according to their Content-Encoding (gzip, deflate, zlib, br, zstd, snappy,
// lz4). Decoded responses lose their Content-Encoding and Content-Length
// headers. Closing the body closes the decoder and then the wire body.
//
// Panics if roundTripper is nil.
func NewDecompressor(roundTripper http.RoundTripper) http.RoundTripper {
	assert.NotNil(roundTripper, "NewDecompressor: roundTripper is nil")

	return &decompressor{roundTripper: roundTripper}
}

type decompressor struct {
	roundTripper http.RoundTripper
}

var _ http.RoundTripper = (*decompressor)(nil)

func (d *decompressor) RoundTrip(request *http.Request) (*http.Response, error) {
	if request.Header.Get("Accept-Encoding") == "" {
		request = request.Clone(request.Context())
		request.Header.Set("Accept-Encoding", AcceptEncoding)
	}

	rsp, err := d.roundTripper.RoundTrip(request)
	if err != nil {
		return rsp, err
	}

	origBody := rsp.Body

	bodyReader, err := httpdecompressor.Reader(rsp)
	if err != nil {
		_ = origBody.Close()

		return nil, err
	}

	if bodyReader == origBody {
		return rsp, nil
	}

	rsp.Body = closer.ForReader(bodyReader, closer.NewCloser(bodyReader, origBody))
	rsp.Header.Del("Content-Encoding")
	rsp.Header.Del("Content-Length")
	rsp.ContentLength = -1
	rsp.Uncompressed = true

	return rsp, nil
}
