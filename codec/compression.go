package codec

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// ErrUnknownCompression is returned for a compression name codec does not
// support.
var ErrUnknownCompression = errors.New("unknown compression")

// Compression is the container format wrapped around a document.
type Compression string

const (
	CompressionNone   Compression = "none"
	CompressionGzip   Compression = "gzip"
	CompressionZstd   Compression = "zstd"
	CompressionLZ4    Compression = "lz4"
	CompressionBrotli Compression = "brotli"
	CompressionSnappy Compression = "snappy"
)

var extensions = map[Compression]string{ //nolint:gochecknoglobals
	CompressionGzip:   ".gz",
	CompressionZstd:   ".zst",
	CompressionLZ4:    ".lz4",
	CompressionBrotli: ".br",
	CompressionSnappy: ".sz",
}

// Compressions lists every supported compression, none first.
func Compressions() []Compression {
	return []Compression{
		CompressionNone, CompressionGzip, CompressionZstd,
		CompressionLZ4, CompressionBrotli, CompressionSnappy,
	}
}

// Extension returns the file extension for c, empty for none.
func (c Compression) Extension() string {
	return extensions[c]
}

// ParseCompression accepts the names above, their extensions without the dot
// (gz, zst, br, sz) and the empty string for none.
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	case "brotli", "br":
		return CompressionBrotli, nil
	case "snappy", "sz":
		return CompressionSnappy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, name)
	}
}

// CompressionFromPath detects compression from the outer extension of name
// and returns the name without it.
func CompressionFromPath(name string) (Compression, string) {
	ext := strings.ToLower(path.Ext(name))

	for c, e := range extensions {
		if ext == e {
			return c, name[:len(name)-len(ext)]
		}
	}

	return CompressionNone, name
}

func decompress(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case "", CompressionNone:
		return io.NopCloser(r), nil
	case CompressionGzip:
		return gzip.NewReader(r)
	case CompressionZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}

		return dec.IOReadCloser(), nil
	case CompressionLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CompressionBrotli:
		return io.NopCloser(brotli.NewReader(r)), nil
	case CompressionSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// compress wraps w; closing the result flushes the compressor but leaves w
// open.
func compress(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case "", CompressionNone:
		return nopWriteCloser{w}, nil
	case CompressionGzip:
		return gzip.NewWriter(w), nil
	case CompressionZstd:
		return zstd.NewWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w), nil
	case CompressionBrotli:
		return brotli.NewWriter(w), nil
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}
