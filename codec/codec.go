// Package codec reads and writes ordered documents: JSON or YAML objects,
// optionally compressed, from files, readers or HTTP URLs, into
// *value.Map containers whose entry order matches the document.
//
// Formats and compressions are detected from names when not given:
//
//	pages.yaml.zst  -> YAML, zstd
//	pages.json      -> JSON, none
//	pages           -> JSON (the default), none
package codec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/amp-iterator/errors"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/should"
	"github.com/amp-labs/amp-iterator/spans"
	"github.com/amp-labs/amp-iterator/value"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gopkg.in/yaml.v3"
)

const defaultYAMLIndent = 2

// Options controls decoding and encoding. The zero value reads and writes
// uncompressed compact JSON.
type Options struct {
	Format      Format
	Compression Compression

	// Charset labels the input encoding. Empty means UTF-8 when valid,
	// otherwise detected.
	Charset string

	// NormalizeKeys rewrites decoded keys to Unicode NFC.
	NormalizeKeys bool

	// Indent is the output indentation width. Zero writes compact JSON and
	// two-space YAML.
	Indent int
}

// ForPath fills the unset Format and Compression from name.
func (o Options) ForPath(name string) Options {
	compression, inner := CompressionFromPath(name)

	if o.Compression == "" {
		o.Compression = compression
	}

	if o.Format == "" {
		if format, ok := FormatFromPath(inner); ok {
			o.Format = format
		}
	}

	return o
}

func (o Options) withDefaults() Options {
	if o.Format == "" {
		o.Format = FormatJSON
	}

	if o.Compression == "" {
		o.Compression = CompressionNone
	}

	return o
}

func (o Options) attributes() spans.Option {
	return spans.WithAttributes(
		attribute.String("codec.format", string(o.Format)),
		attribute.String("codec.compression", string(o.Compression)),
	)
}

// Decode reads one document from r. Empty input yields an empty container;
// a document whose top level is not an object fails with
// iterator.ErrNotMapping. r is not closed.
func Decode(ctx context.Context, r io.Reader, opts Options) (*value.Map, error) {
	opts = opts.withDefaults()

	return spans.StartValErr[*value.Map](ctx, "codec.Decode", opts.attributes()).
		Enter(func(ctx context.Context, span trace.Span) (*value.Map, error) {
			m, size, err := decode(ctx, r, opts)
			observe(opDecode, opts, size, err)

			if err != nil {
				return nil, err
			}

			span.SetAttributes(attribute.Int("codec.entries", m.Count()))

			return m, nil
		})
}

func decode(ctx context.Context, r io.Reader, opts Options) (*value.Map, int, error) {
	rc, err := decompress(r, opts.Compression)
	if err != nil {
		return nil, 0, err
	}

	defer should.Close(ctx, rc, "closing decompressor")

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s input: %w", opts.Compression, err)
	}

	data, cs, err := toUTF8(data, opts.Charset)
	if err != nil {
		return nil, 0, err
	}

	logger.Get(ctx).Debug("decoding document",
		"format", opts.Format,
		"compression", opts.Compression,
		"charset", cs,
		"bytes", len(data))

	m := iterator.New[string, value.Value]()

	if len(bytes.TrimSpace(data)) > 0 {
		switch opts.Format {
		case FormatJSON:
			err = json.Unmarshal(data, m)
		case FormatYAML:
			err = yaml.Unmarshal(data, m)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownFormat, string(opts.Format))
		}

		if err != nil {
			return nil, len(data), err
		}
	}

	if opts.NormalizeKeys {
		m = NormalizeKeys(m)
	}

	return m, len(data), nil
}

// Encode writes m to w as one document followed by a newline. w is not
// closed; a compressed stream is flushed and finished.
func Encode(ctx context.Context, w io.Writer, m *value.Map, opts Options) error {
	opts = opts.withDefaults()

	return spans.StartErr(ctx, "codec.Encode", opts.attributes()).
		Enter(func(ctx context.Context, span trace.Span) error {
			span.SetAttributes(attribute.Int("codec.entries", m.Count()))

			size, err := encode(ctx, w, m, opts)
			observe(opEncode, opts, size, err)

			return err
		})
}

func encode(ctx context.Context, w io.Writer, m *value.Map, opts Options) (int, error) {
	data, err := Marshal(m, opts)
	if err != nil {
		return 0, err
	}

	cw, err := compress(w, opts.Compression)
	if err != nil {
		return 0, err
	}

	logger.Get(ctx).Debug("encoding document",
		"format", opts.Format,
		"compression", opts.Compression,
		"bytes", len(data))

	var errs errors.Collection

	_, err = cw.Write(data)
	errs.Add(err)
	errs.Add(cw.Close())

	return len(data), errs.GetError()
}

// Marshal renders m in opts.Format, uncompressed, with a trailing newline.
func Marshal(m *value.Map, opts Options) ([]byte, error) {
	var buf bytes.Buffer

	switch opts.withDefaults().Format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)

		if opts.Indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", opts.Indent))
		}

		if err := enc.Encode(m); err != nil {
			return nil, err
		}
	case FormatYAML:
		indent := opts.Indent
		if indent <= 0 {
			indent = defaultYAMLIndent
		}

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(indent)

		if err := enc.Encode(m); err != nil {
			return nil, err
		}

		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(opts.Format))
	}

	return buf.Bytes(), nil
}
