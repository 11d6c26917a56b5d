package codec_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/amp-labs/amp-iterator/codec"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/spans"
	"github.com/amp-labs/amp-iterator/value"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

const document = `{"title":"Home","order":3,"ratio":0.5,"draft":false,` +
	`"tags":["a","b"],"meta":{"z":1,"a":null}}`

func testContext(t *testing.T) context.Context {
	t.Helper()

	return logger.WithLogger(t.Context(), slogt.New(t))
}

func sample(t *testing.T) *value.Map {
	t.Helper()

	m, err := codec.Decode(testContext(t), strings.NewReader(document), codec.Options{})
	require.NoError(t, err)

	return m
}

func assertSameDocument(t *testing.T, want, got *value.Map) {
	t.Helper()

	assert.Equal(t, want.Keys(), got.Keys())
	assert.True(t, value.ObjectValue(want).Equals(value.ObjectValue(got)),
		"want %s, got %s", value.ObjectValue(want), value.ObjectValue(got))
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want codec.Format
		err  bool
	}{
		{"json", codec.FormatJSON, false},
		{"JSON", codec.FormatJSON, false},
		{"yaml", codec.FormatYAML, false},
		{" yml ", codec.FormatYAML, false},
		{"toml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := codec.ParseFormat(tt.name)
			if tt.err {
				require.ErrorIs(t, err, codec.ErrUnknownFormat)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDetection(t *testing.T) {
	t.Parallel()

	format, ok := codec.FormatFromPath("dir/pages.yml")
	assert.True(t, ok)
	assert.Equal(t, codec.FormatYAML, format)

	_, ok = codec.FormatFromPath("pages")
	assert.False(t, ok)

	_, ok = codec.FormatFromPath("pages.txt")
	assert.False(t, ok)

	format, charset, ok := codec.FormatFromMediaType("application/json; charset=ISO-8859-1")
	assert.True(t, ok)
	assert.Equal(t, codec.FormatJSON, format)
	assert.Equal(t, "ISO-8859-1", charset)

	format, _, ok = codec.FormatFromMediaType("application/vnd.api+json")
	assert.True(t, ok)
	assert.Equal(t, codec.FormatJSON, format)

	format, _, ok = codec.FormatFromMediaType("text/yaml")
	assert.True(t, ok)
	assert.Equal(t, codec.FormatYAML, format)

	_, _, ok = codec.FormatFromMediaType("application/octet-stream")
	assert.False(t, ok)

	_, _, ok = codec.FormatFromMediaType("")
	assert.False(t, ok)

	assert.Equal(t, ".yaml", codec.FormatYAML.Extension())
}

func TestCompressionDetection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		want  codec.Compression
		inner string
	}{
		{"pages.json.gz", codec.CompressionGzip, "pages.json"},
		{"pages.yaml.ZST", codec.CompressionZstd, "pages.yaml"},
		{"pages.json.lz4", codec.CompressionLZ4, "pages.json"},
		{"pages.json.br", codec.CompressionBrotli, "pages.json"},
		{"pages.json.sz", codec.CompressionSnappy, "pages.json"},
		{"pages.json", codec.CompressionNone, "pages.json"},
		{"pages", codec.CompressionNone, "pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, inner := codec.CompressionFromPath(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.inner, inner)
		})
	}

	for _, c := range codec.Compressions() {
		parsed, err := codec.ParseCompression(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	parsed, err := codec.ParseCompression("gz")
	require.NoError(t, err)
	assert.Equal(t, codec.CompressionGzip, parsed)

	parsed, err = codec.ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, codec.CompressionNone, parsed)

	_, err = codec.ParseCompression("rar")
	require.ErrorIs(t, err, codec.ErrUnknownCompression)
}

func TestOptions_ForPath(t *testing.T) {
	t.Parallel()

	opts := codec.Options{}.ForPath("pages.yaml.gz")
	assert.Equal(t, codec.FormatYAML, opts.Format)
	assert.Equal(t, codec.CompressionGzip, opts.Compression)

	opts = codec.Options{Format: codec.FormatJSON}.ForPath("pages.yaml")
	assert.Equal(t, codec.FormatJSON, opts.Format)
	assert.Equal(t, codec.CompressionNone, opts.Compression)

	opts = codec.Options{}.ForPath("pages")
	assert.Empty(t, opts.Format)
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	m := sample(t)

	out, err := codec.Marshal(m, codec.Options{})
	require.NoError(t, err)
	assert.Equal(t, document+"\n", string(out))

	flat := iterator.New(
		iterator.Pair("b", value.IntValue(1)),
		iterator.Pair("a", value.StringValue("x")),
		iterator.Pair("n", value.NullValue()),
	)

	out, err = codec.Marshal(flat, codec.Options{Indent: 2})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"x\",\n  \"n\": null\n}\n", string(out))

	out, err = codec.Marshal(flat, codec.Options{Format: codec.FormatYAML})
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na: x\nn: null\n", string(out))

	_, err = codec.Marshal(flat, codec.Options{Format: "ini"})
	require.ErrorIs(t, err, codec.ErrUnknownFormat)
}

func TestMarshal_HTMLCharacters(t *testing.T) {
	t.Parallel()

	m := iterator.New(
		iterator.Pair("a<b", value.StringValue("<p>&</p>")),
		iterator.Pair("list", value.ListValue(value.StringValue("x > y"))),
		iterator.Pair("nested", value.ObjectValue(iterator.New(
			iterator.Pair("&amp;", value.StringValue("<br>")),
		))),
	)

	out, err := codec.Marshal(m, codec.Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"a<b":"<p>&</p>","list":["x > y"],"nested":{"&amp;":"<br>"}}`+"\n", string(out))

	out, err = codec.Marshal(m, codec.Options{Indent: 2})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"a<b": "<p>&</p>"`)
	assert.NotContains(t, string(out), `\u003c`)

	got, err := codec.Decode(testContext(t), bytes.NewReader(out), codec.Options{})
	require.NoError(t, err)
	assertSameDocument(t, m, got)
}

func TestDecode_YAMLMergeKeys(t *testing.T) {
	t.Parallel()

	doc := "defaults: &d\n  lang: en\n  draft: true\npage:\n  <<: *d\n  draft: false\n"

	m, err := codec.Decode(testContext(t), strings.NewReader(doc), codec.Options{Format: codec.FormatYAML})
	require.NoError(t, err)

	page := m.Get("page").GetOrPanic().Object().GetOrPanic()
	assert.Equal(t, []string{"lang", "draft"}, page.Keys())
	assert.Equal(t, "en,false", page.String())

	out, err := codec.Marshal(m, codec.Options{Format: codec.FormatYAML})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<<")
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	for _, format := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
		for _, compression := range codec.Compressions() {
			t.Run(string(format)+"/"+string(compression), func(t *testing.T) {
				t.Parallel()

				ctx := testContext(t)
				want := sample(t)
				opts := codec.Options{Format: format, Compression: compression}

				var buf bytes.Buffer
				require.NoError(t, codec.Encode(ctx, &buf, want, opts))

				got, err := codec.Decode(ctx, &buf, opts)
				require.NoError(t, err)
				assertSameDocument(t, want, got)
			})
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("empty input is an empty document", func(t *testing.T) {
		t.Parallel()

		for _, format := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
			m, err := codec.Decode(testContext(t), strings.NewReader(" \n"), codec.Options{Format: format})
			require.NoError(t, err)
			assert.Zero(t, m.Count())
		}
	})

	t.Run("top level must be an object", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Decode(testContext(t), strings.NewReader(`[1,2]`), codec.Options{})
		require.ErrorIs(t, err, iterator.ErrNotMapping)

		_, err = codec.Decode(testContext(t), strings.NewReader("- 1\n- 2\n"), codec.Options{Format: codec.FormatYAML})
		require.ErrorIs(t, err, iterator.ErrNotMapping)
	})

	t.Run("YAML keeps document order", func(t *testing.T) {
		t.Parallel()

		m, err := codec.Decode(testContext(t), strings.NewReader("z: 1\nm: [x, y]\na: {k: v}\n"),
			codec.Options{Format: codec.FormatYAML})
		require.NoError(t, err)
		assert.Equal(t, []string{"z", "m", "a"}, m.Keys())
	})

	t.Run("unknown format and compression", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Decode(testContext(t), strings.NewReader(document), codec.Options{Format: "ini"})
		require.ErrorIs(t, err, codec.ErrUnknownFormat)

		_, err = codec.Decode(testContext(t), strings.NewReader(document), codec.Options{Compression: "rar"})
		require.ErrorIs(t, err, codec.ErrUnknownCompression)
	})

	t.Run("corrupt compressed input", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Decode(testContext(t), strings.NewReader(document), codec.Options{Compression: codec.CompressionGzip})
		require.Error(t, err)
	})
}

func TestDecode_Charset(t *testing.T) {
	t.Parallel()

	latin1 := []byte("{\"caf\xe9\":\"na\xefve\"}")

	t.Run("labelled input", func(t *testing.T) {
		t.Parallel()

		m, err := codec.Decode(testContext(t), bytes.NewReader(latin1), codec.Options{Charset: "ISO-8859-1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"café"}, m.Keys())
		assert.Equal(t, "naïve", m.Get("café").GetOrPanic().String())
	})

	t.Run("detected UTF-16 with byte order mark", func(t *testing.T) {
		t.Parallel()

		utf16 := []byte{0xFF, 0xFE}
		for _, r := range `{"k":"é"}` {
			utf16 = append(utf16, byte(r), byte(r>>8))
		}

		m, err := codec.Decode(testContext(t), bytes.NewReader(utf16), codec.Options{})
		require.NoError(t, err)
		assert.Equal(t, "é", m.Get("k").GetOrPanic().String())
	})

	t.Run("UTF-8 byte order mark is dropped", func(t *testing.T) {
		t.Parallel()

		m, err := codec.Decode(testContext(t), strings.NewReader("\ufeff{\"k\":1}"), codec.Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"k"}, m.Keys())
	})

	t.Run("invalid input under a UTF-8 label", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Decode(testContext(t), bytes.NewReader(latin1), codec.Options{Charset: "utf-8"})
		require.ErrorIs(t, err, codec.ErrUnknownCharset)
	})

	t.Run("unknown label", func(t *testing.T) {
		t.Parallel()

		_, err := codec.Decode(testContext(t), bytes.NewReader(latin1), codec.Options{Charset: "klingon"})
		require.ErrorIs(t, err, codec.ErrUnknownCharset)
	})
}

func TestNormalizeKeys(t *testing.T) {
	t.Parallel()

	input := `{"café":1,"list":[{"naïve":true}],"café":2,"plain":3}`

	m, err := codec.Decode(testContext(t), strings.NewReader(input), codec.Options{NormalizeKeys: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"caf\u00e9", "list", "plain"}, m.Keys())
	assert.Equal(t, "2", m.Get("caf\u00e9").GetOrPanic().String())

	nested := m.Get("list").GetOrPanic().List().GetOrPanic()[0].Object().GetOrPanic()
	assert.Equal(t, []string{"na\u00efve"}, nested.Keys())

	raw, err := codec.Decode(testContext(t), strings.NewReader(input), codec.Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, raw.Count())
}

func TestEncodeDecode_Spans(t *testing.T) {
	t.Parallel()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx := spans.WithTracer(testContext(t), tp.Tracer("codec-test"))
	opts := codec.Options{Format: codec.FormatYAML, Compression: codec.CompressionZstd}

	var buf bytes.Buffer
	require.NoError(t, codec.Encode(ctx, &buf, sample(t), opts))

	_, err := codec.Decode(ctx, &buf, opts)
	require.NoError(t, err)

	_, err = codec.Decode(ctx, strings.NewReader("[]"), codec.Options{})
	require.Error(t, err)

	recorded := exporter.GetSpans()
	require.Len(t, recorded, 3)

	assert.Equal(t, "codec.Encode", recorded[0].Name)
	assert.Equal(t, "codec.Decode", recorded[1].Name)
	assert.Contains(t, recorded[1].Attributes, attribute.String("codec.format", "yaml"))
	assert.Contains(t, recorded[1].Attributes, attribute.String("codec.compression", "zstd"))
	assert.Contains(t, recorded[1].Attributes, attribute.Int("codec.entries", 6))
	assert.Equal(t, codes.Error, recorded[2].Status.Code)
}
