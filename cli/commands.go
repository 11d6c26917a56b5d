package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/amp-labs/amp-iterator/codec"
	"github.com/amp-labs/amp-iterator/hashing"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/optional"
	"github.com/amp-labs/amp-iterator/value"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errInvalidLength  = errors.New("invalid slice length")
)

// Absent values print as null.
const absent = "null"

const stdinName = "-"

func (cli *CLI) dispatch(ctx context.Context, cmd string) error { //nolint:cyclop
	doc, inputFormat, err := cli.load(ctx)
	if err != nil {
		return err
	}

	if cli.Seed != "" {
		doc.SeedFromPhrase(cli.Seed)
	}

	switch cmd {
	case "show":
		return cli.write(ctx, doc, inputFormat)
	case "count":
		return cli.println(strconv.Itoa(doc.Count()))
	case "keys":
		return cli.println(strings.Join(doc.Keys(), "\n"))
	case "get":
		return cli.printValue(doc.Get(cli.Get.Key), cli.Get.Raw)
	case "nth":
		return cli.printValue(doc.Nth(cli.Nth.Index), cli.Nth.Raw)
	case "index-of":
		return cli.indexOf(doc)
	case "slice":
		return cli.slice(ctx, doc, inputFormat)
	case "shuffle":
		return cli.write(ctx, doc.Shuffle(), inputFormat)
	case "random":
		if _, err := doc.Random(cli.Random.N); err != nil {
			return err
		}

		return cli.write(ctx, doc, inputFormat)
	case "merge":
		return cli.merge(ctx, doc, inputFormat)
	case "string":
		// Always a line, even for an empty join.
		_, err = fmt.Fprintln(cli.stdout, doc.String())

		return err
	case "sort":
		return cli.write(ctx, cli.sort(doc), inputFormat)
	case "reverse":
		return cli.write(ctx, doc.Reverse(), inputFormat)
	case "fingerprint":
		return cli.fingerprint(doc)
	case "browse":
		return cli.browse(ctx, doc)
	default:
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
}

func (cli *CLI) inputOptions() (codec.Options, error) {
	opts := codec.Options{NormalizeKeys: cli.NormalizeKeys}

	if cli.InputFormat != "" {
		format, err := codec.ParseFormat(cli.InputFormat)
		if err != nil {
			return opts, err
		}

		opts.Format = format
	}

	return opts, nil
}

// load reads the input document and reports the format the output defaults to.
func (cli *CLI) load(ctx context.Context) (*value.Map, codec.Format, error) {
	opts, err := cli.inputOptions()
	if err != nil {
		return nil, "", err
	}

	if cli.Input == "" || cli.Input == stdinName {
		doc, err := codec.Decode(logger.With(ctx, "input", stdinName), cli.stdin, opts)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}

		return doc, optional.FromPair(opts.Format, opts.Format != "").GetOrElse(codec.FormatJSON), nil
	}

	doc, err := codec.Load(ctx, cli.Input, opts)
	if err != nil {
		return nil, "", err
	}

	if opts.Format == "" {
		opts.Format = detectFormat(cli.Input)
	}

	return doc, optional.FromPair(opts.Format, opts.Format != "").GetOrElse(codec.FormatJSON), nil
}

// detectFormat returns the format named by location's extensions, or "".
func detectFormat(location string) codec.Format {
	if codec.IsURL(location) {
		parsed, err := url.Parse(location)
		if err != nil {
			return ""
		}

		location = parsed.Path
	}

	return codec.Options{}.ForPath(location).Format
}

// write prints a document, or saves it when --output is set.
func (cli *CLI) write(ctx context.Context, doc *value.Map, inputFormat codec.Format) error {
	opts := codec.Options{Indent: cli.Indent}

	if cli.Format != "" {
		format, err := codec.ParseFormat(cli.Format)
		if err != nil {
			return err
		}

		opts.Format = format
	}

	if cli.Output != "" {
		if opts.Format == "" && detectFormat(cli.Output) == "" {
			opts.Format = inputFormat
		}

		logger.Get(ctx).Info("saving document", "path", cli.Output, "entries", doc.Count())

		return codec.SaveFile(ctx, cli.Output, doc, opts)
	}

	if opts.Format == "" {
		opts.Format = inputFormat
	}

	data, err := codec.Marshal(doc, opts)
	if err != nil {
		return err
	}

	_, err = cli.stdout.Write(data)

	return err
}

func (cli *CLI) println(text string) error {
	if text == "" {
		return nil
	}

	_, err := fmt.Fprintln(cli.stdout, text)

	return err
}

func (cli *CLI) printValue(found optional.Value[value.Value], raw bool) error {
	val, ok := found.Get()
	if !ok {
		return cli.println(absent)
	}

	if raw && val.Kind() == value.KindString {
		return cli.println(val.String())
	}

	data, err := marshalJSON(val)
	if err != nil {
		return err
	}

	return cli.println(string(data))
}

// marshalJSON encodes v compactly, leaving <, > and & unescaped.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// parseNeedle reads text as a JSON value, falling back to a plain string.
func parseNeedle(text string) value.Value {
	var needle value.Value
	if err := json.Unmarshal([]byte(text), &needle); err != nil {
		return value.StringValue(text)
	}

	return needle
}

func (cli *CLI) indexOf(doc *value.Map) error {
	needle := parseNeedle(cli.IndexOf.Value)

	if cli.IndexOf.Key {
		key, ok := doc.KeyOf(needle).Get()
		if !ok {
			return cli.println(absent)
		}

		return cli.println(key)
	}

	idx, ok := doc.IndexOf(needle).Get()
	if !ok {
		return cli.println(absent)
	}

	return cli.println(strconv.Itoa(idx))
}

func (cli *CLI) slice(ctx context.Context, doc *value.Map, inputFormat codec.Format) error {
	if cli.Slice.Length == "" {
		return cli.write(ctx, doc.SliceFrom(cli.Slice.Offset), inputFormat)
	}

	length, err := strconv.Atoi(cli.Slice.Length)
	if err != nil {
		return fmt.Errorf("%w %q: %w", errInvalidLength, cli.Slice.Length, err)
	}

	return cli.write(ctx, doc.Slice(cli.Slice.Offset, length), inputFormat)
}

func (cli *CLI) merge(ctx context.Context, doc *value.Map, inputFormat codec.Format) error {
	opts, err := cli.inputOptions()
	if err != nil {
		return err
	}

	others, err := codec.LoadAll(ctx, cli.Merge.Others, opts)
	if err != nil {
		return err
	}

	for _, other := range others {
		doc.Append(other)
	}

	return cli.write(ctx, doc, inputFormat)
}

func (cli *CLI) sort(doc *value.Map) *value.Map {
	if !cli.Sort.Values {
		return doc.SortKeys()
	}

	return doc.Sort(func(a, b iterator.KeyValuePair[string, value.Value]) int {
		return strings.Compare(a.Value.String(), b.Value.String())
	})
}

var hashFuncs = map[string]hashing.HashFunc{ //nolint:gochecknoglobals
	"sha256":   hashing.Sha256,
	"xxh3":     hashing.XXH3,
	"xxhash64": hashing.XXHash64,
}

func (cli *CLI) fingerprint(doc *value.Map) error {
	sum, err := doc.Fingerprint(hashFuncs[cli.Fingerprint.Hash])
	if err != nil {
		return err
	}

	return cli.println(sum)
}
