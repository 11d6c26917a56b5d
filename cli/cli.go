// Package cli implements iterctl, a command line tool that loads a JSON or
// YAML document into an ordered container and queries or rearranges it.
//
//	iterctl -i pages.yaml.gz keys
//	iterctl -i https://example.com/site.json --seed demo shuffle
//	cat doc.json | iterctl slice 2 3 -f yaml
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/optional"
	"github.com/amp-labs/amp-iterator/spans"
	"github.com/amp-labs/amp-iterator/telemetry"
	"go.opentelemetry.io/otel"
)

const appName = "iterctl"

// Version is set at build time with -ldflags.
var Version = "dev" //nolint:gochecknoglobals

var errNoCommand = errors.New("no command")

// SetupFunc prepares the context every command runs in. The default one
// configures logging and OpenTelemetry from the environment. level is set
// when --log-level or ITERCTL_LOG_LEVEL was given.
type SetupFunc func(ctx context.Context, level optional.Value[slog.Level]) (context.Context, error)

type CLI struct {
	Input         string `name:"input" short:"i" help:"Document to read: a file path, an http(s) URL, or - for stdin" default:"-" env:"ITERCTL_INPUT" json:"input,omitempty"`
	InputFormat   string `name:"input-format" help:"Input format (json, yaml) when the input name does not tell" env:"ITERCTL_INPUT_FORMAT" json:"input_format,omitempty"`
	Format        string `name:"format" short:"f" help:"Output format (json, yaml); defaults to the input's" env:"ITERCTL_FORMAT" json:"format,omitempty"`
	Output        string `name:"output" short:"o" help:"Write documents to this file instead of stdout; format and compression follow its extensions" json:"output,omitempty"`
	Indent        int    `name:"indent" help:"Indentation of document output, 0 for compact JSON" default:"2" json:"indent,omitempty"`
	Seed          string `name:"seed" help:"Phrase seeding shuffle and random for reproducible output" env:"ITERCTL_SEED" json:"seed,omitempty"`
	NormalizeKeys bool   `name:"normalize-keys" help:"Normalize keys to Unicode NFC while reading" json:"normalize_keys,omitempty"`
	LogLevel      string `name:"log-level" help:"Set log level (debug, info, warn, error); LOG_LEVEL applies when unset" env:"ITERCTL_LOG_LEVEL" json:"log_level,omitempty"`

	Version     struct{}          `cmd:"" help:"Show version" json:"version,omitempty"`
	Show        struct{}          `cmd:"" help:"Print the document" json:"show,omitempty"`
	Count       struct{}          `cmd:"" help:"Print the number of entries" json:"count,omitempty"`
	Keys        struct{}          `cmd:"" help:"Print the keys, one per line" json:"keys,omitempty"`
	Get         GetOption         `cmd:"" help:"Print the value stored under a key" json:"get,omitempty"`
	Nth         NthOption         `cmd:"" help:"Print the value at a position" json:"nth,omitempty"`
	IndexOf     IndexOfOption     `cmd:"" name:"index-of" help:"Print the position of the first value equal to a JSON value" json:"index_of,omitempty"`
	Slice       SliceOption       `cmd:"" help:"Keep a range of entries" json:"slice,omitempty"`
	Shuffle     struct{}          `cmd:"" help:"Put the entries in random order" json:"shuffle,omitempty"`
	Random      RandomOption      `cmd:"" help:"Keep n entries picked at random" json:"random,omitempty"`
	Merge       MergeOption       `cmd:"" help:"Append other documents to the input" json:"merge,omitempty"`
	Str         struct{}          `cmd:"" name:"string" help:"Print the values joined with commas" json:"string,omitempty"`
	Sort        SortOption        `cmd:"" help:"Sort the entries by key" json:"sort,omitempty"`
	Reverse     struct{}          `cmd:"" help:"Reverse the order of the entries" json:"reverse,omitempty"`
	Fingerprint FingerprintOption `cmd:"" help:"Print a digest of the entries in order" json:"fingerprint,omitempty"`
	Browse      struct{}          `cmd:"" help:"Walk the document interactively" json:"browse,omitempty"`

	kctx           *kong.Context
	exitFunc       func(int)
	stdin          io.Reader
	stdout, stderr io.Writer
	setup          SetupFunc
}

type GetOption struct {
	Key string `arg:"" help:"Key to look up" json:"key"`
	Raw bool   `name:"raw" short:"r" help:"Print strings without quotes" json:"raw,omitempty"`
}

type NthOption struct {
	Index int  `arg:"" help:"Zero-based position" json:"index"`
	Raw   bool `name:"raw" short:"r" help:"Print strings without quotes" json:"raw,omitempty"`
}

type IndexOfOption struct {
	Value string `arg:"" help:"Value to search for, as JSON; anything that is not JSON is taken as a string" json:"value"`
	Key   bool   `name:"key" help:"Print the key of the match instead of its position" json:"key,omitempty"`
}

type SliceOption struct {
	Offset int    `arg:"" help:"First position to keep; negative counts from the end" json:"offset"`
	Length string `arg:"" optional:"" help:"Number of entries to keep; negative stops that many before the end" json:"length,omitempty"`
}

type RandomOption struct {
	N int `arg:"" help:"Number of entries to keep" json:"n"`
}

type MergeOption struct {
	Others []string `arg:"" help:"Documents to append, in order" json:"others"`
}

type SortOption struct {
	Values bool `name:"values" help:"Sort by the values' string form instead of the keys" json:"values,omitempty"`
}

type FingerprintOption struct {
	Hash string `name:"hash" help:"Digest to use (sha256, xxh3, xxhash64)" enum:"sha256,xxh3,xxhash64" default:"sha256" json:"hash,omitempty"`
}

func NewCLI() *CLI {
	cli := &CLI{
		exitFunc: os.Exit,
		stdin:    os.Stdin,
		stderr:   os.Stderr,
		stdout:   os.Stdout,
	}
	cli.setup = cli.defaultSetup

	return cli
}

// Writers sets the writers for stdout and stderr. for testing
func (cli *CLI) Writers(stdout, stderr io.Writer) {
	cli.stdout = stdout
	cli.stderr = stderr
}

// Stdin sets the reader used for "-i -". for testing
func (cli *CLI) Stdin(r io.Reader) {
	cli.stdin = r
}

// Exit sets the exit function. for testing
func (cli *CLI) Exit(exitFunc func(int)) {
	cli.exitFunc = exitFunc
}

// Setup replaces the default logging and telemetry setup.
func (cli *CLI) Setup(f SetupFunc) {
	cli.setup = f
}

// Parse parses the command line arguments and returns the command name
func (cli *CLI) Parse(args []string) (string, error) {
	parser, err := kong.New(
		cli,
		kong.Vars{"version": Version},
		kong.Name(appName),
		kong.Description("iterctl queries and rearranges JSON and YAML documents, keeping their key order"),
		kong.UsageOnError(),
		kong.Exit(cli.exitFunc),
		kong.Writers(cli.stdout, cli.stderr),
	)
	if err != nil {
		return "", err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.FatalIfErrorf(err)

		return "", err
	}

	cli.kctx = kctx

	cmdStr := kctx.Command()
	if cmdStr == "" {
		return "", errNoCommand
	}

	cmd := strings.Fields(cmdStr)[0]
	if cmd == "version" {
		_, _ = fmt.Fprintf(cli.stdout, "%s %s\n", appName, Version)
		kctx.Exit(0)
	}

	return cmd, nil
}

// Run parses args and runs the command they name.
func (cli *CLI) Run(ctx context.Context, args []string) error {
	cmd, err := cli.Parse(args)
	if err != nil {
		return err
	}

	level := optional.None[slog.Level]()

	if cli.LogLevel != "" {
		var parsed slog.Level
		if err := parsed.UnmarshalText([]byte(cli.LogLevel)); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}

		level = optional.Some(parsed)
	}

	ctx, err = cli.setup(ctx, level)
	if err != nil {
		return err
	}

	defer func() {
		if err := telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Get(ctx).Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx = logger.With(ctx, "command", cmd)
	logger.Get(ctx).Debug("running command", "input", cli.Input)

	return cli.dispatch(ctx, cmd)
}

func (cli *CLI) defaultSetup(ctx context.Context, level optional.Value[slog.Level]) (context.Context, error) {
	ctx = logger.WithSubsystem(ctx, appName)

	config, err := telemetry.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry config: %w", err)
	}

	handler, err := telemetry.Initialize(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	opts := []logger.Option{logger.WithExtraHandler(handler)}
	if minLevel, ok := logLevel(ctx, level).Get(); ok {
		opts = append(opts, logger.WithMinLevel(minLevel))
	}

	logger.ConfigureLogging(ctx, appName, opts...)

	return spans.WithTracer(ctx, otel.Tracer(appName)), nil
}

// logLevel returns the level to force on the logger: the flag's, none when
// LOG_LEVEL is set, and warn otherwise.
func logLevel(ctx context.Context, flag optional.Value[slog.Level]) optional.Value[slog.Level] {
	if flag.NonEmpty() || envutil.String(ctx, "LOG_LEVEL").HasValue() {
		return flag
	}

	return optional.Some(slog.LevelWarn)
}
