package codec

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/amp-labs/amp-iterator/errors"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/should"
	"github.com/amp-labs/amp-iterator/value"
)

// IsURL reports whether location is an http or https URL rather than a path.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// Load reads a document from a file path or an http(s) URL.
func Load(ctx context.Context, location string, opts Options) (*value.Map, error) {
	if IsURL(location) {
		return Fetch(ctx, location, opts)
	}

	return LoadFile(ctx, location, opts)
}

// LoadFile reads the document at name. Unset options are detected from the
// name's extensions.
func LoadFile(ctx context.Context, name string, opts Options) (*value.Map, error) {
	opts = opts.ForPath(name).withDefaults()

	file, err := os.Open(name)
	if err != nil {
		return nil, logger.AnnotateError(err, "path", name)
	}

	defer should.Close(ctx, file, "closing input file")

	m, err := Decode(logger.With(ctx, "path", name), file, opts)
	if err != nil {
		return nil, logger.AnnotateError(fmt.Errorf("decoding %s: %w", name, err),
			"path", name, "format", opts.Format, "compression", opts.Compression)
	}

	return m, nil
}

// SaveFile writes m to name, creating or truncating it. Unset options are
// detected from the name's extensions.
func SaveFile(ctx context.Context, name string, m *value.Map, opts Options) error {
	opts = opts.ForPath(name).withDefaults()

	file, err := os.Create(name)
	if err != nil {
		return logger.AnnotateError(err, "path", name)
	}

	var errs errors.Collection

	errs.Add(Encode(logger.With(ctx, "path", name), file, m, opts))
	errs.Add(file.Close())

	if err := errs.GetError(); err != nil {
		return logger.AnnotateError(fmt.Errorf("writing %s: %w", name, err),
			"path", name, "format", opts.Format, "compression", opts.Compression)
	}

	return nil
}
