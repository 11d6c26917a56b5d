package codec

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
)

// ErrUnknownFormat is returned for a format name, extension or media type
// that codec cannot read or write.
var ErrUnknownFormat = errors.New("unknown document format")

// Format is a document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Extension returns the file extension written for the format.
func (f Format) Extension() string {
	return "." + string(f)
}

// ParseFormat accepts json, yaml and yml in any case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// FormatFromPath detects the format from the extension of name. Call it
// on the name left after stripping any compression extension.
func FormatFromPath(name string) (Format, bool) {
	ext := path.Ext(name)
	if ext == "" {
		return "", false
	}

	format, err := ParseFormat(ext[1:])
	if err != nil {
		return "", false
	}

	return format, true
}

// FormatFromMediaType maps a Content-Type value to a format and returns the
// charset parameter, if any.
func FormatFromMediaType(contentType string) (Format, string, bool) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", false
	}

	charset := params["charset"]

	switch {
	case mediaType == "application/json", strings.HasSuffix(mediaType, "+json"):
		return FormatJSON, charset, true
	case mediaType == "application/yaml", mediaType == "application/x-yaml",
		mediaType == "text/yaml", mediaType == "text/x-yaml", strings.HasSuffix(mediaType, "+yaml"):
		return FormatYAML, charset, true
	default:
		return "", charset, false
	}
}
