package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// ErrUnknownCharset is returned when input is not UTF-8 and neither the
// supplied label nor detection yields a usable decoder.
var ErrUnknownCharset = errors.New("unknown charset")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals

func isUTF8Label(label string) bool {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "utf-8", "utf8":
		return true
	default:
		return false
	}
}

// toUTF8 returns data transcoded to UTF-8 without a byte order mark, plus the
// charset that was applied. A non-empty label is trusted; otherwise valid
// UTF-8 passes through and anything else goes through chardet.
func toUTF8(data []byte, label string) ([]byte, string, error) {
	if label == "" || isUTF8Label(label) {
		if utf8.Valid(data) {
			return bytes.TrimPrefix(data, utf8BOM), "utf-8", nil
		}

		if label != "" {
			return nil, label, fmt.Errorf("%w: input is not valid %s", ErrUnknownCharset, label)
		}

		best, err := chardet.NewTextDetector().DetectBest(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", ErrUnknownCharset, err)
		}

		label = best.Charset
	}

	decoded, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, label, fmt.Errorf("%w: %q: %w", ErrUnknownCharset, label, err)
	}

	out, err := io.ReadAll(decoded)
	if err != nil {
		return nil, label, err
	}

	return bytes.TrimPrefix(out, utf8BOM), label, nil
}
