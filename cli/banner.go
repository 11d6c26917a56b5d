package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"unicode"

	"github.com/amp-labs/amp-iterator/envutil"
	"github.com/amp-labs/amp-iterator/should"
)

const (
	boxTopLeft     = "╒"
	boxBottomLeft  = "└"
	boxTopRight    = "╕"
	boxBottomRight = "┘"
	boxSide        = "│"
	boxTop         = "═"
	boxBottom      = "─"
	ellipsis       = "…"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight

	bannerPadding  = 2
	defaultColumns = 80
)

// BannerAutoWidth draws a banner as wide as the terminal. ITERCTL_NO_BANNER=true
// reduces it to the plain text.
func BannerAutoWidth(ctx context.Context, text string, alignment Alignment) string {
	if envutil.Bool(ctx, "ITERCTL_NO_BANNER", envutil.Default(false)).ValueOrElse(false) {
		return text + "\n"
	}

	_, cols, err := TerminalDimensions()
	if err != nil || cols == 0 {
		cols = defaultColumns
	}

	return Banner(text, int(cols), alignment) //nolint:gosec
}

// Banner draws text, one box row per line, in a box width columns wide.
// Lines too long for the box are cut with an ellipsis.
func Banner(text string, width int, alignment Alignment) string {
	inner := width - bannerPadding
	if inner <= 0 || text == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	rows := make([]string, 0, len(lines)+2) //nolint:mnd

	rows = append(rows, boxTopLeft+strings.Repeat(boxTop, inner)+boxTopRight)

	for _, line := range lines {
		rows = append(rows, boxSide+pad(line, inner, alignment)+boxSide)
	}

	rows = append(rows, boxBottomLeft+strings.Repeat(boxBottom, inner)+boxBottomRight)

	return strings.Join(rows, "\n") + "\n"
}

func countGraphic(s string) int {
	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}
	}

	return count
}

// truncate cuts s to at most n graphic runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if countGraphic(s) <= n {
		return s
	}

	var out strings.Builder

	count := 0

	for _, r := range s {
		if unicode.IsGraphic(r) {
			count++
		}

		if count >= n {
			break
		}

		out.WriteRune(r)
	}

	return out.String() + ellipsis
}

func pad(text string, width int, alignment Alignment) string {
	text = truncate(text, width)
	diff := width - countGraphic(text)

	switch alignment {
	case AlignCenter:
		left := diff / 2 //nolint:mnd

		return strings.Repeat(" ", left) + text + strings.Repeat(" ", diff-left)
	case AlignRight:
		return strings.Repeat(" ", diff) + text
	default:
		return text + strings.Repeat(" ", diff)
	}
}

// TerminalDimensions returns the rows and columns of the controlling terminal.
func TerminalDimensions() (uint, uint, error) {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return 0, 0, err
	}

	defer should.Close(context.Background(), tty, "closing /dev/tty")

	// Prints "rows columns".
	cmd := exec.Command("stty", "size")
	cmd.Stdin = tty

	out, err := cmd.Output()
	if err != nil {
		return 0, 0, err
	}

	return parseDimensions(string(out))
}

var errBadDimensions = errors.New("unexpected stty output")

func parseDimensions(output string) (uint, uint, error) {
	fields := strings.Fields(output)
	if len(fields) != 2 { //nolint:mnd
		return 0, 0, fmt.Errorf("%w: %q", errBadDimensions, output)
	}

	rows, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return 0, 0, err
	}

	cols, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return 0, 0, err
	}

	return uint(rows), uint(cols), nil
}
