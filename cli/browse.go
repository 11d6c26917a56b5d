package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/amp-labs/amp-iterator/closer"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/logger"
	"github.com/amp-labs/amp-iterator/value"
	"github.com/manifoldco/promptui"
)

const (
	backItem     = "[Back]"
	summaryWidth = 60
	selectSize   = 12
)

type level struct {
	name string
	doc  *value.Map
}

// browseItems lists one line per entry, after the [Back] item.
func browseItems(doc *value.Map) []string {
	items := make([]string, 0, doc.Count()+1)
	items = append(items, backItem)

	for key, val := range doc.Seq() {
		items = append(items, key+": "+summarize(val))
	}

	return items
}

func summarize(val value.Value) string {
	switch val.Kind() {
	case value.KindObject:
		return fmt.Sprintf("{%d keys}", val.Object().GetOrPanic().Count())
	case value.KindList:
		return fmt.Sprintf("[%d items]", len(val.List().GetOrPanic()))
	default:
		data, err := marshalJSON(val)
		if err != nil {
			return val.String()
		}

		return truncate(string(data), summaryWidth)
	}
}

// children returns the container to descend into for an object or a list.
// List items are keyed by position.
func children(val value.Value) (*value.Map, bool) {
	if obj, ok := val.Object().Get(); ok {
		return obj, true
	}

	list, ok := val.List().Get()
	if !ok {
		return nil, false
	}

	out := iterator.WithCapacity[string, value.Value](len(list))
	for idx, item := range list {
		out.Set(strconv.Itoa(idx), item)
	}

	return out, true
}

func breadcrumb(path []level) string {
	names := make([]string, len(path))
	for idx, lvl := range path {
		names[idx] = lvl.name
	}

	return strings.Join(names, " › ")
}

func (cli *CLI) browse(ctx context.Context, doc *value.Map) error {
	stdin := io.NopCloser(cli.stdin)
	stdout := closer.ForWriter(cli.stdout, closer.NewCloser())

	path := []level{{name: cli.Input, doc: doc}}

	for len(path) > 0 {
		current := path[len(path)-1]
		keys := current.doc.Keys()
		items := browseItems(current.doc)

		_, _ = fmt.Fprint(cli.stdout, BannerAutoWidth(ctx, breadcrumb(path), AlignLeft))

		sel := &promptui.Select{
			Label: "Entry",
			Items: items,
			Size:  selectSize,
			Searcher: func(input string, index int) bool {
				if index == 0 || input == "" {
					return false
				}

				return strings.HasPrefix(strings.ToLower(keys[index-1]), strings.ToLower(input))
			},
			Stdin:  stdin,
			Stdout: stdout,
		}

		idx, _, err := sel.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}

		if err != nil {
			return err
		}

		if idx == 0 {
			path = path[:len(path)-1]

			continue
		}

		key := keys[idx-1]
		val := current.doc.Get(key).GetOrPanic()

		if child, ok := children(val); ok {
			logger.Get(ctx).Debug("descending", "key", key, "entries", child.Count())
			path = append(path, level{name: key, doc: child})

			continue
		}

		data, err := marshalJSON(val)
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cli.stdout, "%s = %s\n", key, data)
	}

	return nil
}
