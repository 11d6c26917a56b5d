package codec

import (
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/value"
	"golang.org/x/text/unicode/norm"
)

// NormalizeKeys returns a copy of m whose object keys, at every depth, are
// in Unicode normalization form C. Keys that collapse to the same form follow
// the Set rule: the first position is kept and the later value wins.
func NormalizeKeys(m *value.Map) *value.Map {
	out := iterator.WithCapacity[string, value.Value](m.Count())

	for key, val := range m.Seq() {
		out.Set(norm.NFC.String(key), normalizeValue(val))
	}

	return out
}

func normalizeValue(v value.Value) value.Value {
	switch v.Kind() { //nolint:exhaustive
	case value.KindObject:
		return value.ObjectValue(NormalizeKeys(v.Object().GetOrPanic()))
	case value.KindList:
		items := v.List().GetOrPanic()

		out := make([]value.Value, len(items))
		for i, item := range items {
			out[i] = normalizeValue(item)
		}

		return value.ListValue(out...)
	default:
		return v
	}
}
