// Package value provides Value, a small tagged union for heterogeneous
// payloads stored in an iterator.OrderedMap: documents decoded from JSON or
// YAML, configuration trees, template data.
//
// Objects are ordered. A Value is cheap to copy; lists and objects are shared
// between copies until Clone is called.
package value

import (
	"fmt"
	"hash"
	"math"
	"strconv"
	"strings"

	"github.com/amp-labs/amp-iterator/errors"
	"github.com/amp-labs/amp-iterator/iterator"
	"github.com/amp-labs/amp-iterator/optional"
)

// Kind is the type of a Value.
type Kind int

// Kinds, in the order used by UpdateHash.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindObject: "object",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Map is the ordered object representation.
type Map = iterator.OrderedMap[string, Value]

// Value holds one of the kinds above. The zero Value is null.
type Value struct {
	kind Kind
	num  uint64 // bool, int64 or float64 bits
	str  string
	list []Value
	obj  *Map
}

// NullValue returns the null value.
func NullValue() Value {
	return Value{}
}

// BoolValue wraps b.
func BoolValue(b bool) Value {
	var n uint64
	if b {
		n = 1
	}

	return Value{kind: KindBool, num: n}
}

// IntValue wraps i.
func IntValue(i int64) Value {
	return Value{kind: KindInt, num: uint64(i)} //nolint:gosec
}

// FloatValue wraps f.
func FloatValue(f float64) Value {
	return Value{kind: KindFloat, num: math.Float64bits(f)}
}

// StringValue wraps s.
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// ListValue returns a list holding items. The slice is not copied.
func ListValue(items ...Value) Value {
	return Value{kind: KindList, list: items}
}

// ObjectValue returns an object backed by m. A nil m is an empty object.
func ObjectValue(m *Map) Value {
	if m == nil {
		m = iterator.New[string, Value]()
	}

	return Value{kind: KindObject, obj: m}
}

// AnyValue converts a Go value. It accepts nil, booleans, integers, floats,
// strings, []any, map[string]any (keys taken in natural order), ordered maps
// of any or Value, and Value itself. Other types return an error wrapping
// errors.ErrInvalidArgument.
func AnyValue(v any) (Value, error) { //nolint:cyclop
	switch t := v.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return t, nil
	case bool:
		return BoolValue(t), nil
	case int:
		return IntValue(int64(t)), nil
	case int8:
		return IntValue(int64(t)), nil
	case int16:
		return IntValue(int64(t)), nil
	case int32:
		return IntValue(int64(t)), nil
	case int64:
		return IntValue(t), nil
	case uint8:
		return IntValue(int64(t)), nil
	case uint16:
		return IntValue(int64(t)), nil
	case uint32:
		return IntValue(int64(t)), nil
	case float32:
		return FloatValue(float64(t)), nil
	case float64:
		return FloatValue(t), nil
	case string:
		return StringValue(t), nil
	case []Value:
		return ListValue(t...), nil
	case []any:
		items := make([]Value, 0, len(t))

		for idx, item := range t {
			converted, err := AnyValue(item)
			if err != nil {
				return NullValue(), fmt.Errorf("item %d: %w", idx, err)
			}

			items = append(items, converted)
		}

		return ListValue(items...), nil
	case map[string]any:
		return objectFrom(iterator.FromMap(t))
	case *iterator.OrderedMap[string, any]:
		return objectFrom(t)
	case *Map:
		return ObjectValue(t), nil
	default:
		return NullValue(), fmt.Errorf("%w: cannot convert %T to a value", errors.ErrInvalidArgument, v)
	}
}

func objectFrom(m *iterator.OrderedMap[string, any]) (Value, error) {
	out := iterator.WithCapacity[string, Value](m.Count())

	for key, item := range m.Seq() {
		converted, err := AnyValue(item)
		if err != nil {
			return NullValue(), fmt.Errorf("key %q: %w", key, err)
		}

		out.Set(key, converted)
	}

	return ObjectValue(out), nil
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the content of a bool value.
func (v Value) Bool() optional.Value[bool] {
	return optional.FromPair(v.num == 1, v.kind == KindBool)
}

// Int returns the number held by an int value. Floats are not converted.
func (v Value) Int() optional.Value[int64] {
	return optional.FromPair(int64(v.num), v.kind == KindInt) //nolint:gosec
}

// Float returns the number held by a float value. Integers are not converted.
func (v Value) Float() optional.Value[float64] {
	return optional.FromPair(math.Float64frombits(v.num), v.kind == KindFloat)
}

// Text returns the content of a string value. Use String for the printed
// form of any kind.
func (v Value) Text() optional.Value[string] {
	return optional.FromPair(v.str, v.kind == KindString)
}

// List returns the items of a list value. The slice is shared with v.
func (v Value) List() optional.Value[[]Value] {
	return optional.FromPair(v.list, v.kind == KindList)
}

// Object returns the members of an object value, shared with v.
func (v Value) Object() optional.Value[*Map] {
	return optional.FromPair(v.obj, v.kind == KindObject)
}

// Clone returns a deep copy: lists and objects are copied all the way down.
func (v Value) Clone() Value {
	switch v.kind { //nolint:exhaustive
	case KindList:
		items := make([]Value, len(v.list))
		for idx, item := range v.list {
			items[idx] = item.Clone()
		}

		return ListValue(items...)
	case KindObject:
		return ObjectValue(v.obj.Clone())
	default:
		return v
	}
}

// CloneAny implements iterator.AnyCloner, so values stored in a container of
// any are deep-copied by its Clone.
func (v Value) CloneAny() any {
	return v.Clone()
}

// Equals reports whether v and other are strictly equal: same kind and same
// content, with object members compared in order. An int never equals a
// float, and NaN never equals anything.
func (v Value) Equals(other Value) bool { //nolint:cyclop
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindBool, KindInt:
		return v.num == other.num
	case KindFloat:
		return math.Float64frombits(v.num) == math.Float64frombits(other.num)
	case KindString:
		return v.str == other.str
	case KindList:
		if len(v.list) != len(other.list) {
			return false
		}

		for idx := range v.list {
			if !v.list[idx].Equals(other.list[idx]) {
				return false
			}
		}

		return true
	case KindObject:
		if v.obj.Count() != other.obj.Count() {
			return false
		}

		left, right := v.obj.Entries(), other.obj.Entries()
		for idx := range left {
			if left[idx].Key != right[idx].Key || !left[idx].Value.Equals(right[idx].Value) {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// String prints the value the way a template would: null as the empty
// string, scalars in their shortest form, lists and objects as their
// elements joined with ",".
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.num == 1)
	case KindInt:
		return strconv.FormatInt(int64(v.num), 10) //nolint:gosec
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(v.num), 'g', -1, 64)
	case KindString:
		return v.str
	case KindList:
		parts := make([]string, len(v.list))
		for idx, item := range v.list {
			parts[idx] = item.String()
		}

		return strings.Join(parts, ",")
	case KindObject:
		return v.obj.String()
	default:
		return ""
	}
}

// UpdateHash implements hashing.Hashable. The kind is part of the digest, so
// the int 1 and the string "1" hash differently.
func (v Value) UpdateHash(h hash.Hash) error {
	if _, err := h.Write([]byte{byte(v.kind)}); err != nil {
		return err
	}

	switch v.kind { //nolint:exhaustive
	case KindList:
		for _, item := range v.list {
			if err := item.UpdateHash(h); err != nil {
				return err
			}
		}

		return nil
	case KindObject:
		return v.obj.UpdateHash(h)
	default:
		_, err := h.Write([]byte(v.String()))

		return err
	}
}
