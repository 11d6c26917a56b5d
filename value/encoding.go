package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/amp-labs/amp-iterator/errors"
	"github.com/amp-labs/amp-iterator/iterator"
	"gopkg.in/yaml.v3"
)

// marshalJSON is json.Marshal without HTML escaping.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// MarshalJSON encodes v; objects keep their member order. HTML characters
// are not escaped.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return marshalJSON(v.num == 1)
	case KindInt:
		return marshalJSON(int64(v.num)) //nolint:gosec
	case KindFloat:
		return marshalJSON(math.Float64frombits(v.num))
	case KindString:
		return marshalJSON(v.str)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}

		return marshalJSON(v.list)
	case KindObject:
		return v.obj.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown kind %v", v.kind)
	}
}

// UnmarshalJSON decodes any JSON document. Numbers without a fraction or
// exponent that fit in an int64 become ints; all other numbers become floats.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("%w: empty JSON value", errors.ErrInvalidArgument)
	}

	switch data[0] {
	case 'n':
		*v = NullValue()

		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}

		*v = BoolValue(b)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*v = StringValue(s)
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}

		*v = ListValue(items...)
	case '{':
		obj := iterator.New[string, Value]()
		if err := obj.UnmarshalJSON(data); err != nil {
			return err
		}

		*v = ObjectValue(obj)
	default:
		return v.unmarshalNumber(data)
	}

	return nil
}

func (v *Value) unmarshalNumber(data []byte) error {
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}

	if i, err := number.Int64(); err == nil {
		*v = IntValue(i)

		return nil
	}

	f, err := number.Float64()
	if err != nil {
		return err
	}

	*v = FloatValue(f)

	return nil
}

// MarshalYAML encodes v; objects become mappings in member order.
func (v Value) MarshalYAML() (any, error) {
	switch v.kind {
	case KindNull:
		return nil, nil //nolint:nilnil
	case KindBool:
		return v.num == 1, nil
	case KindInt:
		return int64(v.num), nil //nolint:gosec
	case KindFloat:
		return math.Float64frombits(v.num), nil
	case KindString:
		return v.str, nil
	case KindList:
		if v.list == nil {
			return []Value{}, nil
		}

		return v.list, nil
	case KindObject:
		return v.obj.MarshalYAML()
	default:
		return nil, fmt.Errorf("unknown kind %v", v.kind)
	}
}

// UnmarshalYAML decodes any YAML node. Scalars follow their resolved tag:
// !!null, !!bool, !!int and !!float map to the matching kind, everything
// else (including timestamps) is kept as a string.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			*v = NullValue()

			return nil
		}

		return v.UnmarshalYAML(node.Content[0])
	case yaml.AliasNode:
		return v.UnmarshalYAML(node.Alias)
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for idx, child := range node.Content {
			if err := items[idx].UnmarshalYAML(child); err != nil {
				return err
			}
		}

		*v = ListValue(items...)

		return nil
	case yaml.MappingNode:
		obj := iterator.New[string, Value]()
		if err := obj.UnmarshalYAML(node); err != nil {
			return err
		}

		*v = ObjectValue(obj)

		return nil
	case yaml.ScalarNode:
		return v.unmarshalScalar(node)
	default:
		return fmt.Errorf("unsupported YAML node kind %d at line %d", node.Kind, node.Line)
	}
}

func (v *Value) unmarshalScalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		*v = NullValue()
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}

		*v = BoolValue(b)
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			// Out of int64 range.
			var f float64
			if ferr := node.Decode(&f); ferr != nil {
				return err
			}

			*v = FloatValue(f)

			return nil
		}

		*v = IntValue(i)
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return err
		}

		*v = FloatValue(f)
	default:
		*v = StringValue(node.Value)
	}

	return nil
}
