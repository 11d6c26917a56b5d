package iterator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash"
	"strings"

	"github.com/amp-labs/amp-iterator/hashing"
	"gopkg.in/yaml.v3"
)

// String joins the values with commas, each formatted with fmt.Sprint.
// The join is flat: a nested container is printed through its own String.
func (m *OrderedMap[K, V]) String() string {
	parts := make([]string, 0, m.Count())

	for _, value := range m.Seq() {
		parts = append(parts, fmt.Sprint(value))
	}

	return strings.Join(parts, ",")
}

// UpdateHash implements hashing.Hashable. The digest covers keys, values and
// their order. Values that are themselves hashing.Hashable contribute through
// UpdateHash, others through fmt.Sprint.
func (m *OrderedMap[K, V]) UpdateHash(h hash.Hash) error {
	for key, value := range m.Seq() {
		if _, err := fmt.Fprintf(h, "%s\x00", formatKey(key)); err != nil {
			return err
		}

		if hv, ok := any(value).(hashing.Hashable); ok {
			if err := hv.UpdateHash(h); err != nil {
				return err
			}
		} else if _, err := fmt.Fprint(h, value); err != nil {
			return err
		}

		if _, err := h.Write([]byte{0x1e}); err != nil {
			return err
		}
	}

	return nil
}

// Fingerprint digests the container with fn, for example hashing.XXH3.
// Two containers with the same entries in the same order share a fingerprint.
func (m *OrderedMap[K, V]) Fingerprint(fn hashing.HashFunc) (string, error) {
	return fn(m)
}

// MarshalJSON encodes the container as a JSON object whose members appear in
// container order. Integer keys become their decimal text. <, > and & are
// written as is.
func (m *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	first := true

	for key, value := range m.Seq() {
		if !first {
			buf.WriteByte(',')
		}

		first = false

		keyJSON, err := marshalJSON(formatKey(key))
		if err != nil {
			return nil, err
		}

		valueJSON, err := marshalJSON(value)
		if err != nil {
			return nil, fmt.Errorf("encoding value of key %q: %w", formatKey(key), err)
		}

		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

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

// UnmarshalJSON replaces the contents with the members of a JSON object, in
// document order. A repeated member follows the Set rule. JSON null yields an
// empty container.
func (m *OrderedMap[K, V]) UnmarshalJSON(data []byte) error {
	m.Clear()

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	if tok == nil {
		return nil
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("%w: found %v", ErrNotMapping, tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}

		text, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: %v", ErrInvalidKey, tok)
		}

		key, ok := parseKey[K](text)
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidKey, text)
		}

		var value V
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decoding value of key %q: %w", text, err)
		}

		m.Set(key, value)
	}

	// Consume the closing brace.
	_, err = dec.Token()

	return err
}

// MarshalYAML encodes the container as a YAML mapping in container order.
func (m *OrderedMap[K, V]) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	keyTag := "!!int"
	if isStringKey[K]() {
		keyTag = "!!str"
	}

	for key, value := range m.Seq() {
		var valueNode yaml.Node
		if err := valueNode.Encode(value); err != nil {
			return nil, fmt.Errorf("encoding value of key %q: %w", formatKey(key), err)
		}

		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: keyTag, Value: formatKey(key)},
			&valueNode)
	}

	return node, nil
}

// UnmarshalYAML replaces the contents with the pairs of a YAML mapping, in
// document order. A null document yields an empty container.
func (m *OrderedMap[K, V]) UnmarshalYAML(node *yaml.Node) error {
	m.Clear()

	for node.Kind == yaml.DocumentNode || node.Kind == yaml.AliasNode {
		if node.Kind == yaml.AliasNode {
			node = node.Alias

			continue
		}

		if len(node.Content) == 0 {
			return nil
		}

		node = node.Content[0]
	}

	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}

	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: line %d", ErrNotMapping, node.Line)
	}

	explicit := make(map[K]struct{}, len(node.Content)/2) //nolint:mnd

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		if keyNode := node.Content[idx]; !isMergeKey(keyNode) {
			key, ok := parseKey[K](keyNode.Value)
			if !ok {
				return fmt.Errorf("%w: %q at line %d", ErrInvalidKey, keyNode.Value, keyNode.Line)
			}

			explicit[key] = struct{}{}
		}
	}

	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		keyNode, valueNode := node.Content[idx], node.Content[idx+1]

		if isMergeKey(keyNode) {
			if err := m.merge(valueNode, explicit); err != nil {
				return err
			}

			continue
		}

		key, _ := parseKey[K](keyNode.Value)

		var value V
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("decoding value of key %q: %w", keyNode.Value, err)
		}

		m.Set(key, value)
	}

	return nil
}

func isMergeKey(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!merge"
}

// merge applies a "<<" value: a mapping or a sequence of mappings. Keys in
// skip, keys already present and keys from earlier mappings take precedence.
func (m *OrderedMap[K, V]) merge(node *yaml.Node, skip map[K]struct{}) error {
	for node.Kind == yaml.AliasNode {
		node = node.Alias
	}

	sources := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		sources = node.Content
	}

	for _, source := range sources {
		for source.Kind == yaml.AliasNode {
			source = source.Alias
		}

		if source.Kind != yaml.MappingNode {
			return fmt.Errorf("%w: merge value at line %d", ErrNotMapping, source.Line)
		}

		from := New[K, V]()
		if err := from.UnmarshalYAML(source); err != nil {
			return err
		}

		for key, value := range from.Seq() {
			if _, ok := skip[key]; ok || m.Has(key) {
				continue
			}

			m.Set(key, value)
		}
	}

	return nil
}
