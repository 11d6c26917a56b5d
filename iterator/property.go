package iterator

import (
	"fmt"

	"github.com/amp-labs/amp-iterator/assert"
	"github.com/amp-labs/amp-iterator/zero"
)

// Property reads an entry the way a template reads a named field. The name is
// converted to the key type (integer keys parse from decimal text). Unknown
// names, and names that cannot be keys of this container, read as the zero
// value of V; Property never fails.
func (m *OrderedMap[K, V]) Property(name string) V {
	key, ok := parseKey[K](name)
	if !ok {
		return zero.Value[V]()
	}

	return m.GetOrElse(key, zero.Value[V]())
}

// HasProperty reports whether Property(name) would find an entry.
func (m *OrderedMap[K, V]) HasProperty(name string) bool {
	key, ok := parseKey[K](name)

	return ok && m.Has(key)
}

// As looks up key and asserts the stored value to T. It is the typed
// counterpart of Property for containers holding interface values.
//
//	title, err := iterator.As[string](page, "title")
//
// It returns ErrKeyNotFound when the key is absent and an error wrapping
// errors.ErrWrongType when the value has another type.
func As[T any, K Key, V any](m *OrderedMap[K, V], key K) (T, error) {
	value, ok := m.Lookup(key)
	if !ok {
		return zero.Value[T](), fmt.Errorf("%w: %q", ErrKeyNotFound, formatKey(key))
	}

	out, err := assert.Type[T](value)
	if err != nil {
		return out, fmt.Errorf("key %q: %w", formatKey(key), err)
	}

	return out, nil
}
