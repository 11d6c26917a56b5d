package iterator

import "slices"

// Clone returns an independent container with the same entries in the same
// order. Values implementing Cloner[V] or AnyCloner are deep-copied through
// those methods; everything else is copied by value, which for pointers,
// slices and maps without a clone method means the clone shares them.
//
// The clone gets its own random source and no cursors.
func (m *OrderedMap[K, V]) Clone() *OrderedMap[K, V] {
	if m == nil {
		return nil
	}

	out := &OrderedMap[K, V]{
		items: make(map[K]V, len(m.items)),
		order: slices.Clone(m.order),
	}

	for key, value := range m.items {
		out.items[key] = cloneValue(value)
	}

	return out
}

// CloneAny implements AnyCloner so containers nested inside other containers
// are deep-copied too.
func (m *OrderedMap[K, V]) CloneAny() any {
	return m.Clone()
}

func cloneValue[V any](value V) V {
	switch c := any(value).(type) {
	case Cloner[V]:
		return c.Clone()
	case AnyCloner:
		if copied, ok := c.CloneAny().(V); ok {
			return copied
		}
	}

	return value
}
