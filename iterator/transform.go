package iterator

import (
	"fmt"
	"iter"
	"slices"

	"github.com/amp-labs/amp-iterator/assert"
)

// The operations below rearrange the container in place and return it, so they
// chain:
//
//	m.Shuffle().Slice(0, 3)
//
// Each one validates its arguments before touching any entry.

// Shuffle puts the entries in a uniformly random order. Keys travel with their values.
func (m *OrderedMap[K, V]) Shuffle() *OrderedMap[K, V] {
	m.random().Shuffle(len(m.order), func(i, j int) {
		m.order[i], m.order[j] = m.order[j], m.order[i]
	})

	m.touch()

	return m
}

// Slice keeps length entries starting at offset, with the semantics of PHP's
// array_slice: a negative offset counts from the end, a negative length stops
// that many entries before the end, and ranges running past either end are
// clipped. Keys are kept.
func (m *OrderedMap[K, V]) Slice(offset, length int) *OrderedMap[K, V] {
	start, end := sliceBounds(len(m.order), offset, length, true)

	return m.keep(start, end)
}

// SliceFrom keeps every entry from offset to the end. A negative offset counts
// from the end.
func (m *OrderedMap[K, V]) SliceFrom(offset int) *OrderedMap[K, V] {
	start, end := sliceBounds(len(m.order), offset, 0, false)

	return m.keep(start, end)
}

func sliceBounds(count, offset, length int, hasLength bool) (int, int) {
	if offset > count {
		return count, count
	}

	if offset < 0 {
		offset = max(count+offset, 0)
	}

	switch {
	case !hasLength:
		length = count - offset
	case length < 0:
		length = count - offset + length
	case offset+length > count:
		length = count - offset
	}

	if length <= 0 {
		return offset, offset
	}

	return offset, offset + length
}

func (m *OrderedMap[K, V]) keep(start, end int) *OrderedMap[K, V] {
	for _, key := range m.order[:start] {
		delete(m.items, key)
	}

	for _, key := range m.order[end:] {
		delete(m.items, key)
	}

	m.order = slices.Clone(m.order[start:end])
	m.touch()

	return m
}

// Random keeps n distinct entries picked uniformly at random and drops the
// rest. The survivors keep their original relative order.
//
// Asking for fewer than one entry, or for more entries than the container
// holds, returns ErrInvalidSampleSize and leaves the container unchanged.
func (m *OrderedMap[K, V]) Random(n int) (*OrderedMap[K, V], error) {
	count := m.Count()
	if n < 1 || n > count {
		return m, fmt.Errorf("%w: asked for %d of %d entries", ErrInvalidSampleSize, n, count)
	}

	picked := make([]bool, count)
	for _, idx := range m.random().Perm(count)[:n] {
		picked[idx] = true
	}

	kept := make([]K, 0, n)

	for idx, key := range m.order {
		if picked[idx] {
			kept = append(kept, key)
		} else {
			delete(m.items, key)
		}
	}

	m.order = kept
	m.touch()

	return m, nil
}

// Append merges src into the container with the same rule as Set: keys already
// present keep their position and take the new value, new keys are added at
// the end in src's order. Passing another OrderedMap (even the container
// itself) is allowed.
//
// A nil src is a programming error and panics.
func (m *OrderedMap[K, V]) Append(src Source[K, V]) *OrderedMap[K, V] {
	assert.NotNil(src, "iterator: Append called with a nil source")

	return m.AppendSeq(src.Seq())
}

// AppendSeq merges the pairs produced by seq, as Append does.
func (m *OrderedMap[K, V]) AppendSeq(seq iter.Seq2[K, V]) *OrderedMap[K, V] {
	assert.True(seq != nil, "iterator: AppendSeq called with a nil sequence")

	// Collect first: seq may be reading from m itself.
	var pending []KeyValuePair[K, V]
	for key, value := range seq {
		pending = append(pending, KeyValuePair[K, V]{Key: key, Value: value})
	}

	for _, entry := range pending {
		m.Set(entry.Key, entry.Value)
	}

	m.touch()

	return m
}

// AppendMap merges a Go map as Append does. New keys are added in natural order.
func (m *OrderedMap[K, V]) AppendMap(from map[K]V) *OrderedMap[K, V] {
	return m.Append(FromMap(from))
}

// Reverse inverts the order of the entries.
func (m *OrderedMap[K, V]) Reverse() *OrderedMap[K, V] {
	slices.Reverse(m.order)
	m.touch()

	return m
}

// Filter keeps only the entries for which keep returns true, in their current order.
func (m *OrderedMap[K, V]) Filter(keep func(key K, value V) bool) *OrderedMap[K, V] {
	m.order = slices.DeleteFunc(m.order, func(key K) bool {
		if keep(key, m.items[key]) {
			return false
		}

		delete(m.items, key)

		return true
	})

	m.touch()

	return m
}

// Sort orders the entries with cmp, which follows the slices.SortFunc contract.
// The sort is stable, so entries cmp considers equal keep their relative order.
func (m *OrderedMap[K, V]) Sort(cmp func(a, b KeyValuePair[K, V]) int) *OrderedMap[K, V] {
	entries := m.Entries()
	slices.SortStableFunc(entries, cmp)

	for idx, entry := range entries {
		m.order[idx] = entry.Key
	}

	m.touch()

	return m
}

// SortKeys orders the entries by key: numerically for integer keys, and in
// natural order for string keys ("page2" before "page10").
func (m *OrderedMap[K, V]) SortKeys() *OrderedMap[K, V] {
	sortNatural(m.order)
	m.touch()

	return m
}
