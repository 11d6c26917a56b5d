// Package iterator provides OrderedMap, an insertion-ordered key-value container
// with positional access, search, shuffling, slicing, sampling, merging, deep
// cloning and export.
//
// Absence is never an error: Get, Nth, IndexOf and cursor moves return an
// optional.Value that is None when there is nothing to return.
//
// An OrderedMap is not safe for concurrent use. Wrap it with NewSynchronized, or
// guard it with your own lock, when several goroutines share it.
package iterator

import (
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/amp-labs/amp-iterator/assert"
	"github.com/amp-labs/amp-iterator/compare"
	"github.com/amp-labs/amp-iterator/hashing"
	"github.com/amp-labs/amp-iterator/optional"
	"github.com/amp-labs/amp-iterator/zero"
	"go.uber.org/atomic"
)

// OrderedMap is a mutable, insertion-ordered mapping from K to V.
//
// Re-setting an existing key replaces its value in place; new keys go to the
// end. Operations that reorder or reshape the container (Shuffle, Slice,
// Random, Append, Remove, ...) advance its generation, which makes every open
// Cursor restart from the first entry.
//
// The zero value is an empty map ready to use.
type OrderedMap[K Key, V any] struct {
	items      map[K]V       // Values indexed by key
	order      []K           // Keys in iteration order
	generation atomic.Uint64 // Bumped on every change to the key set or its order
	rnd        *rand.Rand    // Source for Shuffle and Random, created lazily
}

// New creates an OrderedMap holding copies of the given entries, in order.
// A key repeated in entries keeps its first position and its last value.
func New[K Key, V any](entries ...KeyValuePair[K, V]) *OrderedMap[K, V] {
	m := WithCapacity[K, V](len(entries))

	for _, entry := range entries {
		m.Set(entry.Key, entry.Value)
	}

	return m
}

// WithCapacity creates an empty OrderedMap with room for size entries.
func WithCapacity[K Key, V any](size int) *OrderedMap[K, V] {
	assert.NonNegative(size, "iterator: negative capacity %d", size)

	return &OrderedMap[K, V]{
		items: make(map[K]V, size),
		order: make([]K, 0, size),
	}
}

// FromMap copies a Go map. Go maps carry no order, so the keys are taken in
// natural order: numerically for integer keys, and for string keys with
// embedded numbers compared by value ("v2" before "v10").
func FromMap[K Key, V any](from map[K]V) *OrderedMap[K, V] {
	keys := make([]K, 0, len(from))
	for key := range from {
		keys = append(keys, key)
	}

	sortNatural(keys)

	m := WithCapacity[K, V](len(keys))
	for _, key := range keys {
		m.Set(key, from[key])
	}

	return m
}

// FromSeq copies the pairs produced by seq, in order.
func FromSeq[K Key, V any](seq iter.Seq2[K, V]) *OrderedMap[K, V] {
	m := New[K, V]()

	for key, value := range seq {
		m.Set(key, value)
	}

	return m
}

func (m *OrderedMap[K, V]) init() {
	if m.items == nil {
		m.items = make(map[K]V)
	}
}

// touch records a change in shape so cursors restart.
func (m *OrderedMap[K, V]) touch() {
	m.generation.Inc()
}

// Get returns the value stored under key, or None if the key is absent.
func (m *OrderedMap[K, V]) Get(key K) optional.Value[V] {
	return optional.FromPair(m.Lookup(key))
}

// Lookup returns the value stored under key and whether it was present.
func (m *OrderedMap[K, V]) Lookup(key K) (V, bool) {
	if m == nil {
		return zero.Value[V](), false
	}

	value, ok := m.items[key]

	return value, ok
}

// GetOrElse returns the value stored under key, or defaultValue if absent.
func (m *OrderedMap[K, V]) GetOrElse(key K, defaultValue V) V {
	return m.Get(key).GetOrElse(defaultValue)
}

// Set inserts or overwrites a value. An existing key keeps its position; a new
// key is appended at the end.
func (m *OrderedMap[K, V]) Set(key K, value V) *OrderedMap[K, V] {
	m.init()

	if _, exists := m.items[key]; !exists {
		m.order = append(m.order, key)
		m.touch()
	}

	m.items[key] = value

	return m
}

// Has reports whether key is present.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.Lookup(key)

	return ok
}

// Remove deletes key. Removing an absent key is a no-op.
// This is O(n) because the key has to be found in the order slice.
func (m *OrderedMap[K, V]) Remove(key K) *OrderedMap[K, V] {
	if !m.Has(key) {
		return m
	}

	delete(m.items, key)

	if idx := slices.Index(m.order, key); idx >= 0 {
		m.order = slices.Delete(m.order, idx, idx+1)
	}

	m.touch()

	return m
}

// Clear removes every entry.
func (m *OrderedMap[K, V]) Clear() *OrderedMap[K, V] {
	m.items = make(map[K]V)
	m.order = nil
	m.touch()

	return m
}

// Count returns the number of entries.
func (m *OrderedMap[K, V]) Count() int {
	if m == nil {
		return 0
	}

	return len(m.order)
}

// Seq yields every entry in order, for use with range-over-func:
//
//	for key, value := range m.Seq() { ... }
//
// Mutating the container while ranging over it is the caller's responsibility;
// use a Cursor when the container may change mid-traversal.
func (m *OrderedMap[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		if m == nil {
			return
		}

		for _, key := range m.order {
			if !yield(key, m.items[key]) {
				return
			}
		}
	}
}

// Keys returns a copy of the keys, in order.
func (m *OrderedMap[K, V]) Keys() []K {
	if m == nil {
		return nil
	}

	return slices.Clone(m.order)
}

// Values returns the values, in order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, m.Count())

	for _, value := range m.Seq() {
		values = append(values, value)
	}

	return values
}

// Entries returns an ordered snapshot of the container. It is the export form
// used by serializers; New(m.Entries()...) rebuilds an equal container.
func (m *OrderedMap[K, V]) Entries() []KeyValuePair[K, V] {
	entries := make([]KeyValuePair[K, V], 0, m.Count())

	for key, value := range m.Seq() {
		entries = append(entries, KeyValuePair[K, V]{Key: key, Value: value})
	}

	return entries
}

// ToMap returns the entries as a plain Go map. The order is lost.
func (m *OrderedMap[K, V]) ToMap() map[K]V {
	out := make(map[K]V, m.Count())

	for key, value := range m.Seq() {
		out[key] = value
	}

	return out
}

// Nth returns the value at 0-based position index, or None if index is out of range.
func (m *OrderedMap[K, V]) Nth(index int) optional.Value[V] {
	if index < 0 || index >= m.Count() {
		return optional.None[V]()
	}

	return m.Get(m.order[index])
}

// First returns the first entry, or None when empty.
func (m *OrderedMap[K, V]) First() optional.Value[KeyValuePair[K, V]] {
	return m.entryAt(0)
}

// Last returns the last entry, or None when empty.
func (m *OrderedMap[K, V]) Last() optional.Value[KeyValuePair[K, V]] {
	return m.entryAt(m.Count() - 1)
}

func (m *OrderedMap[K, V]) entryAt(index int) optional.Value[KeyValuePair[K, V]] {
	if index < 0 || index >= m.Count() {
		return optional.None[KeyValuePair[K, V]]()
	}

	key := m.order[index]

	return optional.Some(KeyValuePair[K, V]{Key: key, Value: m.items[key]})
}

// IndexOf returns the position of the first value strictly equal to needle, or
// None. The result is a position, not a key; see KeyOf for the key.
//
// Values implementing compare.Comparable[V] decide equality themselves. Other
// values compare with ==, without conversions between dynamic types; values of
// uncomparable types (slices, maps) never match.
func (m *OrderedMap[K, V]) IndexOf(needle V) optional.Value[int] {
	idx := 0

	for _, value := range m.Seq() {
		if compare.Strict(value, needle) {
			return optional.Some(idx)
		}

		idx++
	}

	return optional.None[int]()
}

// KeyOf returns the key of the first value strictly equal to needle, or None.
func (m *OrderedMap[K, V]) KeyOf(needle V) optional.Value[K] {
	return optional.Map(m.IndexOf(needle), func(idx int) K {
		return m.order[idx]
	})
}

// SetRandSource replaces the random source used by Shuffle and Random.
// Pass a seeded source for reproducible results.
func (m *OrderedMap[K, V]) SetRandSource(src rand.Source) *OrderedMap[K, V] {
	m.rnd = rand.New(src) //nolint:gosec

	return m
}

// SeedFromPhrase seeds Shuffle and Random from a phrase: the same phrase over
// the same entries always produces the same result.
func (m *OrderedMap[K, V]) SeedFromPhrase(phrase string) *OrderedMap[K, V] {
	return m.SetRandSource(rand.NewPCG(hashing.Seed(phrase)))
}

func (m *OrderedMap[K, V]) random() *rand.Rand {
	if m.rnd == nil {
		m.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec
	}

	return m.rnd
}
