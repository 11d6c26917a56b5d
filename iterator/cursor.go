package iterator

import (
	"slices"

	"github.com/amp-labs/amp-iterator/optional"
)

// Cursor is a movable position over an OrderedMap, for traversals that need to
// step backwards or peek at the current entry (see Seq for plain loops).
//
// The key order is snapshotted when the cursor starts. Values are read from the
// container on every call, so overwriting a value is visible immediately. When
// the container changes shape (a key added or removed, or the order changed),
// the cursor discards its position and restarts from the first entry before
// carrying out the next call.
//
// A cursor belongs to one goroutine; create one cursor per traversal.
type Cursor[K Key, V any] struct {
	m          *OrderedMap[K, V]
	keys       []K
	pos        int
	generation uint64
}

// Cursor returns a new cursor positioned on the first entry.
func (m *OrderedMap[K, V]) Cursor() *Cursor[K, V] {
	c := &Cursor[K, V]{m: m}
	c.Rewind()

	return c
}

// Rewind moves the cursor to the first entry, taking a fresh snapshot of the
// container's order.
func (c *Cursor[K, V]) Rewind() {
	c.keys = slices.Clone(c.m.order)
	c.pos = 0
	c.generation = c.m.generation.Load()
}

// End moves the cursor to the last entry.
func (c *Cursor[K, V]) End() {
	c.Rewind()
	c.pos = len(c.keys) - 1
}

func (c *Cursor[K, V]) sync() {
	if c.generation != c.m.generation.Load() {
		c.Rewind()
	}
}

// Valid reports whether the cursor is on an entry.
func (c *Cursor[K, V]) Valid() bool {
	c.sync()

	return c.valid()
}

func (c *Cursor[K, V]) valid() bool {
	return c.pos >= 0 && c.pos < len(c.keys)
}

// Current returns the value under the cursor, or None once the cursor has moved
// past either end.
func (c *Cursor[K, V]) Current() optional.Value[V] {
	c.sync()

	if !c.valid() {
		return optional.None[V]()
	}

	return c.m.Get(c.keys[c.pos])
}

// Key returns the key under the cursor, or None once the cursor has moved past
// either end.
func (c *Cursor[K, V]) Key() optional.Value[K] {
	c.sync()

	if !c.valid() {
		return optional.None[K]()
	}

	return optional.Some(c.keys[c.pos])
}

// Next advances the cursor and returns the value at the new position. Moving
// past the last entry returns None and leaves the cursor invalid until Rewind
// or End.
func (c *Cursor[K, V]) Next() optional.Value[V] {
	return c.move(1)
}

// Prev steps the cursor back and returns the value at the new position. Moving
// before the first entry returns None and leaves the cursor invalid until
// Rewind or End.
func (c *Cursor[K, V]) Prev() optional.Value[V] {
	return c.move(-1)
}

func (c *Cursor[K, V]) move(step int) optional.Value[V] {
	c.sync()

	if !c.valid() {
		return optional.None[V]()
	}

	c.pos += step

	return c.Current()
}
