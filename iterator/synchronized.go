package iterator

import (
	"iter"
	"sync"

	"github.com/amp-labs/amp-iterator/optional"
)

// NewSynchronized wraps an OrderedMap for concurrent use. Reads share a
// sync.RWMutex read lock; mutations and transformations take the write lock.
// A nil m wraps a new empty container.
//
// The wrapped container must not be used directly afterwards. Traversals run
// over snapshots (Seq, Snapshot) rather than a shared cursor, so readers never
// observe a half-applied transformation.
//
// Example usage:
//
//	shared := iterator.NewSynchronized(iterator.New[string, int]())
//	shared.Set("hits", 1) // thread-safe
func NewSynchronized[K Key, V any](m *OrderedMap[K, V]) *Synchronized[K, V] {
	if m == nil {
		m = New[K, V]()
	}

	return &Synchronized[K, V]{internal: m}
}

// Synchronized is a lock-guarded OrderedMap.
type Synchronized[K Key, V any] struct {
	mutex    sync.RWMutex      // Protects access to internal
	internal *OrderedMap[K, V] // Underlying container
}

// Get returns the value stored under key, or None.
func (s *Synchronized[K, V]) Get(key K) optional.Value[V] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Get(key)
}

// Has reports whether key is present.
func (s *Synchronized[K, V]) Has(key K) bool {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Has(key)
}

// Count returns the number of entries.
func (s *Synchronized[K, V]) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Count()
}

// Nth returns the value at position index, or None.
func (s *Synchronized[K, V]) Nth(index int) optional.Value[V] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Nth(index)
}

// IndexOf returns the position of the first value strictly equal to needle, or None.
func (s *Synchronized[K, V]) IndexOf(needle V) optional.Value[int] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.IndexOf(needle)
}

// Property reads an entry by property name; see OrderedMap.Property.
func (s *Synchronized[K, V]) Property(name string) V {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Property(name)
}

// Set inserts or overwrites a value.
func (s *Synchronized[K, V]) Set(key K, value V) *Synchronized[K, V] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.internal.Set(key, value)

	return s
}

// Remove deletes key; absent keys are ignored.
func (s *Synchronized[K, V]) Remove(key K) *Synchronized[K, V] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.internal.Remove(key)

	return s
}

// Shuffle randomizes the order of the entries.
func (s *Synchronized[K, V]) Shuffle() *Synchronized[K, V] {
	return s.Update(func(m *OrderedMap[K, V]) { m.Shuffle() })
}

// Slice keeps a range of entries; see OrderedMap.Slice.
func (s *Synchronized[K, V]) Slice(offset, length int) *Synchronized[K, V] {
	return s.Update(func(m *OrderedMap[K, V]) { m.Slice(offset, length) })
}

// Random keeps n random entries; see OrderedMap.Random.
func (s *Synchronized[K, V]) Random(n int) (*Synchronized[K, V], error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	_, err := s.internal.Random(n)

	return s, err
}

// Append merges src with the Set rule. src is read before the lock is taken,
// so a Synchronized may be appended to itself.
func (s *Synchronized[K, V]) Append(src Source[K, V]) *Synchronized[K, V] {
	pending := New[K, V]().Append(src)

	return s.Update(func(m *OrderedMap[K, V]) { m.Append(pending) })
}

// Update runs f with exclusive access to the underlying container, for batches
// that must be applied atomically. f must not retain m.
func (s *Synchronized[K, V]) Update(f func(m *OrderedMap[K, V])) *Synchronized[K, V] {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	f(s.internal)

	return s
}

// Snapshot returns a deep clone of the current contents.
func (s *Synchronized[K, V]) Snapshot() *OrderedMap[K, V] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.Clone()
}

// Seq yields the entries of a snapshot taken when iteration starts.
func (s *Synchronized[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		s.mutex.RLock()
		entries := s.internal.Entries()
		s.mutex.RUnlock()

		for _, entry := range entries {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// String joins the values with commas; see OrderedMap.String.
func (s *Synchronized[K, V]) String() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.internal.String()
}
