package iterator

import (
	"errors"
	"iter"
)

var (
	// ErrInvalidSampleSize is returned by Random when the requested number of
	// entries is below one or larger than the number of entries available.
	ErrInvalidSampleSize = errors.New("invalid sample size")

	// ErrKeyNotFound is returned by As when the key is absent.
	ErrKeyNotFound = errors.New("key not found")

	// ErrInvalidKey is returned when decoding meets a key that cannot be
	// represented as the container's key type.
	ErrInvalidKey = errors.New("invalid key")

	// ErrNotMapping is returned when decoding a document whose top level is not
	// a mapping.
	ErrNotMapping = errors.New("document is not a mapping")
)

// Key is the set of types usable as container keys: strings and integers.
type Key interface {
	~string | ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// KeyValuePair is one entry of an OrderedMap.
type KeyValuePair[K Key, V any] struct {
	Key   K
	Value V
}

// Pair is shorthand for building a KeyValuePair, mostly useful with New:
//
//	m := iterator.New(iterator.Pair("a", 1), iterator.Pair("b", 2))
func Pair[K Key, V any](key K, value V) KeyValuePair[K, V] {
	return KeyValuePair[K, V]{Key: key, Value: value}
}

// Source is anything that can be appended to an OrderedMap. An OrderedMap is
// itself a Source, so one container can be merged into another directly.
type Source[K Key, V any] interface {
	Seq() iter.Seq2[K, V]
}

// Cloner is implemented by values that know how to deep-copy themselves.
// Clone uses it so that mutating a cloned container's nested values never
// reaches the original.
type Cloner[T any] interface {
	Clone() T
}

// AnyCloner is the untyped counterpart of Cloner, for values stored behind an
// interface type such as any. OrderedMap implements it, which makes nested
// containers clone recursively.
type AnyCloner interface {
	CloneAny() any
}
