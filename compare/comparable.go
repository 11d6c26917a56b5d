// Package compare provides utilities for comparing values.
package compare

import "reflect"

// Comparable is a generic interface for types that can compare themselves for equality.
// Types implementing this interface must provide their own Equals method that determines
// whether two values are equal according to the type's semantics.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}

// Strict reports whether a and b are identical without any coercion.
//
// If T implements Comparable[T], its Equals method decides. Otherwise the values are
// compared with == when their dynamic type is comparable, so pointers compare by identity
// and an int never equals a float64 holding the same number. Values whose dynamic type is
// not comparable (slices, maps, funcs) are never equal to anything, including themselves.
func Strict[T any](a, b T) bool {
	if c, ok := any(a).(Comparable[T]); ok {
		return c.Equals(b)
	}

	left, right := any(a), any(b)

	if left == nil || right == nil {
		return left == nil && right == nil
	}

	lt, rt := reflect.TypeOf(left), reflect.TypeOf(right)
	if lt != rt || !lt.Comparable() {
		return false
	}

	// Arrays and structs report Comparable but may still hold interface fields
	// with uncomparable dynamic values.
	defer func() {
		_ = recover()
	}()

	return left == right
}
