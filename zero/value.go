// Package zero provides the zero value of a type parameter, which is what the
// module hands back when a lookup has nothing to return.
package zero

// Value returns the zero value for type T.
//
// Example:
//
//	var missing = zero.Value[string]()  // ""
//	var none = zero.Value[*Node]()      // nil
func Value[T any]() T {
	var zeroVal T

	return zeroVal
}
