//go:build !assertions_disabled

package assert

// True panics unless value is true.
// If the first arg is a string it is used as a format string for the remaining args.
func True(value bool, args ...any) {
	if !value {
		fail(args)
	}
}

// False panics unless value is false.
func False(value bool, args ...any) {
	True(!value, args...)
}

// NotNil panics if value is a nil interface.
func NotNil(value any, args ...any) {
	True(value != nil, args...)
}

// NonNegative panics if n is below zero.
func NonNegative(n int, args ...any) {
	True(n >= 0, args...)
}
