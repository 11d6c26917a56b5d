//go:build assertions_disabled

package assert

// True is a no-op when built with the assertions_disabled tag.
func True(value bool, args ...any) {}

// False is a no-op when built with the assertions_disabled tag.
func False(value bool, args ...any) {}

// NotNil is a no-op when built with the assertions_disabled tag.
func NotNil(value any, args ...any) {}

// NonNegative is a no-op when built with the assertions_disabled tag.
func NonNegative(n int, args ...any) {}
