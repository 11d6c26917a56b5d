// Package errors holds sentinel errors shared across the module and a small
// accumulator for reporting several failures at once.
package errors

import "errors"

var (
	// ErrWrongType is returned when a stored value does not have the requested type.
	ErrWrongType = errors.New("wrong type")

	// ErrInvalidArgument is returned when an argument is outside the accepted domain.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Collection is a thread-unsafe utility for accumulating multiple errors.
// Use this when several steps must all run (closing a chain of writers, for
// example) and every failure should be reported together.
type Collection struct {
	errors []error
}

// Add appends an error to the collection. Nil errors are ignored.
func (c *Collection) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

// HasError returns true if the collection contains at least one error.
func (c *Collection) HasError() bool {
	return len(c.errors) > 0
}

// GetError returns nil for an empty collection, the single error if there is
// one, or the errors joined with errors.Join.
func (c *Collection) GetError() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}
