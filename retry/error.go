package retry

// Error is the type returned by Abort. Temporary reports false.
type Error interface {
	Temporary() bool
	error
}

type permanentError struct {
	error
}

func (e *permanentError) Temporary() bool { return false }

func (e *permanentError) Unwrap() error {
	return e.error
}

// Abort marks err as permanent. Do returns err itself, unwrapped, without
// trying again.
func Abort(err error) Error {
	return &permanentError{err}
}
