// Package closer chains io.Closer values so that layered streams (a
// decompressor over a file, an encoder over a compressor) are released in
// order with every failure reported.
package closer

import (
	"io"
	"sync"

	"github.com/amp-labs/amp-iterator/errors"
)

type customCloser struct {
	closeFn func() error
}

// CustomCloser creates an io.Closer from a cleanup function.
// Returns nil if closeFn is nil.
func CustomCloser(closeFn func() error) io.Closer {
	if closeFn == nil {
		return nil
	}

	return &customCloser{closeFn: closeFn}
}

func (c *customCloser) Close() error {
	return c.closeFn()
}

// Closer collects io.Closer instances and closes them all at once, in the
// order they were added. Add the innermost layer of a stream first:
//
//	c := closer.NewCloser()
//	c.Add(decoder) // flushes first
//	c.Add(file)    // then releases the descriptor
//	defer c.Close()
//
// Closer is not safe for concurrent use.
type Closer struct {
	closers []io.Closer
}

// NewCloser creates a Closer with zero or more initial closers.
func NewCloser(closers ...io.Closer) *Closer {
	return &Closer{closers: closers}
}

// Add appends a closer. Nil closers are skipped by Close.
func (c *Closer) Add(closer io.Closer) {
	c.closers = append(c.closers, closer)
}

// Close closes every registered closer, even after a failure, and returns
// the collected errors.
func (c *Closer) Close() error {
	var errs errors.Collection

	for _, closer := range c.closers {
		if closer != nil {
			errs.Add(closer.Close())
		}
	}

	return errs.GetError()
}

type closeOnce struct {
	mut    sync.Mutex
	closed bool
	closer io.Closer
}

// CloseOnce wraps closer so that only the first successful Close reaches it.
// A failed Close is not remembered and may be retried. Returns nil for a nil
// closer and the argument itself when it is already wrapped.
func CloseOnce(closer io.Closer) io.Closer {
	if closer == nil {
		return nil
	}

	if once, ok := closer.(*closeOnce); ok {
		return once
	}

	return &closeOnce{closer: closer}
}

func (c *closeOnce) Close() error {
	c.mut.Lock()
	defer c.mut.Unlock()

	if c.closed {
		return nil
	}

	if err := c.closer.Close(); err != nil {
		return err
	}

	c.closed = true

	return nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

// ForReader pairs a reader with the closer that releases it and everything
// beneath it.
func ForReader(r io.Reader, c io.Closer) io.ReadCloser {
	return &readCloser{Reader: r, Closer: c}
}

type writeCloser struct {
	io.Writer
	io.Closer
}

// ForWriter pairs a writer with the closer that flushes it and everything
// beneath it.
func ForWriter(w io.Writer, c io.Closer) io.WriteCloser {
	return &writeCloser{Writer: w, Closer: c}
}
