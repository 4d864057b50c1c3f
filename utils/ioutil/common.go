// Package ioutil implements some I/O utility functions.
package ioutil

import (
	"bytes"
	"errors"
	"io"
)

// ErrEmptyReader is returned by NonEmptyReader when the given reader has
// no content at all.
var ErrEmptyReader = errors.New("reader is empty")

// NonEmptyReader peeks a single byte from r to determine whether it has
// any content, returning ErrEmptyReader if it does not. On success the
// returned reader yields exactly the same bytes r would have.
func NonEmptyReader(r io.Reader) (io.Reader, error) {
	var first [1]byte
	n, err := io.ReadFull(r, first[:])
	if n == 0 {
		if err == io.EOF {
			return nil, ErrEmptyReader
		}
		return nil, err
	}

	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	return io.MultiReader(bytes.NewReader(first[:n]), r), nil
}

// Peeker is an interface for types that can peek at the next bytes.
type Peeker interface {
	Peek(int) ([]byte, error)
}

// ReadPeeker is an interface that groups the basic Read and Peek methods.
type ReadPeeker interface {
	io.Reader
	Peeker
}

type (
	CloserFunc func() error
	WriterFunc func([]byte) (int, error)
	ReaderFunc func([]byte) (int, error)
)

func (f CloserFunc) Close() error                { return f() }
func (f WriterFunc) Write(p []byte) (int, error) { return f(p) }
func (f ReaderFunc) Read(p []byte) (int, error)  { return f(p) }

var (
	_ io.Closer = CloserFunc(nil)
	_ io.Writer = WriterFunc(nil)
	_ io.Reader = ReaderFunc(nil)
)

type multiCloser struct{ closers []io.Closer }

func (mc *multiCloser) Close() error {
	var errs []error

	for _, c := range mc.closers {
		if c == nil {
			continue
		}

		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// MultiCloser returns a closer that sequentailly closes
// given closers. The errors are merged via [errors.Join].
func MultiCloser(closers ...io.Closer) io.Closer {
	return &multiCloser{closers: closers}
}

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r *readCloser) Close() error {
	return r.closer.Close()
}

// NewReadCloser creates an `io.ReadCloser` with the given `io.Reader` and
// `io.Closer`.
func NewReadCloser(r io.Reader, c io.Closer) io.ReadCloser {
	return &readCloser{Reader: r, closer: c}
}

type writeCloser struct {
	io.Writer
	closer io.Closer
}

func (r *writeCloser) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// NewWriteCloser creates an `io.WriteCloser` with the given `io.Writer` and
// `io.Closer`.
func NewWriteCloser(w io.Writer, c io.Closer) io.WriteCloser {
	return &writeCloser{Writer: w, closer: c}
}

type writeNopCloser struct {
	io.Writer
}

func (writeNopCloser) Close() error { return nil }

// WriteNopCloser returns a WriteCloser with a no-op Close method wrapping
// the provided Writer w.
func WriteNopCloser(w io.Writer) io.WriteCloser {
	return writeNopCloser{w}
}

// CheckClose calls Close on the given io.Closer. If the given *error points to
// nil, it will be assigned the error returned by Close. Otherwise, any error
// returned by Close will be ignored. CheckClose is usually called with defer.
func CheckClose(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}

type writeCloserOnError struct {
	io.WriteCloser
	onError func(error)
}

func (w *writeCloserOnError) Write(p []byte) (int, error) {
	n, err := w.WriteCloser.Write(p)
	if err != nil && w.onError != nil {
		w.onError(err)
	}
	return n, err
}

func (w *writeCloserOnError) Close() error {
	err := w.WriteCloser.Close()
	if err != nil && w.onError != nil {
		w.onError(err)
	}
	return err
}

// NewWriteCloserOnError returns a WriteCloser that calls onError each
// time a Write or Close call on w returns a non-nil error.
func NewWriteCloserOnError(w io.WriteCloser, onError func(error)) io.WriteCloser {
	return &writeCloserOnError{WriteCloser: w, onError: onError}
}

type readCloserOnError struct {
	io.ReadCloser
	onError func(error)
}

func (r *readCloserOnError) Read(p []byte) (int, error) {
	n, err := r.ReadCloser.Read(p)
	if err != nil && err != io.EOF && r.onError != nil {
		r.onError(err)
	}
	return n, err
}

func (r *readCloserOnError) Close() error {
	err := r.ReadCloser.Close()
	if err != nil && r.onError != nil {
		r.onError(err)
	}
	return err
}

// NewReadCloserOnError returns a ReadCloser that calls onError each time
// a Read or Close call on r returns a non-nil error other than io.EOF
// from Read.
func NewReadCloserOnError(r io.ReadCloser, onError func(error)) io.ReadCloser {
	return &readCloserOnError{ReadCloser: r, onError: onError}
}
