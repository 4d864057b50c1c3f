// Package objfile implements the encoding used for loose git objects:
// a "<type> <size>\x00" header followed by the object's raw content, the
// whole envelope zlib-compressed and named by the SHA-1 of the
// uncompressed bytes.
package objfile

import (
	"compress/zlib"
	"crypto"
	"errors"
	"io"
	"strconv"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/hash"
	gitsync "github.com/litvc/lit/utils/sync"
)

var (
	// ErrClosed is returned when a write is attempted on a Writer that
	// has already been closed.
	ErrClosed = errors.New("objfile: already closed")
	// ErrHeaderWritten is returned when WriteHeader is called more than
	// once per Writer.
	ErrHeaderWritten = errors.New("objfile: header already written")
	// ErrOverflow is returned when more bytes are written than declared
	// in WriteHeader's size.
	ErrOverflow = errors.New("objfile: declared size exceeded during write")
	// ErrNegativeSize is returned when WriteHeader is called with a
	// negative size.
	ErrNegativeSize = errors.New("objfile: negative size")
)

// Writer writes the loose-object envelope to an underlying io.Writer,
// compressing it with zlib and hashing it with SHA-1 as it goes.
type Writer struct {
	raw io.Writer
	zw  *zlib.Writer
	h   hash.Hash

	closed    bool
	headerSet bool
	pending   int64
}

// NewWriter returns a Writer that writes the loose-object envelope to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{raw: w}
}

// WriteHeader writes the "<type> <size>\x00" envelope header. It must be
// called exactly once, before any call to Write.
func (w *Writer) WriteHeader(t plumbing.ObjectType, size int64) error {
	if w.closed {
		return ErrClosed
	}
	if w.headerSet {
		return ErrHeaderWritten
	}
	if !t.Valid() {
		return plumbing.ErrInvalidType
	}
	if size < 0 {
		return ErrNegativeSize
	}

	w.h = hash.New(crypto.SHA1)
	w.zw = gitsync.GetZlibWriter(w.raw)
	w.pending = size
	w.headerSet = true

	header := append(t.Bytes(), ' ')
	header = append(header, []byte(strconv.FormatInt(size, 10))...)
	header = append(header, 0)

	w.h.Write(header) //nolint:errcheck
	_, err := w.zw.Write(header)
	return err
}

// Write writes p as part of the object content. It returns ErrOverflow
// if more bytes are written than WriteHeader declared; the returned
// count never exceeds the remaining declared size.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, ErrClosed
	}

	overflow := int64(len(p)) > w.pending
	if overflow {
		p = p[:w.pending]
	}

	n, err := w.zw.Write(p)
	if n > 0 {
		w.h.Write(p[:n]) //nolint:errcheck
		w.pending -= int64(n)
	}

	if err == nil && overflow {
		err = ErrOverflow
	}

	return n, err
}

// Hash returns the SHA-1 of the object written so far.
func (w *Writer) Hash() plumbing.Hash {
	var out plumbing.Hash
	copy(out[:], w.h.Sum(nil))
	return out
}

// Close flushes and releases the underlying zlib writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.zw == nil {
		return nil
	}

	err := w.zw.Close()
	gitsync.PutZlibWriter(w.zw)
	return err
}
