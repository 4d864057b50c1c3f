package objfile

import (
	"bufio"
	"crypto"
	"errors"
	"io"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/hash"
	gitsync "github.com/litvc/lit/utils/sync"
)

// ErrHeaderNotRead is returned if Read is called before Header.
var ErrHeaderNotRead = errors.New("objfile: header not read")

// Reader reads the loose-object envelope from an underlying io.Reader,
// inflating it with zlib and hashing the decompressed bytes as they are
// consumed.
type Reader struct {
	zr *gitsync.ZLibReader
	br *bufio.Reader
	h  hash.Hash

	typ plumbing.ObjectType
	sz  int64

	headerRead bool
	closed     bool
}

// NewReader returns a Reader over the loose-object envelope in r. An
// error is returned immediately if r does not begin with valid zlib
// data.
func NewReader(r io.Reader) (*Reader, error) {
	zr, err := gitsync.GetZlibReader(r)
	if err != nil {
		return nil, err
	}

	return &Reader{
		zr: zr,
		br: bufio.NewReader(zr),
		h:  hash.New(crypto.SHA1),
	}, nil
}

// Header reads and parses the "<type> <size>\x00" envelope header. It
// must be called exactly once, before any call to Read.
func (r *Reader) Header() (t plumbing.ObjectType, size int64, err error) {
	if r.headerRead {
		return r.typ, r.sz, nil
	}

	typ, err := r.br.ReadString(' ')
	if err != nil {
		return 0, 0, err
	}
	typ = typ[:len(typ)-1]

	sizeStr, err := r.br.ReadString(0)
	if err != nil {
		return 0, 0, err
	}
	sizeStr = sizeStr[:len(sizeStr)-1]

	t, err = plumbing.ParseObjectType(typ)
	if err != nil {
		return 0, 0, err
	}

	size = 0
	for _, c := range []byte(sizeStr) {
		if c < '0' || c > '9' {
			return 0, 0, errors.New("objfile: malformed size")
		}
		size = size*10 + int64(c-'0')
	}

	r.h.Write([]byte(typ))     //nolint:errcheck
	r.h.Write([]byte{' '})     //nolint:errcheck
	r.h.Write([]byte(sizeStr)) //nolint:errcheck
	r.h.Write([]byte{0})       //nolint:errcheck

	r.typ = t
	r.sz = size
	r.headerRead = true

	return t, size, nil
}

// Read implements io.Reader, returning the decompressed object content
// and feeding it into the running hash.
func (r *Reader) Read(p []byte) (int, error) {
	if !r.headerRead {
		return 0, ErrHeaderNotRead
	}

	n, err := r.br.Read(p)
	if n > 0 {
		r.h.Write(p[:n]) //nolint:errcheck
	}
	return n, err
}

// Hash returns the SHA-1 of the object read so far. It is only
// meaningful once the content has been fully read.
func (r *Reader) Hash() plumbing.Hash {
	var out plumbing.Hash
	copy(out[:], r.h.Sum(nil))
	return out
}

// Close releases the underlying zlib reader.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	gitsync.PutZlibReader(r.zr)
	return nil
}
