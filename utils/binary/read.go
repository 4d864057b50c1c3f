// Package binary implements scalar and variable-width decoding helpers
// for git's binary formats.
package binary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/litvc/lit/plumbing/hash"
)

// sniffLen is how many leading bytes IsBinary inspects when deciding
// whether a blob looks like text or binary content.
const sniffLen = 8000

// ErrUnsupportedHashSize is returned by ReadHash when asked for a size
// other than the 20-byte SHA-1 hash this package understands.
var ErrUnsupportedHashSize = errors.New("binary: unsupported hash size")

// Read reads the binary representation of data from r, in BigEndian
// order, filling each element of data in turn.
// https://golang.org/pkg/encoding/binary/#Read
func Read(r io.Reader, data ...interface{}) error {
	for _, v := range data {
		if err := binary.Read(r, binary.BigEndian, v); err != nil {
			return err
		}
	}

	return nil
}

// ReadUint32 reads a BigEndian uint32 from r.
func ReadUint32(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUint16 reads a BigEndian uint16 from r.
func ReadUint16(r io.Reader) (uint16, error) {
	var v uint16
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// ReadUntil reads from r one byte at a time until it finds delim,
// returning everything read before it (not including delim).
func ReadUntil(r io.Reader, delim byte) ([]byte, error) {
	if br, ok := r.(*bufio.Reader); ok {
		return ReadUntilFromBufioReader(br, delim)
	}

	var buf [1]byte
	value := make([]byte, 0, 16)
	for {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		if buf[0] == delim {
			return value, nil
		}
		value = append(value, buf[0])
	}
}

// ReadUntilFromBufioReader reads from r until it finds delim, returning
// everything read before it (not including delim).
func ReadUntilFromBufioReader(r *bufio.Reader, delim byte) ([]byte, error) {
	b, err := r.ReadBytes(delim)
	if err != nil {
		return nil, err
	}

	return b[:len(b)-1], nil
}

// ReadVariableWidthInt reads a git-style base-128 variable-width
// integer: each byte contributes its low 7 bits, most significant
// byte first, with the high bit of every byte but the last set to 1;
// one is added to the accumulated value before each shift, so {129, 110}
// decodes to 366.
func ReadVariableWidthInt(r io.Reader) (int64, error) {
	var c byte
	if err := Read(r, &c); err != nil {
		return 0, err
	}

	var v = int64(c & 0x7f)
	for c&0x80 != 0 {
		if err := Read(r, &c); err != nil {
			return 0, err
		}
		v = ((v + 1) << 7) | int64(c&0x7f)
	}

	return v, nil
}

// ReadHash reads a size-byte hash from r. Only the 20-byte SHA-1 size
// this package's hash type supports is accepted.
func ReadHash(r io.Reader, size int) (hash.ObjectID, error) {
	if size != hash.Size {
		return hash.ZeroHash, ErrUnsupportedHashSize
	}

	var buf [hash.Size]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return hash.ZeroHash, err
	}

	h, _ := hash.FromBytes(buf[:])
	return h, nil
}

// IsBinary reads up to sniffLen bytes from r and reports whether the
// content looks binary: any NUL byte within the sniffed window counts
// it as binary.
func IsBinary(r io.Reader) (bool, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return false, err
	}

	for _, b := range buf[:n] {
		if b == 0 {
			return true, nil
		}
	}

	return false, nil
}
