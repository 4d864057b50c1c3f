// Package packfile implements reading of the git packfile format: a
// "PACK" header, a count of objects, each object's zlib-compressed
// content (or a ref-delta against another object named by its hash), and a trailing
// SHA-1 checksum of everything that preceded it.
package packfile

import (
	"bufio"
	"crypto"
	"encoding/binary"
	"errors"
	"io"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/hash"
	gitsync "github.com/litvc/lit/utils/sync"
)

const (
	signature = "PACK"

	// VersionSupported is the only packfile version this parser
	// understands.
	VersionSupported = 2
)

var (
	// ErrBadSignature is returned when a stream does not start with the
	// 4-byte "PACK" magic.
	ErrBadSignature = errors.New("packfile: invalid signature")
	// ErrUnsupportedVersion is returned for any packfile version other
	// than VersionSupported.
	ErrUnsupportedVersion = errors.New("packfile: unsupported version")
	// ErrUnsupportedObjectType is returned for an ofs-delta object entry
	// (out of scope; every pack consumed here is expected to use
	// ref-delta only).
	ErrUnsupportedObjectType = errors.New("packfile: unsupported object type (ofs-delta)")
	// ErrChecksumMismatch is returned when the trailing checksum does
	// not match the SHA-1 of the preceding bytes.
	ErrChecksumMismatch = errors.New("packfile: checksum mismatch")
)

// ObjectHeader describes a single object entry's framing: its type,
// decompressed size, and (for ref-delta entries) the hash of its base
// object.
type ObjectHeader struct {
	Type      plumbing.ObjectType
	Size      int64
	Reference plumbing.Hash
}

// scannerReader sits between the raw stream and everything that reads
// from it, and feeds the running checksum only the bytes it actually
// hands back to its own caller. A plain bufio.Reader underneath it is
// free to read ahead as far as it likes — that read-ahead is invisible
// here, so it never gets folded into the hash before we know whether it
// belongs to an object or to the trailing checksum itself.
type scannerReader struct {
	buf *bufio.Reader
	h   hash.Hash
}

func newScannerReader(r io.Reader, h hash.Hash) *scannerReader {
	return &scannerReader{buf: bufio.NewReader(r), h: h}
}

func (s *scannerReader) Read(p []byte) (int, error) {
	n, err := s.buf.Read(p)
	if n > 0 {
		s.h.Write(p[:n]) //nolint:errcheck
	}
	return n, err
}

func (s *scannerReader) ReadByte() (byte, error) {
	b, err := s.buf.ReadByte()
	if err == nil {
		s.h.Write([]byte{b}) //nolint:errcheck
	}
	return b, err
}

// Scanner reads a packfile from an underlying io.Reader, one object at
// a time.
type Scanner struct {
	r *scannerReader

	count uint32
	index uint32
}

// NewScanner returns a Scanner over r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: newScannerReader(r, hash.New(crypto.SHA1))}
}

// Header reads and validates the "PACK" signature, version, and object
// count.
func (s *Scanner) Header() (version, count uint32, err error) {
	var sig [4]byte
	if _, err = io.ReadFull(s.r, sig[:]); err != nil {
		return 0, 0, err
	}
	if string(sig[:]) != signature {
		return 0, 0, ErrBadSignature
	}

	if err = binary.Read(s.r, binary.BigEndian, &version); err != nil {
		return 0, 0, err
	}
	if version != VersionSupported {
		return 0, 0, ErrUnsupportedVersion
	}

	if err = binary.Read(s.r, binary.BigEndian, &count); err != nil {
		return 0, 0, err
	}

	s.count = count
	return version, count, nil
}

// Count returns the object count read by Header.
func (s *Scanner) Count() uint32 { return s.count }

// NextObjectHeader decodes the variable-length type+size header (and,
// for ref-delta objects, the 20-byte base hash) of the next object
// entry. It returns io.EOF once Count objects have been read.
func (s *Scanner) NextObjectHeader() (*ObjectHeader, error) {
	if s.index >= s.count {
		return nil, io.EOF
	}
	s.index++

	b, err := s.r.ReadByte()
	if err != nil {
		return nil, err
	}

	typ := plumbing.ObjectType((b >> 4) & 0x7)
	size := int64(b & 0x0f)
	shift := uint(4)
	for b&0x80 != 0 {
		if b, err = s.r.ReadByte(); err != nil {
			return nil, err
		}
		size |= int64(b&0x7f) << shift
		shift += 7
	}

	hdr := &ObjectHeader{Type: typ, Size: size}

	switch typ {
	case plumbing.OFSDeltaObject:
		return nil, ErrUnsupportedObjectType
	case plumbing.REFDeltaObject:
		var ref [hash.Size]byte
		if _, err := io.ReadFull(s.r, ref[:]); err != nil {
			return nil, err
		}
		base, _ := hash.FromBytes(ref[:])
		hdr.Reference = base
	}

	return hdr, nil
}

// NextObjectContent inflates the zlib-compressed body belonging to the
// most recently read object header into w, returning the number of
// decompressed bytes copied.
func (s *Scanner) NextObjectContent(w io.Writer) (int64, error) {
	zr, err := gitsync.GetZlibReader(s.r)
	if err != nil {
		return 0, err
	}
	defer gitsync.PutZlibReader(zr)

	return io.Copy(w, zr)
}

// Checksum reads the trailing 20-byte checksum and validates it against
// the SHA-1 of every byte read so far (header and object entries). The
// running hash must be snapshotted before the trailer itself is read,
// since reading it would otherwise fold the trailer's own bytes into
// the sum it is being compared against.
func (s *Scanner) Checksum() (plumbing.Hash, error) {
	var computed plumbing.Hash
	copy(computed[:], s.r.h.Sum(nil))

	var trailer [hash.Size]byte
	if _, err := io.ReadFull(s.r, trailer[:]); err != nil {
		return plumbing.ZeroHash, err
	}

	var transmitted plumbing.Hash
	copy(transmitted[:], trailer[:])
	if transmitted != computed {
		return transmitted, ErrChecksumMismatch
	}

	return transmitted, nil
}
