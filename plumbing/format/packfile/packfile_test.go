package packfile_test

import (
	"bytes"
	"compress/zlib"
	"crypto"
	"testing"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/format/packfile"
	"github.com/litvc/lit/plumbing/hash"
	"github.com/stretchr/testify/require"
)

// encodeObjectHeader writes the variable-length type+size header used
// by packfile object entries.
func encodeObjectHeader(t plumbing.ObjectType, size int64) []byte {
	b := byte(t) << 4
	b |= byte(size & 0x0f)
	size >>= 4

	var out []byte
	for size > 0 {
		out = append(out, b|0x80)
		b = byte(size & 0x7f)
		size >>= 7
	}
	out = append(out, b)
	return out
}

func deflate(t *testing.T, content []byte) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)
	w := zlib.NewWriter(buf)
	_, err := w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func buildPack(t *testing.T, objects [][2]any) []byte {
	t.Helper()
	buf := bytes.NewBuffer(nil)

	buf.WriteString("PACK")
	buf.Write([]byte{0, 0, 0, 2})
	count := len(objects)
	buf.Write([]byte{0, 0, 0, byte(count)})

	for _, o := range objects {
		typ := o[0].(plumbing.ObjectType)
		content := o[1].([]byte)
		buf.Write(encodeObjectHeader(typ, int64(len(content))))
		buf.Write(deflate(t, content))
	}

	h := hash.New(crypto.SHA1)
	h.Write(buf.Bytes()) //nolint:errcheck
	buf.Write(h.Sum(nil))

	return buf.Bytes()
}

func TestScannerReadsSingleBlob(t *testing.T) {
	content := []byte("hello")
	raw := buildPack(t, [][2]any{{plumbing.BlobObject, content}})

	sc := packfile.NewScanner(bytes.NewReader(raw))

	version, count, err := sc.Header()
	require.NoError(t, err)
	require.EqualValues(t, packfile.VersionSupported, version)
	require.EqualValues(t, 1, count)

	hdr, err := sc.NextObjectHeader()
	require.NoError(t, err)
	require.Equal(t, plumbing.BlobObject, hdr.Type)
	require.EqualValues(t, len(content), hdr.Size)

	out := bytes.NewBuffer(nil)
	n, err := sc.NextObjectContent(out)
	require.NoError(t, err)
	require.EqualValues(t, len(content), n)
	require.Equal(t, content, out.Bytes())

	_, err = sc.Checksum()
	require.NoError(t, err)
}

func TestScannerMultipleObjects(t *testing.T) {
	objects := [][2]any{
		{plumbing.BlobObject, []byte("one")},
		{plumbing.BlobObject, []byte("two")},
		{plumbing.TreeObject, []byte("tree-ish content")},
	}
	raw := buildPack(t, objects)

	sc := packfile.NewScanner(bytes.NewReader(raw))
	_, count, err := sc.Header()
	require.NoError(t, err)
	require.EqualValues(t, len(objects), count)

	for _, want := range objects {
		hdr, err := sc.NextObjectHeader()
		require.NoError(t, err)
		require.Equal(t, want[0], hdr.Type)

		out := bytes.NewBuffer(nil)
		_, err = sc.NextObjectContent(out)
		require.NoError(t, err)
		require.Equal(t, want[1], out.Bytes())
	}

	_, err = sc.Checksum()
	require.NoError(t, err)
}

func TestScannerChecksumMatchesForSmallPack(t *testing.T) {
	// A pack well under bufio's default 4096-byte buffer: if the
	// checksum were computed over bytes a bufio.Reader merely read
	// ahead (rather than bytes actually consumed by the scanner), it
	// would include its own 20-byte trailer and never match.
	content := []byte("hello")
	raw := buildPack(t, [][2]any{{plumbing.BlobObject, content}})
	require.Less(t, len(raw), 4096)

	sc := packfile.NewScanner(bytes.NewReader(raw))

	_, _, err := sc.Header()
	require.NoError(t, err)

	_, err = sc.NextObjectHeader()
	require.NoError(t, err)

	out := bytes.NewBuffer(nil)
	_, err = sc.NextObjectContent(out)
	require.NoError(t, err)

	got, err := sc.Checksum()
	require.NoError(t, err)

	want := hash.New(crypto.SHA1)
	want.Write(raw[:len(raw)-hash.Size]) //nolint:errcheck
	var wantHash plumbing.Hash
	copy(wantHash[:], want.Sum(nil))

	require.Equal(t, wantHash, got)
}

func TestScannerChecksumMismatch(t *testing.T) {
	raw := buildPack(t, [][2]any{{plumbing.BlobObject, []byte("hello")}})
	raw[len(raw)-1] ^= 0xff // corrupt the trailing checksum

	sc := packfile.NewScanner(bytes.NewReader(raw))
	_, _, err := sc.Header()
	require.NoError(t, err)
	_, err = sc.NextObjectHeader()
	require.NoError(t, err)
	out := bytes.NewBuffer(nil)
	_, err = sc.NextObjectContent(out)
	require.NoError(t, err)

	_, err = sc.Checksum()
	require.ErrorIs(t, err, packfile.ErrChecksumMismatch)
}

func TestScannerBadSignature(t *testing.T) {
	sc := packfile.NewScanner(bytes.NewReader([]byte("XXXX\x00\x00\x00\x02\x00\x00\x00\x00")))
	_, _, err := sc.Header()
	require.ErrorIs(t, err, packfile.ErrBadSignature)
}

func TestResolverResolvesDeltaArrivingAfterBase(t *testing.T) {
	r := packfile.NewResolver()

	base := []byte("the quick brown fox")
	baseHash := r.AddObject(plumbing.BlobObject, base)

	// delta: src size 19, target size 19, one copy instruction covering
	// the whole base (offset 0, size 19 encoded via the 0x10 bit only
	// using one size byte equal to 19, 0 means 0x10000 so use 19 here).
	delta := []byte{
		19,         // source size varint (fits in one byte)
		19,         // target size varint
		0x80 | 0x10, // copy cmd: size byte present (1 byte), no offset bytes -> offset 0
		19,         // size = 19
	}

	h, ok, err := r.AddDelta(baseHash, delta)
	require.NoError(t, err)
	require.True(t, ok)

	content, typ, found := r.Get(h)
	require.True(t, found)
	require.Equal(t, plumbing.BlobObject, typ)
	require.Equal(t, base, content)
}

func TestResolverQueuesDeltaArrivingBeforeBase(t *testing.T) {
	r := packfile.NewResolver()

	baseContent := []byte("0123456789")
	futureBaseHash := hash.ComputeHash(plumbing.BlobObject.String(), baseContent)

	delta := []byte{
		10,
		10,
		0x80 | 0x10,
		10,
	}

	_, ok, err := r.AddDelta(futureBaseHash, delta)
	require.NoError(t, err)
	require.False(t, ok)
	require.Len(t, r.Unresolved(), 1)

	h := r.AddObject(plumbing.BlobObject, baseContent)
	require.Equal(t, futureBaseHash, h)
	require.Empty(t, r.Unresolved())
}
