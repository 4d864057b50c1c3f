package object

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/filemode"
	"github.com/litvc/lit/plumbing/hash"
)

// ErrMalformedTree is returned when a tree's encoded bytes cannot be
// parsed as a sequence of "<mode> <name>\x00<hash>" entries.
var ErrMalformedTree = errors.New("object: malformed tree")

// TreeEntry is one line of a tree object: a name, its mode, and the
// hash of the blob or tree it points at.
type TreeEntry struct {
	Name string
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// Tree is an ordered directory listing: a mapping from names to blob or
// tree hashes, plus the mode under which each is recorded.
type Tree struct {
	Hash    plumbing.Hash
	Entries []TreeEntry
}

// sortName returns the key by which tree entries are ordered: the
// entry's name, with a trailing "/" appended for directories so that,
// e.g., a file "foo.c" sorts before a directory "foo" ("foo/"), since
// '.' < '/'; comparing bare names would put the prefix "foo" first.
func sortName(e TreeEntry) string {
	if e.Mode == filemode.Dir {
		return e.Name + "/"
	}
	return e.Name
}

// Sort orders t's entries the way git does: lexicographically by name,
// treating directory names as if they carried a trailing "/".
func (t *Tree) Sort() {
	sort.Slice(t.Entries, func(i, j int) bool {
		return sortName(t.Entries[i]) < sortName(t.Entries[j])
	})
}

// Encode renders t as the raw bytes of a tree object, in sorted order.
func (t *Tree) Encode() []byte {
	t.Sort()

	buf := bytes.NewBuffer(nil)
	for _, e := range t.Entries {
		fmt.Fprintf(buf, "%s %s\x00", strconv.FormatUint(uint64(e.Mode), 8), e.Name)
		buf.Write(e.Hash.Bytes())
	}

	return buf.Bytes()
}

// DecodeTree parses the raw content of a tree object.
func DecodeTree(h plumbing.Hash, content []byte) (*Tree, error) {
	t := &Tree{Hash: h}

	for len(content) > 0 {
		sp := bytes.IndexByte(content, ' ')
		if sp < 0 {
			return nil, ErrMalformedTree
		}
		modeStr := string(content[:sp])
		content = content[sp+1:]

		nul := bytes.IndexByte(content, 0)
		if nul < 0 {
			return nil, ErrMalformedTree
		}
		name := string(content[:nul])
		content = content[nul+1:]

		if len(content) < hash.Size {
			return nil, ErrMalformedTree
		}

		mode, err := filemode.New(modeStr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMalformedTree, err)
		}

		hashBytes := content[:hash.Size]
		content = content[hash.Size:]

		var entryHash plumbing.Hash
		copy(entryHash[:], hashBytes)

		t.Entries = append(t.Entries, TreeEntry{
			Name: name,
			Mode: mode,
			Hash: entryHash,
		})
	}

	return t, nil
}

// Type returns plumbing.TreeObject.
func (*Tree) Type() plumbing.ObjectType { return plumbing.TreeObject }
