package object_test

import (
	"testing"
	"time"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/filemode"
	"github.com/litvc/lit/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestTreeEncodeSortsEntries(t *testing.T) {
	blobHash := plumbing.NewHash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0")

	tr := &object.Tree{
		Entries: []object.TreeEntry{
			{Name: "lib", Mode: filemode.Dir, Hash: blobHash},
			{Name: "lib.go", Mode: filemode.Regular, Hash: blobHash},
			{Name: "a.go", Mode: filemode.Regular, Hash: blobHash},
		},
	}

	tr.Encode()

	require.Equal(t, []string{"a.go", "lib.go", "lib"}, names(tr.Entries))
}

func names(entries []object.TreeEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestTreeRoundTrip(t *testing.T) {
	blobHash := plumbing.NewHash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0")

	tr := &object.Tree{
		Entries: []object.TreeEntry{
			{Name: "README.md", Mode: filemode.Regular, Hash: blobHash},
			{Name: "run.sh", Mode: filemode.Executable, Hash: blobHash},
			{Name: "link", Mode: filemode.Symlink, Hash: blobHash},
			{Name: "src", Mode: filemode.Dir, Hash: blobHash},
		},
	}

	encoded := tr.Encode()

	decoded, err := object.DecodeTree(plumbing.ZeroHash, encoded)
	require.NoError(t, err)
	require.Equal(t, tr.Entries, decoded.Entries)
}

func TestCommitRoundTrip(t *testing.T) {
	when := time.Unix(1700000000, 0).In(time.FixedZone("", -7*3600))

	c := &object.Commit{
		Tree:    plumbing.NewHash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"),
		Parents: []plumbing.Hash{plumbing.NewHash("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")},
		Author: object.Signature{
			Name: "Ada Lovelace", Email: "ada@example.com", When: when,
		},
		Committer: object.Signature{
			Name: "Ada Lovelace", Email: "ada@example.com", When: when,
		},
		Message: "initial commit\n",
	}

	encoded := c.Encode()

	decoded, err := object.DecodeCommit(plumbing.ZeroHash, encoded)
	require.NoError(t, err)
	require.Equal(t, c.Tree, decoded.Tree)
	require.Equal(t, c.Parents, decoded.Parents)
	require.Equal(t, c.Author.Name, decoded.Author.Name)
	require.Equal(t, c.Author.Email, decoded.Author.Email)
	require.Equal(t, c.Author.When.Unix(), decoded.Author.When.Unix())
	require.Equal(t, "initial commit", decoded.Message)
}

func TestCommitRootHasNoParents(t *testing.T) {
	c := &object.Commit{
		Tree:    plumbing.NewHash("b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"),
		Author:  object.Signature{Name: "A", Email: "a@b.c", When: time.Unix(1, 0).UTC()},
		Message: "root",
	}
	c.Committer = c.Author

	decoded, err := object.DecodeCommit(plumbing.ZeroHash, c.Encode())
	require.NoError(t, err)
	require.Empty(t, decoded.Parents)
}
