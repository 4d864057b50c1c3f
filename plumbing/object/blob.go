// Package object implements decoding and encoding of git's three
// user-facing object kinds: blobs, trees and commits.
package object

import (
	"github.com/litvc/lit/plumbing"
)

// Blob is the content of a single file, verbatim. It carries no
// metadata of its own; name and mode live in the tree entry that
// points at it.
type Blob struct {
	Hash    plumbing.Hash
	Content []byte
}

// Type returns plumbing.BlobObject.
func (Blob) Type() plumbing.ObjectType { return plumbing.BlobObject }

// Size returns the size of the blob's content.
func (b *Blob) Size() int64 { return int64(len(b.Content)) }
