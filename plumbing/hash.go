package plumbing

import (
	"github.com/litvc/lit/plumbing/hash"
)

// Hash is the object identifier used throughout the plumbing layer: the
// SHA-1 digest of an object's "<type> <size>\0<content>" envelope.
type Hash = hash.ObjectID

// ZeroHash is the hash with all bits set to zero.
var ZeroHash = hash.ZeroHash

// NewHash parses a hexadecimal string into a Hash. It returns the zero
// Hash if s is not a valid hash string.
func NewHash(s string) Hash {
	h, _ := hash.FromHex(s)
	return h
}

// IsHash reports whether s is a well-formed hexadecimal hash string.
func IsHash(s string) bool {
	return hash.ValidHex(s)
}
