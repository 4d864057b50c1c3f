// Package storage defines the interfaces a repository backend must
// implement: object storage and ref storage.
package storage

import (
	"errors"

	"github.com/litvc/lit/plumbing"
)

// ErrObjectNotFound is returned when an object is not present in a
// Storer.
var ErrObjectNotFound = errors.New("storage: object not found")

// ErrReferenceNotFound is returned when a ref is not present in a
// Storer.
var ErrReferenceNotFound = errors.New("storage: reference not found")

// ObjectStorer reads and writes loose objects by their SHA-1.
type ObjectStorer interface {
	// SetObject writes content under the given type, returning its
	// computed hash. Writing an object that already exists is a no-op
	// that still returns the correct hash (idempotent write).
	SetObject(t plumbing.ObjectType, content []byte) (plumbing.Hash, error)

	// Object reads back the type and content of the object named h.
	Object(h plumbing.Hash) (t plumbing.ObjectType, content []byte, err error)

	// HasObject reports whether h is present in the store.
	HasObject(h plumbing.Hash) (bool, error)
}

// ReferenceStorer reads and writes HEAD and simple branch refs.
type ReferenceStorer interface {
	// SetReference writes a ref (e.g. "HEAD" or "refs/heads/main") to
	// point at hash.
	SetReference(name string, hash plumbing.Hash) error

	// SetSymbolicReference makes name a symbolic ref pointing at
	// target (e.g. HEAD -> refs/heads/main).
	SetSymbolicReference(name, target string) error

	// Reference resolves name, following at most one level of symbolic
	// indirection (sufficient for HEAD -> refs/heads/<branch>).
	Reference(name string) (plumbing.Hash, error)
}

// Storer is the full storage surface a repository backend provides.
type Storer interface {
	ObjectStorer
	ReferenceStorer
}
