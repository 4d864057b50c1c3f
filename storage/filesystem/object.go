// Package filesystem implements storage.Storer against a .git directory
// on disk: loose objects under objects/<xx>/<rest>, and simple refs
// under HEAD and refs/heads/<name>.
package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"path"

	"github.com/go-git/go-billy/v5"
	lru "github.com/golang/groupcache/lru"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/format/objfile"
	"github.com/litvc/lit/storage"
)

const objectsDir = "objects"

// cacheSize bounds the number of decompressed objects kept in memory,
// so repeatedly walking the same tree (ls-tree, cat-file) during one
// process run does not re-inflate the same blob or tree repeatedly.
const cacheSize = 256

// cached holds a decompressed object's type and content together, since
// groupcache/lru only stores a single value per key.
type cached struct {
	t       plumbing.ObjectType
	content []byte
}

// ObjectStorage is a loose-object store rooted at a .git directory.
type ObjectStorage struct {
	fs    billy.Filesystem
	cache *lru.Cache
}

// NewObjectStorage returns an ObjectStorage backed by fs, the root of a
// .git directory (i.e. fs.Join(root, "objects") holds the fan-out
// directories).
func NewObjectStorage(fs billy.Filesystem) *ObjectStorage {
	return &ObjectStorage{fs: fs, cache: lru.New(cacheSize)}
}

func objectPath(h plumbing.Hash) (dir, name string) {
	s := h.String()
	return path.Join(objectsDir, s[:2]), s[2:]
}

// SetObject writes content under the given type to its content-addressed
// path, computing and returning the resulting hash. Writing an object
// whose path already exists is a no-op: the write is idempotent.
func (s *ObjectStorage) SetObject(t plumbing.ObjectType, content []byte) (plumbing.Hash, error) {
	buf := bytes.NewBuffer(nil)
	w := objfile.NewWriter(buf)

	if err := w.WriteHeader(t, int64(len(content))); err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(content); err != nil {
		return plumbing.ZeroHash, err
	}

	h := w.Hash()
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}

	dir, name := objectPath(h)
	if ok, _ := s.exists(dir, name); ok {
		return h, nil
	}

	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return plumbing.ZeroHash, err
	}

	tmp, err := s.fs.TempFile(dir, "tmp_obj_")
	if err != nil {
		return plumbing.ZeroHash, err
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close() //nolint:errcheck
		return plumbing.ZeroHash, err
	}
	if err := tmp.Close(); err != nil {
		return plumbing.ZeroHash, err
	}

	if err := s.fs.Rename(tmp.Name(), path.Join(dir, name)); err != nil {
		return plumbing.ZeroHash, err
	}

	s.cache.Add(h, cached{t: t, content: content})

	return h, nil
}

func (s *ObjectStorage) exists(dir, name string) (bool, error) {
	_, err := s.fs.Stat(path.Join(dir, name))
	if err != nil {
		return false, nil
	}
	return true, nil
}

// HasObject reports whether h is present in the store.
func (s *ObjectStorage) HasObject(h plumbing.Hash) (bool, error) {
	if _, ok := s.cache.Get(h); ok {
		return true, nil
	}
	dir, name := objectPath(h)
	return s.exists(dir, name)
}

// Object reads back the type and content of the object named h.
func (s *ObjectStorage) Object(h plumbing.Hash) (plumbing.ObjectType, []byte, error) {
	if v, ok := s.cache.Get(h); ok {
		c := v.(cached)
		return c.t, c.content, nil
	}

	dir, name := objectPath(h)
	f, err := s.fs.Open(path.Join(dir, name))
	if err != nil {
		return plumbing.InvalidObject, nil, storage.ErrObjectNotFound
	}
	defer f.Close() //nolint:errcheck

	r, err := objfile.NewReader(f)
	if err != nil {
		return plumbing.InvalidObject, nil, fmt.Errorf("filesystem: reading %s: %w", h, err)
	}
	defer r.Close() //nolint:errcheck

	t, size, err := r.Header()
	if err != nil {
		return plumbing.InvalidObject, nil, fmt.Errorf("filesystem: reading %s: %w", h, err)
	}

	content := make([]byte, size)
	if _, err := io.ReadFull(r, content); err != nil {
		return plumbing.InvalidObject, nil, fmt.Errorf("filesystem: reading %s: %w", h, err)
	}

	s.cache.Add(h, cached{t: t, content: content})

	return t, content, nil
}
