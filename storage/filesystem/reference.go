package filesystem

import (
	"io"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/storage"
)

const symbolicPrefix = "ref: "

// ReferenceStorage stores HEAD and refs/heads/<name> as individual
// files, the way git itself does before any packed-refs compaction.
type ReferenceStorage struct {
	fs billy.Filesystem
}

// NewReferenceStorage returns a ReferenceStorage rooted at fs (a .git
// directory).
func NewReferenceStorage(fs billy.Filesystem) *ReferenceStorage {
	return &ReferenceStorage{fs: fs}
}

// SetReference writes name to point directly at hash.
func (s *ReferenceStorage) SetReference(name string, hash plumbing.Hash) error {
	return s.writeFile(name, hash.String()+"\n")
}

// SetSymbolicReference makes name a symbolic ref pointing at target.
func (s *ReferenceStorage) SetSymbolicReference(name, target string) error {
	return s.writeFile(name, symbolicPrefix+target+"\n")
}

// Reference resolves name, following one level of symbolic indirection.
func (s *ReferenceStorage) Reference(name string) (plumbing.Hash, error) {
	content, err := s.readFile(name)
	if err != nil {
		return plumbing.ZeroHash, storage.ErrReferenceNotFound
	}

	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, symbolicPrefix) {
		content, err = s.readFile(strings.TrimPrefix(content, symbolicPrefix))
		if err != nil {
			return plumbing.ZeroHash, storage.ErrReferenceNotFound
		}
		content = strings.TrimSpace(content)
	}

	if !plumbing.IsHash(content) {
		return plumbing.ZeroHash, storage.ErrReferenceNotFound
	}

	return plumbing.NewHash(content), nil
}

func (s *ReferenceStorage) writeFile(name, content string) error {
	dir := path.Dir(name)
	if dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmp, err := s.fs.TempFile(dir, "tmp_ref_")
	if err != nil {
		return err
	}

	if _, err := tmp.Write([]byte(content)); err != nil {
		tmp.Close() //nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return s.fs.Rename(tmp.Name(), name)
}

func (s *ReferenceStorage) readFile(name string) (string, error) {
	f, err := s.fs.Open(name)
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return string(b), nil
}
