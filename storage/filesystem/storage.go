package filesystem

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
)

// DefaultBranch is the branch HEAD points at in a freshly initialized
// repository.
const DefaultBranch = "refs/heads/main"

// Storage is a storage.Storer backed by a .git directory on disk.
type Storage struct {
	*ObjectStorage
	*ReferenceStorage

	fs billy.Filesystem
}

// NewStorage returns a Storage rooted at the .git directory dotGit.
func NewStorage(dotGit billy.Filesystem) *Storage {
	return &Storage{
		ObjectStorage:    NewObjectStorage(dotGit),
		ReferenceStorage: NewReferenceStorage(dotGit),
		fs:               dotGit,
	}
}

// Open returns the Storage for the .git directory rooted at path. It
// neither checks that the directory exists nor creates it; directories
// are created only as objects and refs are written.
func Open(path string) (*Storage, error) {
	fs := osfs.New(path)
	return NewStorage(fs), nil
}

// Init creates the skeleton of a new .git directory: objects/, refs/
// heads/, and a HEAD symbolic ref pointing at DefaultBranch. It is a
// no-op for directories that already look initialized.
func Init(path string) (*Storage, error) {
	fs := osfs.New(path)

	for _, dir := range []string{objectsDir, "refs/heads"} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	s := NewStorage(fs)

	if _, err := s.Reference("HEAD"); err != nil {
		if err := s.SetSymbolicReference("HEAD", DefaultBranch); err != nil {
			return nil, err
		}
	}

	return s, nil
}
