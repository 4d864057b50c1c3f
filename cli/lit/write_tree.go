package lit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/filemode"
	"github.com/litvc/lit/plumbing/object"
	"github.com/litvc/lit/storage/filesystem"
)

// WriteTreeCommand implements `lit write-tree`: hash the working
// directory recursively, skipping .git, and store the resulting tree.
type WriteTreeCommand struct{}

func (c *WriteTreeCommand) Execute(args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	dg, err := dotGit()
	if err != nil {
		return err
	}

	s, err := filesystem.Open(dg)
	if err != nil {
		return fmt.Errorf("write-tree: %w", err)
	}

	h, err := writeTree(s, wd)
	if err != nil {
		return fmt.Errorf("write-tree: %w", err)
	}

	fmt.Println(h.String())
	return nil
}

// writeTree stores every blob under dir and the tree describing dir
// itself, returning the tree's hash. It recurses depth-first so that
// every child tree is stored before its parent is hashed.
func writeTree(s *filesystem.Storage, dir string) (plumbing.Hash, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return plumbing.ZeroHash, err
	}

	var tree object.Tree

	for _, d := range entries {
		if d.Name() == ".git" {
			continue
		}

		full := filepath.Join(dir, d.Name())

		info, err := d.Info()
		if err != nil {
			return plumbing.ZeroHash, err
		}

		if info.IsDir() {
			h, err := writeTree(s, full)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Name: d.Name(),
				Mode: filemode.Dir,
				Hash: h,
			})
			continue
		}

		mode, err := filemode.NewFromOSFileMode(info.Mode())
		if err != nil {
			return plumbing.ZeroHash, err
		}

		var content []byte
		if mode == filemode.Symlink {
			target, err := os.Readlink(full)
			if err != nil {
				return plumbing.ZeroHash, err
			}
			content = []byte(target)
		} else {
			content, err = os.ReadFile(full)
			if err != nil {
				return plumbing.ZeroHash, err
			}
		}

		h, err := s.SetObject(plumbing.BlobObject, content)
		if err != nil {
			return plumbing.ZeroHash, err
		}

		tree.Entries = append(tree.Entries, object.TreeEntry{
			Name: d.Name(),
			Mode: mode,
			Hash: h,
		})
	}

	return s.SetObject(plumbing.TreeObject, tree.Encode())
}
