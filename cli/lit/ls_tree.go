package lit

import (
	"fmt"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/filemode"
	"github.com/litvc/lit/plumbing/object"
	"github.com/litvc/lit/storage/filesystem"
)

// LsTreeCommand implements `lit ls-tree [--name-only] <sha>`: list a
// tree object's entries in the order they are stored.
type LsTreeCommand struct {
	NameOnly bool `long:"name-only" description:"list only file names"`

	Args struct {
		Tree string `positional-arg-name:"tree-ish" required:"true"`
	} `positional-args:"yes"`
}

func (c *LsTreeCommand) Execute(args []string) error {
	if !plumbing.IsHash(c.Args.Tree) {
		return fatalf("ls-tree: not a valid object name %q", c.Args.Tree)
	}

	dg, err := dotGit()
	if err != nil {
		return err
	}

	s, err := filesystem.Open(dg)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}

	h := plumbing.NewHash(c.Args.Tree)
	t, content, err := s.Object(h)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}
	if t != plumbing.TreeObject {
		return fatalf("ls-tree: %s is a %s, not a tree", h, t)
	}

	tree, err := object.DecodeTree(h, content)
	if err != nil {
		return fmt.Errorf("ls-tree: %w", err)
	}

	for _, e := range tree.Entries {
		if c.NameOnly {
			fmt.Println(e.Name)
			continue
		}

		kind := "blob"
		switch e.Mode {
		case filemode.Dir:
			kind = "tree"
		case filemode.Submodule:
			kind = "commit"
		}

		fmt.Printf("%06o %s %s\t%s\n", uint32(e.Mode), kind, e.Hash, e.Name)
	}

	return nil
}
