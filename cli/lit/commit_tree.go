package lit

import (
	"fmt"
	"time"

	"github.com/litvc/lit/internal/identity"
	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/object"
	"github.com/litvc/lit/storage/filesystem"
)

// CommitTreeCommand implements `lit commit-tree <tree> [-p <parent>]...
// -m <msg>`: build and store a commit object.
type CommitTreeCommand struct {
	Parents []string `short:"p" description:"a parent commit (may be repeated)"`
	Message string   `short:"m" required:"true" description:"the commit message"`

	Args struct {
		Tree string `positional-arg-name:"tree" required:"true"`
	} `positional-args:"yes"`
}

func (c *CommitTreeCommand) Execute(args []string) error {
	if !plumbing.IsHash(c.Args.Tree) {
		return fatalf("commit-tree: not a valid object name %q", c.Args.Tree)
	}

	dg, err := dotGit()
	if err != nil {
		return err
	}

	s, err := filesystem.Open(dg)
	if err != nil {
		return fmt.Errorf("commit-tree: %w", err)
	}

	parents := make([]plumbing.Hash, 0, len(c.Parents))
	for _, p := range c.Parents {
		if !plumbing.IsHash(p) {
			return fatalf("commit-tree: not a valid object name %q", p)
		}
		parents = append(parents, plumbing.NewHash(p))
	}

	author, committer := identity.Resolve(dg, "", "", time.Now())

	commit := &object.Commit{
		Tree:      plumbing.NewHash(c.Args.Tree),
		Parents:   parents,
		Author:    author,
		Committer: committer,
		Message:   c.Message,
	}

	h, err := s.SetObject(plumbing.CommitObject, commit.Encode())
	if err != nil {
		return fmt.Errorf("commit-tree: %w", err)
	}

	fmt.Println(h.String())
	return nil
}
