package lit

import (
	"fmt"
	"os"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/storage/filesystem"
)

// CatFileCommand implements `lit cat-file -p <sha>`: print an object's
// payload verbatim, with no trailing newline added.
type CatFileCommand struct {
	Print bool `short:"p" description:"pretty-print the object's content"`

	Args struct {
		Object string `positional-arg-name:"object" required:"true"`
	} `positional-args:"yes"`
}

func (c *CatFileCommand) Execute(args []string) error {
	if !plumbing.IsHash(c.Args.Object) {
		return fatalf("cat-file: not a valid object name %q", c.Args.Object)
	}

	dg, err := dotGit()
	if err != nil {
		return err
	}

	s, err := filesystem.Open(dg)
	if err != nil {
		return fmt.Errorf("cat-file: %w", err)
	}

	_, content, err := s.Object(plumbing.NewHash(c.Args.Object))
	if err != nil {
		return fmt.Errorf("cat-file: %w", err)
	}

	_, err = os.Stdout.Write(content)
	return err
}
