package lit

import (
	"fmt"
	"os"

	"github.com/litvc/lit/storage/filesystem"
)

// InitCommand implements `lit init`: create .git/objects, .git/refs,
// and a HEAD symbolic ref pointing at the default branch.
type InitCommand struct {
	Args struct {
		Dir string `positional-arg-name:"directory"`
	} `positional-args:"yes"`
}

func (c *InitCommand) Execute(args []string) error {
	dir := c.Args.Dir
	if dir == "" {
		dir = "."
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	if _, err := filesystem.Init(dir + "/.git"); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	fmt.Println("Initialized git directory")
	return nil
}
