package lit

import (
	"fmt"
	"io"
	"os"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/hash"
	"github.com/litvc/lit/storage/filesystem"
)

// HashObjectCommand implements `lit hash-object -w <path>` and
// `lit hash-object -w --stdin`: compute (and, with -w, store) a blob's
// object ID.
type HashObjectCommand struct {
	Write bool `short:"w" description:"write the object into the object database"`
	Stdin bool `long:"stdin" description:"read content from standard input instead of a file"`

	Args struct {
		Path string `positional-arg-name:"path"`
	} `positional-args:"yes"`
}

func (c *HashObjectCommand) Execute(args []string) error {
	var content []byte
	var err error

	if c.Stdin {
		content, err = io.ReadAll(os.Stdin)
	} else {
		if c.Args.Path == "" {
			return fatalf("hash-object: a path is required unless --stdin is given")
		}
		content, err = os.ReadFile(c.Args.Path)
	}
	if err != nil {
		return fmt.Errorf("hash-object: %w", err)
	}

	var h plumbing.Hash

	if c.Write {
		dg, dgErr := dotGit()
		if dgErr != nil {
			return dgErr
		}

		s, openErr := filesystem.Open(dg)
		if openErr != nil {
			return fmt.Errorf("hash-object: %w", openErr)
		}

		h, err = s.SetObject(plumbing.BlobObject, content)
		if err != nil {
			return fmt.Errorf("hash-object: %w", err)
		}
	} else {
		h = hash.ComputeHash(plumbing.BlobObject.String(), content)
	}

	fmt.Println(h.String())
	return nil
}
