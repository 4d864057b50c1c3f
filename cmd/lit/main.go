// Command lit is a minimal, git-compatible object-store and smart-HTTP
// clone client: init, cat-file, hash-object, ls-tree, write-tree,
// commit-tree and clone.
package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/litvc/lit/cli/lit"
)

func main() {
	var opts lit.Options

	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "lit"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "lit:", err)
		os.Exit(1)
	}
}
