// Package lit implements the command surface of the lit binary: the
// handful of plumbing-level subcommands the dispatcher exposes (init,
// cat-file, hash-object, ls-tree, write-tree, commit-tree, clone).
package lit

import (
	"fmt"
	"os"
)

// Options is the root of the command tree parsed by go-flags. Each
// field is a subcommand, registered under the name in its `command`
// tag; every subcommand type implements Execute([]string) error.
type Options struct {
	Init       InitCommand       `command:"init" description:"Create an empty repository"`
	CatFile    CatFileCommand    `command:"cat-file" description:"Print the contents of an object"`
	HashObject HashObjectCommand `command:"hash-object" description:"Compute and optionally store the object ID of a file"`
	LsTree     LsTreeCommand     `command:"ls-tree" description:"List the contents of a tree object"`
	WriteTree  WriteTreeCommand  `command:"write-tree" description:"Create a tree object from the working directory"`
	CommitTree CommitTreeCommand `command:"commit-tree" description:"Create a commit object from a tree and parents"`
	Clone      CloneCommand      `command:"clone" description:"Clone a repository over smart HTTP"`
}

// dotGit returns the path to the repository's .git directory, assumed
// to sit directly under the current working directory: discovery of an
// ancestor .git (as git itself does) is out of scope here.
func dotGit() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return wd + string(os.PathSeparator) + ".git", nil
}

func fatalf(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}
