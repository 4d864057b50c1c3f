package lit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) }) //nolint:errcheck
}

func TestInitCreatesSkeleton(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	cmd := &InitCommand{}
	require.NoError(t, cmd.Execute(nil))

	require.DirExists(t, filepath.Join(dir, ".git", "objects"))
	require.DirExists(t, filepath.Join(dir, ".git", "refs", "heads"))

	head, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	require.NoError(t, err)
	require.Equal(t, "ref: refs/heads/main\n", string(head))
}

func TestHashObjectWriteAndCatFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, (&InitCommand{}).Execute(nil))

	path := filepath.Join(dir, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	hashCmd := &HashObjectCommand{Write: true}
	hashCmd.Args.Path = path
	require.NoError(t, hashCmd.Execute(nil))

	require.FileExists(t, filepath.Join(dir, ".git", "objects", "b6", "fc4c620b67d95f953a5c1c1230aaab5db5a1b0"))

	catCmd := &CatFileCommand{Print: true}
	catCmd.Args.Object = "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"
	require.NoError(t, catCmd.Execute(nil))
}

func TestWriteTreeWithSubdirectory(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, (&InitCommand{}).Execute(nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("B"), 0o644))

	wt := &WriteTreeCommand{}
	require.NoError(t, wt.Execute(nil))
}

func TestCommitTreeBasic(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, (&InitCommand{}).Execute(nil))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("A"), 0o644))

	wt := &WriteTreeCommand{}
	require.NoError(t, wt.Execute(nil))

	ct := &CommitTreeCommand{Message: "initial commit"}
	ct.Args.Tree = "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"
	require.NoError(t, ct.Execute(nil))
}
