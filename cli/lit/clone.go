package lit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"dario.cat/mergo"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/format/packfile"
	"github.com/litvc/lit/plumbing/transport/http"
	"github.com/litvc/lit/storage/filesystem"
)

// CloneOptions controls a clone run. Any zero-valued field left unset
// by the caller is filled in from DefaultCloneOptions by Execute.
type CloneOptions struct {
	URL string
	Dir string
}

// DefaultCloneOptions is merged over a user-supplied CloneOptions to
// fill in anything left unset; currently only Dir (derived from URL).
var DefaultCloneOptions = CloneOptions{}

// CloneCommand implements `lit clone <url> [<dir>]`: fetch the default
// branch over smart HTTP and materialize the objects it references.
type CloneCommand struct {
	Args struct {
		RepoURL string `positional-arg-name:"repo-url" required:"true"`
		Dir     string `positional-arg-name:"directory"`
	} `positional-args:"yes"`
}

func (c *CloneCommand) Execute(args []string) error {
	opts := CloneOptions{URL: c.Args.RepoURL, Dir: c.Args.Dir}

	defaults := DefaultCloneOptions
	if defaults.Dir == "" {
		defaults.Dir = path.Base(strings.TrimSuffix(opts.URL, ".git"))
	}
	if err := mergo.Merge(&opts, defaults); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	s, err := filesystem.Init(opts.Dir + "/.git")
	if err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	client := &http.Client{Progress: os.Stderr}

	if _, err := client.Discover(ctx, opts.URL); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	want, branch, err := client.HeadRef(ctx, opts.URL)
	if err != nil {
		return fmt.Errorf("clone: %w", err)
	}
	if branch == "" {
		// Remote didn't answer the symrefs extension; fall back to the
		// conventional default branch name rather than failing clone.
		branch = filesystem.DefaultBranch
	}

	pack := bytes.NewBuffer(nil)
	if _, err := client.Fetch(ctx, opts.URL, want, pack); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	if err := ingestPack(s, pack.Bytes()); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	if err := s.SetReference(branch, want); err != nil {
		return fmt.Errorf("clone: %w", err)
	}
	if err := s.SetSymbolicReference("HEAD", branch); err != nil {
		return fmt.Errorf("clone: %w", err)
	}

	fmt.Fprintf(os.Stderr, "done, HEAD at %s\n", want)
	return nil
}

// ingestPack parses raw as a packfile and stores every object it
// contains (resolving ref-deltas as their bases become available) into
// s. The pack stream is processed in order; delta resolution is
// deferred rather than reordering the stream.
func ingestPack(s *filesystem.Storage, raw []byte) error {
	sc := packfile.NewScanner(bytes.NewReader(raw))

	_, count, err := sc.Header()
	if err != nil {
		return err
	}

	r := packfile.NewResolver()

	for i := uint32(0); i < count; i++ {
		hdr, err := sc.NextObjectHeader()
		if err != nil {
			return err
		}

		buf := bytes.NewBuffer(nil)
		if _, err := sc.NextObjectContent(buf); err != nil {
			return err
		}

		if hdr.Type == plumbing.REFDeltaObject {
			if _, _, err := r.AddDelta(hdr.Reference, buf.Bytes()); err != nil {
				return err
			}
			continue
		}

		r.AddObject(hdr.Type, buf.Bytes())
	}

	if _, err := sc.Checksum(); err != nil {
		return err
	}

	if unresolved := r.Unresolved(); len(unresolved) > 0 {
		return fmt.Errorf("packfile: %d delta(s) never found their base", len(unresolved))
	}

	for _, obj := range r.Objects() {
		if _, err := s.SetObject(obj.Type, obj.Content); err != nil {
			return err
		}
	}

	return nil
}
