// Package identity resolves the author/committer name, email and time
// commit-tree needs, the way git itself layers CLI flags over
// environment variables over the on-disk config file.
package identity

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-git/gcfg"

	"github.com/litvc/lit/plumbing/object"
)

// userConfig mirrors the [user] section of a git-config file.
type userConfig struct {
	User struct {
		Name  string
		Email string
	}
}

// Resolve builds the author and committer signatures for a new commit,
// in priority order: explicit name/email (e.g. from CLI flags), then
// GIT_AUTHOR_*/GIT_COMMITTER_* environment variables, then .git/config
// and ~/.gitconfig. when is the commit time to stamp both signatures
// with; callers pass it explicitly so the result stays deterministic.
func Resolve(dotGit string, name, email string, when time.Time) (author, committer object.Signature) {
	cfgName, cfgEmail := fromConfigFiles(dotGit)

	author = object.Signature{
		Name:  firstNonEmpty(name, os.Getenv("GIT_AUTHOR_NAME"), cfgName),
		Email: firstNonEmpty(email, os.Getenv("GIT_AUTHOR_EMAIL"), cfgEmail),
		When:  authorTime("GIT_AUTHOR_DATE", when),
	}
	committer = object.Signature{
		Name:  firstNonEmpty(name, os.Getenv("GIT_COMMITTER_NAME"), cfgName),
		Email: firstNonEmpty(email, os.Getenv("GIT_COMMITTER_EMAIL"), cfgEmail),
		When:  authorTime("GIT_COMMITTER_DATE", when),
	}

	return author, committer
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// authorTime honors a "<unix> <+hhmm>" override via the named
// environment variable, falling back to when. Only the leading
// unix-seconds field is used; any offset after it is ignored and the
// result keeps when's location.
func authorTime(env string, when time.Time) time.Time {
	raw := os.Getenv(env)
	if raw == "" {
		return when
	}

	var secs int64
	if _, err := parseUnixPrefix(raw, &secs); err != nil {
		return when
	}

	return time.Unix(secs, 0).In(when.Location())
}

func parseUnixPrefix(s string, out *int64) (int, error) {
	end := 0
	for end < len(s) && s[end] != ' ' {
		end++
	}

	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, err
	}

	*out = v
	return end, nil
}

// fromConfigFiles reads the "user" section out of dotGit/config and, if
// either field is still unset, out of ~/.gitconfig.
func fromConfigFiles(dotGit string) (name, email string) {
	name, email = readUserSection(filepath.Join(dotGit, "config"))
	if name != "" && email != "" {
		return name, email
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return name, email
	}

	hn, he := readUserSection(filepath.Join(home, ".gitconfig"))
	if name == "" {
		name = hn
	}
	if email == "" {
		email = he
	}

	return name, email
}

func readUserSection(path string) (name, email string) {
	f, err := os.Open(path)
	if err != nil {
		return "", ""
	}
	defer f.Close() //nolint:errcheck

	var cfg userConfig
	if err := readInto(&cfg, f); err != nil {
		return "", ""
	}

	return cfg.User.Name, cfg.User.Email
}

func readInto(cfg *userConfig, r io.Reader) error {
	return gcfg.FatalOnly(gcfg.ReadInto(cfg, r))
}
