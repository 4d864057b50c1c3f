package object

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/litvc/lit/plumbing"
)

// ErrMalformedCommit is returned when a commit's encoded bytes do not
// follow the "tree/parent*/author/committer/blank-line/message" shape.
var ErrMalformedCommit = errors.New("object: malformed commit")

// Signature identifies the author or committer of a commit: a name, an
// email, and the instant the commit was made, including the signer's
// UTC offset at the time.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses a "Name <email> <unix-seconds> <+hhmm>" signature line.
func (s *Signature) Decode(line []byte) {
	open := bytes.LastIndexByte(line, '<')
	shut := bytes.LastIndexByte(line, '>')
	if open < 0 || shut < 0 || shut < open {
		return
	}

	s.Name = strings.TrimSpace(string(line[:open]))
	s.Email = string(line[open+1 : shut])

	rest := strings.TrimSpace(string(line[shut+1:]))
	parts := strings.Fields(rest)
	if len(parts) < 1 {
		return
	}

	secs, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return
	}

	loc := time.FixedZone("", 0)
	if len(parts) >= 2 {
		if off, ok := parseOffset(parts[1]); ok {
			loc = time.FixedZone("", off)
		}
	}

	s.When = time.Unix(secs, 0).In(loc)
}

// Encode renders s as a "Name <email> <unix-seconds> <+hhmm>" line.
func (s *Signature) Encode() []byte {
	_, offset := s.When.Zone()
	sign := byte('+')
	if offset < 0 {
		sign = '-'
		offset = -offset
	}

	hh := offset / 3600
	mm := (offset % 3600) / 60

	return []byte(fmt.Sprintf("%s <%s> %d %c%02d%02d",
		s.Name, s.Email, s.When.Unix(), sign, hh, mm))
}

func parseOffset(s string) (int, bool) {
	if len(s) != 5 {
		return 0, false
	}
	sign := 1
	switch s[0] {
	case '-':
		sign = -1
	case '+':
	default:
		return 0, false
	}

	hh, err := strconv.Atoi(s[1:3])
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, false
	}

	return sign * (hh*3600 + mm*60), true
}

// Commit is a snapshot of the repository tree, its history (parents),
// and who committed it and why (the message).
type Commit struct {
	Hash      plumbing.Hash
	Tree      plumbing.Hash
	Parents   []plumbing.Hash
	Author    Signature
	Committer Signature
	Message   string
}

// Type returns plumbing.CommitObject.
func (*Commit) Type() plumbing.ObjectType { return plumbing.CommitObject }

// Encode renders c as the raw bytes of a commit object.
func (c *Commit) Encode() []byte {
	buf := bytes.NewBuffer(nil)

	fmt.Fprintf(buf, "tree %s\n", c.Tree)
	for _, p := range c.Parents {
		fmt.Fprintf(buf, "parent %s\n", p)
	}
	fmt.Fprintf(buf, "author %s\n", c.Author.Encode())
	fmt.Fprintf(buf, "committer %s\n", c.Committer.Encode())
	buf.WriteByte('\n')
	buf.WriteString(c.Message)

	return buf.Bytes()
}

// DecodeCommit parses the raw content of a commit object.
func DecodeCommit(h plumbing.Hash, content []byte) (*Commit, error) {
	c := &Commit{Hash: h}

	s := bufio.NewScanner(bytes.NewReader(content))
	s.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	for s.Scan() {
		line := s.Text()
		if line == "" {
			break
		}

		switch {
		case strings.HasPrefix(line, "tree "):
			c.Tree = plumbing.NewHash(strings.TrimPrefix(line, "tree "))
		case strings.HasPrefix(line, "parent "):
			c.Parents = append(c.Parents, plumbing.NewHash(strings.TrimPrefix(line, "parent ")))
		case strings.HasPrefix(line, "author "):
			c.Author.Decode([]byte(strings.TrimPrefix(line, "author ")))
		case strings.HasPrefix(line, "committer "):
			c.Committer.Decode([]byte(strings.TrimPrefix(line, "committer ")))
		default:
			return nil, fmt.Errorf("%w: unexpected header %q", ErrMalformedCommit, line)
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	for s.Scan() {
		msg.Write(s.Bytes())
		msg.WriteByte('\n')
	}
	c.Message = strings.TrimSuffix(msg.String(), "\n")

	if c.Tree.IsZero() {
		return nil, fmt.Errorf("%w: missing tree", ErrMalformedCommit)
	}

	return c, nil
}
