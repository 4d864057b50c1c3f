// Package http implements a git smart-HTTP protocol-v2 client: enough
// to discover a remote's capabilities and default branch, and fetch a
// single packfile containing the objects reachable from one commit.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	ctxio "github.com/jbenet/go-context/io"

	"github.com/litvc/lit/internal/trace"
	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/format/pktline"
	"github.com/litvc/lit/plumbing/protocol"
	"github.com/litvc/lit/plumbing/protocol/sideband"
)

var (
	// ErrUnsupportedProtocol is returned when a remote does not answer
	// the protocol-v2 capability advertisement.
	ErrUnsupportedProtocol = errors.New("transport/http: remote does not support protocol version 2")
	// ErrUnexpectedStatus is returned when a request receives a non-2xx
	// HTTP response.
	ErrUnexpectedStatus = errors.New("transport/http: unexpected HTTP status")
	// ErrReferenceNotFound is returned when ls-refs does not list the
	// requested ref.
	ErrReferenceNotFound = errors.New("transport/http: reference not found on remote")
)

const uploadPackService = "git-upload-pack"

// Client fetches packs from a single git smart-HTTP remote using
// protocol version 2.
type Client struct {
	// HTTPClient performs the underlying requests; defaults to
	// http.DefaultClient when left nil.
	HTTPClient *http.Client
	// Progress, if set, receives the remote's sideband progress text
	// during Fetch.
	Progress io.Writer
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// Discover performs the GET info/refs?service=git-upload-pack request
// and returns the capabilities the remote advertises. It fails with
// ErrUnsupportedProtocol if the remote does not speak protocol v2.
func (c *Client) Discover(ctx context.Context, endpoint string) (*protocol.Capabilities, error) {
	url := strings.TrimSuffix(endpoint, "/") + "/info/refs?service=" + uploadPackService

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Git-Protocol", "version=2")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	trace.HTTP.Printf("GET %s -> %s", url, resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	sc := pktline.NewScanner(ctxio.NewReader(ctx, resp.Body))

	if !sc.Scan() || !strings.HasPrefix(string(sc.Bytes()), "# service=") {
		return nil, ErrUnsupportedProtocol
	}
	if !sc.Scan() || !sc.IsFlush() {
		return nil, ErrUnsupportedProtocol
	}

	caps := protocol.NewCapabilities()
	sawVersion2 := false
	for sc.Scan() {
		if sc.IsFlush() {
			break
		}
		line := string(sc.Bytes())
		if strings.TrimSuffix(line, "\n") == "version 2" {
			sawVersion2 = true
			continue
		}
		caps.Decode(line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !sawVersion2 {
		return nil, ErrUnsupportedProtocol
	}

	return caps, nil
}

// post issues a protocol-v2 command to the upload-pack endpoint and
// returns its raw response body (still pkt-line framed).
func (c *Client) post(ctx context.Context, endpoint string, body []byte) (io.ReadCloser, error) {
	url := strings.TrimSuffix(endpoint, "/") + "/" + uploadPackService

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-git-upload-pack-request")
	req.Header.Set("Git-Protocol", "version=2")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}

	trace.HTTP.Printf("POST %s -> %s", url, resp.Status)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	return resp.Body, nil
}

// LsRefs resolves refName (e.g. "HEAD" or "refs/heads/main") to its
// current hash on the remote via the ls-refs command.
func (c *Client) LsRefs(ctx context.Context, endpoint, refName string) (plumbing.Hash, error) {
	h, _, err := c.lsRefs(ctx, endpoint, refName, false)
	return h, err
}

// HeadRef resolves HEAD's current hash on the remote and, via the
// protocol-v2 ls-refs "symrefs" extension, the branch ref HEAD points
// to — i.e. the remote's default branch.
func (c *Client) HeadRef(ctx context.Context, endpoint string) (want plumbing.Hash, branch string, err error) {
	return c.lsRefs(ctx, endpoint, "HEAD", true)
}

// lsRefs issues the ls-refs command for refName, optionally requesting
// the symrefs extension so a symbolic ref's response line carries a
// trailing "symref-target:<ref>" field naming what it points to.
func (c *Client) lsRefs(ctx context.Context, endpoint, refName string, symrefs bool) (plumbing.Hash, string, error) {
	buf := bytes.NewBuffer(nil)
	pktline.WriteString(buf, "command=ls-refs\n") //nolint:errcheck
	pktline.WriteDelim(buf)                       //nolint:errcheck
	if symrefs {
		pktline.WriteString(buf, "symrefs\n") //nolint:errcheck
	}
	pktline.WriteString(buf, "ref-prefix "+refName+"\n") //nolint:errcheck
	pktline.WriteFlush(buf)                              //nolint:errcheck

	body, err := c.post(ctx, endpoint, buf.Bytes())
	if err != nil {
		return plumbing.ZeroHash, "", err
	}
	defer body.Close() //nolint:errcheck

	sc := pktline.NewScanner(ctxio.NewReader(ctx, body))
	for sc.Scan() {
		if sc.IsFlush() {
			break
		}
		line := strings.TrimSuffix(string(sc.Bytes()), "\n")
		fields := strings.Split(line, " ")
		if len(fields) < 2 || fields[1] != refName {
			continue
		}

		var target string
		for _, attr := range fields[2:] {
			if t, ok := strings.CutPrefix(attr, "symref-target:"); ok {
				target = t
			}
		}
		return plumbing.NewHash(fields[0]), target, nil
	}
	if err := sc.Err(); err != nil {
		return plumbing.ZeroHash, "", err
	}

	return plumbing.ZeroHash, "", ErrReferenceNotFound
}

// Fetch requests the pack containing want and everything reachable
// from it, writing the decoded packfile bytes to dst. It returns the
// number of packfile bytes written.
func (c *Client) Fetch(ctx context.Context, endpoint string, want plumbing.Hash, dst io.Writer) (int64, error) {
	buf := bytes.NewBuffer(nil)
	pktline.WriteString(buf, "command=fetch\n")          //nolint:errcheck
	pktline.WriteDelim(buf)                              //nolint:errcheck
	pktline.WriteString(buf, "no-progress\n")            //nolint:errcheck
	pktline.WriteString(buf, "want "+want.String()+"\n") //nolint:errcheck
	pktline.WriteString(buf, "done\n")                   //nolint:errcheck
	pktline.WriteFlush(buf)                              //nolint:errcheck

	body, err := c.post(ctx, endpoint, buf.Bytes())
	if err != nil {
		return 0, err
	}
	defer body.Close() //nolint:errcheck

	sc := pktline.NewScanner(ctxio.NewReader(ctx, body))

	for sc.Scan() {
		if sc.IsFlush() || sc.IsDelim() {
			continue
		}
		line := strings.TrimSuffix(string(sc.Bytes()), "\n")
		if line == "packfile" {
			break
		}
		// acknowledgments section lines are ignored: this client
		// always sends "done" immediately, so the server skips
		// multi-round negotiation.
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}

	demux := sideband.NewDemuxerFromScanner(sideband.Sideband64k, sc)
	demux.Progress = c.Progress

	return io.Copy(dst, demux)
}
