package http_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/litvc/lit/plumbing"
	"github.com/litvc/lit/plumbing/format/pktline"
	ginhttp "github.com/litvc/lit/plumbing/transport/http"
)

const testPack = "PACK-fake-pack-bytes-for-transport-test"

func newV2Server(t *testing.T, wantSHA string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/info/refs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "version=2", r.Header.Get("Git-Protocol"))

		pktline.WriteString(w, "# service=git-upload-pack\n") //nolint:errcheck
		pktline.WriteFlush(w)                                 //nolint:errcheck
		pktline.WriteString(w, "version 2\n")                 //nolint:errcheck
		pktline.WriteString(w, "ls-refs=unborn\n")            //nolint:errcheck
		pktline.WriteString(w, "fetch=shallow\n")             //nolint:errcheck
		pktline.WriteFlush(w)                                 //nolint:errcheck
	})

	mux.HandleFunc("/git-upload-pack", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		switch {
		case bytes.Contains(body, []byte("command=ls-refs")):
			if bytes.Contains(body, []byte("symrefs\n")) {
				pktline.WriteString(w, wantSHA+" HEAD symref-target:refs/heads/master\n") //nolint:errcheck
			} else {
				pktline.WriteString(w, wantSHA+" HEAD\n") //nolint:errcheck
			}
			pktline.WriteString(w, wantSHA+" refs/heads/master\n") //nolint:errcheck
			pktline.WriteFlush(w)                                  //nolint:errcheck

		case bytes.Contains(body, []byte("command=fetch")):
			require.Contains(t, string(body), "no-progress\n")
			pktline.WriteString(w, "packfile\n")                   //nolint:errcheck
			pktline.WritePacket(w, append([]byte{1}, testPack...)) //nolint:errcheck
			pktline.WriteFlush(w)                                  //nolint:errcheck

		default:
			t.Fatalf("unexpected request body: %s", body)
		}
	})

	return httptest.NewServer(mux)
}

func TestDiscoverLsRefsAndFetch(t *testing.T) {
	sha := "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"
	srv := newV2Server(t, sha)
	defer srv.Close()

	c := &ginhttp.Client{}
	ctx := context.Background()

	caps, err := c.Discover(ctx, srv.URL)
	require.NoError(t, err)
	require.True(t, caps.Supports("fetch"))

	h, branch, err := c.HeadRef(ctx, srv.URL)
	require.NoError(t, err)
	require.Equal(t, plumbing.NewHash(sha), h)
	require.Equal(t, "refs/heads/master", branch)

	buf := bytes.NewBuffer(nil)
	n, err := c.Fetch(ctx, srv.URL, h, buf)
	require.NoError(t, err)
	require.EqualValues(t, len(testPack), n)
	require.Equal(t, testPack, buf.String())
}

func TestLsRefsWithoutSymrefs(t *testing.T) {
	sha := "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"
	srv := newV2Server(t, sha)
	defer srv.Close()

	c := &ginhttp.Client{}
	h, err := c.LsRefs(context.Background(), srv.URL, "refs/heads/master")
	require.NoError(t, err)
	require.Equal(t, plumbing.NewHash(sha), h)
}

func TestLsRefsNotFound(t *testing.T) {
	sha := "b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0"
	srv := newV2Server(t, sha)
	defer srv.Close()

	c := &ginhttp.Client{}
	_, err := c.LsRefs(context.Background(), srv.URL, "refs/heads/missing")
	require.ErrorIs(t, err, ginhttp.ErrReferenceNotFound)
}
