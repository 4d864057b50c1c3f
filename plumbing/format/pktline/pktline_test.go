package pktline_test

import (
	"bytes"
	"testing"

	"github.com/litvc/lit/plumbing/format/pktline"
	"github.com/stretchr/testify/require"
)

func TestWriteReadPacket(t *testing.T) {
	buf := bytes.NewBuffer(nil)

	_, err := pktline.WriteString(buf, "want deadbeef\n")
	require.NoError(t, err)
	_, err = pktline.WriteFlush(buf)
	require.NoError(t, err)

	require.Equal(t, "0012want deadbeef\n0000", buf.String())

	sc := pktline.NewScanner(buf)

	require.True(t, sc.Scan())
	require.False(t, sc.IsFlush())
	require.Equal(t, "want deadbeef\n", string(sc.Bytes()))

	require.True(t, sc.Scan())
	require.True(t, sc.IsFlush())

	require.False(t, sc.Scan())
	require.NoError(t, sc.Err())
}

func TestWriteDelim(t *testing.T) {
	buf := bytes.NewBuffer(nil)

	_, err := pktline.WriteString(buf, "command=fetch\n")
	require.NoError(t, err)
	_, err = pktline.WriteDelim(buf)
	require.NoError(t, err)

	sc := pktline.NewScanner(buf)
	require.True(t, sc.Scan())
	require.Equal(t, "command=fetch\n", string(sc.Bytes()))

	require.True(t, sc.Scan())
	require.True(t, sc.IsDelim())
}

func TestPayloadTooLong(t *testing.T) {
	buf := bytes.NewBuffer(nil)
	big := make([]byte, pktline.MaxPayloadSize+1)

	_, err := pktline.WritePacket(buf, big)
	require.ErrorIs(t, err, pktline.ErrPayloadTooLong)
}
