package pktline

import "io"

// WritePacket writes p as a single pkt-line to w.
func WritePacket(w io.Writer, p []byte) (int, error) {
	if len(p) > MaxPayloadSize {
		return 0, ErrPayloadTooLong
	}

	header := encodeLength(len(p) + lenSize)
	n1, err := w.Write(header[:])
	if err != nil {
		return n1, err
	}

	n2, err := w.Write(p)
	return n1 + n2, err
}

// WriteString writes s as a single pkt-line to w.
func WriteString(w io.Writer, s string) (int, error) {
	return WritePacket(w, []byte(s))
}

// WriteFlush writes a flush-pkt ("0000") to w.
func WriteFlush(w io.Writer) (int, error) {
	return w.Write([]byte("0000"))
}

// WriteDelim writes a delim-pkt ("0001") to w, used to separate sections
// of a protocol-v2 request or response.
func WriteDelim(w io.Writer) (int, error) {
	return w.Write([]byte("0001"))
}
