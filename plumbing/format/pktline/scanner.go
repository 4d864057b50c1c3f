package pktline

import (
	"bufio"
	"io"
)

// Scanner reads a stream of pkt-lines, exposing flush and delim packets
// as zero-length packets distinguishable via IsFlush/IsDelim.
type Scanner struct {
	r       *bufio.Reader
	payload []byte
	isFlush bool
	isDelim bool
	err     error
}

// NewScanner returns a Scanner reading pkt-lines from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{r: bufio.NewReaderSize(r, MaxPayloadSize+lenSize)}
}

// Scan reads the next pkt-line. It returns false at EOF or on error; use
// Err to distinguish the two.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}

	var lenBuf [lenSize]byte
	if _, err := io.ReadFull(s.r, lenBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		s.err = err
		return false
	}

	length, ok := decodeLength(lenBuf[:])
	if !ok {
		s.err = ErrInvalidPktLen
		return false
	}

	switch length {
	case 0:
		s.isFlush, s.isDelim, s.payload = true, false, nil
		return true
	case 1:
		s.isFlush, s.isDelim, s.payload = false, true, nil
		return true
	}

	if length < lenSize {
		s.err = ErrInvalidPktLen
		return false
	}

	payloadLen := length - lenSize
	if payloadLen > MaxPayloadSize {
		s.err = ErrPayloadTooLong
		return false
	}

	buf := make([]byte, payloadLen)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		s.err = err
		return false
	}

	s.isFlush, s.isDelim, s.payload = false, false, buf
	return true
}

// Bytes returns the payload of the most recent packet. It is empty for
// flush and delim packets.
func (s *Scanner) Bytes() []byte { return s.payload }

// IsFlush reports whether the most recent packet was a flush-pkt.
func (s *Scanner) IsFlush() bool { return s.isFlush }

// IsDelim reports whether the most recent packet was a delim-pkt.
func (s *Scanner) IsDelim() bool { return s.isDelim }

// Err returns the first non-EOF error encountered by Scan.
func (s *Scanner) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
