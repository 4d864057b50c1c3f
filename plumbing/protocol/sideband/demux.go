// Package sideband implements the sideband-64k channel multiplexing
// git's upload-pack uses to interleave pack data, progress messages and
// error reports on a single connection.
package sideband

import (
	"errors"
	"fmt"
	"io"

	"github.com/litvc/lit/plumbing/format/pktline"
)

// Type selects which sideband flavor is in use, which bounds the
// maximum payload size per packet.
type Type int

const (
	// Sideband is the original, smaller-packet sideband capability.
	Sideband Type = iota
	// Sideband64k is the larger-packet variant upload-pack prefers.
	Sideband64k
)

// Channel identifies which stream a sideband-multiplexed packet belongs
// to.
type Channel byte

const (
	// PackData carries raw packfile bytes.
	PackData Channel = 1
	// ProgressMessage carries human-readable progress text.
	ProgressMessage Channel = 2
	// ErrorMessage carries a fatal error and ends the stream.
	ErrorMessage Channel = 3
)

const (
	maxPackedSize    = 999
	maxPackedSize64k = 65519
)

// ErrMaxPackedExceeded is returned when a packet's payload is larger
// than its sideband Type allows.
var ErrMaxPackedExceeded = errors.New("sideband: payload exceeds maximum packet size")

// Demuxer is an io.Reader over just the PackData channel of a
// sideband-multiplexed pkt-line stream; ProgressMessage packets are
// routed to Progress (if set) instead of being returned from Read, and
// an ErrorMessage packet ends the stream with an error.
type Demuxer struct {
	t  Type
	sc *pktline.Scanner

	// Progress, if set, receives the content of progress-channel
	// packets as they arrive.
	Progress io.Writer

	pending []byte
}

// NewDemuxer returns a Demuxer of the given Type reading from r.
func NewDemuxer(t Type, r io.Reader) *Demuxer {
	return &Demuxer{t: t, sc: pktline.NewScanner(r)}
}

// NewDemuxerFromScanner returns a Demuxer that continues reading from
// an already-started pktline.Scanner, so the caller can read the
// non-sideband sections of a response (e.g. the "packfile" marker
// line) before handing the rest of the stream to the Demuxer.
func NewDemuxerFromScanner(t Type, sc *pktline.Scanner) *Demuxer {
	return &Demuxer{t: t, sc: sc}
}

// Read implements io.Reader, returning only PackData payloads.
func (d *Demuxer) Read(p []byte) (int, error) {
	for len(d.pending) == 0 {
		if !d.sc.Scan() {
			if err := d.sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		if d.sc.IsFlush() || d.sc.IsDelim() {
			return 0, io.EOF
		}

		payload := d.sc.Bytes()
		if len(payload) == 0 {
			continue
		}

		max := maxPackedSize
		if d.t == Sideband64k {
			max = maxPackedSize64k
		}
		if len(payload)-1 > max {
			return 0, ErrMaxPackedExceeded
		}

		channel := Channel(payload[0])
		data := payload[1:]

		switch channel {
		case PackData:
			d.pending = data
		case ProgressMessage:
			if d.Progress != nil {
				if _, err := d.Progress.Write(data); err != nil {
					return 0, err
				}
			}
		case ErrorMessage:
			return 0, fmt.Errorf("sideband: remote error: %s", data)
		default:
			return 0, fmt.Errorf("sideband: unknown channel %d", channel)
		}
	}

	n := copy(p, d.pending)
	d.pending = d.pending[n:]
	return n, nil
}
