package packfile

import "errors"

var (
	// ErrInvalidDelta is returned when a delta instruction stream is
	// truncated or malformed.
	ErrInvalidDelta = errors.New("packfile: invalid delta")
	// ErrDeltaSizeMismatch is returned when applying a delta produces a
	// result whose size does not match the size it declared, or when
	// the supplied base does not match the size the delta expects.
	ErrDeltaSizeMismatch = errors.New("packfile: delta size mismatch")
)

const (
	payloadMask  = 0x7f
	continueMask = 0x80
	maxCopySize  = 0x10000
)

// PatchDelta applies the ref-delta instructions in delta against src,
// the base object's raw content, and returns the resulting object
// content.
func PatchDelta(src, delta []byte) ([]byte, error) {
	srcSize, rest, err := decodeDeltaSize(delta)
	if err != nil {
		return nil, err
	}
	if uint64(len(src)) != srcSize {
		return nil, ErrDeltaSizeMismatch
	}

	targetSize, rest, err := decodeDeltaSize(rest)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, 0, targetSize)

	for len(rest) > 0 {
		cmd := rest[0]
		rest = rest[1:]

		switch {
		case cmd&continueMask != 0:
			var offset, size uint32

			if cmd&0x01 != 0 {
				offset, rest, err = takeByte(rest, offset, 0)
			}
			if err == nil && cmd&0x02 != 0 {
				offset, rest, err = takeByte(rest, offset, 8)
			}
			if err == nil && cmd&0x04 != 0 {
				offset, rest, err = takeByte(rest, offset, 16)
			}
			if err == nil && cmd&0x08 != 0 {
				offset, rest, err = takeByte(rest, offset, 24)
			}
			if err == nil && cmd&0x10 != 0 {
				size, rest, err = takeByte(rest, size, 0)
			}
			if err == nil && cmd&0x20 != 0 {
				size, rest, err = takeByte(rest, size, 8)
			}
			if err == nil && cmd&0x40 != 0 {
				size, rest, err = takeByte(rest, size, 16)
			}
			if err != nil {
				return nil, err
			}

			if size == 0 {
				size = maxCopySize
			}

			if uint64(offset)+uint64(size) > uint64(len(src)) {
				return nil, ErrInvalidDelta
			}

			dst = append(dst, src[offset:offset+size]...)

		case cmd != 0:
			n := int(cmd & payloadMask)
			if n > len(rest) {
				return nil, ErrInvalidDelta
			}
			dst = append(dst, rest[:n]...)
			rest = rest[n:]

		default:
			// cmd == 0 is reserved and never produced by git.
			return nil, ErrInvalidDelta
		}
	}

	if uint64(len(dst)) != targetSize {
		return nil, ErrDeltaSizeMismatch
	}

	return dst, nil
}

func takeByte(b []byte, acc uint32, shift uint) (uint32, []byte, error) {
	if len(b) == 0 {
		return 0, nil, ErrInvalidDelta
	}
	return acc | uint32(b[0])<<shift, b[1:], nil
}

// decodeDeltaSize decodes one of the two size varints (source size,
// target size) at the head of a delta instruction stream.
func decodeDeltaSize(b []byte) (uint64, []byte, error) {
	var v uint64
	var shift uint
	for i := 0; i < len(b); i++ {
		c := b[i]
		v |= uint64(c&payloadMask) << shift
		if c&continueMask == 0 {
			return v, b[i+1:], nil
		}
		shift += 7
	}
	return 0, nil, ErrInvalidDelta
}
