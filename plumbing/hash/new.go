package hash

import "encoding/hex"

// ValidHex reports whether in is a well-formed hexadecimal hash string.
func ValidHex(in string) bool {
	if len(in) != HexSize {
		return false
	}
	_, err := hex.DecodeString(in)
	return err == nil
}

// FromHex parses a hexadecimal hash string, returning ok=false if in is
// not exactly HexSize hex characters.
func FromHex(in string) (h ObjectID, ok bool) {
	if len(in) != HexSize {
		return ObjectID{}, false
	}
	b, err := hex.DecodeString(in)
	if err != nil {
		return ObjectID{}, false
	}
	copy(h[:], b)
	return h, true
}

// MustFromHex is like FromHex but panics on malformed input.
func MustFromHex(in string) ObjectID {
	h, ok := FromHex(in)
	if !ok {
		panic("hash: invalid hex string " + in)
	}
	return h
}

// FromBytes builds an ObjectID from a raw 20-byte slice, returning
// ok=false if the slice is not exactly Size bytes.
func FromBytes(in []byte) (h ObjectID, ok bool) {
	if len(in) != Size {
		return ObjectID{}, false
	}
	copy(h[:], in)
	return h, true
}
