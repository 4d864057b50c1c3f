package objfile

import "github.com/litvc/lit/plumbing"

var objfileFixtures = []struct {
	hash    string
	t       plumbing.ObjectType
	content string // base64 encoded
}{
	{"b6fc4c620b67d95f953a5c1c1230aaab5db5a1b0", plumbing.BlobObject, "aGVsbG8="},
	{"e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", plumbing.BlobObject, ""},
}
