// Package filemode implements the file modes used by git tree entries.
package filemode

import (
	"encoding/binary"
	"fmt"
	"os"
	"strconv"
)

// A FileMode represents the kind of tree entry git uses: ordinary file,
// directory, symlink or submodule, plus the deprecated group-writable
// regular-file mode some historical repositories carry.
type FileMode uint32

const (
	// Empty is the zero value, used to signal "no mode" or an error.
	Empty FileMode = 0
	// Dir is a tree entry pointing at another tree.
	Dir FileMode = 0o40000
	// Regular is an ordinary, non-executable file.
	Regular FileMode = 0o100644
	// Deprecated is an ordinary file, historically group-writable.
	Deprecated FileMode = 0o100664
	// Executable is an ordinary, executable file.
	Executable FileMode = 0o100755
	// Symlink is a symbolic link.
	Symlink FileMode = 0o120000
	// Submodule is a gitlink, pointing at the commit of a submodule.
	Submodule FileMode = 0o160000
)

// New parses the octal string representation of a FileMode, the same
// representation found in tree entries and "ls-tree" output.
func New(s string) (FileMode, error) {
	n, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return Empty, err
	}

	return FileMode(n), nil
}

// NewFromOSFileMode translates an os.FileMode into its closest git
// equivalent. It returns an error for modes with no git equivalent
// (devices, sockets, named pipes, temporary files).
func NewFromOSFileMode(m os.FileMode) (FileMode, error) {
	if m.IsDir() {
		return Dir, nil
	}

	if m&os.ModeSymlink != 0 {
		return Symlink, nil
	}

	const noEquivalent = os.ModeNamedPipe | os.ModeSocket | os.ModeDevice |
		os.ModeCharDevice | os.ModeTemporary
	if m&noEquivalent != 0 {
		return Empty, fmt.Errorf("no equivalent file mode: %s", m)
	}

	if m&0o100 != 0 {
		return Executable, nil
	}

	return Regular, nil
}

// String returns the seven-digit octal representation of m.
func (m FileMode) String() string {
	return fmt.Sprintf("%07o", uint32(m))
}

// Bytes returns the little-endian 4-byte encoding of m, matching how
// modes are packed in a packfile tree-entry index.
func (m FileMode) Bytes() []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(m))
	return b
}

// IsMalformed reports whether m is not one of the recognized modes.
func (m FileMode) IsMalformed() bool {
	switch m {
	case Dir, Regular, Deprecated, Executable, Symlink, Submodule:
		return false
	default:
		return true
	}
}

// IsRegular reports whether m is an ordinary, non-executable file.
func (m FileMode) IsRegular() bool {
	return m == Regular || m == Deprecated
}

// IsFile reports whether m names a tree entry backed by a blob (a
// regular file, executable, or symlink), as opposed to a tree or
// submodule.
func (m FileMode) IsFile() bool {
	return m == Regular || m == Deprecated || m == Executable || m == Symlink
}

// ToOSFileMode translates m into its closest os.FileMode equivalent. It
// returns an error if m is malformed.
func (m FileMode) ToOSFileMode() (os.FileMode, error) {
	switch m {
	case Dir, Submodule:
		return os.ModePerm | os.ModeDir, nil
	case Regular, Deprecated:
		return 0o644, nil
	case Executable:
		return 0o755, nil
	case Symlink:
		return os.ModePerm | os.ModeSymlink, nil
	default:
		return 0, fmt.Errorf("malformed mode: %s", m)
	}
}
