package utils

import (
	"io/fs"
	"strings"
)

// hiddenNamePrefix marks hidden entries on Unix-like systems.
const hiddenNamePrefix = "."

// IsHiddenName reports whether an entry name denotes a hidden entry.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, hiddenNamePrefix) && name != "." && name != ".."
}

// IsSystemMode reports whether the file mode describes a system-level entry.
// Unix has no system attribute; device nodes, sockets, and named pipes are
// the closest equivalent.
func IsSystemMode(mode fs.FileMode) bool {
	return mode&(fs.ModeDevice|fs.ModeCharDevice|fs.ModeSocket|fs.ModeNamedPipe) != 0
}

// ownerWritePermissionBit is the owner write bit of a Unix permission mask.
const ownerWritePermissionBit = 0o200

// IsReadOnlyMode reports whether the file mode denies write access to its owner.
func IsReadOnlyMode(mode fs.FileMode) bool {
	return mode.Perm()&ownerWritePermissionBit == 0
}
