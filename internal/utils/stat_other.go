//go:build !linux

package utils

import (
	"io/fs"
	"time"
)

// EntryTimes extracts the creation and last-access timestamps for a
// filesystem entry. Platforms without a raw stat structure report the
// modification time for both.
func EntryTimes(information fs.FileInfo) (created time.Time, accessed time.Time) {
	return information.ModTime(), information.ModTime()
}

// OwnerName resolves the owning user of a filesystem entry. Ownership
// information is unavailable without a raw stat structure.
func OwnerName(information fs.FileInfo) string {
	return EmptyString
}
