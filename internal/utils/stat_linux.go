//go:build linux

package utils

import (
	"io/fs"
	"os/user"
	"strconv"
	"syscall"
	"time"
)

// EntryTimes extracts the creation and last-access timestamps for a
// filesystem entry. Unix exposes no portable birth time, so the inode change
// time stands in for the creation time; both fall back to the modification
// time when the raw stat structure is unavailable.
func EntryTimes(information fs.FileInfo) (created time.Time, accessed time.Time) {
	rawStat, statAvailable := information.Sys().(*syscall.Stat_t)
	if !statAvailable {
		return information.ModTime(), information.ModTime()
	}
	created = time.Unix(rawStat.Ctim.Sec, rawStat.Ctim.Nsec)
	accessed = time.Unix(rawStat.Atim.Sec, rawStat.Atim.Nsec)
	return created, accessed
}

// OwnerName resolves the owning user of a filesystem entry to a login name,
// falling back to the numeric uid when the account is unknown. Returns an
// empty string when ownership information is unavailable.
func OwnerName(information fs.FileInfo) string {
	rawStat, statAvailable := information.Sys().(*syscall.Stat_t)
	if !statAvailable {
		return EmptyString
	}
	userIdentifier := strconv.FormatUint(uint64(rawStat.Uid), 10)
	account, lookupError := user.LookupId(userIdentifier)
	if lookupError != nil {
		return userIdentifier
	}
	return account.Username
}
