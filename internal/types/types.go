// Package types defines every cross-package data structure used by the treescan tool.
package types

const (
	NodeKindFile      = "file"
	NodeKindDirectory = "directory"

	FormatText = "text"
	FormatJSON = "json"
	FormatXML  = "xml"
)

// Mode is the traversal policy controlling which combination of files and
// empty or non-empty directories is materialized into the tree.
type Mode string

const (
	// ModeClean includes non-empty files and directories that contain at least one file.
	ModeClean Mode = "CLEAN"
	// ModeAllFiles includes every file and no directories below the root.
	ModeAllFiles Mode = "ALL_FILES"
	// ModeAllFolders includes every directory, empty or not, and no files.
	ModeAllFolders Mode = "ALL_FOLDERS"
	// ModeFolders includes only directories that contain at least one surviving entry.
	ModeFolders Mode = "FOLDERS"
	// ModeEverything includes every file and every directory.
	ModeEverything Mode = "EVERYTHING"
)

// errorUnknownModeFormat reports an unrecognized traversal mode value.
const errorUnknownModeFormat = "unknown traversal mode '%s'"

// ParseMode validates a traversal mode value. Matching is case-sensitive.
func ParseMode(candidate string) (Mode, error) {
	switch Mode(candidate) {
	case ModeClean, ModeAllFiles, ModeAllFolders, ModeFolders, ModeEverything:
		return Mode(candidate), nil
	default:
		return "", NewInvalidConfigurationError(errorUnknownModeFormat, candidate)
	}
}

// IncludesFiles reports whether the mode materializes file nodes.
func (mode Mode) IncludesFiles() bool {
	switch mode {
	case ModeClean, ModeAllFiles, ModeEverything:
		return true
	default:
		return false
	}
}

// IncludesDirectories reports whether the mode materializes directory nodes below the root.
func (mode Mode) IncludesDirectories() bool {
	return mode != ModeAllFiles
}

// IncludesEmptyDirectories reports whether the mode keeps directories without qualifying content.
func (mode Mode) IncludesEmptyDirectories() bool {
	switch mode {
	case ModeAllFolders, ModeEverything:
		return true
	default:
		return false
	}
}
