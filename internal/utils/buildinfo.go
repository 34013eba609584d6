// Package utils provides ambient helpers shared across the treescan
// packages: logging, timestamp formatting, entry attribute probes, and
// version retrieval.
package utils

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
)

// unknownVersion is reported when no version source is available.
const unknownVersion = "unknown"

// GetApplicationVersion determines the application version. Module build
// info is consulted first; a development build falls back to git describe
// against the enclosing repository when one exists.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		return buildInfo.Main.Version
	}

	repositoryPath, repositoryError := findGitRepository(".")
	if repositoryError != nil {
		return unknownVersion
	}
	for _, describeArguments := range [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	} {
		// #nosec G204
		describeCommand := exec.Command("git", describeArguments...)
		describeCommand.Dir = repositoryPath
		describeOutput, describeError := describeCommand.Output()
		if describeError == nil && len(describeOutput) > 0 {
			return strings.TrimSpace(string(describeOutput))
		}
	}
	return unknownVersion
}

// findGitRepository walks upward from the starting directory until it finds
// a directory containing .git.
func findGitRepository(startDirectory string) (string, error) {
	currentDirectory, absolutePathError := filepath.Abs(startDirectory)
	if absolutePathError != nil {
		return EmptyString, absolutePathError
	}
	for {
		information, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName))
		if statError == nil && information.IsDir() {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return EmptyString, os.ErrNotExist
		}
		currentDirectory = parentDirectory
	}
}
