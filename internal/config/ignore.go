package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/treescan/internal/utils"
)

const (
	// IgnoreFileName is the name of the per-directory ignore file. Each line
	// holds one exclude glob; blank lines and # comments are skipped.
	IgnoreFileName = ".treescanignore"

	commentPrefix = "#"
)

// LoadIgnoreFilePatterns reads the ignore file in the provided directory and
// returns its exclude patterns. A missing file yields no patterns.
func LoadIgnoreFilePatterns(directoryPath string) ([]string, error) {
	ignoreFilePath := filepath.Join(directoryPath, IgnoreFileName)
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", ignoreFilePath, openFileError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var patterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == utils.EmptyString || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		patterns = append(patterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf("read %s: %w", ignoreFilePath, scanError)
	}
	return utils.DeduplicatePatterns(patterns), nil
}
