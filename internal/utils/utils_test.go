package utils_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/temirov/treescan/internal/utils"
)

// TestFormatTimestamp verifies layout selection and the zero-time rule.
func TestFormatTimestamp(testingInstance *testing.T) {
	timestamp := time.Date(2024, 5, 1, 12, 30, 45, 0, time.Local)

	if formatted := utils.FormatTimestamp(timestamp, utils.DefaultTimestampLayout); formatted != "2024-05-01 12:30:45" {
		testingInstance.Errorf("unexpected default layout output %q", formatted)
	}
	if formatted := utils.FormatTimestamp(timestamp, "2006-01-02"); formatted != "2024-05-01" {
		testingInstance.Errorf("unexpected custom layout output %q", formatted)
	}
	if formatted := utils.FormatTimestamp(timestamp, ""); formatted != "2024-05-01 12:30:45" {
		testingInstance.Errorf("expected the default layout fallback, got %q", formatted)
	}
	if formatted := utils.FormatTimestamp(time.Time{}, utils.DefaultTimestampLayout); formatted != "" {
		testingInstance.Errorf("expected the zero time to render empty, got %q", formatted)
	}
}

// TestIsHiddenName verifies the dot-prefix rule.
func TestIsHiddenName(testingInstance *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{name: ".git", expected: true},
		{name: ".treescan.yaml", expected: true},
		{name: "visible.txt", expected: false},
		{name: ".", expected: false},
		{name: "..", expected: false},
	}
	for _, testCase := range testCases {
		if actual := utils.IsHiddenName(testCase.name); actual != testCase.expected {
			testingInstance.Errorf("%q: expected %t, got %t", testCase.name, testCase.expected, actual)
		}
	}
}

// TestIsSystemMode verifies the device, socket, and pipe mode bits.
func TestIsSystemMode(testingInstance *testing.T) {
	testCases := []struct {
		testName string
		mode     fs.FileMode
		expected bool
	}{
		{testName: "regular file", mode: 0o644, expected: false},
		{testName: "directory", mode: fs.ModeDir | 0o755, expected: false},
		{testName: "block device", mode: fs.ModeDevice, expected: true},
		{testName: "character device", mode: fs.ModeDevice | fs.ModeCharDevice, expected: true},
		{testName: "socket", mode: fs.ModeSocket, expected: true},
		{testName: "named pipe", mode: fs.ModeNamedPipe, expected: true},
		{testName: "symlink", mode: fs.ModeSymlink, expected: false},
	}
	for _, testCase := range testCases {
		if actual := utils.IsSystemMode(testCase.mode); actual != testCase.expected {
			testingInstance.Errorf("%s: expected %t, got %t", testCase.testName, testCase.expected, actual)
		}
	}
}

// TestIsReadOnlyMode verifies the owner write bit check.
func TestIsReadOnlyMode(testingInstance *testing.T) {
	if utils.IsReadOnlyMode(0o644) {
		testingInstance.Error("expected owner-writable mode to not be read-only")
	}
	if !utils.IsReadOnlyMode(0o444) {
		testingInstance.Error("expected mode without the owner write bit to be read-only")
	}
	if !utils.IsReadOnlyMode(0o044) {
		testingInstance.Error("expected group-only permissions to be read-only for the owner")
	}
}

// TestDeduplicatePatterns verifies order-preserving deduplication.
func TestDeduplicatePatterns(testingInstance *testing.T) {
	deduplicated := utils.DeduplicatePatterns([]string{"*.log", "*.tmp", "*.log", "*.o", "*.tmp"})
	expected := []string{"*.log", "*.tmp", "*.o"}
	if len(deduplicated) != len(expected) {
		testingInstance.Fatalf("expected %d patterns, got %d", len(expected), len(deduplicated))
	}
	for position, expectedPattern := range expected {
		if deduplicated[position] != expectedPattern {
			testingInstance.Errorf("position %d: expected %s, got %s", position, expectedPattern, deduplicated[position])
		}
	}

	if empty := utils.DeduplicatePatterns(nil); len(empty) != 0 {
		testingInstance.Errorf("expected an empty result for nil input, got %v", empty)
	}
}
