package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy shared by the builder and renderers.
var (
	// ErrPathNotFound indicates that the requested root path does not exist.
	ErrPathNotFound = errors.New("path not found")
	// ErrNotADirectory indicates that the requested root path is not a directory.
	ErrNotADirectory = errors.New("not a directory")
	// ErrPermissionDenied indicates that an entry could not be read during the walk.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrInvalidConfiguration indicates a missing or out-of-range configuration value.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// NewPathNotFoundError wraps ErrPathNotFound with the offending path.
func NewPathNotFoundError(path string) error {
	return fmt.Errorf("%w: %s", ErrPathNotFound, path)
}

// NewNotADirectoryError wraps ErrNotADirectory with the offending path.
func NewNotADirectoryError(path string) error {
	return fmt.Errorf("%w: %s", ErrNotADirectory, path)
}

// NewInvalidConfigurationError wraps ErrInvalidConfiguration with a formatted detail message.
func NewInvalidConfigurationError(format string, arguments ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, arguments...))
}
