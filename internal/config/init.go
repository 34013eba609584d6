package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/treescan/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	configFilePermissions      = 0o644
	configDirectoryPermissions = 0o755

	defaultConfigurationTemplate = `scan:
  mode: EVERYTHING
  format: text
  max_depth: -1
  workers: 0
  filter:
    enabled: true
    exclude: []
    include: []
    max_file_size: 0
    ignore_hidden: false
    ignore_system: false
  render:
    pretty: true
    metadata: false
    statistics: false
    timestamp_layout: "2006-01-02 15:04:05"
    max_render_depth: -1
    case_style: camelCase
    permissions: false
    omit_nulls: true
`
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the destination path. Existing files are preserved
// unless Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == utils.EmptyString {
			currentDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return utils.EmptyString, fmt.Errorf("determine working directory for configuration: %w", workingDirectoryError)
			}
			workingDirectory = currentDirectory
		}
		destinationPath = filepath.Join(workingDirectory, LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory, homeError := os.UserHomeDir()
		if homeError != nil {
			return utils.EmptyString, fmt.Errorf("resolve home directory for configuration: %w", homeError)
		}
		globalDirectory := filepath.Join(homeDirectory, GlobalConfigDirectoryName)
		if makeDirectoryError := os.MkdirAll(globalDirectory, configDirectoryPermissions); makeDirectoryError != nil {
			return utils.EmptyString, fmt.Errorf("create configuration directory %s: %w", globalDirectory, makeDirectoryError)
		}
		destinationPath = filepath.Join(globalDirectory, GlobalConfigFileName)
	default:
		return utils.EmptyString, fmt.Errorf("unknown configuration target '%s'", target)
	}

	if !options.Force {
		if _, statError := os.Stat(destinationPath); statError == nil {
			return destinationPath, fmt.Errorf("configuration file %s already exists", destinationPath)
		}
	}
	if writeError := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configFilePermissions); writeError != nil {
		return utils.EmptyString, fmt.Errorf("write configuration file %s: %w", destinationPath, writeError)
	}
	return destinationPath, nil
}
