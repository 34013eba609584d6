// Package config loads application configuration from layered files and
// converts it into the validated values consumed by the core packages. The
// core never reads configuration files itself.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/treescan/internal/filter"
	"github.com/temirov/treescan/internal/render"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	// LocalConfigFileName is the per-project configuration file name.
	LocalConfigFileName = ".treescan.yaml"
	// GlobalConfigDirectoryName is the directory under the user home holding the global configuration.
	GlobalConfigDirectoryName = ".config/treescan"
	// GlobalConfigFileName is the global configuration file name.
	GlobalConfigFileName = "config.yaml"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds the scan defaults loaded from files.
type ApplicationConfiguration struct {
	Scan ScanConfiguration `mapstructure:"scan"`
}

// ScanConfiguration defines the options of the scan command.
type ScanConfiguration struct {
	Mode     string              `mapstructure:"mode"`
	Format   string              `mapstructure:"format"`
	MaxDepth *int                `mapstructure:"max_depth"`
	Workers  *int                `mapstructure:"workers"`
	Filter   FilterConfiguration `mapstructure:"filter"`
	Render   RenderConfiguration `mapstructure:"render"`
}

// FilterConfiguration configures the default filter provider.
type FilterConfiguration struct {
	Enabled      *bool    `mapstructure:"enabled"`
	Exclude      []string `mapstructure:"exclude"`
	Include      []string `mapstructure:"include"`
	MaxFileSize  *int64   `mapstructure:"max_file_size"`
	IgnoreHidden *bool    `mapstructure:"ignore_hidden"`
	IgnoreSystem *bool    `mapstructure:"ignore_system"`
}

// RenderConfiguration configures the selected renderer.
type RenderConfiguration struct {
	Pretty          *bool  `mapstructure:"pretty"`
	Metadata        *bool  `mapstructure:"metadata"`
	Statistics      *bool  `mapstructure:"statistics"`
	TimestampLayout string `mapstructure:"timestamp_layout"`
	MaxRenderDepth  *int   `mapstructure:"max_render_depth"`
	CaseStyle       string `mapstructure:"case_style"`
	Permissions     *bool  `mapstructure:"permissions"`
	OmitNulls       *bool  `mapstructure:"omit_nulls"`
}

// LoadApplicationConfiguration loads configuration from the global file, the
// working-directory file, and an optional explicit path, in that order of
// increasing precedence.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == utils.EmptyString {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, homeError := os.UserHomeDir(); homeError == nil && homeDirectory != utils.EmptyString {
		globalPath := filepath.Join(homeDirectory, GlobalConfigDirectoryName, GlobalConfigFileName)
		globalConfiguration, loadError := loadConfigurationFromPath(globalPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(globalConfiguration)
	}

	localPath, resolveError := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveError != nil {
		return ApplicationConfiguration{}, resolveError
	}
	if localPath != utils.EmptyString {
		localConfiguration, loadError := loadConfigurationFromPath(localPath)
		if loadError != nil {
			return ApplicationConfiguration{}, loadError
		}
		merged = merged.Merge(localConfiguration)
	}

	merged.Scan.Filter.Exclude = utils.DeduplicatePatterns(merged.Scan.Filter.Exclude)
	merged.Scan.Filter.Include = utils.DeduplicatePatterns(merged.Scan.Filter.Include)

	return merged, nil
}

// resolveLocalConfigPath selects the working-directory configuration file,
// honoring an explicit path when one is supplied.
func resolveLocalConfigPath(workingDirectory string, explicitPath string) (string, error) {
	if explicitPath != utils.EmptyString {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == utils.EmptyString {
		return utils.EmptyString, nil
	}
	return filepath.Join(workingDirectory, LocalConfigFileName), nil
}

// loadConfigurationFromPath reads one configuration file. A missing file is
// not an error; it simply contributes nothing to the merge.
func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == utils.EmptyString {
		return ApplicationConfiguration{}, nil
	}
	information, statError := os.Stat(path)
	if statError != nil {
		if os.IsNotExist(statError) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statError)
	}
	if information.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readError := reader.ReadInConfig(); readError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readError)
	}
	var configuration ApplicationConfiguration
	if decodeError := reader.Unmarshal(&configuration); decodeError != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeError)
	}
	return configuration, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (configuration ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := configuration
	result.Scan = result.Scan.merge(override.Scan)
	return result
}

func (configuration ScanConfiguration) merge(override ScanConfiguration) ScanConfiguration {
	result := configuration
	if override.Mode != utils.EmptyString {
		result.Mode = override.Mode
	}
	if override.Format != utils.EmptyString {
		result.Format = override.Format
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.Workers != nil {
		result.Workers = cloneInt(override.Workers)
	}
	result.Filter = result.Filter.merge(override.Filter)
	result.Render = result.Render.merge(override.Render)
	return result
}

func (configuration FilterConfiguration) merge(override FilterConfiguration) FilterConfiguration {
	result := configuration
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if len(override.Exclude) > 0 {
		result.Exclude = append([]string{}, utils.DeduplicatePatterns(override.Exclude)...)
	}
	if len(override.Include) > 0 {
		result.Include = append([]string{}, utils.DeduplicatePatterns(override.Include)...)
	}
	if override.MaxFileSize != nil {
		result.MaxFileSize = cloneInt64(override.MaxFileSize)
	}
	if override.IgnoreHidden != nil {
		result.IgnoreHidden = cloneBool(override.IgnoreHidden)
	}
	if override.IgnoreSystem != nil {
		result.IgnoreSystem = cloneBool(override.IgnoreSystem)
	}
	return result
}

func (configuration RenderConfiguration) merge(override RenderConfiguration) RenderConfiguration {
	result := configuration
	if override.Pretty != nil {
		result.Pretty = cloneBool(override.Pretty)
	}
	if override.Metadata != nil {
		result.Metadata = cloneBool(override.Metadata)
	}
	if override.Statistics != nil {
		result.Statistics = cloneBool(override.Statistics)
	}
	if override.TimestampLayout != utils.EmptyString {
		result.TimestampLayout = override.TimestampLayout
	}
	if override.MaxRenderDepth != nil {
		result.MaxRenderDepth = cloneInt(override.MaxRenderDepth)
	}
	if override.CaseStyle != utils.EmptyString {
		result.CaseStyle = override.CaseStyle
	}
	if override.Permissions != nil {
		result.Permissions = cloneBool(override.Permissions)
	}
	if override.OmitNulls != nil {
		result.OmitNulls = cloneBool(override.OmitNulls)
	}
	return result
}

// ToFilterConfiguration converts the loaded values into the filter engine
// configuration, applying the engine defaults for unset fields.
func (configuration FilterConfiguration) ToFilterConfiguration() filter.Configuration {
	result := filter.DefaultConfiguration()
	if configuration.Enabled != nil {
		result.Enabled = *configuration.Enabled
	}
	result.ExcludePatterns = append([]string{}, configuration.Exclude...)
	result.IncludePatterns = append([]string{}, configuration.Include...)
	if configuration.MaxFileSize != nil && *configuration.MaxFileSize > 0 {
		result.MaxSizeBytes = uint64(*configuration.MaxFileSize)
	}
	if configuration.IgnoreHidden != nil {
		result.IgnoreHidden = *configuration.IgnoreHidden
	}
	if configuration.IgnoreSystem != nil {
		result.IgnoreSystem = *configuration.IgnoreSystem
	}
	return result
}

// ToRenderConfiguration converts the loaded values into a renderer
// configuration, applying the renderer defaults for unset fields, and
// validates the result.
func (configuration RenderConfiguration) ToRenderConfiguration() (render.Configuration, error) {
	result := render.DefaultConfiguration()
	if configuration.Pretty != nil {
		result.Pretty = *configuration.Pretty
	}
	if configuration.Metadata != nil {
		result.IncludeMetadata = *configuration.Metadata
	}
	if configuration.Statistics != nil {
		result.IncludeStatistics = *configuration.Statistics
	}
	if configuration.TimestampLayout != utils.EmptyString {
		result.TimestampLayout = configuration.TimestampLayout
	}
	if configuration.MaxRenderDepth != nil {
		result.MaxRenderDepth = *configuration.MaxRenderDepth
	}
	if configuration.CaseStyle != utils.EmptyString {
		result.CaseStyle = configuration.CaseStyle
	}
	if configuration.Permissions != nil {
		result.IncludePermissions = *configuration.Permissions
	}
	if configuration.OmitNulls != nil {
		result.OmitNullValues = *configuration.OmitNulls
	}
	if validationError := result.Validate(); validationError != nil {
		return render.Configuration{}, validationError
	}
	return result, nil
}

// ResolveMode validates the configured traversal mode, falling back to
// EVERYTHING when none is set.
func (configuration ScanConfiguration) ResolveMode() (types.Mode, error) {
	if configuration.Mode == utils.EmptyString {
		return types.ModeEverything, nil
	}
	return types.ParseMode(configuration.Mode)
}

func cloneBool(value *bool) *bool {
	copied := *value
	return &copied
}

func cloneInt(value *int) *int {
	copied := *value
	return &copied
}

func cloneInt64(value *int64) *int64 {
	copied := *value
	return &copied
}
