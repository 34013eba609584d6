// Package cli provides the command line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/treescan/internal/builder"
	"github.com/temirov/treescan/internal/config"
	"github.com/temirov/treescan/internal/filter"
	"github.com/temirov/treescan/internal/render"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	rootUse              = "treescan"
	rootShortDescription = "treescan command line interface"
	rootLongDescription  = `treescan walks a directory subtree and renders it as a tree.
Use --mode to select which files and directories are materialized, and
--format to select text, json, or xml output. Filters, statistics, and
render options are configurable by flag or configuration file.`

	scanUse              = "scan [paths...]"
	scanAlias            = "s"
	scanShortDescription = "scan directories and render their trees (" + scanAlias + ")"
	scanLongDescription  = `Walk one or more directories and render each as a tree.
Use --mode for traversal policy and --format for the output format.`
	scanUsageExample = `  # Render the working directory as text
  treescan scan

  # Everything under ./src as pretty JSON with statistics
  treescan scan --mode EVERYTHING --format json --stats ./src

  # Exclude log files and anything listed in .treescanignore
  treescan scan -e '*.log' .`

	configUse                  = "config"
	configShortDescription     = "manage configuration files"
	configInitUse              = "init"
	configInitShortDescription = "write a default configuration file"

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "treescan version: %s\n"

	modeFlagName            = "mode"
	modeFlagDescription     = "traversal mode (CLEAN, ALL_FILES, ALL_FOLDERS, FOLDERS, EVERYTHING)"
	formatFlagName          = "format"
	formatFlagDescription   = "output format (text, json, xml)"
	depthFlagName           = "depth"
	depthFlagDescription    = "maximum traversal depth (-1 for unlimited)"
	workersFlagName         = "workers"
	workersFlagDescription  = "parallel subtree workers (0 or 1 for sequential)"
	excludeFlagName         = "e"
	excludeFlagDescription  = "exclude name pattern (repeatable)"
	includeFlagName         = "include"
	includeFlagDescription  = "include name pattern (repeatable)"
	maxSizeFlagName         = "max-file-size"
	maxSizeFlagDescription  = "reject files larger than this many bytes (0 for unlimited)"
	hiddenFlagName          = "ignore-hidden"
	hiddenFlagDescription   = "reject hidden entries"
	systemFlagName          = "ignore-system"
	systemFlagDescription   = "reject system entries"
	noIgnoreFlagName        = "no-ignore"
	noIgnoreFlagDescription = "do not load " + config.IgnoreFileName + " patterns"
	statsFlagName           = "stats"
	statsFlagDescription    = "include aggregate statistics"
	metadataFlagName        = "metadata"
	metadataFlagDescription = "include generation metadata and per-entry detail"
	prettyFlagName          = "pretty"
	prettyFlagDescription   = "pretty-print structured output"
	layoutFlagName          = "time-format"
	layoutFlagDescription   = "timestamp layout in Go reference time notation"
	caseFlagName            = "case-style"
	caseFlagDescription     = "JSON property-name case style"
	ownerFlagName           = "permissions"
	ownerFlagDescription    = "include entry ownership"
	outputFlagName          = "output"
	outputFlagDescription   = "write rendered output to this file instead of stdout"
	copyFlagName            = "copy"
	copyFlagDescription     = "copy rendered output to the clipboard"
	configFlagName          = "config"
	configFlagDescription   = "explicit configuration file path"
	forceFlagName           = "force"
	forceFlagDescription    = "overwrite an existing configuration file"
	globalFlagName          = "global"
	globalFlagDescription   = "write the global configuration file"

	defaultPath = "."

	// errorOutputSinglePathMessage rejects --output with several scan paths.
	errorOutputSinglePathMessage = "--output supports exactly one path"
	// warningIgnoreFileFormat reports a failure to load the ignore file.
	warningIgnoreFileFormat = "Warning: unable to load %s patterns for %s: %v\n"
	// configInitializedFormat confirms where the configuration file landed.
	configInitializedFormat = "configuration written to %s\n"
	// outputWrittenFormat confirms where rendered output landed.
	outputWrittenFormat = "output written to %s\n"
)

// Execute runs the treescan application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createScanCommand(),
		createConfigCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// scanOptions stores the flag values of the scan command.
type scanOptions struct {
	mode            string
	format          string
	maxDepth        int
	workerCount     int
	excludePatterns []string
	includePatterns []string
	maxFileSize     int64
	ignoreHidden    bool
	ignoreSystem    bool
	disableIgnore   bool
	includeStats    bool
	includeMetadata bool
	pretty          bool
	timestampLayout string
	caseStyle       string
	permissions     bool
	outputPath      string
	copyToClipboard bool
	configPath      string
}

// createScanCommand returns the scan subcommand.
func createScanCommand() *cobra.Command {
	var options scanOptions

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Aliases: []string{scanAlias},
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			return runScan(command, arguments, options)
		},
	}

	flags := scanCommand.Flags()
	registerEnumFlag(flags, &options.mode, modeFlagName, "mode", string(types.ModeEverything), false,
		[]string{string(types.ModeClean), string(types.ModeAllFiles), string(types.ModeAllFolders), string(types.ModeFolders), string(types.ModeEverything)},
		modeFlagDescription)
	registerEnumFlag(flags, &options.format, formatFlagName, "format", types.FormatText, true,
		[]string{types.FormatText, types.FormatJSON, types.FormatXML},
		formatFlagDescription)
	flags.IntVar(&options.maxDepth, depthFlagName, builder.UnlimitedDepth, depthFlagDescription)
	flags.IntVar(&options.workerCount, workersFlagName, 0, workersFlagDescription)
	flags.StringArrayVarP(&options.excludePatterns, "exclude", excludeFlagName, nil, excludeFlagDescription)
	flags.StringArrayVar(&options.includePatterns, includeFlagName, nil, includeFlagDescription)
	flags.Int64Var(&options.maxFileSize, maxSizeFlagName, 0, maxSizeFlagDescription)
	flags.BoolVar(&options.ignoreHidden, hiddenFlagName, false, hiddenFlagDescription)
	flags.BoolVar(&options.ignoreSystem, systemFlagName, false, systemFlagDescription)
	flags.BoolVar(&options.disableIgnore, noIgnoreFlagName, false, noIgnoreFlagDescription)
	flags.BoolVar(&options.includeStats, statsFlagName, false, statsFlagDescription)
	flags.BoolVar(&options.includeMetadata, metadataFlagName, false, metadataFlagDescription)
	flags.BoolVar(&options.pretty, prettyFlagName, true, prettyFlagDescription)
	flags.StringVar(&options.timestampLayout, layoutFlagName, utils.DefaultTimestampLayout, layoutFlagDescription)
	registerEnumFlag(flags, &options.caseStyle, caseFlagName, "style", render.CaseStyleCamel, false,
		[]string{render.CaseStyleCamel, render.CaseStylePascal, render.CaseStyleKebab, render.CaseStyleSnake},
		caseFlagDescription)
	flags.BoolVar(&options.permissions, ownerFlagName, false, ownerFlagDescription)
	flags.StringVar(&options.outputPath, outputFlagName, utils.EmptyString, outputFlagDescription)
	flags.BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	flags.StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)

	return scanCommand
}

// createConfigCommand returns the config subcommand with its init action.
func createConfigCommand() *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
	}

	var forceOverwrite bool
	var writeGlobal bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if writeGlobal {
				target = config.InitTargetGlobal
			}
			destinationPath, initializeError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  forceOverwrite,
			})
			if initializeError != nil {
				return initializeError
			}
			fmt.Printf(configInitializedFormat, destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	initCommand.Flags().BoolVar(&writeGlobal, globalFlagName, false, globalFlagDescription)

	configCommand.AddCommand(initCommand)
	return configCommand
}

// runScan resolves configuration, builds one tree per path concurrently, and
// renders the results in input order.
func runScan(command *cobra.Command, inputPaths []string, options scanOptions) error {
	if options.outputPath != utils.EmptyString && len(inputPaths) > 1 {
		return errors.New(errorOutputSinglePathMessage)
	}

	scanConfiguration, configurationError := resolveScanConfiguration(command, options)
	if configurationError != nil {
		return configurationError
	}

	mode, modeError := scanConfiguration.ResolveMode()
	if modeError != nil {
		return modeError
	}
	outputFormat := strings.ToLower(options.format)
	if !command.Flags().Changed(formatFlagName) && scanConfiguration.Format != utils.EmptyString {
		outputFormat = strings.ToLower(scanConfiguration.Format)
	}
	selectedRenderer, rendererError := render.ForFormat(outputFormat)
	if rendererError != nil {
		return rendererError
	}
	renderConfiguration, renderError := scanConfiguration.Render.ToRenderConfiguration()
	if renderError != nil {
		return renderError
	}

	loggerInstance, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer func() {
		_ = loggerInstance.Sync()
	}()
	eventSink := utils.NewZapEventSink(loggerInstance)

	renderedDocuments := make([]string, len(inputPaths))
	var buildGroup errgroup.Group
	for pathIndex, inputPath := range inputPaths {
		buildGroup.Go(func() error {
			filterConfiguration := scanConfiguration.Filter.ToFilterConfiguration()
			if !options.disableIgnore {
				ignorePatterns, ignoreError := config.LoadIgnoreFilePatterns(inputPath)
				if ignoreError != nil {
					fmt.Fprintf(os.Stderr, warningIgnoreFileFormat, config.IgnoreFileName, inputPath, ignoreError)
				}
				filterConfiguration.ExcludePatterns = utils.DeduplicatePatterns(
					append(filterConfiguration.ExcludePatterns, ignorePatterns...))
			}

			treeBuilder := builder.New(mode, filter.Chain{filter.NewDefaultProvider(filterConfiguration)}, eventSink)
			if scanConfiguration.MaxDepth != nil {
				treeBuilder.MaxDepth = *scanConfiguration.MaxDepth
			}
			if scanConfiguration.Workers != nil {
				treeBuilder.WorkerCount = *scanConfiguration.Workers
			}

			rootNode, buildError := treeBuilder.Build(inputPath)
			if buildError != nil {
				return buildError
			}
			document, formatError := selectedRenderer.FormatWithOptions(rootNode, overridesFromConfiguration(renderConfiguration))
			if formatError != nil {
				return formatError
			}
			renderedDocuments[pathIndex] = document
			return nil
		})
	}
	if buildError := buildGroup.Wait(); buildError != nil {
		return buildError
	}

	return emitDocuments(renderedDocuments, selectedRenderer, options)
}

// resolveScanConfiguration merges file-based configuration with the flags
// that were explicitly set on the command line.
func resolveScanConfiguration(command *cobra.Command, options scanOptions) (config.ScanConfiguration, error) {
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		ExplicitFilePath: options.configPath,
	})
	if loadError != nil {
		return config.ScanConfiguration{}, loadError
	}

	override := config.ScanConfiguration{}
	flags := command.Flags()
	if flags.Changed(modeFlagName) {
		override.Mode = options.mode
	}
	if flags.Changed(formatFlagName) {
		override.Format = options.format
	}
	if flags.Changed(depthFlagName) {
		override.MaxDepth = &options.maxDepth
	}
	if flags.Changed(workersFlagName) {
		override.Workers = &options.workerCount
	}
	if len(options.excludePatterns) > 0 {
		override.Filter.Exclude = options.excludePatterns
	}
	if len(options.includePatterns) > 0 {
		override.Filter.Include = options.includePatterns
	}
	if flags.Changed(maxSizeFlagName) {
		override.Filter.MaxFileSize = &options.maxFileSize
	}
	if flags.Changed(hiddenFlagName) {
		override.Filter.IgnoreHidden = &options.ignoreHidden
	}
	if flags.Changed(systemFlagName) {
		override.Filter.IgnoreSystem = &options.ignoreSystem
	}
	if flags.Changed(statsFlagName) {
		override.Render.Statistics = &options.includeStats
	}
	if flags.Changed(metadataFlagName) {
		override.Render.Metadata = &options.includeMetadata
	}
	if flags.Changed(prettyFlagName) {
		override.Render.Pretty = &options.pretty
	}
	if flags.Changed(layoutFlagName) {
		override.Render.TimestampLayout = options.timestampLayout
	}
	if flags.Changed(caseFlagName) {
		override.Render.CaseStyle = options.caseStyle
	}
	if flags.Changed(ownerFlagName) {
		override.Render.Permissions = &options.permissions
	}

	merged := applicationConfiguration.Merge(config.ApplicationConfiguration{Scan: override})
	return merged.Scan, nil
}

// overridesFromConfiguration converts a resolved configuration into per-call
// renderer overrides so the renderer's shared defaults stay untouched.
func overridesFromConfiguration(configuration render.Configuration) render.Overrides {
	return render.Overrides{
		Pretty:             &configuration.Pretty,
		IncludeMetadata:    &configuration.IncludeMetadata,
		IncludeStatistics:  &configuration.IncludeStatistics,
		TimestampLayout:    &configuration.TimestampLayout,
		MaxRenderDepth:     &configuration.MaxRenderDepth,
		CaseStyle:          &configuration.CaseStyle,
		IncludePermissions: &configuration.IncludePermissions,
		OmitNullValues:     &configuration.OmitNullValues,
	}
}
