// Package render serializes a completed tree, with optional statistics, into
// one of the supported output formats. New formats are added by implementing
// the Renderer interface; the tree builder is never involved.
package render

import (
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	// FormatterVersion identifies the output schema emitted by the renderers.
	FormatterVersion = "1.0.0"

	// UnlimitedRenderDepth disables the render depth cap.
	UnlimitedRenderDepth = -1

	contentTypeText = "text/plain"
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"

	fileExtensionText = ".txt"
	fileExtensionJSON = ".json"
	fileExtensionXML  = ".xml"

	// errorRenderDepthFormat reports an out-of-range render depth cap.
	errorRenderDepthFormat = "maxRenderDepth must be -1 or greater, got %d"
	// errorTimestampLayoutMessage reports a missing date-time format.
	errorTimestampLayoutMessage = "timestampLayout must not be empty"
	// errorCaseStyleFormat reports an unrecognized property-name case style.
	errorCaseStyleFormat = "unknown case style '%s'"
	// errorUnknownFormatFormat reports an unrecognized output format name.
	errorUnknownFormatFormat = "unknown output format '%s'"
)

// Property-name case styles supported by the JSON renderer.
const (
	CaseStyleCamel  = "camelCase"
	CaseStylePascal = "PascalCase"
	CaseStyleKebab  = "kebab-case"
	CaseStyleSnake  = "snake_case"
)

// Configuration holds the per-render options shared by every formatter.
// CaseStyle and OmitNullValues only affect the JSON renderer.
type Configuration struct {
	Pretty             bool
	IncludeMetadata    bool
	IncludeStatistics  bool
	TimestampLayout    string
	MaxRenderDepth     int
	CaseStyle          string
	IncludePermissions bool
	OmitNullValues     bool
}

// DefaultConfiguration returns the renderer defaults: pretty output, no
// metadata or statistics sections, unlimited depth, camelCase JSON keys.
func DefaultConfiguration() Configuration {
	return Configuration{
		Pretty:          true,
		TimestampLayout: utils.DefaultTimestampLayout,
		MaxRenderDepth:  UnlimitedRenderDepth,
		CaseStyle:       CaseStyleCamel,
		OmitNullValues:  true,
	}
}

// Validate rejects configurations with missing required values or
// out-of-range caps before any formatting is attempted.
func (configuration Configuration) Validate() error {
	if configuration.MaxRenderDepth < UnlimitedRenderDepth {
		return types.NewInvalidConfigurationError(errorRenderDepthFormat, configuration.MaxRenderDepth)
	}
	if configuration.TimestampLayout == utils.EmptyString {
		return types.NewInvalidConfigurationError(errorTimestampLayoutMessage)
	}
	switch configuration.CaseStyle {
	case CaseStyleCamel, CaseStylePascal, CaseStyleKebab, CaseStyleSnake:
		return nil
	default:
		return types.NewInvalidConfigurationError(errorCaseStyleFormat, configuration.CaseStyle)
	}
}

// Overrides is a partial configuration applied on top of a renderer's
// defaults for a single call. Nil fields keep the default value.
type Overrides struct {
	Pretty             *bool
	IncludeMetadata    *bool
	IncludeStatistics  *bool
	TimestampLayout    *string
	MaxRenderDepth     *int
	CaseStyle          *string
	IncludePermissions *bool
	OmitNullValues     *bool
}

// applyTo merges the overrides onto a copy of the provided configuration.
// The original value is never mutated.
func (overrides Overrides) applyTo(configuration Configuration) Configuration {
	if overrides.Pretty != nil {
		configuration.Pretty = *overrides.Pretty
	}
	if overrides.IncludeMetadata != nil {
		configuration.IncludeMetadata = *overrides.IncludeMetadata
	}
	if overrides.IncludeStatistics != nil {
		configuration.IncludeStatistics = *overrides.IncludeStatistics
	}
	if overrides.TimestampLayout != nil {
		configuration.TimestampLayout = *overrides.TimestampLayout
	}
	if overrides.MaxRenderDepth != nil {
		configuration.MaxRenderDepth = *overrides.MaxRenderDepth
	}
	if overrides.CaseStyle != nil {
		configuration.CaseStyle = *overrides.CaseStyle
	}
	if overrides.IncludePermissions != nil {
		configuration.IncludePermissions = *overrides.IncludePermissions
	}
	if overrides.OmitNullValues != nil {
		configuration.OmitNullValues = *overrides.OmitNullValues
	}
	return configuration
}

// Renderer serializes a tree plus derived statistics into one output format.
// Formatting is read-only over the tree, so multiple renderers may run
// concurrently over the same completed tree.
type Renderer interface {
	// Format renders the tree using the renderer's default configuration.
	Format(root *types.Node) (string, error)
	// FormatWithOptions renders the tree with per-call overrides applied to a
	// copy of the defaults. The shared defaults are never mutated.
	FormatWithOptions(root *types.Node, overrides Overrides) (string, error)
	// DefaultConfiguration returns the renderer's default configuration.
	DefaultConfiguration() Configuration
	// ValidateConfiguration rejects invalid configurations before formatting.
	ValidateConfiguration(configuration Configuration) error
	// ContentType declares the media type of the rendered output.
	ContentType() string
	// FileExtension declares the file extension for the rendered output.
	FileExtension() string
}

// ForFormat returns the renderer for the named output format.
func ForFormat(format string) (Renderer, error) {
	switch format {
	case types.FormatText:
		return NewTextRenderer(DefaultConfiguration()), nil
	case types.FormatJSON:
		return NewJSONRenderer(DefaultConfiguration()), nil
	case types.FormatXML:
		return NewXMLRenderer(DefaultConfiguration()), nil
	default:
		return nil, types.NewInvalidConfigurationError(errorUnknownFormatFormat, format)
	}
}

// withinRenderDepth reports whether the node's children may be rendered
// under the configured depth cap.
func withinRenderDepth(node *types.Node, configuration Configuration) bool {
	if configuration.MaxRenderDepth == UnlimitedRenderDepth {
		return true
	}
	return node.Depth < configuration.MaxRenderDepth
}
