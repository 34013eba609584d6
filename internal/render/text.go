package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/temirov/treescan/internal/stats"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	attributeTagHidden   = "Hidden"
	attributeTagSystem   = "System"
	attributeTagReadOnly = "ReadOnly"

	metadataGeneratedLabel = "Generated: "
	metadataRootLabel      = "Root: "
	metadataFormatterLabel = "Formatter: text v" + FormatterVersion

	statisticsHeader          = "Statistics:"
	statisticsFilesFormat     = "  Files: %d\n"
	statisticsDirsFormat      = "  Directories: %d\n"
	statisticsSizeFormat      = "  Total size: %s (%d bytes)\n"
	statisticsDepthFormat     = "  Max depth: %d\n"
	statisticsOldestFormat    = "  Oldest file: %s (%s)\n"
	statisticsNewestFormat    = "  Newest file: %s (%s)\n"
	timestampsSuffixFormat    = " [modified: %s, created: %s, accessed: %s]"
	ownerSuffixFormat         = " owner=%s"
	fileSizeSuffixFormat      = " (%s)"
	attributeTagsSuffixFormat = " {%s}"
)

// TextRenderer produces a box-drawing indented tree with optional metadata
// header and statistics footer.
type TextRenderer struct {
	defaults Configuration
}

// NewTextRenderer constructs a text renderer with the provided defaults.
func NewTextRenderer(defaults Configuration) *TextRenderer {
	return &TextRenderer{defaults: defaults}
}

// Format renders the tree using the renderer's default configuration.
func (renderer *TextRenderer) Format(root *types.Node) (string, error) {
	return renderer.render(root, renderer.defaults)
}

// FormatWithOptions renders the tree with per-call overrides applied to a
// copy of the defaults.
func (renderer *TextRenderer) FormatWithOptions(root *types.Node, overrides Overrides) (string, error) {
	return renderer.render(root, overrides.applyTo(renderer.defaults))
}

// DefaultConfiguration returns the renderer's default configuration.
func (renderer *TextRenderer) DefaultConfiguration() Configuration {
	return renderer.defaults
}

// ValidateConfiguration rejects invalid configurations before formatting.
func (renderer *TextRenderer) ValidateConfiguration(configuration Configuration) error {
	return configuration.Validate()
}

// ContentType declares the media type of the rendered output.
func (renderer *TextRenderer) ContentType() string {
	return contentTypeText
}

// FileExtension declares the file extension for the rendered output.
func (renderer *TextRenderer) FileExtension() string {
	return fileExtensionText
}

// render produces the complete document or fails without partial output.
func (renderer *TextRenderer) render(root *types.Node, configuration Configuration) (string, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return utils.EmptyString, validationError
	}

	var buffer bytes.Buffer
	if configuration.IncludeMetadata {
		buffer.WriteString(metadataGeneratedLabel + utils.FormatTimestamp(time.Now(), configuration.TimestampLayout) + "\n")
		buffer.WriteString(metadataRootLabel + root.FullPath + "\n")
		buffer.WriteString(metadataFormatterLabel + "\n")
		buffer.WriteString("\n")
	}

	renderer.writeNode(&buffer, root, utils.EmptyString, true, true, configuration)

	if configuration.IncludeStatistics {
		statistics := stats.Collect(root)
		buffer.WriteString("\n")
		buffer.WriteString(statisticsHeader + "\n")
		fmt.Fprintf(&buffer, statisticsFilesFormat, statistics.TotalFiles)
		fmt.Fprintf(&buffer, statisticsDirsFormat, statistics.TotalDirectories)
		fmt.Fprintf(&buffer, statisticsSizeFormat, types.FormatByteCount(statistics.TotalSizeBytes), statistics.TotalSizeBytes)
		fmt.Fprintf(&buffer, statisticsDepthFormat, statistics.MaxDepth)
		if statistics.OldestFile != nil {
			fmt.Fprintf(&buffer, statisticsOldestFormat, statistics.OldestFile.FullPath, utils.FormatTimestamp(statistics.OldestFile.CreatedAt, configuration.TimestampLayout))
		}
		if statistics.NewestFile != nil {
			fmt.Fprintf(&buffer, statisticsNewestFormat, statistics.NewestFile.FullPath, utils.FormatTimestamp(statistics.NewestFile.CreatedAt, configuration.TimestampLayout))
		}
	}

	return buffer.String(), nil
}

// writeNode emits one tree line and recurses into children still within the
// render depth cap.
func (renderer *TextRenderer) writeNode(buffer *bytes.Buffer, node *types.Node, prefix string, isRoot bool, isLast bool, configuration Configuration) {
	linePrefix, childPrefix := nodeLinePrefix(prefix, isRoot, isLast)
	buffer.WriteString(linePrefix + renderer.nodeLine(node, configuration) + "\n")

	if !withinRenderDepth(node, configuration) {
		return
	}
	for childIndex, child := range node.Children {
		renderer.writeNode(buffer, child, childPrefix, false, childIndex == len(node.Children)-1, configuration)
	}
}

// nodeLine formats the per-node line content: name, optional size suffix,
// optional timestamps, optional attribute tags, optional owner.
func (renderer *TextRenderer) nodeLine(node *types.Node, configuration Configuration) string {
	line := node.Name
	if !node.IsDirectory() {
		line += fmt.Sprintf(fileSizeSuffixFormat, node.FormattedSize())
	}
	if configuration.IncludeMetadata {
		line += fmt.Sprintf(
			timestampsSuffixFormat,
			utils.FormatTimestamp(node.ModifiedAt, configuration.TimestampLayout),
			utils.FormatTimestamp(node.CreatedAt, configuration.TimestampLayout),
			utils.FormatTimestamp(node.AccessedAt, configuration.TimestampLayout),
		)
		if tagList := attributeTags(node); tagList != utils.EmptyString {
			line += fmt.Sprintf(attributeTagsSuffixFormat, tagList)
		}
	}
	if configuration.IncludePermissions && node.Owner != utils.EmptyString {
		line += fmt.Sprintf(ownerSuffixFormat, node.Owner)
	}
	return line
}

// attributeTags renders the comma-separated attribute tag list for a node.
func attributeTags(node *types.Node) string {
	var tags []string
	if node.IsHidden {
		tags = append(tags, attributeTagHidden)
	}
	if node.IsSystem {
		tags = append(tags, attributeTagSystem)
	}
	if node.IsReadOnly {
		tags = append(tags, attributeTagReadOnly)
	}
	if len(tags) == 0 {
		return utils.EmptyString
	}
	joined := tags[0]
	for _, tag := range tags[1:] {
		joined += ", " + tag
	}
	return joined
}

// nodeLinePrefix returns the glyph prefix for the node's own line and the
// padding prefix inherited by its children.
func nodeLinePrefix(prefix string, isRoot bool, isLast bool) (string, string) {
	if isRoot {
		return utils.EmptyString, utils.EmptyString
	}
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}
