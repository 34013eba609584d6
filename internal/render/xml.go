package render

import (
	"encoding/xml"
	"time"

	"github.com/temirov/treescan/internal/stats"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	xmlIndentPrefix = ""
	xmlIndentSpacer = "  "
)

// xmlMetadata is the optional generation metadata element.
type xmlMetadata struct {
	GeneratedAt      string `xml:"GeneratedAt"`
	RootPath         string `xml:"RootPath"`
	FormatterVersion string `xml:"FormatterVersion"`
	CaseStyle        string `xml:"CaseStyle,omitempty"`
}

// xmlNode is one tree node element. Identity travels as attributes; file
// detail travels as child elements. Directories carry a Children wrapper.
type xmlNode struct {
	Type string `xml:"type,attr"`
	Name string `xml:"name,attr"`
	Path string `xml:"path,attr"`

	SizeBytes     *uint64 `xml:"SizeBytes,omitempty"`
	SizeFormatted string  `xml:"SizeFormatted,omitempty"`
	Extension     string  `xml:"Extension,omitempty"`
	Created       string  `xml:"Created,omitempty"`
	Modified      string  `xml:"Modified,omitempty"`
	Accessed      string  `xml:"Accessed,omitempty"`
	Hidden        *bool   `xml:"Hidden,omitempty"`
	System        *bool   `xml:"System,omitempty"`
	ReadOnly      *bool   `xml:"ReadOnly,omitempty"`
	Owner         string  `xml:"Owner,omitempty"`

	Children *xmlChildren `xml:"Children,omitempty"`
}

// xmlChildren wraps the child node elements of a directory.
type xmlChildren struct {
	Nodes []*xmlNode `xml:"Node"`
}

// xmlStatistics is the optional aggregate statistics element.
type xmlStatistics struct {
	TotalFiles         int    `xml:"TotalFiles"`
	TotalDirectories   int    `xml:"TotalDirectories"`
	TotalSizeBytes     uint64 `xml:"TotalSizeBytes"`
	TotalSizeFormatted string `xml:"TotalSizeFormatted"`
	MaxDepth           int    `xml:"MaxDepth"`
	OldestFile         string `xml:"OldestFile,omitempty"`
	NewestFile         string `xml:"NewestFile,omitempty"`
}

// xmlDocument is the root DirectoryTree element.
type xmlDocument struct {
	XMLName    xml.Name       `xml:"DirectoryTree"`
	Metadata   *xmlMetadata   `xml:"Metadata,omitempty"`
	Node       *xmlNode       `xml:"Node"`
	Statistics *xmlStatistics `xml:"Statistics,omitempty"`
}

// XMLRenderer produces a DirectoryTree document with optional Metadata and
// Statistics elements. All text content is escaped by the encoder.
type XMLRenderer struct {
	defaults Configuration
}

// NewXMLRenderer constructs an XML renderer with the provided defaults.
func NewXMLRenderer(defaults Configuration) *XMLRenderer {
	return &XMLRenderer{defaults: defaults}
}

// Format renders the tree using the renderer's default configuration.
func (renderer *XMLRenderer) Format(root *types.Node) (string, error) {
	return renderer.render(root, renderer.defaults)
}

// FormatWithOptions renders the tree with per-call overrides applied to a
// copy of the defaults.
func (renderer *XMLRenderer) FormatWithOptions(root *types.Node, overrides Overrides) (string, error) {
	return renderer.render(root, overrides.applyTo(renderer.defaults))
}

// DefaultConfiguration returns the renderer's default configuration.
func (renderer *XMLRenderer) DefaultConfiguration() Configuration {
	return renderer.defaults
}

// ValidateConfiguration rejects invalid configurations before formatting.
func (renderer *XMLRenderer) ValidateConfiguration(configuration Configuration) error {
	return configuration.Validate()
}

// ContentType declares the media type of the rendered output.
func (renderer *XMLRenderer) ContentType() string {
	return contentTypeXML
}

// FileExtension declares the file extension for the rendered output.
func (renderer *XMLRenderer) FileExtension() string {
	return fileExtensionXML
}

// render produces the complete document or fails without partial output.
func (renderer *XMLRenderer) render(root *types.Node, configuration Configuration) (string, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return utils.EmptyString, validationError
	}

	document := &xmlDocument{
		Node: renderer.nodeElement(root, configuration),
	}
	if configuration.IncludeMetadata {
		document.Metadata = &xmlMetadata{
			GeneratedAt:      utils.FormatTimestamp(time.Now(), configuration.TimestampLayout),
			RootPath:         root.FullPath,
			FormatterVersion: FormatterVersion,
		}
	}
	if configuration.IncludeStatistics {
		statistics := stats.Collect(root)
		document.Statistics = &xmlStatistics{
			TotalFiles:         statistics.TotalFiles,
			TotalDirectories:   statistics.TotalDirectories,
			TotalSizeBytes:     statistics.TotalSizeBytes,
			TotalSizeFormatted: types.FormatByteCount(statistics.TotalSizeBytes),
			MaxDepth:           statistics.MaxDepth,
		}
		if statistics.OldestFile != nil {
			document.Statistics.OldestFile = statistics.OldestFile.FullPath
		}
		if statistics.NewestFile != nil {
			document.Statistics.NewestFile = statistics.NewestFile.FullPath
		}
	}

	var encoded []byte
	var marshalError error
	if configuration.Pretty {
		encoded, marshalError = xml.MarshalIndent(document, xmlIndentPrefix, xmlIndentSpacer)
	} else {
		encoded, marshalError = xml.Marshal(document)
	}
	if marshalError != nil {
		return utils.EmptyString, marshalError
	}
	return xml.Header + string(encoded), nil
}

// nodeElement converts one node, recursing into children still within the
// render depth cap.
func (renderer *XMLRenderer) nodeElement(node *types.Node, configuration Configuration) *xmlNode {
	element := &xmlNode{
		Type: node.Kind,
		Name: node.Name,
		Path: node.FullPath,
	}
	if !node.IsDirectory() {
		sizeBytes := node.SizeBytes
		element.SizeBytes = &sizeBytes
		element.SizeFormatted = node.FormattedSize()
		element.Extension = node.Extension
		if configuration.IncludeMetadata {
			element.Created = utils.FormatTimestamp(node.CreatedAt, configuration.TimestampLayout)
			element.Modified = utils.FormatTimestamp(node.ModifiedAt, configuration.TimestampLayout)
			element.Accessed = utils.FormatTimestamp(node.AccessedAt, configuration.TimestampLayout)
			hidden, system, readOnly := node.IsHidden, node.IsSystem, node.IsReadOnly
			element.Hidden = &hidden
			element.System = &system
			element.ReadOnly = &readOnly
		}
	}
	if configuration.IncludePermissions {
		element.Owner = node.Owner
	}
	if node.IsDirectory() {
		element.Children = &xmlChildren{}
		if withinRenderDepth(node, configuration) {
			for _, child := range node.Children {
				element.Children.Nodes = append(element.Children.Nodes, renderer.nodeElement(child, configuration))
			}
		}
	}
	return element
}
