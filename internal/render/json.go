package render

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/temirov/treescan/internal/stats"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	jsonIndentSpacer = "  "

	jsonKeyMetadata      = "metadata"
	jsonKeyGeneratedAt   = "generatedAt"
	jsonKeyRootPath      = "rootPath"
	jsonKeyVersion       = "formatterVersion"
	jsonKeyConfiguration = "configuration"
	jsonKeyCaseStyle     = "caseStyle"
	jsonKeyPretty        = "pretty"
	jsonKeyRenderDepth   = "maxRenderDepth"
	jsonKeyTree          = "tree"
	jsonKeyStatistics    = "statistics"

	jsonKeyName          = "name"
	jsonKeyType          = "type"
	jsonKeyPath          = "path"
	jsonKeySize          = "size"
	jsonKeySizeFormatted = "sizeFormatted"
	jsonKeyExtension     = "extension"
	jsonKeyCreated       = "created"
	jsonKeyModified      = "modified"
	jsonKeyAccessed      = "accessed"
	jsonKeyHidden        = "hidden"
	jsonKeySystem        = "system"
	jsonKeyReadOnly      = "readOnly"
	jsonKeyOwner         = "owner"
	jsonKeyChildren      = "children"

	jsonKeyTotalFiles       = "totalFiles"
	jsonKeyTotalDirectories = "totalDirectories"
	jsonKeyTotalSizeBytes   = "totalSizeBytes"
	jsonKeyTotalSize        = "totalSizeFormatted"
	jsonKeyMaxDepth         = "maxDepth"
	jsonKeyOldestFile       = "oldestFile"
	jsonKeyNewestFile       = "newestFile"

	jsonNullLiteral = "null"
)

// jsonField is one ordered key/value pair of a document object.
type jsonField struct {
	key   string
	value any
}

// jsonDocument is an insertion-ordered JSON object. The standard library
// encoder sorts map keys, which would destroy the document's natural field
// order, so objects are encoded manually.
type jsonDocument struct {
	fields []jsonField
}

// set appends a field, preserving insertion order.
func (document *jsonDocument) set(key string, value any) {
	document.fields = append(document.fields, jsonField{key: key, value: value})
}

// JSONRenderer produces a JSON document with metadata, the recursive tree,
// and optional statistics. Property names are case-transformed per
// configuration; string values are never transformed.
type JSONRenderer struct {
	defaults Configuration
}

// NewJSONRenderer constructs a JSON renderer with the provided defaults.
func NewJSONRenderer(defaults Configuration) *JSONRenderer {
	return &JSONRenderer{defaults: defaults}
}

// Format renders the tree using the renderer's default configuration.
func (renderer *JSONRenderer) Format(root *types.Node) (string, error) {
	return renderer.render(root, renderer.defaults)
}

// FormatWithOptions renders the tree with per-call overrides applied to a
// copy of the defaults.
func (renderer *JSONRenderer) FormatWithOptions(root *types.Node, overrides Overrides) (string, error) {
	return renderer.render(root, overrides.applyTo(renderer.defaults))
}

// DefaultConfiguration returns the renderer's default configuration.
func (renderer *JSONRenderer) DefaultConfiguration() Configuration {
	return renderer.defaults
}

// ValidateConfiguration rejects invalid configurations before formatting.
func (renderer *JSONRenderer) ValidateConfiguration(configuration Configuration) error {
	return configuration.Validate()
}

// ContentType declares the media type of the rendered output.
func (renderer *JSONRenderer) ContentType() string {
	return contentTypeJSON
}

// FileExtension declares the file extension for the rendered output.
func (renderer *JSONRenderer) FileExtension() string {
	return fileExtensionJSON
}

// render produces the complete document or fails without partial output.
func (renderer *JSONRenderer) render(root *types.Node, configuration Configuration) (string, error) {
	if validationError := configuration.Validate(); validationError != nil {
		return utils.EmptyString, validationError
	}

	document := &jsonDocument{}
	if configuration.IncludeMetadata {
		document.set(jsonKeyMetadata, renderer.metadataObject(root, configuration))
	}
	document.set(jsonKeyTree, renderer.nodeObject(root, configuration))
	if configuration.IncludeStatistics {
		document.set(jsonKeyStatistics, renderer.statisticsObject(root, configuration))
	}

	var buffer bytes.Buffer
	if encodeError := encodeJSONValue(&buffer, document, configuration, 0); encodeError != nil {
		return utils.EmptyString, encodeError
	}
	return buffer.String(), nil
}

// metadataObject assembles the generation metadata section.
func (renderer *JSONRenderer) metadataObject(root *types.Node, configuration Configuration) *jsonDocument {
	configurationObject := &jsonDocument{}
	configurationObject.set(jsonKeyPretty, configuration.Pretty)
	configurationObject.set(jsonKeyCaseStyle, configuration.CaseStyle)
	configurationObject.set(jsonKeyRenderDepth, configuration.MaxRenderDepth)

	metadata := &jsonDocument{}
	metadata.set(jsonKeyGeneratedAt, utils.FormatTimestamp(time.Now(), configuration.TimestampLayout))
	metadata.set(jsonKeyRootPath, root.FullPath)
	metadata.set(jsonKeyVersion, FormatterVersion)
	metadata.set(jsonKeyConfiguration, configurationObject)
	return metadata
}

// nodeObject assembles the recursive tree section. Directories carry a
// children array; files carry size, extension, timestamps, and flags.
func (renderer *JSONRenderer) nodeObject(node *types.Node, configuration Configuration) *jsonDocument {
	object := &jsonDocument{}
	object.set(jsonKeyName, node.Name)
	object.set(jsonKeyType, node.Kind)
	object.set(jsonKeyPath, node.FullPath)

	if !node.IsDirectory() {
		object.set(jsonKeySize, node.SizeBytes)
		object.set(jsonKeySizeFormatted, node.FormattedSize())
		object.set(jsonKeyExtension, node.Extension)
		if configuration.IncludeMetadata {
			object.set(jsonKeyCreated, utils.FormatTimestamp(node.CreatedAt, configuration.TimestampLayout))
			object.set(jsonKeyModified, utils.FormatTimestamp(node.ModifiedAt, configuration.TimestampLayout))
			object.set(jsonKeyAccessed, utils.FormatTimestamp(node.AccessedAt, configuration.TimestampLayout))
			object.set(jsonKeyHidden, node.IsHidden)
			object.set(jsonKeySystem, node.IsSystem)
			object.set(jsonKeyReadOnly, node.IsReadOnly)
		}
	}
	if configuration.IncludePermissions {
		if node.Owner == utils.EmptyString {
			object.set(jsonKeyOwner, nil)
		} else {
			object.set(jsonKeyOwner, node.Owner)
		}
	}
	if node.IsDirectory() {
		children := make([]any, 0, len(node.Children))
		if withinRenderDepth(node, configuration) {
			for _, child := range node.Children {
				children = append(children, renderer.nodeObject(child, configuration))
			}
		}
		object.set(jsonKeyChildren, children)
	}
	return object
}

// statisticsObject assembles the aggregate statistics section.
func (renderer *JSONRenderer) statisticsObject(root *types.Node, configuration Configuration) *jsonDocument {
	statistics := stats.Collect(root)
	object := &jsonDocument{}
	object.set(jsonKeyTotalFiles, statistics.TotalFiles)
	object.set(jsonKeyTotalDirectories, statistics.TotalDirectories)
	object.set(jsonKeyTotalSizeBytes, statistics.TotalSizeBytes)
	object.set(jsonKeyTotalSize, types.FormatByteCount(statistics.TotalSizeBytes))
	object.set(jsonKeyMaxDepth, statistics.MaxDepth)
	if statistics.OldestFile != nil {
		object.set(jsonKeyOldestFile, statistics.OldestFile.FullPath)
	} else {
		object.set(jsonKeyOldestFile, nil)
	}
	if statistics.NewestFile != nil {
		object.set(jsonKeyNewestFile, statistics.NewestFile.FullPath)
	} else {
		object.set(jsonKeyNewestFile, nil)
	}
	return object
}

// encodeJSONValue writes one value, recursing into ordered objects and
// arrays. Property names are case-transformed at write time; leaf values are
// escaped by the standard library encoder. Nil values honor the configured
// null policy at the object level.
func encodeJSONValue(buffer *bytes.Buffer, value any, configuration Configuration, depth int) error {
	switch typedValue := value.(type) {
	case *jsonDocument:
		return encodeJSONObject(buffer, typedValue, configuration, depth)
	case []any:
		return encodeJSONArray(buffer, typedValue, configuration, depth)
	case nil:
		buffer.WriteString(jsonNullLiteral)
		return nil
	default:
		encoded, marshalError := json.Marshal(typedValue)
		if marshalError != nil {
			return marshalError
		}
		buffer.Write(encoded)
		return nil
	}
}

// encodeJSONObject writes an insertion-ordered object.
func encodeJSONObject(buffer *bytes.Buffer, document *jsonDocument, configuration Configuration, depth int) error {
	fields := document.fields
	if configuration.OmitNullValues {
		retained := make([]jsonField, 0, len(fields))
		for _, field := range fields {
			if field.value == nil {
				continue
			}
			retained = append(retained, field)
		}
		fields = retained
	}

	buffer.WriteByte('{')
	for fieldIndex, field := range fields {
		if fieldIndex > 0 {
			buffer.WriteByte(',')
		}
		writeJSONNewline(buffer, configuration, depth+1)
		encodedKey, keyMarshalError := json.Marshal(transformKey(field.key, configuration.CaseStyle))
		if keyMarshalError != nil {
			return keyMarshalError
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		if configuration.Pretty {
			buffer.WriteByte(' ')
		}
		if valueError := encodeJSONValue(buffer, field.value, configuration, depth+1); valueError != nil {
			return valueError
		}
	}
	if len(fields) > 0 {
		writeJSONNewline(buffer, configuration, depth)
	}
	buffer.WriteByte('}')
	return nil
}

// encodeJSONArray writes an array, preserving element order.
func encodeJSONArray(buffer *bytes.Buffer, elements []any, configuration Configuration, depth int) error {
	buffer.WriteByte('[')
	for elementIndex, element := range elements {
		if elementIndex > 0 {
			buffer.WriteByte(',')
		}
		writeJSONNewline(buffer, configuration, depth+1)
		if elementError := encodeJSONValue(buffer, element, configuration, depth+1); elementError != nil {
			return elementError
		}
	}
	if len(elements) > 0 {
		writeJSONNewline(buffer, configuration, depth)
	}
	buffer.WriteByte(']')
	return nil
}

// writeJSONNewline indents the next token when pretty printing is enabled.
func writeJSONNewline(buffer *bytes.Buffer, configuration Configuration, depth int) {
	if !configuration.Pretty {
		return
	}
	buffer.WriteByte('\n')
	for indentLevel := 0; indentLevel < depth; indentLevel++ {
		buffer.WriteString(jsonIndentSpacer)
	}
}
