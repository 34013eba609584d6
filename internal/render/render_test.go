package render_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/temirov/treescan/internal/render"
	"github.com/temirov/treescan/internal/types"
)

const fixtureRootPath = "/data/root"

// buildFixtureTree assembles root -> E (empty), N{f1.txt 1024, f2.txt 2048}.
func buildFixtureTree() *types.Node {
	rootNode := &types.Node{Name: "root", FullPath: fixtureRootPath, Kind: types.NodeKindDirectory}
	emptyDirectory := &types.Node{Name: "E", FullPath: fixtureRootPath + "/E", Kind: types.NodeKindDirectory}
	nonEmptyDirectory := &types.Node{Name: "N", FullPath: fixtureRootPath + "/N", Kind: types.NodeKindDirectory}
	firstFile := &types.Node{
		Name: "f1.txt", FullPath: fixtureRootPath + "/N/f1.txt", Kind: types.NodeKindFile,
		SizeBytes: 1024, Extension: "txt",
		CreatedAt:  time.Date(2023, 1, 1, 10, 0, 0, 0, time.Local),
		ModifiedAt: time.Date(2023, 2, 1, 10, 0, 0, 0, time.Local),
		AccessedAt: time.Date(2023, 3, 1, 10, 0, 0, 0, time.Local),
	}
	secondFile := &types.Node{
		Name: "f2.txt", FullPath: fixtureRootPath + "/N/f2.txt", Kind: types.NodeKindFile,
		SizeBytes: 2048, Extension: "txt",
		CreatedAt:  time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local),
		ModifiedAt: time.Date(2024, 2, 1, 10, 0, 0, 0, time.Local),
		AccessedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.Local),
	}
	rootNode.AddChild(emptyDirectory)
	rootNode.AddChild(nonEmptyDirectory)
	nonEmptyDirectory.AddChild(firstFile)
	nonEmptyDirectory.AddChild(secondFile)
	return rootNode
}

// boolPointer returns a pointer to the provided boolean override value.
func boolPointer(value bool) *bool { return &value }

// stringPointer returns a pointer to the provided string override value.
func stringPointer(value string) *string { return &value }

// intPointer returns a pointer to the provided integer override value.
func intPointer(value int) *int { return &value }

// TestTextRendererTreeBody verifies the box-drawing layout of the default
// text output.
func TestTextRendererTreeBody(testingInstance *testing.T) {
	renderer := render.NewTextRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.Format(buildFixtureTree())
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}

	expectedOutput := "root\n" +
		"├── E\n" +
		"└── N\n" +
		"    ├── f1.txt (1.00 KB)\n" +
		"    └── f2.txt (2.00 KB)\n"
	if rendered != expectedOutput {
		testingInstance.Errorf("unexpected text output:\n%s\nexpected:\n%s", rendered, expectedOutput)
	}
}

// TestTextRendererMetadataAndStatistics verifies the optional header and
// footer sections.
func TestTextRendererMetadataAndStatistics(testingInstance *testing.T) {
	renderer := render.NewTextRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		IncludeMetadata:   boolPointer(true),
		IncludeStatistics: boolPointer(true),
	})
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}

	for _, expectedFragment := range []string{
		"Generated: ",
		"Root: " + fixtureRootPath,
		"Formatter: text v1.0.0",
		"Statistics:",
		"  Files: 2",
		"  Directories: 3",
		"  Total size: 3.00 KB (3072 bytes)",
		"  Max depth: 2",
		"  Oldest file: " + fixtureRootPath + "/N/f1.txt",
		"  Newest file: " + fixtureRootPath + "/N/f2.txt",
		"[modified: 2023-02-01 10:00:00, created: 2023-01-01 10:00:00, accessed: 2023-03-01 10:00:00]",
	} {
		if !strings.Contains(rendered, expectedFragment) {
			testingInstance.Errorf("expected output to contain %q, got:\n%s", expectedFragment, rendered)
		}
	}
}

// TestTextRendererRenderDepthCap verifies that deep levels are omitted from
// the output without affecting the tree.
func TestTextRendererRenderDepthCap(testingInstance *testing.T) {
	renderer := render.NewTextRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		MaxRenderDepth: intPointer(1),
	})
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}

	if !strings.Contains(rendered, "└── N\n") {
		testingInstance.Error("expected the depth-1 directory line")
	}
	if strings.Contains(rendered, "f1.txt") {
		testingInstance.Error("expected depth-2 entries to be omitted")
	}
}

// decodeJSONDocument parses rendered JSON back into a generic document.
func decodeJSONDocument(testingInstance *testing.T, rendered string) map[string]any {
	testingInstance.Helper()
	var document map[string]any
	if unmarshalError := json.Unmarshal([]byte(rendered), &document); unmarshalError != nil {
		testingInstance.Fatalf("rendered JSON does not parse: %v\n%s", unmarshalError, rendered)
	}
	return document
}

// TestJSONRendererDocumentShape verifies the tree section and the statistics
// section of the JSON document.
func TestJSONRendererDocumentShape(testingInstance *testing.T) {
	renderer := render.NewJSONRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		IncludeStatistics: boolPointer(true),
	})
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}
	document := decodeJSONDocument(testingInstance, rendered)

	tree, treePresent := document["tree"].(map[string]any)
	if !treePresent {
		testingInstance.Fatal("expected a tree object")
	}
	if tree["name"] != "root" || tree["type"] != types.NodeKindDirectory {
		testingInstance.Errorf("unexpected root identity: %v / %v", tree["name"], tree["type"])
	}
	rootChildren, childrenPresent := tree["children"].([]any)
	if !childrenPresent || len(rootChildren) != 2 {
		testingInstance.Fatalf("expected 2 root children, got %v", tree["children"])
	}
	nonEmptyDirectory := rootChildren[1].(map[string]any)
	directoryChildren := nonEmptyDirectory["children"].([]any)
	if len(directoryChildren) != 2 {
		testingInstance.Fatalf("expected 2 files under N, got %d", len(directoryChildren))
	}
	firstFile := directoryChildren[0].(map[string]any)
	if firstFile["size"] != float64(1024) || firstFile["sizeFormatted"] != "1.00 KB" || firstFile["extension"] != "txt" {
		testingInstance.Errorf("unexpected file detail: %v", firstFile)
	}
	if _, childrenOnFile := firstFile["children"]; childrenOnFile {
		testingInstance.Error("files must not carry a children array")
	}

	statistics, statisticsPresent := document["statistics"].(map[string]any)
	if !statisticsPresent {
		testingInstance.Fatal("expected a statistics object")
	}
	if statistics["totalFiles"] != float64(2) || statistics["totalDirectories"] != float64(3) {
		testingInstance.Errorf("unexpected statistics counts: %v", statistics)
	}
	if statistics["totalSizeBytes"] != float64(3072) || statistics["totalSizeFormatted"] != "3.00 KB" {
		testingInstance.Errorf("unexpected statistics sizes: %v", statistics)
	}
	if statistics["maxDepth"] != float64(2) {
		testingInstance.Errorf("unexpected max depth: %v", statistics["maxDepth"])
	}
}

// TestJSONRendererCaseStyles verifies that property names follow the case
// style while string values stay untouched.
func TestJSONRendererCaseStyles(testingInstance *testing.T) {
	testCases := []struct {
		testName    string
		caseStyle   string
		expectedKey string
	}{
		{testName: "camel", caseStyle: render.CaseStyleCamel, expectedKey: `"sizeFormatted"`},
		{testName: "pascal", caseStyle: render.CaseStylePascal, expectedKey: `"SizeFormatted"`},
		{testName: "kebab", caseStyle: render.CaseStyleKebab, expectedKey: `"size-formatted"`},
		{testName: "snake", caseStyle: render.CaseStyleSnake, expectedKey: `"size_formatted"`},
	}
	renderer := render.NewJSONRenderer(render.DefaultConfiguration())
	for _, testCase := range testCases {
		rendered, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
			CaseStyle: stringPointer(testCase.caseStyle),
		})
		if renderError != nil {
			testingInstance.Fatalf("%s: unexpected render error: %v", testCase.testName, renderError)
		}
		if !strings.Contains(rendered, testCase.expectedKey) {
			testingInstance.Errorf("%s: expected key %s in output", testCase.testName, testCase.expectedKey)
		}
		if !strings.Contains(rendered, `"1.00 KB"`) {
			testingInstance.Errorf("%s: string values must never be case-transformed", testCase.testName)
		}
	}
}

// TestJSONRendererNullPolicy verifies owner emission under both null policies.
func TestJSONRendererNullPolicy(testingInstance *testing.T) {
	renderer := render.NewJSONRenderer(render.DefaultConfiguration())

	omitted, omittedError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		IncludePermissions: boolPointer(true),
	})
	if omittedError != nil {
		testingInstance.Fatalf("unexpected render error: %v", omittedError)
	}
	if strings.Contains(omitted, `"owner"`) {
		testingInstance.Error("expected unknown owners to be omitted by default")
	}

	retained, retainedError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		IncludePermissions: boolPointer(true),
		OmitNullValues:     boolPointer(false),
	})
	if retainedError != nil {
		testingInstance.Fatalf("unexpected render error: %v", retainedError)
	}
	if !strings.Contains(retained, `"owner": null`) {
		testingInstance.Error("expected unknown owners to render as null when nulls are retained")
	}
}

// TestJSONRendererCompactOutput verifies that compact output parses and has
// no indentation whitespace.
func TestJSONRendererCompactOutput(testingInstance *testing.T) {
	renderer := render.NewJSONRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		Pretty: boolPointer(false),
	})
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}
	if strings.Contains(rendered, "\n") {
		testingInstance.Error("expected compact output to hold no newlines")
	}
	decodeJSONDocument(testingInstance, rendered)
}

// TestXMLRendererDocumentShape verifies the DirectoryTree document layout
// and text escaping.
func TestXMLRendererDocumentShape(testingInstance *testing.T) {
	fixtureTree := buildFixtureTree()
	awkwardFile := &types.Node{
		Name: "a&b<c>.txt", FullPath: fixtureRootPath + "/a&b<c>.txt", Kind: types.NodeKindFile,
		SizeBytes: 1, Extension: "txt",
	}
	fixtureTree.AddChild(awkwardFile)

	renderer := render.NewXMLRenderer(render.DefaultConfiguration())
	rendered, renderError := renderer.FormatWithOptions(fixtureTree, render.Overrides{
		IncludeStatistics: boolPointer(true),
	})
	if renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}

	if !strings.HasPrefix(rendered, `<?xml version="1.0" encoding="UTF-8"?>`) {
		testingInstance.Error("expected an XML declaration prefix")
	}
	for _, expectedFragment := range []string{
		"<DirectoryTree>",
		`<Node type="directory" name="root" path="` + fixtureRootPath + `">`,
		`name="E"`,
		"<SizeBytes>1024</SizeBytes>",
		"<SizeFormatted>2.00 KB</SizeFormatted>",
		"<TotalFiles>3</TotalFiles>",
		"<TotalDirectories>3</TotalDirectories>",
		"name=\"a&amp;b&lt;c&gt;.txt\"",
	} {
		if !strings.Contains(rendered, expectedFragment) {
			testingInstance.Errorf("expected output to contain %q, got:\n%s", expectedFragment, rendered)
		}
	}
	if strings.Contains(rendered, "<Metadata>") {
		testingInstance.Error("expected no metadata element by default")
	}
}

// TestFormatWithOptionsDoesNotMutateDefaults verifies per-call override
// isolation across renderer reuse.
func TestFormatWithOptionsDoesNotMutateDefaults(testingInstance *testing.T) {
	renderer := render.NewJSONRenderer(render.DefaultConfiguration())
	if _, renderError := renderer.FormatWithOptions(buildFixtureTree(), render.Overrides{
		Pretty:    boolPointer(false),
		CaseStyle: stringPointer(render.CaseStyleSnake),
	}); renderError != nil {
		testingInstance.Fatalf("unexpected render error: %v", renderError)
	}

	defaults := renderer.DefaultConfiguration()
	if !defaults.Pretty {
		testingInstance.Error("expected defaults to stay pretty after an override call")
	}
	if defaults.CaseStyle != render.CaseStyleCamel {
		testingInstance.Errorf("expected defaults to keep camelCase, got %s", defaults.CaseStyle)
	}
}

// TestConfigurationValidation verifies rejection of out-of-range options.
func TestConfigurationValidation(testingInstance *testing.T) {
	testCases := []struct {
		testName  string
		overrides render.Overrides
	}{
		{testName: "render depth below minimum", overrides: render.Overrides{MaxRenderDepth: intPointer(-2)}},
		{testName: "empty timestamp layout", overrides: render.Overrides{TimestampLayout: stringPointer("")}},
		{testName: "unknown case style", overrides: render.Overrides{CaseStyle: stringPointer("SCREAMING")}},
	}
	for _, testCase := range testCases {
		renderer := render.NewTextRenderer(render.DefaultConfiguration())
		_, renderError := renderer.FormatWithOptions(buildFixtureTree(), testCase.overrides)
		if !errors.Is(renderError, types.ErrInvalidConfiguration) {
			testingInstance.Errorf("%s: expected ErrInvalidConfiguration, got %v", testCase.testName, renderError)
		}
	}
}

// TestCrossFormatAgreement verifies that every renderer reports the same
// entries and the same statistics for one tree.
func TestCrossFormatAgreement(testingInstance *testing.T) {
	fixtureTree := buildFixtureTree()
	statisticsEnabled := render.Overrides{IncludeStatistics: boolPointer(true)}

	textOutput, textError := render.NewTextRenderer(render.DefaultConfiguration()).FormatWithOptions(fixtureTree, statisticsEnabled)
	jsonOutput, jsonError := render.NewJSONRenderer(render.DefaultConfiguration()).FormatWithOptions(fixtureTree, statisticsEnabled)
	xmlOutput, xmlError := render.NewXMLRenderer(render.DefaultConfiguration()).FormatWithOptions(fixtureTree, statisticsEnabled)
	if textError != nil || jsonError != nil || xmlError != nil {
		testingInstance.Fatalf("unexpected render errors: %v / %v / %v", textError, jsonError, xmlError)
	}

	for _, entryName := range []string{"E", "N", "f1.txt", "f2.txt"} {
		for formatName, output := range map[string]string{"text": textOutput, "json": jsonOutput, "xml": xmlOutput} {
			if !strings.Contains(output, entryName) {
				testingInstance.Errorf("%s output is missing entry %s", formatName, entryName)
			}
		}
	}

	if !strings.Contains(textOutput, "  Files: 2\n") || !strings.Contains(textOutput, "  Directories: 3\n") {
		testingInstance.Error("text statistics disagree with the fixture")
	}
	jsonStatistics := decodeJSONDocument(testingInstance, jsonOutput)["statistics"].(map[string]any)
	if jsonStatistics["totalFiles"] != float64(2) || jsonStatistics["totalDirectories"] != float64(3) {
		testingInstance.Error("json statistics disagree with the fixture")
	}
	if !strings.Contains(xmlOutput, "<TotalFiles>2</TotalFiles>") || !strings.Contains(xmlOutput, "<TotalDirectories>3</TotalDirectories>") {
		testingInstance.Error("xml statistics disagree with the fixture")
	}
}

// TestForFormat verifies the renderer factory including its failure case.
func TestForFormat(testingInstance *testing.T) {
	for _, format := range []string{types.FormatText, types.FormatJSON, types.FormatXML} {
		renderer, factoryError := render.ForFormat(format)
		if factoryError != nil || renderer == nil {
			testingInstance.Errorf("expected a renderer for %s, got %v", format, factoryError)
		}
	}
	if _, factoryError := render.ForFormat("yaml"); !errors.Is(factoryError, types.ErrInvalidConfiguration) {
		testingInstance.Errorf("expected ErrInvalidConfiguration for unknown format, got %v", factoryError)
	}
}
