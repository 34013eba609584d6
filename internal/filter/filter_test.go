package filter_test

import (
	"testing"

	"github.com/temirov/treescan/internal/filter"
	"github.com/temirov/treescan/internal/types"
)

// fixtureRootPath anchors the node fixtures used across the filter tests.
const fixtureRootPath = "/data/root"

// newFileCandidate constructs a file node fixture for filter evaluation.
func newFileCandidate(name string, sizeBytes uint64) *types.Node {
	return &types.Node{Name: name, FullPath: fixtureRootPath + "/" + name, Kind: types.NodeKindFile, SizeBytes: sizeBytes}
}

// newDirectoryCandidate constructs a directory node fixture for filter evaluation.
func newDirectoryCandidate(name string) *types.Node {
	return &types.Node{Name: name, FullPath: fixtureRootPath + "/" + name, Kind: types.NodeKindDirectory}
}

// TestDefaultProviderDecisions verifies the reference decision algorithm.
func TestDefaultProviderDecisions(testingInstance *testing.T) {
	testCases := []struct {
		testName      string
		configuration filter.Configuration
		candidate     *types.Node
		expected      bool
	}{
		{
			testName:      "disabled includes everything",
			configuration: filter.Configuration{Enabled: false, ExcludePatterns: []string{"*"}},
			candidate:     newFileCandidate("anything.txt", 10),
			expected:      true,
		},
		{
			testName:      "oversized file rejected",
			configuration: filter.Configuration{Enabled: true, MaxSizeBytes: 100},
			candidate:     newFileCandidate("large.bin", 101),
			expected:      false,
		},
		{
			testName:      "size cap ignores directories",
			configuration: filter.Configuration{Enabled: true, MaxSizeBytes: 1},
			candidate:     newDirectoryCandidate("nested"),
			expected:      true,
		},
		{
			testName:      "exclude pattern rejects",
			configuration: filter.Configuration{Enabled: true, ExcludePatterns: []string{"*.txt"}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      false,
		},
		{
			testName:      "exclude pattern is case insensitive",
			configuration: filter.Configuration{Enabled: true, ExcludePatterns: []string{"*.TXT"}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      false,
		},
		{
			testName:      "include patterns require a match",
			configuration: filter.Configuration{Enabled: true, IncludePatterns: []string{"*.go"}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      false,
		},
		{
			testName:      "include pattern match admits",
			configuration: filter.Configuration{Enabled: true, IncludePatterns: []string{"*.go", "*.txt"}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      true,
		},
		{
			testName:      "empty include set admits",
			configuration: filter.Configuration{Enabled: true},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      true,
		},
		{
			testName:      "exclude wins over include",
			configuration: filter.Configuration{Enabled: true, ExcludePatterns: []string{"report.*"}, IncludePatterns: []string{"*.txt"}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      false,
		},
		{
			testName:      "malformed exclude glob never matches",
			configuration: filter.Configuration{Enabled: true, ExcludePatterns: []string{"["}},
			candidate:     newFileCandidate("report.txt", 10),
			expected:      true,
		},
		{
			testName:      "hidden entry rejected when configured",
			configuration: filter.Configuration{Enabled: true, IgnoreHidden: true},
			candidate:     &types.Node{Name: ".secret", FullPath: fixtureRootPath + "/.secret", Kind: types.NodeKindFile, IsHidden: true},
			expected:      false,
		},
		{
			testName:      "system entry rejected when configured",
			configuration: filter.Configuration{Enabled: true, IgnoreSystem: true},
			candidate:     &types.Node{Name: "device", FullPath: fixtureRootPath + "/device", Kind: types.NodeKindFile, IsSystem: true},
			expected:      false,
		},
	}
	for _, testCase := range testCases {
		provider := filter.NewDefaultProvider(testCase.configuration)
		actual := provider.ShouldInclude(testCase.candidate)
		if actual != testCase.expected {
			testingInstance.Errorf("%s: expected %t, got %t", testCase.testName, testCase.expected, actual)
		}
	}
}

// recordingProvider counts evaluations and returns a fixed verdict.
type recordingProvider struct {
	verdict     bool
	evaluations int
}

func (provider *recordingProvider) Name() string { return "recording" }

func (provider *recordingProvider) ShouldInclude(node *types.Node) bool {
	provider.evaluations++
	return provider.verdict
}

func (provider *recordingProvider) PreProcess(root *types.Node)  {}
func (provider *recordingProvider) PostProcess(root *types.Node) {}

func (provider *recordingProvider) DefaultConfiguration() filter.Configuration {
	return filter.DefaultConfiguration()
}

// TestChainShortCircuits verifies logical-AND composition with short-circuiting.
func TestChainShortCircuits(testingInstance *testing.T) {
	rejecting := &recordingProvider{verdict: false}
	unreached := &recordingProvider{verdict: true}
	chain := filter.Chain{rejecting, unreached}

	if chain.ShouldInclude(newFileCandidate("entry.txt", 1)) {
		testingInstance.Error("expected chain to reject when any provider rejects")
	}
	if rejecting.evaluations != 1 {
		testingInstance.Errorf("expected first provider evaluated once, got %d", rejecting.evaluations)
	}
	if unreached.evaluations != 0 {
		testingInstance.Errorf("expected short-circuit before second provider, got %d evaluations", unreached.evaluations)
	}

	accepting := filter.Chain{&recordingProvider{verdict: true}, &recordingProvider{verdict: true}}
	if !accepting.ShouldInclude(newFileCandidate("entry.txt", 1)) {
		testingInstance.Error("expected chain to accept when every provider accepts")
	}
}

// TestDefaultConfiguration verifies the engine defaults.
func TestDefaultConfiguration(testingInstance *testing.T) {
	configuration := filter.DefaultConfiguration()
	if !configuration.Enabled {
		testingInstance.Error("expected default configuration to be enabled")
	}
	if configuration.MaxSizeBytes != 0 {
		testingInstance.Errorf("expected no default size cap, got %d", configuration.MaxSizeBytes)
	}
	if len(configuration.ExcludePatterns) != 0 || len(configuration.IncludePatterns) != 0 {
		testingInstance.Error("expected no default patterns")
	}
}
