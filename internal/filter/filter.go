// Package filter decides per-node inclusion based on name, size, and attribute rules.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/temirov/treescan/internal/types"
)

// Provider decides whether a candidate node is included in the materialized
// tree. Providers may be composed into a Chain; a node survives only when
// every provider accepts it.
type Provider interface {
	// Name identifies the provider in warning events.
	Name() string
	// ShouldInclude reports whether the candidate node survives the filter.
	ShouldInclude(node *types.Node) bool
	// PreProcess runs before traversal of the root begins.
	PreProcess(root *types.Node)
	// PostProcess runs after the tree for the root is complete.
	PostProcess(root *types.Node)
	// DefaultConfiguration returns the provider's configuration defaults.
	DefaultConfiguration() Configuration
}

// Configuration holds the options consumed by the default provider. The
// value is immutable for the duration of one build.
type Configuration struct {
	Enabled         bool
	ExcludePatterns []string
	IncludePatterns []string
	MaxSizeBytes    uint64
	IgnoreHidden    bool
	IgnoreSystem    bool
}

// DefaultConfiguration returns the provider defaults: enabled, no patterns,
// no size cap, hidden and system entries admitted.
func DefaultConfiguration() Configuration {
	return Configuration{Enabled: true}
}

// defaultProviderName identifies the reference provider in warning events.
const defaultProviderName = "default"

// DefaultProvider is the reference filter. Its decision order is: disabled
// passes everything; oversized files are rejected; exclude patterns are
// rejected; a non-empty include set requires at least one match.
type DefaultProvider struct {
	configuration Configuration
}

// NewDefaultProvider constructs the reference provider for one build.
func NewDefaultProvider(configuration Configuration) *DefaultProvider {
	return &DefaultProvider{configuration: configuration}
}

// Name identifies the provider.
func (provider *DefaultProvider) Name() string {
	return defaultProviderName
}

// PreProcess is a no-op hook kept for composed filter chains.
func (provider *DefaultProvider) PreProcess(root *types.Node) {}

// PostProcess is a no-op hook kept for composed filter chains.
func (provider *DefaultProvider) PostProcess(root *types.Node) {}

// DefaultConfiguration returns the provider's configuration defaults.
func (provider *DefaultProvider) DefaultConfiguration() Configuration {
	return DefaultConfiguration()
}

// ShouldInclude applies the reference decision algorithm to the candidate node.
func (provider *DefaultProvider) ShouldInclude(node *types.Node) bool {
	if !provider.configuration.Enabled {
		return true
	}
	if provider.configuration.IgnoreHidden && node.IsHidden {
		return false
	}
	if provider.configuration.IgnoreSystem && node.IsSystem {
		return false
	}
	if !node.IsDirectory() && provider.configuration.MaxSizeBytes > 0 && node.SizeBytes > provider.configuration.MaxSizeBytes {
		return false
	}
	for _, excludePattern := range provider.configuration.ExcludePatterns {
		if matchesName(excludePattern, node.Name) {
			return false
		}
	}
	if len(provider.configuration.IncludePatterns) == 0 {
		return true
	}
	for _, includePattern := range provider.configuration.IncludePatterns {
		if matchesName(includePattern, node.Name) {
			return true
		}
	}
	return false
}

// matchesName evaluates one shell glob against a bare entry name,
// case-insensitively. A malformed pattern is treated as a non-match so that
// one bad pattern never aborts a walk.
func matchesName(pattern string, name string) bool {
	matched, matchError := doublestar.Match(strings.ToLower(pattern), strings.ToLower(name))
	if matchError != nil {
		return false
	}
	return matched
}

// Chain composes multiple providers. Inclusion is the logical AND of every
// provider, short-circuiting on the first rejection.
type Chain []Provider

// ShouldInclude reports whether every provider in the chain accepts the node.
func (chain Chain) ShouldInclude(node *types.Node) bool {
	for _, provider := range chain {
		if !provider.ShouldInclude(node) {
			return false
		}
	}
	return true
}

// PreProcess invokes the pre-traversal hook of every provider in order.
func (chain Chain) PreProcess(root *types.Node) {
	for _, provider := range chain {
		provider.PreProcess(root)
	}
}

// PostProcess invokes the post-traversal hook of every provider in order.
func (chain Chain) PostProcess(root *types.Node) {
	for _, provider := range chain {
		provider.PostProcess(root)
	}
}
