package types

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DirectorySizePlaceholder is rendered in place of a byte count for directories.
	DirectorySizePlaceholder = "<DIR>"

	bytesPerUnit = 1024
)

// sizeUnitNames lists the binary units used by FormattedSize, smallest first.
var sizeUnitNames = []string{"KB", "MB", "GB"}

// Node is one materialized filesystem entry in a built tree. Nodes are
// assembled by the tree builder and are read-only once the build completes.
type Node struct {
	Name      string
	FullPath  string
	Kind      string
	SizeBytes uint64
	Extension string

	CreatedAt  time.Time
	ModifiedAt time.Time
	AccessedAt time.Time

	IsHidden   bool
	IsSystem   bool
	IsReadOnly bool
	Owner      string

	Depth    int
	Children []*Node

	parent *Node
}

// Parent returns the non-owning back-reference to the enclosing directory node.
// The root node has no parent.
func (node *Node) Parent() *Node {
	return node.parent
}

// IsDirectory reports whether the node represents a directory.
func (node *Node) IsDirectory() bool {
	return node.Kind == NodeKindDirectory
}

// AddChild appends the child to the ordered child sequence, setting the
// child's parent reference and depth.
func (node *Node) AddChild(child *Node) {
	child.parent = node
	child.Depth = node.Depth + 1
	node.Children = append(node.Children, child)
}

// Descendants yields every node below the receiver in depth-first pre-order.
// The sequence is recomputed on each call and may be ranged over repeatedly.
func (node *Node) Descendants() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		var walk func(current *Node) bool
		walk = func(current *Node) bool {
			for _, child := range current.Children {
				if !yield(child) {
					return false
				}
				if !walk(child) {
					return false
				}
			}
			return true
		}
		walk(node)
	}
}

// RelativePath returns the node's full path with the root prefix and any
// leading separator stripped. The root itself is reported as ".".
func (node *Node) RelativePath(rootPath string) string {
	cleanRoot := filepath.Clean(rootPath)
	cleanFull := filepath.Clean(node.FullPath)
	if cleanFull == cleanRoot {
		return "."
	}
	trimmed := strings.TrimPrefix(cleanFull, cleanRoot)
	trimmed = strings.TrimPrefix(trimmed, string(filepath.Separator))
	if trimmed == "" {
		return "."
	}
	return filepath.ToSlash(trimmed)
}

// MatchesPattern reports whether the node name matches the shell glob
// pattern. Matching is case-insensitive and evaluates the bare name, never
// the full path. A malformed pattern never matches.
func (node *Node) MatchesPattern(pattern string) bool {
	matched, matchError := doublestar.Match(strings.ToLower(pattern), strings.ToLower(node.Name))
	if matchError != nil {
		return false
	}
	return matched
}

// FormattedSize renders the node size using binary units with two decimal
// places. Directories render as a fixed placeholder instead of a byte value.
func (node *Node) FormattedSize() string {
	if node.IsDirectory() {
		return DirectorySizePlaceholder
	}
	return FormatByteCount(node.SizeBytes)
}

// FormatByteCount renders a byte count using binary units: a plain byte
// value below 1024, otherwise KB, MB, or GB with two decimal places and a
// threshold of 1024 per step.
func FormatByteCount(sizeBytes uint64) string {
	if sizeBytes < bytesPerUnit {
		return fmt.Sprintf("%d B", sizeBytes)
	}
	value := float64(sizeBytes) / bytesPerUnit
	unitIndex := 0
	for value >= bytesPerUnit && unitIndex < len(sizeUnitNames)-1 {
		value /= bytesPerUnit
		unitIndex++
	}
	return fmt.Sprintf("%.2f %s", value, sizeUnitNames[unitIndex])
}
