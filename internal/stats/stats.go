// Package stats computes aggregate statistics from a completed tree.
package stats

import "github.com/temirov/treescan/internal/types"

// Collect derives statistics from the tree rooted at the provided node in a
// single traversal. The tree is never mutated. Oldest and newest files are
// compared by creation time; ties keep the node encountered first in
// depth-first pre-order.
func Collect(root *types.Node) types.Statistics {
	statistics := types.Statistics{MaxDepth: root.Depth}
	tally(root, &statistics)
	for descendant := range root.Descendants() {
		tally(descendant, &statistics)
	}
	return statistics
}

// tally folds one node into the running statistics.
func tally(node *types.Node, statistics *types.Statistics) {
	if node.Depth > statistics.MaxDepth {
		statistics.MaxDepth = node.Depth
	}
	if node.IsDirectory() {
		statistics.TotalDirectories++
		return
	}
	statistics.TotalFiles++
	statistics.TotalSizeBytes += node.SizeBytes
	if statistics.OldestFile == nil || node.CreatedAt.Before(statistics.OldestFile.CreatedAt) {
		statistics.OldestFile = node
	}
	if statistics.NewestFile == nil || node.CreatedAt.After(statistics.NewestFile.CreatedAt) {
		statistics.NewestFile = node
	}
}
