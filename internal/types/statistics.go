package types

// Statistics is the aggregate view computed from a completed tree. It is
// derived by a single traversal and never stored on the nodes themselves.
type Statistics struct {
	TotalFiles       int
	TotalDirectories int
	TotalSizeBytes   uint64
	MaxDepth         int
	OldestFile       *Node
	NewestFile       *Node
}
