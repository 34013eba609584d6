// Package builder walks a filesystem subtree and materializes it into a node tree.
package builder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/temirov/treescan/internal/filter"
	"github.com/temirov/treescan/internal/types"
	"github.com/temirov/treescan/internal/utils"
)

const (
	// UnlimitedDepth disables the traversal depth cap.
	UnlimitedDepth = -1

	// warningUnreadableEntryFormat reports an entry skipped because it could not be read.
	warningUnreadableEntryFormat = "skipping unreadable entry: %v"
	// warningStatEntryFormat reports an entry skipped because its metadata was unavailable.
	warningStatEntryFormat = "unable to stat entry: %v"
	// warningSymlinkCycleMessage reports a directory skipped because it was already visited.
	warningSymlinkCycleMessage = "skipping already visited directory (symlink cycle)"
	// errorMaxDepthFormat reports an out-of-range depth cap.
	errorMaxDepthFormat = "maxDepth must be -1 or greater, got %d"
	// errorWorkerCountFormat reports an out-of-range worker count.
	errorWorkerCountFormat = "workers must be 0 or greater, got %d"
	// infoWalkStartedMessage announces the beginning of a walk.
	infoWalkStartedMessage = "walk started"
)

// TreeBuilder walks a directory subtree, consulting the filter chain and the
// traversal mode at every entry, and produces an immutable node tree. A
// builder is configured once and may be reused across invocations; each call
// to Build produces a fresh tree.
type TreeBuilder struct {
	Mode        types.Mode
	MaxDepth    int
	Filters     filter.Chain
	Sink        types.EventSink
	WorkerCount int
}

// New constructs a sequential builder with an unlimited depth cap.
func New(mode types.Mode, filters filter.Chain, sink types.EventSink) *TreeBuilder {
	return &TreeBuilder{
		Mode:     mode,
		MaxDepth: UnlimitedDepth,
		Filters:  filters,
		Sink:     sink,
	}
}

// Validate rejects out-of-range builder configuration before any traversal begins.
func (treeBuilder *TreeBuilder) Validate() error {
	if _, modeError := types.ParseMode(string(treeBuilder.Mode)); modeError != nil {
		return modeError
	}
	if treeBuilder.MaxDepth < UnlimitedDepth {
		return types.NewInvalidConfigurationError(errorMaxDepthFormat, treeBuilder.MaxDepth)
	}
	if treeBuilder.WorkerCount < 0 {
		return types.NewInvalidConfigurationError(errorWorkerCountFormat, treeBuilder.WorkerCount)
	}
	return nil
}

// Build walks the filesystem starting at rootPath and returns the
// materialized tree. The root must exist and be a directory; it is always
// represented as a directory node at depth zero regardless of mode.
func (treeBuilder *TreeBuilder) Build(rootPath string) (*types.Node, error) {
	if validationError := treeBuilder.Validate(); validationError != nil {
		return nil, validationError
	}

	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return nil, absolutePathError
	}
	rootInformation, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		if errors.Is(rootStatError, fs.ErrNotExist) {
			return nil, types.NewPathNotFoundError(absoluteRootPath)
		}
		return nil, rootStatError
	}
	if !rootInformation.IsDir() {
		return nil, types.NewNotADirectoryError(absoluteRootPath)
	}

	rootNode := newNode(absoluteRootPath, filepath.Base(absoluteRootPath), rootInformation, types.NodeKindDirectory)
	registry := newVisitRegistry()
	registry.markVisited(resolveRealPath(absoluteRootPath))

	treeBuilder.emit(types.EventLevelInfo, infoWalkStartedMessage, absoluteRootPath)
	treeBuilder.Filters.PreProcess(rootNode)
	if treeBuilder.WorkerCount > 1 {
		treeBuilder.populateChildrenParallel(rootNode, registry)
	} else {
		treeBuilder.populateChildren(rootNode, registry)
	}
	treeBuilder.Filters.PostProcess(rootNode)

	return rootNode, nil
}

// subtreeSummary carries the facts the mode policy needs to decide whether a
// directory is kept: how many filter-accepted entries the directory holds on
// disk, how many file nodes its materialized subtree contains, and whether
// enumeration was cut off by the depth cap.
type subtreeSummary struct {
	acceptedEntries   int
	materializedFiles int
	truncated         bool
}

// populateChildren enumerates one directory level, applies the filter chain
// and the mode policy to every entry, and recurses into permitted
// directories. Siblings keep the lexicographic order of os.ReadDir.
func (treeBuilder *TreeBuilder) populateChildren(parent *types.Node, registry *visitRegistry) subtreeSummary {
	var summary subtreeSummary

	if treeBuilder.MaxDepth != UnlimitedDepth && parent.Depth >= treeBuilder.MaxDepth {
		summary.truncated = true
		return summary
	}

	directoryEntries, readDirectoryError := os.ReadDir(parent.FullPath)
	if readDirectoryError != nil {
		treeBuilder.emit(types.EventLevelWarning, warningUnreadableEntryFormat, parent.FullPath, classifyEntryError(readDirectoryError))
		return summary
	}

	for _, directoryEntry := range directoryEntries {
		candidate := treeBuilder.buildCandidate(parent, directoryEntry)
		if candidate == nil {
			continue
		}
		if !treeBuilder.Filters.ShouldInclude(candidate) {
			continue
		}
		summary.acceptedEntries++

		if candidate.IsDirectory() {
			if !treeBuilder.Mode.IncludesDirectories() {
				continue
			}
			childSummary := treeBuilder.descendInto(candidate, registry)
			if treeBuilder.keepDirectory(childSummary) {
				parent.AddChild(candidate)
				summary.materializedFiles += childSummary.materializedFiles
			}
			continue
		}

		if treeBuilder.keepFile(candidate) {
			parent.AddChild(candidate)
			summary.materializedFiles++
		}
	}

	return summary
}

// populateChildrenParallel walks the immediate subtrees of the root in a
// bounded worker pool and merges the results back in enumeration order, so
// parallel and sequential walks emit byte-identical trees.
func (treeBuilder *TreeBuilder) populateChildrenParallel(parent *types.Node, registry *visitRegistry) subtreeSummary {
	var summary subtreeSummary

	if treeBuilder.MaxDepth != UnlimitedDepth && parent.Depth >= treeBuilder.MaxDepth {
		summary.truncated = true
		return summary
	}

	directoryEntries, readDirectoryError := os.ReadDir(parent.FullPath)
	if readDirectoryError != nil {
		treeBuilder.emit(types.EventLevelWarning, warningUnreadableEntryFormat, parent.FullPath, classifyEntryError(readDirectoryError))
		return summary
	}

	type directorySlot struct {
		node    *types.Node
		summary subtreeSummary
	}

	workerPool := pool.New().WithMaxGoroutines(treeBuilder.WorkerCount)
	slots := make([]*directorySlot, 0, len(directoryEntries))
	orderedChildren := make([]*types.Node, 0, len(directoryEntries))

	for _, directoryEntry := range directoryEntries {
		candidate := treeBuilder.buildCandidate(parent, directoryEntry)
		if candidate == nil {
			continue
		}
		if !treeBuilder.Filters.ShouldInclude(candidate) {
			continue
		}
		summary.acceptedEntries++

		if candidate.IsDirectory() {
			if !treeBuilder.Mode.IncludesDirectories() {
				continue
			}
			slot := &directorySlot{node: candidate}
			slots = append(slots, slot)
			orderedChildren = append(orderedChildren, candidate)
			workerPool.Go(func() {
				slot.summary = treeBuilder.descendInto(slot.node, registry)
			})
			continue
		}

		if treeBuilder.keepFile(candidate) {
			orderedChildren = append(orderedChildren, candidate)
		}
	}

	workerPool.Wait()

	summariesByNode := make(map[*types.Node]subtreeSummary, len(slots))
	for _, slot := range slots {
		summariesByNode[slot.node] = slot.summary
	}
	for _, child := range orderedChildren {
		if child.IsDirectory() {
			childSummary := summariesByNode[child]
			if !treeBuilder.keepDirectory(childSummary) {
				continue
			}
			parent.AddChild(child)
			summary.materializedFiles += childSummary.materializedFiles
			continue
		}
		parent.AddChild(child)
		summary.materializedFiles++
	}

	return summary
}

// descendInto recurses into a candidate directory unless it was already
// visited through a symbolic link cycle.
func (treeBuilder *TreeBuilder) descendInto(candidate *types.Node, registry *visitRegistry) subtreeSummary {
	realPath := resolveRealPath(candidate.FullPath)
	if !registry.markVisited(realPath) {
		treeBuilder.emit(types.EventLevelWarning, warningSymlinkCycleMessage, candidate.FullPath)
		return subtreeSummary{truncated: true}
	}
	return treeBuilder.populateChildren(candidate, registry)
}

// buildCandidate constructs a node for one directory entry. Symbolic links
// are represented as their target kind. Returns nil when entry metadata is
// unavailable; the skip is reported through the event sink.
func (treeBuilder *TreeBuilder) buildCandidate(parent *types.Node, directoryEntry os.DirEntry) *types.Node {
	childPath := filepath.Join(parent.FullPath, directoryEntry.Name())

	entryInformation, informationError := directoryEntry.Info()
	if informationError != nil {
		treeBuilder.emit(types.EventLevelWarning, warningStatEntryFormat, childPath, classifyEntryError(informationError))
		return nil
	}
	if entryInformation.Mode()&fs.ModeSymlink != 0 {
		targetInformation, targetStatError := os.Stat(childPath)
		if targetStatError != nil {
			treeBuilder.emit(types.EventLevelWarning, warningStatEntryFormat, childPath, classifyEntryError(targetStatError))
			return nil
		}
		entryInformation = targetInformation
	}

	kind := types.NodeKindFile
	if entryInformation.IsDir() {
		kind = types.NodeKindDirectory
	}
	candidate := newNode(childPath, directoryEntry.Name(), entryInformation, kind)
	candidate.Depth = parent.Depth + 1
	return candidate
}

// keepFile applies the mode policy to a filter-accepted file candidate. The
// CLEAN non-empty rule is independent of the size filter: a zero-byte file
// is dropped by CLEAN even when every filter admits it.
func (treeBuilder *TreeBuilder) keepFile(candidate *types.Node) bool {
	if !treeBuilder.Mode.IncludesFiles() {
		return false
	}
	if treeBuilder.Mode == types.ModeClean && candidate.SizeBytes == 0 {
		return false
	}
	return true
}

// keepDirectory applies the mode policy to a filter-accepted directory whose
// subtree has been walked. Directories whose enumeration was cut off by the
// depth cap or a cycle guard are kept, since their emptiness is unknown.
func (treeBuilder *TreeBuilder) keepDirectory(childSummary subtreeSummary) bool {
	if treeBuilder.Mode.IncludesEmptyDirectories() {
		return true
	}
	if childSummary.truncated {
		return true
	}
	switch treeBuilder.Mode {
	case types.ModeClean:
		return childSummary.materializedFiles > 0
	case types.ModeFolders:
		return childSummary.acceptedEntries > 0
	default:
		return false
	}
}

// emit forwards a structured event to the sink when one is configured.
func (treeBuilder *TreeBuilder) emit(level types.EventLevel, format string, path string, arguments ...any) {
	if treeBuilder.Sink == nil {
		return
	}
	message := format
	if len(arguments) > 0 {
		message = fmt.Sprintf(format, arguments...)
	}
	treeBuilder.Sink.Emit(types.Event{
		Level:     level,
		Message:   message,
		Path:      path,
		EmittedAt: time.Now(),
	})
}

// newNode constructs a node from already collected entry metadata. The
// constructor performs no filesystem I/O of its own.
func newNode(fullPath string, name string, information fs.FileInfo, kind string) *types.Node {
	createdAt, accessedAt := utils.EntryTimes(information)
	node := &types.Node{
		Name:       name,
		FullPath:   fullPath,
		Kind:       kind,
		CreatedAt:  createdAt,
		ModifiedAt: information.ModTime(),
		AccessedAt: accessedAt,
		IsHidden:   utils.IsHiddenName(name),
		IsSystem:   utils.IsSystemMode(information.Mode()),
		IsReadOnly: utils.IsReadOnlyMode(information.Mode()),
		Owner:      utils.OwnerName(information),
	}
	if kind == types.NodeKindFile {
		node.SizeBytes = uint64(information.Size())
		node.Extension = strings.TrimPrefix(filepath.Ext(name), ".")
	}
	return node
}

// classifyEntryError maps an access failure onto the shared failure taxonomy
// so warning events carry the permission-denied classification.
func classifyEntryError(entryError error) error {
	if errors.Is(entryError, fs.ErrPermission) {
		return fmt.Errorf("%w: %v", types.ErrPermissionDenied, entryError)
	}
	return entryError
}

// resolveRealPath resolves symbolic links for the cycle guard, falling back
// to the unresolved path when resolution fails.
func resolveRealPath(path string) string {
	realPath, resolveError := filepath.EvalSymlinks(path)
	if resolveError != nil {
		return path
	}
	return realPath
}

// visitRegistry tracks resolved directory paths already entered during one
// build. Access is synchronized because subtrees may be walked in parallel.
type visitRegistry struct {
	mutex   sync.Mutex
	visited map[string]struct{}
}

// newVisitRegistry constructs an empty registry.
func newVisitRegistry() *visitRegistry {
	return &visitRegistry{visited: make(map[string]struct{})}
}

// markVisited records the path, reporting false when it was already present.
func (registry *visitRegistry) markVisited(path string) bool {
	registry.mutex.Lock()
	defer registry.mutex.Unlock()
	if _, alreadyVisited := registry.visited[path]; alreadyVisited {
		return false
	}
	registry.visited[path] = struct{}{}
	return true
}
