package output

import (
	"fmt"
	"io"

	"github.com/tmoreno/trxd/internal/classify"
	"github.com/tmoreno/trxd/internal/types"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// treeNode is one reconstructed node of the rendered hierarchy.
type treeNode struct {
	entry    types.Entry
	children []*treeNode
}

// treeRenderer buffers the whole entry sequence, rebuilds the nesting from
// entry depths, and prints the decorated tree on Flush.
type treeRenderer struct {
	writer       io.Writer
	showMetadata bool
	useEmoji     bool
	root         *treeNode
	stack        []*treeNode
}

func newTreeRenderer(writer io.Writer, showMetadata bool, useEmoji bool) Renderer {
	return &treeRenderer{writer: writer, showMetadata: showMetadata, useEmoji: useEmoji}
}

// Handle appends the entry to the reconstruction. Entries arrive pre-order
// with a directory's subtree preceding its next sibling, so a stack indexed
// by depth is sufficient to find each entry's parent.
func (renderer *treeRenderer) Handle(entry types.Entry) error {
	node := &treeNode{entry: entry}
	if renderer.root == nil {
		renderer.root = node
		renderer.stack = []*treeNode{node}
		return nil
	}

	if entry.Depth < 1 || entry.Depth > len(renderer.stack) {
		return fmt.Errorf("tree renderer: entry %s at depth %d does not extend the current branch", entry.Path, entry.Depth)
	}
	renderer.stack = renderer.stack[:entry.Depth]
	parent := renderer.stack[entry.Depth-1]
	parent.children = append(parent.children, node)
	if entry.IsDir() {
		renderer.stack = append(renderer.stack, node)
	}
	return nil
}

func (renderer *treeRenderer) Flush() error {
	if renderer.root == nil {
		return nil
	}
	if writeError := renderer.writeLine("", "", renderer.root.entry); writeError != nil {
		return writeError
	}
	return renderer.writeChildren(renderer.root, "")
}

// writeChildren prints each child with its connector: a branch connector for
// every sibling except the last, whose connector also switches the deeper
// continuation from a vertical bar to blank padding.
func (renderer *treeRenderer) writeChildren(parent *treeNode, prefix string) error {
	for childIndex, child := range parent.children {
		isLastSibling := childIndex == len(parent.children)-1
		connector := treeBranchConnector
		childPrefix := prefix + treeBranchPadding
		if isLastSibling {
			connector = treeLastConnector
			childPrefix = prefix + treeLastPadding
		}
		if writeError := renderer.writeLine(prefix, connector, child.entry); writeError != nil {
			return writeError
		}
		if child.entry.IsDir() {
			if writeError := renderer.writeChildren(child, childPrefix); writeError != nil {
				return writeError
			}
		}
	}
	return nil
}

func (renderer *treeRenderer) writeLine(prefix string, connector string, entry types.Entry) error {
	glyph := classify.Glyph(entry.Name, entry.IsDir(), renderer.useEmoji)
	suffix := ""
	if renderer.showMetadata {
		suffix = metadataSuffix(entry, false)
	}
	_, writeError := fmt.Fprintf(renderer.writer, "%s%s%s %s%s\n", prefix, connector, glyph, entry.Name, suffix)
	return writeError
}
