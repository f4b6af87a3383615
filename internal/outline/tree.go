// Package outline mirrors a document's heading hierarchy as a tree of
// work-item nodes.
package outline

import (
	"iter"

	"github.com/Makepad-fr/wordsync/internal/model"
)

// Node is one heading. ID is the work item id the heading names, 0 when
// unbound; Item is nil until that id is resolved. Children are owned and
// kept in document order.
type Node struct {
	Title        string
	ID           int
	Item         model.WorkItem
	OutlineLevel int
	Children     []*Node
}

// Add appends child and returns it.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

// Tree holds the top-level nodes, one per independent section.
type Tree struct {
	Roots []*Node
}

// Add appends a root and returns it.
func (t *Tree) Add(root *Node) *Node {
	t.Roots = append(t.Roots, root)
	return root
}

// Len counts every node in the tree.
func (t *Tree) Len() int {
	n := 0
	for range DepthFirstNodes(t) {
		n++
	}
	return n
}

// DepthFirstNodes walks every root in order, yielding each node before its
// children. Nothing is materialized up front, so ranging the sequence again
// walks the tree again.
func DepthFirstNodes(t *Tree) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if t == nil {
			return
		}
		for _, root := range t.Roots {
			if !walk(root, yield) {
				return
			}
		}
	}
}

func walk(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}
