package tree

import "strconv"

// Node is a vertex of a generated binary tree.
// A node exclusively owns its children; nil means no child on that side.
type Node struct {
	ID    int   // Creation-order identifier, starting at 1
	Value int   // Random value within the build's range
	Left  *Node // Left child (nil if absent)
	Right *Node // Right child (nil if absent)
}

// Key returns the node ID as a string, the form used in graph descriptions.
func (n *Node) Key() string { return strconv.Itoa(n.ID) }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return n.Left == nil && n.Right == nil }

// Tree is the result of a single [Build] run.
//
// Nodes and Edges are counted during generation and always satisfy
// Edges == Nodes-1.
type Tree struct {
	Root  *Node
	Nodes int // Number of nodes created, root included
	Edges int // Number of parent-child links created
	Depth int // Requested depth
}

// Height returns the number of edges on the longest root-to-leaf path.
func (t *Tree) Height() int { return Height(t.Root) }

// Walk visits every node of t in pre-order. See [Walk].
func (t *Tree) Walk(fn func(n, parent *Node) bool) { Walk(t.Root, fn) }

// Walk visits root and its descendants in pre-order: a node, then its left
// subtree, then its right subtree. fn receives each node with its parent
// (nil for root). Returning false from fn skips that node's subtrees.
func Walk(root *Node, fn func(n, parent *Node) bool) {
	walk(root, nil, fn)
}

func walk(n, parent *Node, fn func(n, parent *Node) bool) {
	if n == nil || !fn(n, parent) {
		return
	}
	walk(n.Left, n, fn)
	walk(n.Right, n, fn)
}

// Height returns the number of edges on the longest path from root to a leaf.
// A single node has height 0; a nil root has height -1.
func Height(root *Node) int {
	if root == nil {
		return -1
	}
	return 1 + max(Height(root.Left), Height(root.Right))
}

// Count returns the number of nodes reachable from root.
func Count(root *Node) int {
	n := 0
	Walk(root, func(*Node, *Node) bool {
		n++
		return true
	})
	return n
}
