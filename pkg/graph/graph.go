package graph

import (
	"strconv"

	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/tree"
)

// Description is the renderer-agnostic form of a generated tree.
type Description struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node declares one vertex with its display label.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Edge declares a directed parent → child link.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// NodeCount returns the number of node declarations.
func (d Description) NodeCount() int { return len(d.Nodes) }

// EdgeCount returns the number of edge declarations.
func (d Description) EdgeCount() int { return len(d.Edges) }

// Export converts the tree rooted at root into a Description.
// It never modifies the tree. A nil root yields an empty description.
func Export(root *tree.Node) Description {
	d := Description{Nodes: []Node{}, Edges: []Edge{}}
	tree.Walk(root, func(n, parent *tree.Node) bool {
		d.Nodes = append(d.Nodes, Node{ID: n.Key(), Label: strconv.Itoa(n.Value)})
		if parent != nil {
			d.Edges = append(d.Edges, Edge{From: parent.Key(), To: n.Key()})
		}
		return true
	})
	return d
}

// Validate checks that node IDs are non-empty and unique and that every
// edge references declared nodes.
func (d Description) Validate() error {
	seen := make(map[string]bool, len(d.Nodes))
	for _, n := range d.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidGraph, "node ID must not be empty")
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeInvalidGraph, "duplicate node ID %q", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range d.Edges {
		if !seen[e.From] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s→%s: unknown source node", e.From, e.To)
		}
		if !seen[e.To] {
			return errors.New(errors.ErrCodeInvalidGraph, "edge %s→%s: unknown target node", e.From, e.To)
		}
	}
	return nil
}

// Depth returns the longest edge path from a node without incoming edges
// to a leaf, or -1 for an empty description. Edges that close a cycle are
// not followed.
func (d Description) Depth() int {
	if len(d.Nodes) == 0 {
		return -1
	}
	children := make(map[string][]string, len(d.Nodes))
	hasParent := make(map[string]bool, len(d.Edges))
	for _, e := range d.Edges {
		children[e.From] = append(children[e.From], e.To)
		hasParent[e.To] = true
	}

	const (
		visiting = iota + 1
		done
	)
	state := make(map[string]int, len(d.Nodes))
	memo := make(map[string]int, len(d.Nodes))
	var depth func(id string) int
	depth = func(id string) int {
		switch state[id] {
		case done:
			return memo[id]
		case visiting:
			return 0
		}
		state[id] = visiting
		best := 0
		for _, c := range children[id] {
			if state[c] == visiting {
				continue
			}
			best = max(best, depth(c)+1)
		}
		state[id] = done
		memo[id] = best
		return best
	}

	result := 0
	for _, n := range d.Nodes {
		if !hasParent[n.ID] {
			result = max(result, depth(n.ID))
		}
	}
	return result
}
