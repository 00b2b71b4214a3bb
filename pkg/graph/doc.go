// Package graph converts generated trees into renderer-agnostic graph
// descriptions.
//
// A [Description] is a flat list of node declarations (id + label) and
// directed edge declarations (parent id → child id). It is the single
// intermediate format between tree generation and rendering:
//
//	tree.Build → *tree.Tree → graph.Export → Description → nodelink.ToDOT → DOT
//
// # Ordering
//
// [Export] walks the tree in pre-order (node, left subtree, right subtree)
// and declares each node when it is visited, together with the edge from its
// parent. The order is deterministic, so exporting the same tree twice
// yields equal descriptions and snapshot tests are stable.
//
// # JSON Format
//
// Descriptions serialize to a small JSON document:
//
//	{
//	  "nodes": [{"id": "1", "label": "57"}, {"id": "2", "label": "3"}],
//	  "edges": [{"from": "1", "to": "2"}]
//	}
//
// [ReadJSON] and [ReadFile] validate what they decode: node ids must be
// unique and every edge must reference declared nodes.
package graph
