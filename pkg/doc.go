// Package pkg provides the libraries behind btg, a random binary tree graph
// generator.
//
// # Overview
//
// btg grows a random binary tree of a requested depth, gives every node a
// random integer value and turns the result into a Graphviz graph. The pkg
// directory is organized into these areas:
//
//  1. [tree] - Random tree construction with run-scoped counters
//  2. [graph] - Renderer-agnostic graph descriptions and their JSON form
//  3. [render] - DOT serialization and SVG, PNG and PDF rendering
//  4. [pipeline] - Orchestration (generate → export → render)
//  5. [cache] - Rendered artifact cache
//
// Supporting packages: [errors] for coded errors, [observability] for
// progress hooks and [buildinfo] for version information.
//
// # Architecture
//
// The data flow through btg:
//
//	tree.Build(depth, min, max)
//	         ↓
//	graph.Export (pre-order)
//	         ↓
//	nodelink.ToDOT → output.gv
//	         ↓
//	nodelink.Render → output.gv.pdf / .svg / .png
//
// The pipeline package ties these together and is shared by the CLI in
// cmd/btg and by library callers.
//
// [tree]: github.com/matzehuels/btg/pkg/tree
// [graph]: github.com/matzehuels/btg/pkg/graph
// [render]: github.com/matzehuels/btg/pkg/render
// [pipeline]: github.com/matzehuels/btg/pkg/pipeline
// [cache]: github.com/matzehuels/btg/pkg/cache
// [errors]: github.com/matzehuels/btg/pkg/errors
// [observability]: github.com/matzehuels/btg/pkg/observability
// [buildinfo]: github.com/matzehuels/btg/pkg/buildinfo
package pkg
