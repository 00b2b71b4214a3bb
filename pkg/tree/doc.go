// Package tree generates random binary trees of bounded depth.
//
// # Overview
//
// [Build] grows a tree from a single root. At every node with levels left
// it flips two fair coins: one decides whether the node gets one child or
// two, the other picks the side when there is only one. Each created node
// receives the next identifier (starting at 1, in creation order) and a
// value drawn uniformly from an inclusive range.
//
//	t, err := tree.Build(3, 0, 100, tree.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	fmt.Println(t.Nodes, t.Edges) // Edges is always Nodes-1
//
// # Depth
//
// Depth counts edges from the root: depth 0 yields just the root, depth 1
// the root plus one or two children, and so on. Every node with levels left
// gets at least one child, so the tree's [Height] always equals the
// requested depth while the node count varies between depth+1 and
// 2^(depth+1)-1.
//
// # Randomness
//
// Builds draw from a [math/rand/v2.Rand]. Pass [WithSeed] or [WithRand] for
// reproducible trees; otherwise a randomly seeded PCG source is used.
//
// # Concurrency
//
// All counters live in a per-build generator, so independent builds may run
// concurrently. A built tree is immutable by convention and safe to read
// from multiple goroutines.
package tree
