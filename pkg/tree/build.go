package tree

import (
	"math/rand/v2"

	"github.com/matzehuels/btg/pkg/errors"
)

// Option configures a [Build] run.
type Option func(*buildConfig)

type buildConfig struct {
	rng *rand.Rand
}

// WithRand makes the build draw all decisions and values from r.
// The build advances r; sharing r between concurrent builds is not safe.
func WithRand(r *rand.Rand) Option {
	return func(c *buildConfig) { c.rng = r }
}

// WithSeed makes the build deterministic: the same seed, depth and range
// always produce the same tree.
func WithSeed(seed uint64) Option {
	return func(c *buildConfig) { c.rng = newRand(seed) }
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Build generates a random binary tree with the given depth whose node values
// lie in [min, max].
//
// It returns an [errors.ErrCodeInvalidDepth] error when depth is negative and
// an [errors.ErrCodeInvalidRange] error when min > max; no tree is built in
// either case.
func Build(depth, min, max int, opts ...Option) (*Tree, error) {
	if err := errors.ValidateDepth(depth); err != nil {
		return nil, err
	}
	if err := errors.ValidateRange(min, max); err != nil {
		return nil, err
	}

	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &generator{rng: cfg.rng, min: min, max: max}
	root := g.newNode()
	g.generate(root, depth)

	return &Tree{Root: root, Nodes: g.nodes, Edges: g.edges, Depth: depth}, nil
}

// generator holds the state of one build run.
type generator struct {
	rng      *rand.Rand
	min, max int
	nextID   int
	nodes    int
	edges    int
}

func (g *generator) generate(n *Node, levels int) {
	if levels <= 0 {
		return
	}
	both := g.coin()
	left := g.coin()

	if !both {
		g.edges++
		child := g.newNode()
		if left {
			n.Left = child
		} else {
			n.Right = child
		}
		g.generate(child, levels-1)
		return
	}

	g.edges += 2
	n.Left = g.newNode()
	g.generate(n.Left, levels-1)
	n.Right = g.newNode()
	g.generate(n.Right, levels-1)
}

func (g *generator) newNode() *Node {
	g.nextID++
	g.nodes++
	return &Node{ID: g.nextID, Value: g.value()}
}

func (g *generator) coin() bool {
	return g.rng.IntN(2) == 1
}

// value draws uniformly from [min, max]. The span is computed in uint64 so
// ranges wider than math.MaxInt do not overflow.
func (g *generator) value() int {
	span := uint64(g.max) - uint64(g.min) + 1
	if span == 0 {
		return int(g.rng.Uint64())
	}
	return g.min + int(g.rng.Uint64N(span))
}
