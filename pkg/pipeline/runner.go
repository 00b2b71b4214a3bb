package pipeline

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/btg/pkg/cache"
	"github.com/matzehuels/btg/pkg/graph"
	"github.com/matzehuels/btg/pkg/observability"
	"github.com/matzehuels/btg/pkg/render/nodelink"
	"github.com/matzehuels/btg/pkg/tree"
)

// renderFunc renders DOT source to a format. Tests replace it to simulate
// renderer failures without touching Graphviz.
type renderFunc func(ctx context.Context, dot, format string) ([]byte, error)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, hooks and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Hooks  observability.PipelineHooks
	Logger *log.Logger

	render renderFunc
}

// NewRunner creates a runner.
// If c is nil, a NullCache is used (caching disabled). If hooks is nil, the
// globally registered [observability.Pipeline] hooks are used.
func NewRunner(c cache.Cache, hooks observability.PipelineHooks, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Hooks:  hooks,
		Logger: logger,
		render: nodelink.Render,
	}
}

func (r *Runner) hooks() observability.PipelineHooks {
	if r.Hooks != nil {
		return r.Hooks
	}
	return observability.Pipeline()
}

// Execute runs the complete generate → export → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{RunID: uuid.NewString()}

	// Stage 1: Generate
	start := time.Now()
	t, seed, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Tree = t
	result.Seed = seed
	result.Stats.GenerateTime = time.Since(start)
	result.Stats.NodeCount = t.Nodes
	result.Stats.EdgeCount = t.Edges
	result.Stats.Height = t.Height()
	t.Walk(func(n, _ *tree.Node) bool {
		if n.IsLeaf() {
			result.Stats.LeafCount++
		}
		return true
	})

	opts.Logger.Info("generated tree",
		"run", result.RunID,
		"seed", seed,
		"nodes", t.Nodes,
		"edges", t.Edges,
		"leaves", result.Stats.LeafCount,
		"duration", result.Stats.GenerateTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 2: Export
	result.Description = r.Export(ctx, t)

	// Stage 3: Render
	if err := r.renderInto(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// RenderDescription runs the render stage on an existing description, as
// loaded from a JSON file.
func (r *Runner) RenderDescription(ctx context.Context, d graph.Description, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateForRender(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	result := &Result{RunID: uuid.NewString(), Description: d}
	result.Stats.NodeCount = d.NodeCount()
	result.Stats.EdgeCount = d.EdgeCount()

	if err := r.renderInto(ctx, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// Generate builds the tree. A zero Seed draws a fresh one, which is returned
// so the run can be reproduced.
func (r *Runner) Generate(ctx context.Context, opts Options) (*tree.Tree, uint64, error) {
	if err := opts.ValidateForGenerate(); err != nil {
		return nil, 0, err
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64() | 1
	}

	h := r.hooks()
	h.OnGenerateStart(ctx, opts.Depth, opts.MinValue, opts.MaxValue)
	start := time.Now()
	t, err := tree.Build(opts.Depth, opts.MinValue, opts.MaxValue, tree.WithSeed(seed))
	if err != nil {
		h.OnGenerateComplete(ctx, 0, 0, time.Since(start), err)
		return nil, 0, err
	}
	h.OnGenerateComplete(ctx, t.Nodes, t.Edges, time.Since(start), nil)
	return t, seed, nil
}

// Export converts the tree to a graph description.
func (r *Runner) Export(ctx context.Context, t *tree.Tree) graph.Description {
	d := graph.Export(t.Root)
	r.hooks().OnExportComplete(ctx, d.NodeCount(), d.EdgeCount())
	return d
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}
