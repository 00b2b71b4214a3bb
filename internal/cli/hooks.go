package cli

import (
	"context"
	"io"
	"os"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"

	"github.com/matzehuels/btg/pkg/observability"
	"github.com/matzehuels/btg/pkg/pipeline"
)

// progressHooks prints pipeline progress lines to out as the run advances.
type progressHooks struct {
	out  io.Writer
	err  io.Writer
	spin bool

	depth   int
	dotPath string // announced once the render stage is known
	spinner *Spinner
}

var _ observability.PipelineHooks = (*progressHooks)(nil)

func newProgressHooks(out, errw io.Writer, spin bool) *progressHooks {
	return &progressHooks{out: out, err: errw, spin: spin}
}

// spinnerEnabled reports whether render progress should be animated: only
// on an interactive stderr and never alongside debug logs.
func (c *CLI) spinnerEnabled() bool {
	f, ok := c.Err.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return false
	}
	return c.Logger.GetLevel() > LogDebug
}

func (h *progressHooks) OnGenerateStart(_ context.Context, depth, _, _ int) {
	h.depth = depth
	printInfo(h.out, "Generating tree...")
}

func (h *progressHooks) OnGenerateComplete(_ context.Context, nodes, edges int, _ time.Duration, err error) {
	if err != nil {
		return
	}
	printKeyValue(h.out, "Total levels", strconv.Itoa(h.depth))
	printKeyValue(h.out, "Total nodes", strconv.Itoa(nodes))
	printKeyValue(h.out, "Total edges", strconv.Itoa(edges))
}

func (h *progressHooks) OnExportComplete(context.Context, int, int) {
	printInfo(h.out, "Generating graph...")
}

// OnRenderStart prints "Rendering graph..." when a format needs Graphviz and
// "Saving graph..." otherwise, followed by the DOT file written before it.
func (h *progressHooks) OnRenderStart(ctx context.Context, formats []string) {
	rendering := slices.ContainsFunc(formats, func(f string) bool { return f != pipeline.FormatJSON })
	if rendering {
		printInfo(h.out, "Rendering graph...")
	} else {
		printInfo(h.out, "Saving graph...")
	}
	if h.dotPath != "" {
		printFile(h.out, h.dotPath, false)
		h.dotPath = ""
	}
	if rendering && h.spin {
		h.spinner = newSpinner(ctx, h.err, "rendering")
		h.spinner.Start()
	}
}

func (h *progressHooks) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	h.stopSpinner()
	if err != nil {
		printError(h.out, "Rendering failed")
	}
}

func (h *progressHooks) OnFileWritten(_ context.Context, path, format string, cached bool) {
	if format == "dot" {
		h.dotPath = path
		return
	}
	h.stopSpinner()
	printFile(h.out, path, cached)
}

// stopSpinner clears the spinner line before anything else is printed.
func (h *progressHooks) stopSpinner() {
	if h.spinner == nil {
		return
	}
	h.spinner.Stop()
	h.spinner = nil
}

// cacheStats counts artifact cache traffic for the debug summary.
type cacheStats struct {
	mu     sync.Mutex
	hits   int
	misses int
	stored int // bytes written to the cache
}

func (s *cacheStats) OnCacheHit(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hits++
}

func (s *cacheStats) OnCacheMiss(context.Context, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses++
}

func (s *cacheStats) OnCacheSet(_ context.Context, _ string, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stored += size
}

// trackCache registers cache hooks for one command run. The returned
// function logs the totals and restores the previous hooks.
func trackCache(logger *log.Logger) func() {
	prev := observability.Cache()
	stats := &cacheStats{}
	observability.SetCacheHooks(stats)
	return func() {
		observability.SetCacheHooks(prev)
		stats.mu.Lock()
		defer stats.mu.Unlock()
		if stats.hits+stats.misses == 0 {
			return
		}
		logger.Debug("artifact cache", "hits", stats.hits, "misses", stats.misses, "stored", stats.stored)
	}
}
