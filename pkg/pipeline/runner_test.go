package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/btg/pkg/cache"
	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/graph"
	"github.com/matzehuels/btg/pkg/observability"
	"github.com/matzehuels/btg/pkg/tree"
)

// fakeRenderer counts calls and returns the format name as the artifact.
type fakeRenderer struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeRenderer) render(_ context.Context, dot, format string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return nil, f.fail
	}
	return []byte(format + ":" + dot[:10]), nil
}

func newTestRunner(c cache.Cache, hooks observability.PipelineHooks) (*Runner, *fakeRenderer) {
	fr := &fakeRenderer{}
	r := NewRunner(c, hooks, log.New(os.Stderr))
	r.Logger.SetLevel(log.ErrorLevel)
	r.render = fr.render
	return r, fr
}

func TestExecute_InMemory(t *testing.T) {
	r, fr := newTestRunner(nil, nil)

	result, err := r.Execute(context.Background(), Options{
		Depth: 5, MinValue: 0, MaxValue: 9, Seed: 42,
		Formats: []string{FormatJSON, FormatSVG},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, uint64(42), result.Seed)
	assert.Equal(t, result.Tree.Nodes, result.Description.NodeCount())
	assert.Equal(t, result.Tree.Edges, result.Description.EdgeCount())
	assert.Equal(t, 5, result.Stats.Height)
	assert.Equal(t, result.Tree.Nodes, tree.Count(result.Tree.Root))
	assert.Positive(t, result.Stats.LeafCount)
	assert.Less(t, result.Stats.LeafCount, result.Tree.Nodes)
	assert.Empty(t, result.Files, "no output path, no files")
	assert.Equal(t, 1, fr.calls, "json does not use the renderer")

	want, err := graph.Marshal(result.Description)
	require.NoError(t, err)
	assert.Equal(t, want, result.Artifacts[FormatJSON])
	assert.True(t, strings.HasPrefix(string(result.Artifacts[FormatSVG]), "svg:"))
}

func TestExecute_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.gv")
	r, _ := newTestRunner(nil, nil)

	result, err := r.Execute(context.Background(), Options{
		Depth: 3, MaxValue: 100, Seed: 1,
		Output:  out,
		Formats: []string{FormatPDF, FormatPNG},
		Comment: "RandomBTG",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{out, out + ".pdf", out + ".png"}, result.Files)
	assert.Equal(t, out+".pdf", result.Viewable)

	dot, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, result.DOT, string(dot))
	assert.True(t, strings.HasPrefix(result.DOT, "// RandomBTG run "+result.RunID))

	png, err := os.ReadFile(out + ".png")
	require.NoError(t, err)
	assert.Equal(t, result.Artifacts[FormatPNG], png)
}

func TestExecute_SkipRender(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.gv")
	r, fr := newTestRunner(nil, nil)

	result, err := r.Execute(context.Background(), Options{
		Depth: 2, MaxValue: 10,
		Output:     out,
		Formats:    []string{FormatPDF},
		SkipRender: true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{out}, result.Files)
	assert.Equal(t, 0, fr.calls)
	assert.NoFileExists(t, out+".pdf")
	assert.FileExists(t, out)
	assert.Empty(t, result.Viewable)
}

func TestExecute_JSONFileNotViewable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.gv")
	r, _ := newTestRunner(nil, nil)

	result, err := r.Execute(context.Background(), Options{
		Depth: 3, MaxValue: 10, Seed: 3,
		Output:  out,
		Formats: []string{FormatJSON, FormatSVG},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{out, out + ".json", out + ".svg"}, result.Files)
	assert.Equal(t, out+".svg", result.Viewable)

	saved, err := os.ReadFile(out + ".json")
	require.NoError(t, err)
	assert.Equal(t, result.Artifacts[FormatJSON], saved)

	d, err := graph.ReadFile(out + ".json")
	require.NoError(t, err)
	assert.Equal(t, result.Description, d)
}

func TestExecute_RenderFailureKeepsDOT(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.gv")
	r, fr := newTestRunner(nil, nil)
	fr.fail = errors.Wrap(errors.ErrCodeRender, stderrors.New("exec: not found"), "rsvg-convert")

	_, err := r.Execute(context.Background(), Options{
		Depth: 4, MaxValue: 10, Seed: 8,
		Output:  out,
		Formats: []string{FormatPDF},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeRender))

	dot, readErr := os.ReadFile(out)
	require.NoError(t, readErr, "DOT file must survive a render failure")
	assert.Contains(t, string(dot), "digraph")
	assert.NoFileExists(t, out+".pdf")
}

func TestExecute_InvalidOptions(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "tree.gv")
	r, fr := newTestRunner(nil, nil)

	_, err := r.Execute(context.Background(), Options{Depth: 3, MinValue: 10, MaxValue: 1, Output: out})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidRange))
	assert.NoFileExists(t, out, "no output on precondition failure")
	assert.Equal(t, 0, fr.calls)
}

func TestExecute_SeedReproducible(t *testing.T) {
	r, _ := newTestRunner(nil, nil)
	opts := Options{Depth: 8, MaxValue: 1000, Seed: 1234, Formats: []string{FormatJSON}}

	a, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	b, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, a.Description, b.Description)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestExecute_RandomSeedIsReported(t *testing.T) {
	r, _ := newTestRunner(nil, nil)
	opts := Options{Depth: 6, MaxValue: 1000, Formats: []string{FormatJSON}}

	first, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	require.NotZero(t, first.Seed)

	opts.Seed = first.Seed
	replay, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, first.Description, replay.Description)
}

func TestExecute_CachedArtifacts(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r, fr := newTestRunner(c, nil)
	opts := Options{Depth: 5, MaxValue: 50, Seed: 77, Formats: []string{FormatSVG}}

	first, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, first.CacheHits[FormatSVG])

	second, err := r.Execute(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.CacheHits[FormatSVG])
	assert.Equal(t, 1, fr.calls, "second run should be served from cache")
	assert.Equal(t, first.Artifacts[FormatSVG], second.Artifacts[FormatSVG])
}

func TestExecute_Cancelled(t *testing.T) {
	r, _ := newTestRunner(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, Options{Depth: 2, MaxValue: 1})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderDescription(t *testing.T) {
	r, _ := newTestRunner(nil, nil)
	d := graph.Description{
		Nodes: []graph.Node{{ID: "1", Label: "4"}, {ID: "2", Label: "2"}},
		Edges: []graph.Edge{{From: "1", To: "2"}},
	}

	result, err := r.RenderDescription(context.Background(), d, Options{Formats: []string{FormatSVG}})
	require.NoError(t, err)
	assert.Contains(t, result.DOT, `"1" -> "2";`)
	assert.Equal(t, 2, result.Stats.NodeCount)
	assert.NotEmpty(t, result.Artifacts[FormatSVG])

	d.Edges = append(d.Edges, graph.Edge{From: "1", To: "9"})
	_, err = r.RenderDescription(context.Background(), d, Options{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGraph))
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (h *recordingHooks) OnGenerateStart(context.Context, int, int, int) {
	h.events = append(h.events, "generate-start")
}

func (h *recordingHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {
	h.events = append(h.events, "generate-complete")
}

func (h *recordingHooks) OnExportComplete(context.Context, int, int) {
	h.events = append(h.events, "export")
}

func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.events = append(h.events, "render-start:"+strings.Join(formats, ","))
}

func (h *recordingHooks) OnFileWritten(_ context.Context, _, format string, _ bool) {
	h.events = append(h.events, "file:"+format)
}

func TestExecute_Hooks(t *testing.T) {
	hooks := &recordingHooks{}
	r, _ := newTestRunner(nil, hooks)

	_, err := r.Execute(context.Background(), Options{
		Depth: 1, MaxValue: 1,
		Output:  filepath.Join(t.TempDir(), "h.gv"),
		Formats: []string{FormatSVG},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"generate-start",
		"generate-complete",
		"export",
		"file:dot",
		"render-start:svg",
		"file:svg",
	}, hooks.events)
}

func TestRunnerClose(t *testing.T) {
	r, _ := newTestRunner(nil, nil)
	assert.NoError(t, r.Close())
	assert.NoError(t, (&Runner{}).Close())
}
