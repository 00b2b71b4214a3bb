package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/graph"
)

type testCLI struct {
	*CLI
	out  bytes.Buffer
	err  bytes.Buffer
	logs bytes.Buffer
}

// newTestCLI returns a CLI writing to buffers, with cache and config
// directories isolated from the user's.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tc := &testCLI{}
	tc.CLI = New(&tc.logs, LogInfo)
	tc.Out = &tc.out
	tc.Err = &tc.err
	return tc
}

func (tc *testCLI) run(args ...string) error {
	root := tc.RootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestGenerate_NoRender(t *testing.T) {
	tc := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "tree.gv")

	err := tc.run("-o", out, "-d", "3", "-m", "1", "-x", "9", "-n", "--seed", "5")
	require.NoError(t, err)

	dot, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph")
	assert.NoFileExists(t, out+".pdf")

	stdout := tc.out.String()
	for _, want := range []string{
		"Generating tree...",
		"Total levels",
		"Total nodes",
		"Total edges",
		"Generating graph...",
		"Saving graph...",
		out,
		"--seed 5",
	} {
		assert.Contains(t, stdout, want)
	}
	assert.NotContains(t, stdout, "Rendering graph...")
}

func TestGenerate_JSON(t *testing.T) {
	tc := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "tree.gv")

	require.NoError(t, tc.run("-o", out, "-d", "4", "-f", "json", "-n"))

	d, err := graph.ReadFile(out + ".json")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Depth())
	assert.Equal(t, d.NodeCount()-1, d.EdgeCount())
}

func TestGenerate_SeedReproducible(t *testing.T) {
	dir := t.TempDir()
	read := func(name string) graph.Description {
		tc := newTestCLI(t)
		out := filepath.Join(dir, name)
		require.NoError(t, tc.run("-o", out, "-d", "6", "-f", "json", "--seed", "99"))
		d, err := graph.ReadFile(out + ".json")
		require.NoError(t, err)
		return d
	}

	assert.Equal(t, read("a.gv"), read("b.gv"))
}

func TestGenerate_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"bad int", []string{"-d", "abc"}},
		{"missing value", []string{"-o"}},
		{"positional arg", []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t)
			err := tc.run(tt.args...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeUsage), "got %v", err)
			assert.Contains(t, tc.err.String(), "Usage:")
			assert.NotContains(t, tc.out.String(), "Generating tree")
		})
	}
}

func TestGenerate_PreconditionErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"min above max", []string{"-m", "10", "-x", "1"}, errors.ErrCodeInvalidRange},
		{"negative depth", []string{"-d", "-1"}, errors.ErrCodeInvalidDepth},
		{"unknown format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"empty output", []string{"-o", ""}, errors.ErrCodeUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := newTestCLI(t)
			out := filepath.Join(t.TempDir(), "tree.gv")

			err := tc.run(append([]string{"-o", out}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
			assert.NoFileExists(t, out)
		})
	}
}

func TestGenerate_Help(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, tc.run("-h"))

	help := tc.out.String()
	for _, flag := range []string{"--output", "--depth", "--min", "--max", "--no-render", "--format", "--seed"} {
		assert.Contains(t, help, flag)
	}
}

func TestGenerate_ConfigFile(t *testing.T) {
	tc := newTestCLI(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "from-config.gv")
	cfgPath := filepath.Join(dir, "btg.toml")
	cfg := `output = "` + filepath.ToSlash(out) + `"
depth = 2
formats = ["json"]
no_render = true
seed = 7
`
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	// -d overrides the file; everything else comes from it.
	require.NoError(t, tc.run("--config", cfgPath, "-d", "5"))

	d, err := graph.ReadFile(out + ".json")
	require.NoError(t, err)
	assert.Equal(t, 5, d.Depth())
	assert.Contains(t, tc.out.String(), "--seed 7")
}

func TestGenerate_DefaultConfigLocation(t *testing.T) {
	tc := newTestCLI(t)
	out := filepath.Join(t.TempDir(), "xdg.gv")

	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	cfg := "depth = 1\nformats = [\"json\"]\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, configFileName), []byte(cfg), 0o644))

	require.NoError(t, tc.run("-o", out))

	d, err := graph.ReadFile(out + ".json")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Depth())
}

func TestGenerate_ConfigErrors(t *testing.T) {
	dir := t.TempDir()
	unknown := filepath.Join(dir, "unknown.toml")
	require.NoError(t, os.WriteFile(unknown, []byte("colour = \"red\"\n"), 0o644))
	malformed := filepath.Join(dir, "malformed.toml")
	require.NoError(t, os.WriteFile(malformed, []byte("depth = \n"), 0o644))

	for _, path := range []string{unknown, malformed, filepath.Join(dir, "missing.toml")} {
		t.Run(filepath.Base(path), func(t *testing.T) {
			tc := newTestCLI(t)
			err := tc.run("--config", path, "-o", filepath.Join(dir, "never.gv"))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig), "got %v", err)
		})
	}
	assert.NoFileExists(t, filepath.Join(dir, "never.gv"))
}

func TestRenderCommand(t *testing.T) {
	tc := newTestCLI(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "saved.json")
	d := graph.Description{
		Nodes: []graph.Node{{ID: "1", Label: "7"}, {ID: "2", Label: "3"}, {ID: "3", Label: "9"}},
		Edges: []graph.Edge{{From: "1", To: "2"}, {From: "2", To: "3"}},
	}
	require.NoError(t, graph.WriteFile(d, input))

	require.NoError(t, tc.run("render", input, "-f", "json"))

	dot, err := os.ReadFile(filepath.Join(dir, "saved.gv"))
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"2" -> "3";`)

	again, err := graph.ReadFile(filepath.Join(dir, "saved.gv.json"))
	require.NoError(t, err)
	assert.Equal(t, d, again)
	assert.Contains(t, tc.out.String(), "2 levels")
}

func TestRenderCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	dangling := filepath.Join(dir, "dangling.json")
	require.NoError(t, os.WriteFile(dangling, []byte(`{"nodes":[{"id":"1","label":"1"}],"edges":[{"from":"1","to":"2"}]}`), 0o644))

	tc := newTestCLI(t)
	err := tc.run("render", dangling)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidGraph), "got %v", err)
	assert.NoFileExists(t, filepath.Join(dir, "dangling.gv"))

	tc = newTestCLI(t)
	err = tc.run("render")
	assert.True(t, errors.Is(err, errors.ErrCodeUsage), "got %v", err)
}

func TestCacheCommands(t *testing.T) {
	tc := newTestCLI(t)
	dir, err := cacheDir()
	require.NoError(t, err)

	require.NoError(t, tc.run("cache", "path"))
	assert.Equal(t, dir, strings.TrimSpace(tc.out.String()))

	tc.out.Reset()
	require.NoError(t, tc.run("cache", "clear"))
	assert.Contains(t, tc.out.String(), "Cache is empty")

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "ab"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ab", "entry.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0o644))

	tc.out.Reset()
	require.NoError(t, tc.run("cache", "clear"))
	assert.Contains(t, tc.out.String(), "Removed 2 cached files")
	assert.NoDirExists(t, filepath.Join(dir, "ab"))
}

func TestCompletionCommand(t *testing.T) {
	tc := newTestCLI(t)
	require.NoError(t, tc.run("completion", "bash"))
	assert.Contains(t, tc.out.String(), "btg")

	tc = newTestCLI(t)
	err := tc.run("completion", "tcsh")
	assert.True(t, errors.Is(err, errors.ErrCodeUsage), "got %v", err)
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg,PNG", []string{"svg", "png"}},
		{" pdf , json ,", []string{"pdf", "json"}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFormats(tt.in), "parseFormats(%q)", tt.in)
	}
}
