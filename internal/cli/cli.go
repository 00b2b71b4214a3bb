package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/btg/pkg/buildinfo"
	"github.com/matzehuels/btg/pkg/cache"
	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "btg"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives progress lines. Defaults to os.Stdout.
	Out io.Writer

	// Err receives spinner frames and usage text. Defaults to os.Stderr.
	Err io.Writer

	open openFunc // nil uses the system viewer
}

// New creates a new CLI instance logging to w at the given level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
		Err:    os.Stderr,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// The root command itself generates a tree.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	opts := defaultGenerateOpts()

	root := &cobra.Command{
		Use:   appName + " [flags]",
		Short: "btg generates random binary trees as Graphviz graphs",
		Long: `btg generates a random binary tree of bounded depth with random integer
node values, saves it as a Graphviz DOT file and renders it.

Every node above the last level gets one or two children, so the tree
always reaches the requested depth.`,
		Example: `  btg -d 5 -m 1 -x 9
  btg -o tree.gv -f svg,png --seed 42
  btg -n -o tree.gv`,
		Version:       buildinfo.Version,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.SetOut(c.Out)
	root.SetErr(c.Err)
	root.SetFlagErrorFunc(flagError)

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "disable the rendered artifact cache")
	opts.bind(root)

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// flagError prints usage for malformed flags and tags the error so main
// exits with the usage status.
func flagError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(cmd.UsageString())
	return errors.Wrap(errors.ErrCodeUsage, err, "invalid arguments")
}

// usageArgs wraps a positional argument validator so its failures are
// reported as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return flagError(cmd, err)
		}
		return nil
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner that prints progress to c.Out.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), newProgressHooks(c.Out, c.Err, c.spinnerEnabled()), c.Logger)
}

// newCache opens the file cache, falling back to no caching when the cache
// directory cannot be used.
func (c *CLI) newCache(noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		printWarning(c.Out, "Artifact cache unavailable: %v", err)
		return cache.NewNullCache()
	}
	c.Logger.Debug("artifact cache", "dir", fc.Dir())
	return fc
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/btg/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/btg/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Blank entries are dropped and names are lower-cased.
func parseFormats(s string) []string {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
