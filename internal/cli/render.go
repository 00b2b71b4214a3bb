package cli

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/btg/pkg/graph"
	"github.com/matzehuels/btg/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string // DOT file path; defaults to the input name with a .gv extension
	formats string // comma-separated render formats
	view    bool
}

// renderCommand creates the render command, which renders a graph
// description saved earlier with --format json.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <description.json>",
		Short: "Render a saved graph description",
		Long: `Render a graph description written by "btg --format json".

The DOT file is written next to the input unless --output is given, and
each requested format is rendered to <output>.<format>.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			noCache, _ := cmd.Flags().GetBool("no-cache")
			return c.runRender(cmd, args[0], opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "DOT output file (default: input name with .gv)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "render format(s): pdf (default), svg, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.view, "view", false, "open the rendered file in the system viewer")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, o renderOpts, noCache bool) error {
	logger := loggerFromContext(cmd.Context())
	prog := newProgress(logger)

	d, err := graph.ReadFile(input)
	if err != nil {
		return err
	}
	printInfo(c.Out, "Loaded %s", input)

	runner := c.newRunner(noCache)
	defer runner.Close()
	defer trackCache(loggerFromContext(cmd.Context()))()

	opts := pipeline.DefaultOptions()
	opts.Output = o.output
	if opts.Output == "" {
		opts.Output = defaultRenderOutput(input)
	}
	opts.Formats = parseFormats(o.formats)
	opts.Logger = logger

	result, err := runner.RenderDescription(cmd.Context(), d, opts)
	if err != nil {
		return err
	}

	printStats(c.Out, d.Depth(), result.Stats.NodeCount, result.Stats.EdgeCount)
	prog.done("Rendered " + input)
	if o.view {
		return c.view(cmd.Context(), result)
	}
	return nil
}

// defaultRenderOutput swaps the input's extension for .gv.
func defaultRenderOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".gv"
}
