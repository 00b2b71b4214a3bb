package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/pipeline"
)

// generateOpts holds the command-line flags for tree generation.
type generateOpts struct {
	output     string // DOT file path; artifacts go to output.<format>
	depth      int    // levels below the root
	min        int    // lowest node value
	max        int    // highest node value
	noRender   bool   // write only the DOT file (and json, if requested)
	formats    string // comma-separated render formats
	seed       uint64 // 0 draws a random seed
	configPath string // TOML config file
	noCache    bool
	view       bool // open the first rendered file when done
}

func defaultGenerateOpts() *generateOpts {
	return &generateOpts{
		output: pipeline.DefaultOutput,
		depth:  pipeline.DefaultDepth,
		min:    pipeline.DefaultMinValue,
		max:    pipeline.DefaultMaxValue,
	}
}

// bind registers the generate flags on cmd.
func (o *generateOpts) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", o.output, "DOT output file; rendered files are written next to it")
	f.IntVarP(&o.depth, "depth", "d", o.depth, "depth of the tree (levels below the root)")
	f.IntVarP(&o.min, "min", "m", o.min, "minimum node value")
	f.IntVarP(&o.max, "max", "x", o.max, "maximum node value")
	f.BoolVarP(&o.noRender, "no-render", "n", false, "save the DOT file without rendering it")
	f.StringVarP(&o.formats, "format", "f", "", "render format(s): pdf (default), svg, png, json (comma-separated)")
	f.Uint64Var(&o.seed, "seed", 0, "random seed for reproducible trees (0 picks one)")
	f.BoolVar(&o.view, "view", false, "open the rendered file in the system viewer")
	f.StringVar(&o.configPath, "config", "", "TOML config file (default $XDG_CONFIG_HOME/btg/config.toml)")
}

// pipelineOptions converts the flags to pipeline options.
func (o *generateOpts) pipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Output = o.output
	opts.Depth = o.depth
	opts.MinValue = o.min
	opts.MaxValue = o.max
	opts.Seed = o.seed
	opts.SkipRender = o.noRender
	opts.Formats = parseFormats(o.formats)
	return opts
}

// runGenerate merges the config file into the flags and runs the pipeline.
func (c *CLI) runGenerate(cmd *cobra.Command, o *generateOpts) error {
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		return err
	}
	if cfg != nil {
		cfg.apply(cmd, o)
	}
	if err := errors.ValidateOutputPath(o.output); err != nil {
		return err
	}

	runner := c.newRunner(o.noCache)
	defer runner.Close()
	defer trackCache(loggerFromContext(cmd.Context()))()

	opts := o.pipelineOptions()
	opts.Logger = loggerFromContext(cmd.Context())

	result, err := runner.Execute(cmd.Context(), opts)
	if err != nil {
		return err
	}

	printSuccess(c.Out, "Done")
	printDetail(c.Out, "seed %d (rerun with --seed %d)", result.Seed, result.Seed)
	if o.view {
		return c.view(cmd.Context(), result)
	}
	return nil
}
