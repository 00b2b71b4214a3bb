// Package pipeline runs the generate → export → render pipeline for btg.
//
// The CLI and library callers share this package so that validation,
// defaults, caching and output file naming behave the same everywhere.
//
// # Stages
//
//  1. Generate: build a random tree ([tree.Build])
//  2. Export: convert the tree to a description and DOT source
//  3. Render: produce artifacts (SVG, PNG, PDF, JSON) and write files
//
// # Usage
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Depth = 6
//	opts.Formats = []string{pipeline.FormatSVG}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Files) // [output.gv output.gv.svg]
//
// # Output Files
//
// When Options.Output is set, the DOT source is written to that path before
// anything is rendered, and each artifact is written to Output + "." +
// format. A failed render therefore never touches the DOT file. With an
// empty Output nothing is written and artifacts are only returned.
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/btg/pkg/errors"
	"github.com/matzehuels/btg/pkg/graph"
	"github.com/matzehuels/btg/pkg/render/nodelink"
	"github.com/matzehuels/btg/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Library
// =============================================================================

const (
	// DefaultDepth is the default number of levels below the root.
	DefaultDepth = 10

	// DefaultMinValue is the default lower bound for node values.
	DefaultMinValue = 0

	// DefaultMaxValue is the default upper bound for node values.
	DefaultMaxValue = 100

	// DefaultOutput is the default DOT file path.
	DefaultOutput = "output.gv"

	// DefaultComment is written at the top of generated DOT files.
	DefaultComment = "RandomBTG"
)

// Format constants for output formats.
const (
	FormatSVG  = nodelink.FormatSVG
	FormatPNG  = nodelink.FormatPNG
	FormatPDF  = nodelink.FormatPDF
	FormatJSON = "json"
)

// DefaultFormat is the rendered format when none is requested.
const DefaultFormat = FormatPDF

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Generate options
	Depth    int    `json:"depth"`
	MinValue int    `json:"min_value"`
	MaxValue int    `json:"max_value"`
	Seed     uint64 `json:"seed,omitempty"` // 0 draws a random seed

	// Output options
	Output     string   `json:"output,omitempty"` // DOT file path; empty writes nothing
	Formats    []string `json:"formats,omitempty"`
	SkipRender bool     `json:"skip_render,omitempty"` // Only write DOT (and JSON, if requested)
	Comment    string   `json:"comment,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"` // nil uses the Runner's logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns the options used by the CLI when no flags are given.
func DefaultOptions() Options {
	return Options{
		Depth:    DefaultDepth,
		MinValue: DefaultMinValue,
		MaxValue: DefaultMaxValue,
		Output:   DefaultOutput,
		Formats:  []string{DefaultFormat},
		Comment:  DefaultComment,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs and in the DOT comment.
	RunID string

	// Seed is the seed the tree was generated from.
	Seed uint64

	// Tree is the generated tree.
	Tree *tree.Tree

	// Description is the exported graph description.
	Description graph.Description

	// DOT is the Graphviz source for Description.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Files lists written paths in order, DOT first.
	Files []string

	// Viewable is the first written file of a rendered format (svg, png or
	// pdf), or empty when nothing was rendered to disk.
	Viewable string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHits records which formats were served from the cache.
	CacheHits map[string]bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	LeafCount    int
	Height       int
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, svg, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the generation preconditions and output
// formats, and fills in the format list and logger.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForGenerate(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForGenerate checks depth and value range.
func (o *Options) ValidateForGenerate() error {
	if err := errors.ValidateDepth(o.Depth); err != nil {
		return err
	}
	if err := errors.ValidateRange(o.MinValue, o.MaxValue); err != nil {
		return err
	}
	o.setLoggerDefault()
	return nil
}

// ValidateForRender checks formats and the output path and applies render defaults.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Output != "" {
		if err := errors.ValidateOutputPath(o.Output); err != nil {
			return err
		}
	}
	o.setLoggerDefault()
	return nil
}

// RenderFormats returns the formats to produce, honoring SkipRender.
// JSON never needs the renderer, so it survives SkipRender.
func (o *Options) RenderFormats() []string {
	if !o.SkipRender {
		return o.Formats
	}
	var out []string
	for _, f := range o.Formats {
		if f == FormatJSON {
			out = append(out, f)
		}
	}
	return out
}

// ArtifactPath returns the file path for an artifact of the given format.
func (o *Options) ArtifactPath(format string) string {
	return o.Output + "." + format
}

func (o *Options) setLoggerDefault() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func dedupe(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
