// Package nodelink renders graph descriptions as node-link diagrams.
//
// # Overview
//
// This package produces directed tree drawings using Graphviz: every node
// is a circle labeled with its value, and every parent-child link is an
// arrow. Conversion happens in two steps:
//
//	dot := nodelink.ToDOT(desc, nodelink.Options{Comment: "RandomBTG"})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [Render] dispatches on a format name:
//
//	data, err := nodelink.Render(ctx, dot, nodelink.FormatPNG)
//
// # DOT Format
//
// [ToDOT] emits Graphviz DOT source that can be rendered here, saved and
// processed with external Graphviz tools, or edited by hand. Nodes and
// edges appear in description order, so the same description always yields
// byte-identical DOT.
//
// # Dependencies
//
// SVG and PNG are rendered in-process with [github.com/goccy/go-graphviz].
// PDF conversion requires librsvg (rsvg-convert).
package nodelink
