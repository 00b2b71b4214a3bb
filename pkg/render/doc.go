// Package render provides format conversion shared by the renderers.
//
// The [ToPDF] function converts SVG to PDF using the external rsvg-convert
// tool (from librsvg). Graphviz renders SVG and PNG in-process, so PDF is
// the only format that depends on an executable being installed.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//
// The [nodelink] subpackage turns graph descriptions into Graphviz DOT and
// renders them.
//
// [nodelink]: github.com/matzehuels/btg/pkg/render/nodelink
package render
