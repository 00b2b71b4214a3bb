package nodelink

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/btg/pkg/graph"
)

// Options configures DOT generation.
type Options struct {
	// Comment is written as a "//" line above the digraph. Line breaks are
	// replaced with spaces. Empty means no comment.
	Comment string

	// Name is the digraph name. Defaults to "G".
	Name string
}

// ToDOT converts a graph description to Graphviz DOT source.
// The resulting DOT string can be rendered using [Render], [RenderSVG],
// [RenderPNG] or [RenderPDF].
func ToDOT(d graph.Description, opts Options) string {
	name := opts.Name
	if name == "" {
		name = "G"
	}

	var buf bytes.Buffer
	if c := fmtComment(opts.Comment); c != "" {
		fmt.Fprintf(&buf, "// %s\n", c)
	}
	fmt.Fprintf(&buf, "digraph %q {\n", name)
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range d.Nodes {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", n.ID, n.Label)
	}

	buf.WriteString("\n")
	for _, e := range d.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtComment(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s))
}
