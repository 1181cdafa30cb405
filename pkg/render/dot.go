// Package render exports extracted schema graphs as Graphviz DOT and
// renders them to SVG or PNG.
//
// When the graph has been through the layout engine, node positions are
// pinned in the DOT output ("x,y!") so Graphviz (neato -n semantics)
// reproduces the computed layout instead of inventing its own.
package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/osduviz/schemagraph/pkg/graph"
)

// Options configures DOT emission.
type Options struct {
	// Detailed includes property counts and categories in node labels.
	Detailed bool
}

// dotPointsPerUnit scales layout coordinates (pixels) to Graphviz points.
const dotPointsPerUnit = 1.0 / 4.0

// ToDOT converts a graph to Graphviz DOT format.
//
// The entity node renders bold, related entities as plain boxes colored
// by category, and abstract nodes as dashed grey boxes. Edge styling
// follows the edge kind: structural refs are dashed, connectable edges
// bold.
func ToDOT(g graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph schema {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		attrs := nodeAttrs(n, opts)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := edgeAttrs(e)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n graph.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, opts))}

	switch n.Kind {
	case graph.KindEntity:
		attrs = append(attrs, "penwidth=2", "fillcolor=\"#fff7d6\"")
	case graph.KindAbstract:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=\"#eeeeee\"")
	default:
		attrs = append(attrs, "fillcolor="+categoryColor(n.Category))
	}
	if n.IsGhost() {
		attrs = append(attrs, "fontcolor=grey40", "color=grey60")
	}
	if n.Position != nil {
		attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"",
			n.Position.X*dotPointsPerUnit, -n.Position.Y*dotPointsPerUnit))
	}
	return attrs
}

func nodeLabel(n graph.Node, opts Options) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if !opts.Detailed {
		return label
	}
	parts := []string{label}
	if n.Category != "" {
		parts = append(parts, n.Category)
	}
	parts = append(parts, fmt.Sprintf("%d properties", len(n.Properties)))
	return strings.Join(parts, "\n")
}

func edgeAttrs(e graph.Edge) []string {
	var attrs []string
	if e.Label != "" {
		attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
	}
	switch e.Kind {
	case graph.EdgeRef:
		attrs = append(attrs, "style=dashed", "arrowhead=empty")
	case graph.EdgeConnectable:
		attrs = append(attrs, "penwidth=2", "color=\"#2b6cb0\"")
	}
	return attrs
}

func categoryColor(category string) string {
	switch category {
	case "master-data":
		return "\"#e6f4ea\""
	case "reference-data":
		return "\"#e8f0fe\""
	case "work-product-component":
		return "\"#fce8e6\""
	default:
		return "white"
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
