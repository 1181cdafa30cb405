package render

import (
	"strings"
	"testing"

	"github.com/osduviz/schemagraph/pkg/graph"
	"github.com/osduviz/schemagraph/pkg/schema"
)

func dotGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{
				ID: "well", Kind: graph.KindEntity, Label: "Well",
				Properties: []schema.Property{{Name: "FacilityName", Depth: 1}},
				Position:   &graph.Position{X: 0, Y: 0},
			},
			{
				ID: graph.RelatedID("RigType"), Kind: graph.KindRelated, Label: "RigType",
				Category: schema.CategoryReferenceData, FilePath: "reference-data/RigType.1.0.0.json",
				Properties: []schema.Property{{Name: "Code", Depth: 1}},
				Position:   &graph.Position{X: 420, Y: -140},
			},
			{
				ID: graph.RelatedID("Wellbore"), Kind: graph.KindRelated, Label: "Wellbore",
				Properties: []schema.Property{},
			},
			{
				ID: graph.AbstractID("abstract/AbstractCommon.1.0.0.json"), Kind: graph.KindAbstract,
				Label: "AbstractCommon", Properties: []schema.Property{},
			},
		},
		Edges: []graph.Edge{
			{ID: "e1", Source: "well", Target: graph.RelatedID("RigType"), Kind: graph.EdgeConnectable, Label: "connects to"},
			{ID: "e2", Source: "well", Target: graph.AbstractID("abstract/AbstractCommon.1.0.0.json"), Kind: graph.EdgeRef, Label: "extends"},
			{ID: "e3", Source: "well", Target: graph.RelatedID("Wellbore"), Kind: graph.EdgeERD},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(dotGraph(), Options{})

	for _, want := range []string{
		"digraph schema {",
		"rankdir=LR;",
		`"well" [`,
		"penwidth=2, fillcolor=\"#fff7d6\"",
		"style=\"rounded,filled,dashed\"",
		"fillcolor=\"#e8f0fe\"",
		`"well" -> "entity::RigType"`,
		"label=\"connects to\", penwidth=2, color=\"#2b6cb0\"",
		"style=dashed, arrowhead=empty",
		`pos="0.0,0.0!"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q\n%s", want, dot)
		}
	}
}

func TestToDOTPinsNegatedY(t *testing.T) {
	dot := ToDOT(dotGraph(), Options{})
	// Layout Y grows downward, Graphviz Y upward: -140px becomes +35pt.
	if !strings.Contains(dot, `pos="105.0,35.0!"`) {
		t.Errorf("DOT output missing scaled pinned position\n%s", dot)
	}
}

func TestToDOTGhostStyling(t *testing.T) {
	dot := ToDOT(dotGraph(), Options{})
	if !strings.Contains(dot, "fontcolor=grey40") {
		t.Error("ghost node styling missing")
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(dotGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `label="RigType\nreference-data\n1 properties"`) {
		t.Errorf("detailed label missing\n%s", dot)
	}
}

func TestToDOTUnpositionedGraph(t *testing.T) {
	g := dotGraph()
	for i := range g.Nodes {
		g.Nodes[i].Position = nil
	}
	dot := ToDOT(g, Options{})
	if strings.Contains(dot, "pos=") {
		t.Error("unpositioned graph should not pin positions")
	}
}
