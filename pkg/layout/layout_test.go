package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/osduviz/schemagraph/pkg/graph"
)

// fixtureGraph builds an entity with nAbstract $ref targets and nRelated
// related entities, each related entity wired by one edge.
func fixtureGraph(nAbstract, nRelated int) graph.Graph {
	g := graph.Graph{
		Nodes: []graph.Node{{ID: "well", Kind: graph.KindEntity}},
	}
	for i := 0; i < nAbstract; i++ {
		id := graph.AbstractID(fmt.Sprintf("abstract-%02d", i))
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Kind: graph.KindAbstract})
		g.Edges = append(g.Edges, graph.Edge{ID: "well->" + id, Source: "well", Target: id, Kind: graph.EdgeRef})
	}
	for i := 0; i < nRelated; i++ {
		id := graph.RelatedID(fmt.Sprintf("entity-%02d", i))
		g.Nodes = append(g.Nodes, graph.Node{ID: id, Kind: graph.KindRelated})
		g.Edges = append(g.Edges, graph.Edge{ID: "well->" + id, Source: "well", Target: id, Kind: graph.EdgeERD})
	}
	return g
}

func assertNoOverlaps(t *testing.T, nodes []graph.Node) {
	t.Helper()
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			aw, ah := boxSize(a.Kind)
			bw, bh := boxSize(b.Kind)
			dx := abs(b.Position.X - a.Position.X)
			dy := abs(b.Position.Y - a.Position.Y)
			if dx < (aw+bw)/2 && dy < (ah+bh)/2 {
				t.Errorf("nodes %s and %s overlap: d=(%.0f, %.0f)", a.ID, b.ID, dx, dy)
			}
		}
	}
}

func TestApplyERD(t *testing.T) {
	g := fixtureGraph(3, 5)
	out := Apply(g, ModeERD)

	for _, n := range out.Nodes {
		if n.Position == nil {
			t.Fatalf("node %s has no position", n.ID)
		}
	}

	entity := out.Nodes[0]
	if entity.Position.X != 0 || entity.Position.Y != 0 {
		t.Errorf("entity at (%v, %v), want origin", entity.Position.X, entity.Position.Y)
	}

	for _, n := range out.Nodes[1:] {
		switch n.Kind {
		case graph.KindAbstract:
			if n.Position.X >= 0 {
				t.Errorf("abstract %s at X=%v, want left of anchor", n.ID, n.Position.X)
			}
		default:
			if n.Position.X <= 0 {
				t.Errorf("related %s at X=%v, want right of anchor", n.ID, n.Position.X)
			}
		}
	}

	assertNoOverlaps(t, out.Nodes)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	g := fixtureGraph(2, 2)
	Apply(g, ModeERD)
	for _, n := range g.Nodes {
		if n.Position != nil {
			t.Fatalf("input node %s was positioned in place", n.ID)
		}
	}
}

func TestApplyDeterministic(t *testing.T) {
	g := fixtureGraph(4, 9)
	a := Apply(g, ModeERD)
	b := Apply(g, ModeERD)
	if !reflect.DeepEqual(a, b) {
		t.Error("two layouts of the same graph differ")
	}
}

func TestRelatedGridRanksByDegree(t *testing.T) {
	g := fixtureGraph(0, 4)
	// Give entity-03 two extra edges so it outranks the others.
	hub := graph.RelatedID("entity-03")
	g.Edges = append(g.Edges,
		graph.Edge{ID: "x1", Source: "well", Target: hub, Kind: graph.EdgeERD},
		graph.Edge{ID: "x2", Source: "well", Target: hub, Kind: graph.EdgeERD},
	)

	out := Apply(g, ModeERD)
	var hubPos, firstPos *graph.Position
	minY := 0.0
	for _, n := range out.Nodes {
		if n.Kind != graph.KindRelated {
			continue
		}
		if n.Position.Y < minY {
			minY = n.Position.Y
		}
		if n.ID == hub {
			hubPos = n.Position
		}
		if firstPos == nil || n.Position.Y < firstPos.Y ||
			(n.Position.Y == firstPos.Y && n.Position.X < firstPos.X) {
			firstPos = n.Position
		}
	}
	if hubPos == nil {
		t.Fatal("hub node missing")
	}
	// The most-connected node takes the first grid slot (top-left).
	if !reflect.DeepEqual(hubPos, firstPos) {
		t.Errorf("hub at %+v, want first slot %+v", hubPos, firstPos)
	}
}

func TestAbstractTwoColumns(t *testing.T) {
	few := Apply(fixtureGraph(abstractTwoColumnThreshold, 0), ModeERD)
	xs := abstractXs(few.Nodes)
	if len(xs) != 1 {
		t.Errorf("%d abstracts use %d columns, want 1", abstractTwoColumnThreshold, len(xs))
	}

	many := Apply(fixtureGraph(abstractTwoColumnThreshold+2, 0), ModeERD)
	xs = abstractXs(many.Nodes)
	if len(xs) != 2 {
		t.Errorf("%d abstracts use %d columns, want 2", abstractTwoColumnThreshold+2, len(xs))
	}
	assertNoOverlaps(t, many.Nodes)
}

func abstractXs(nodes []graph.Node) map[float64]bool {
	xs := make(map[float64]bool)
	for _, n := range nodes {
		if n.Kind == graph.KindAbstract {
			xs[n.Position.X] = true
		}
	}
	return xs
}

func TestApplyLayered(t *testing.T) {
	g := fixtureGraph(1, 3)
	out := Apply(g, ModeLayered)

	for _, n := range out.Nodes {
		if n.Position == nil {
			t.Fatalf("node %s has no position", n.ID)
		}
	}

	// The entity is the only source, so it lands in the top row; the
	// collision pass may nudge it but never past its targets.
	entity := out.Nodes[0]
	for _, n := range out.Nodes[1:] {
		if n.Position.Y <= entity.Position.Y {
			t.Errorf("node %s at Y=%v, want below the entity (Y=%v)", n.ID, n.Position.Y, entity.Position.Y)
		}
	}
}

func TestApplyEmptyGraph(t *testing.T) {
	out := Apply(graph.Graph{}, ModeERD)
	if len(out.Nodes) != 0 {
		t.Errorf("got %d nodes, want 0", len(out.Nodes))
	}
}

func TestResolveCollisionsKeepsAnchor(t *testing.T) {
	nodes := []graph.Node{
		{ID: "well", Kind: graph.KindEntity, Position: &graph.Position{X: 0, Y: 0}},
		{ID: "a", Kind: graph.KindRelated, Position: &graph.Position{X: 10, Y: 0}},
		{ID: "b", Kind: graph.KindRelated, Position: &graph.Position{X: -10, Y: 5}},
	}

	resolveCollisions(nodes, "well")

	if nodes[0].Position.X != 0 || nodes[0].Position.Y != 0 {
		t.Errorf("anchor moved to (%v, %v)", nodes[0].Position.X, nodes[0].Position.Y)
	}
}

func TestSeparatePairPushesSingleAxis(t *testing.T) {
	// Horizontal overlap is smaller than vertical, so the pair must be
	// pushed apart along X only; both Y coordinates stay put.
	a := graph.Node{ID: "a", Kind: graph.KindAbstract, Position: &graph.Position{X: 0, Y: 0}}
	b := graph.Node{ID: "b", Kind: graph.KindAbstract, Position: &graph.Position{X: 200, Y: 10}}

	if !separatePair(&a, &b, "") {
		t.Fatal("overlapping nodes should be separated")
	}
	if a.Position.Y != 0 || b.Position.Y != 10 {
		t.Errorf("Y coordinates changed: a=%v b=%v", a.Position.Y, b.Position.Y)
	}
	w, _ := boxSize(graph.KindAbstract)
	if gap := b.Position.X - a.Position.X; gap < w+collisionPadding {
		t.Errorf("horizontal gap %v still under %v", gap, w+collisionPadding)
	}
}

func TestSeparatePairCoincidentCenters(t *testing.T) {
	a := graph.Node{ID: "a", Kind: graph.KindAbstract, Position: &graph.Position{}}
	b := graph.Node{ID: "b", Kind: graph.KindAbstract, Position: &graph.Position{}}

	if !separatePair(&a, &b, "") {
		t.Fatal("coincident nodes should be separated")
	}
	if reflect.DeepEqual(a.Position, b.Position) {
		t.Error("nodes still coincident after separation")
	}
}
