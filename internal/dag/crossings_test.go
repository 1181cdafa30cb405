package dag

import "testing"

func crossingFixture(t *testing.T) *DAG {
	t.Helper()
	g := New()
	for _, n := range []Node{{ID: "u1"}, {ID: "u2"}, {ID: "v1", Row: 1}, {ID: "v2", Row: 1}} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range []Edge{{"u1", "v2"}, {"u2", "v1"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestCountLayerCrossings(t *testing.T) {
	g := crossingFixture(t)

	// u1->v2 and u2->v1 cross in this order...
	if got := CountLayerCrossings(g, []string{"u1", "u2"}, []string{"v1", "v2"}); got != 1 {
		t.Errorf("crossings = %d, want 1", got)
	}
	// ...and untangle when the lower row is flipped.
	if got := CountLayerCrossings(g, []string{"u1", "u2"}, []string{"v2", "v1"}); got != 0 {
		t.Errorf("crossings after flip = %d, want 0", got)
	}
}

func TestCountLayerCrossingsEmptyRows(t *testing.T) {
	g := crossingFixture(t)
	if got := CountLayerCrossings(g, nil, []string{"v1"}); got != 0 {
		t.Errorf("crossings with empty upper = %d, want 0", got)
	}
	if got := CountLayerCrossings(g, []string{"u1"}, nil); got != 0 {
		t.Errorf("crossings with empty lower = %d, want 0", got)
	}
}

func TestCountCrossings(t *testing.T) {
	g := crossingFixture(t)

	orders := map[int][]string{
		0: {"u1", "u2"},
		1: {"v1", "v2"},
	}
	if got := CountCrossings(g, orders); got != 1 {
		t.Errorf("CountCrossings() = %d, want 1", got)
	}

	orders[1] = []string{"v2", "v1"}
	if got := CountCrossings(g, orders); got != 0 {
		t.Errorf("CountCrossings() after reorder = %d, want 0", got)
	}
}

func TestCountLayerCrossingsDense(t *testing.T) {
	// Complete bipartite K3,3 in identity order has C(3,2)^2 = 9 crossings.
	g := New()
	upper := []string{"a", "b", "c"}
	lower := []string{"x", "y", "z"}
	for _, id := range upper {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, id := range lower {
		if err := g.AddNode(Node{ID: id, Row: 1}); err != nil {
			t.Fatal(err)
		}
	}
	for _, u := range upper {
		for _, v := range lower {
			if err := g.AddEdge(Edge{From: u, To: v}); err != nil {
				t.Fatal(err)
			}
		}
	}

	if got := CountLayerCrossings(g, upper, lower); got != 9 {
		t.Errorf("K3,3 crossings = %d, want 9", got)
	}
}
