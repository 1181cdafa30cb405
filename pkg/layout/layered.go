package layout

import (
	"sort"

	"github.com/osduviz/schemagraph/internal/dag"
	"github.com/osduviz/schemagraph/pkg/graph"
)

// barycenterPasses is the number of down/up ordering sweeps. A handful of
// passes settles the small graphs extraction produces.
const barycenterPasses = 4

// placeLayered runs the hierarchical layout used by the legacy view:
// longest-path layering by edge direction, barycentric within-row
// ordering to reduce crossings, then fixed rank and sibling spacing.
func placeLayered(g *graph.Graph) {
	d := dag.New()
	for i := range g.Nodes {
		// Ids come from extraction and are unique; AddNode only fails on
		// duplicates, which Validate would have caught upstream.
		_ = d.AddNode(dag.Node{ID: g.Nodes[i].ID})
	}
	seen := make(map[dag.Edge]bool)
	for _, e := range g.Edges {
		de := dag.Edge{From: e.Source, To: e.Target}
		if seen[de] || de.From == de.To {
			continue
		}
		seen[de] = true
		_ = d.AddEdge(de)
	}

	dag.AssignLayers(d)
	orders := orderRows(d)

	rowOf := make(map[string]int)
	posOf := make(map[string]int)
	for row, ids := range orders {
		for i, id := range ids {
			rowOf[id] = row
			posOf[id] = i
		}
	}

	for i := range g.Nodes {
		id := g.Nodes[i].ID
		width := len(orders[rowOf[id]])
		g.Nodes[i].Position = &graph.Position{
			X: (float64(posOf[id]) - float64(width-1)/2) * siblingGap,
			Y: float64(rowOf[id]) * rankGap,
		}
	}
}

// orderRows computes a within-row ordering with a barycentric sweep:
// alternate downward and upward passes sort each row by the mean position
// of its neighbors in the fixed adjacent row, keeping the best ordering
// seen by total crossing count.
func orderRows(d *dag.DAG) map[int][]string {
	rows := d.RowIDs()

	orders := make(map[int][]string, len(rows))
	for _, r := range rows {
		nodes := d.NodesInRow(r)
		ids := make([]string, len(nodes))
		for i, n := range nodes {
			ids[i] = n.ID
		}
		sort.Strings(ids)
		orders[r] = ids
	}
	if len(rows) < 2 {
		return orders
	}

	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(d, best)

	for pass := 0; pass < barycenterPasses; pass++ {
		// Downward: order each row by parent positions in the row above.
		for i := 1; i < len(rows); i++ {
			sortByBarycenter(orders[rows[i]], orders[rows[i-1]], d.Parents)
		}
		// Upward: order each row by child positions in the row below.
		for i := len(rows) - 2; i >= 0; i-- {
			sortByBarycenter(orders[rows[i]], orders[rows[i+1]], d.Children)
		}

		if crossings := dag.CountCrossings(d, orders); crossings < bestCrossings {
			bestCrossings = crossings
			best = cloneOrders(orders)
		}
	}
	return best
}

// sortByBarycenter stably reorders ids by the mean position of their
// neighbors in the adjacent (already ordered) row. Nodes without
// neighbors keep their relative position via the stable sort.
func sortByBarycenter(ids, adjacent []string, neighbors func(string) []string) {
	adjPos := dag.PosMap(adjacent)
	weight := make(map[string]float64, len(ids))
	for _, id := range ids {
		sum, count := 0.0, 0
		for _, n := range neighbors(id) {
			if p, ok := adjPos[n]; ok {
				sum += float64(p)
				count++
			}
		}
		if count == 0 {
			weight[id] = -1 // keep current slot via stable sort
		} else {
			weight[id] = sum / float64(count)
		}
	}
	sort.SliceStable(ids, func(a, b int) bool {
		wa, wb := weight[ids[a]], weight[ids[b]]
		if wa < 0 || wb < 0 {
			return false
		}
		return wa < wb
	})
}

func cloneOrders(orders map[int][]string) map[int][]string {
	out := make(map[int][]string, len(orders))
	for r, ids := range orders {
		cp := make([]string, len(ids))
		copy(cp, ids)
		out[r] = cp
	}
	return out
}
