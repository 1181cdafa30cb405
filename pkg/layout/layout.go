// Package layout assigns collision-free 2D positions to extracted schema
// graphs.
//
// Two modes exist. The ERD mode anchors the main entity at the origin,
// stacks abstract ($ref) nodes in columns to its left, and arranges
// related entities in a connectivity-ranked grid to its right. The
// layered mode ranks nodes into rows and orders them to reduce edge
// crossings, for the legacy per-kind view. Both finish with the same
// bounded pairwise collision-resolution pass.
//
// Layout is deterministic: the same node/edge sets always produce the
// same positions.
package layout

import (
	"math"
	"slices"

	"github.com/osduviz/schemagraph/pkg/graph"
)

// Mode selects the layout algorithm.
type Mode string

const (
	// ModeERD is the entity-relationship layout (anchor, columns, grid).
	ModeERD Mode = "erd"
	// ModeLayered is the hierarchical layout used by the legacy view.
	ModeLayered Mode = "layered"
)

// Node bounding-box sizes by kind. ERD cards (entity, related entity)
// render property tables and need more room than plain boxes.
const (
	erdNodeWidth  = 300.0
	erdNodeHeight = 220.0
	boxWidth      = 240.0
	boxHeight     = 120.0
)

// Spacing constants.
const (
	columnGap         = 420.0 // anchor to abstract/related columns
	abstractRowGap    = 160.0
	gridColumnGap     = 360.0
	gridRowGap        = 280.0
	rankGap           = 220.0 // layered mode: vertical distance between rows
	siblingGap        = 300.0 // layered mode: horizontal distance within a row
	collisionPadding  = 24.0
	maxCollisionIters = 8
)

// abstractTwoColumnThreshold is the abstract-node count above which the
// left-hand stack splits into two columns.
const abstractTwoColumnThreshold = 10

// maxRelatedColumns caps the related-entity grid width.
const maxRelatedColumns = 3

// Apply positions every node of g and returns the graph with positions
// populated. Node identities and edges are unchanged; the input graph is
// not mutated.
func Apply(g graph.Graph, mode Mode) graph.Graph {
	out := graph.Graph{
		Nodes: slices.Clone(g.Nodes),
		Edges: g.Edges,
	}
	if len(out.Nodes) == 0 {
		return out
	}

	switch mode {
	case ModeLayered:
		placeLayered(&out)
	default:
		placeERD(&out)
	}

	resolveCollisions(out.Nodes, anchorID(out.Nodes, mode))
	return out
}

// placeERD runs the anchored ERD placement: entity at the origin,
// abstract nodes left, related entities right in a degree-ranked grid.
func placeERD(g *graph.Graph) {
	var abstracts, related []int
	for i := range g.Nodes {
		switch g.Nodes[i].Kind {
		case graph.KindEntity:
			g.Nodes[i].Position = &graph.Position{X: 0, Y: 0}
		case graph.KindAbstract:
			abstracts = append(abstracts, i)
		default:
			related = append(related, i)
		}
	}

	placeAbstractColumns(g.Nodes, abstracts)
	placeRelatedGrid(g, related)
}

// placeAbstractColumns stacks abstract nodes to the left of the anchor,
// vertically centered, splitting into two columns past the threshold.
func placeAbstractColumns(nodes []graph.Node, idx []int) {
	if len(idx) == 0 {
		return
	}
	columns := 1
	if len(idx) > abstractTwoColumnThreshold {
		columns = 2
	}
	perColumn := (len(idx) + columns - 1) / columns

	for i, ni := range idx {
		col := i / perColumn
		row := i % perColumn
		// The last column may be shorter; center each column on its own.
		count := perColumn
		if col == columns-1 {
			count = len(idx) - perColumn*(columns-1)
		}
		nodes[ni].Position = &graph.Position{
			X: -columnGap - float64(col)*(boxWidth+collisionPadding*2),
			Y: (float64(row) - float64(count-1)/2) * abstractRowGap,
		}
	}
}

// placeRelatedGrid arranges related entities to the right of the anchor
// in a grid, most-connected first so they land top-left where the eye
// starts reading.
func placeRelatedGrid(g *graph.Graph, idx []int) {
	if len(idx) == 0 {
		return
	}

	degree := make(map[string]int)
	for _, e := range g.Edges {
		degree[e.Source]++
		degree[e.Target]++
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		da, db := degree[g.Nodes[a].ID], degree[g.Nodes[b].ID]
		if da != db {
			return db - da
		}
		if g.Nodes[a].ID < g.Nodes[b].ID {
			return -1
		}
		return 1
	})

	columns := int(math.Ceil(math.Sqrt(float64(len(idx)))))
	if columns > maxRelatedColumns {
		columns = maxRelatedColumns
	}
	rows := (len(idx) + columns - 1) / columns

	for i, ni := range idx {
		row := i / columns
		col := i % columns
		g.Nodes[ni].Position = &graph.Position{
			X: columnGap + float64(col)*gridColumnGap,
			Y: (float64(row) - float64(rows-1)/2) * gridRowGap,
		}
	}
}

// anchorID returns the id of the node the collision pass must not move:
// the single entity node in ERD mode, nothing in layered mode.
func anchorID(nodes []graph.Node, mode Mode) string {
	if mode == ModeLayered {
		return ""
	}
	for i := range nodes {
		if nodes[i].Kind == graph.KindEntity {
			return nodes[i].ID
		}
	}
	return ""
}

// boxSize returns the bounding-box dimensions for a node kind.
func boxSize(kind string) (w, h float64) {
	switch kind {
	case graph.KindEntity, graph.KindRelated:
		return erdNodeWidth, erdNodeHeight
	default:
		return boxWidth, boxHeight
	}
}
