package layout

import "github.com/osduviz/schemagraph/pkg/graph"

// resolveCollisions runs up to maxCollisionIters iterations of pairwise
// overlap resolution over the positioned nodes. Overlapping pairs are
// pushed apart along whichever single axis needs the smaller shift, half
// the required separation each; when one of the pair is the anchored
// node, only the other moves (the full distance). An iteration with no
// movement ends the pass early.
//
// The iteration cap is a pragmatic convergence bound, not a proof: dense
// graphs may keep minor residual overlap, which is acceptable degraded
// output rather than a failure.
func resolveCollisions(nodes []graph.Node, anchor string) {
	for iter := 0; iter < maxCollisionIters; iter++ {
		moved := false
		for i := range nodes {
			for j := i + 1; j < len(nodes); j++ {
				if separatePair(&nodes[i], &nodes[j], anchor) {
					moved = true
				}
			}
		}
		if !moved {
			return
		}
	}
}

// separatePair resolves the overlap between two nodes, if any.
// Reports whether either node moved.
func separatePair(a, b *graph.Node, anchor string) bool {
	if a.Position == nil || b.Position == nil {
		return false
	}
	aw, ah := boxSize(a.Kind)
	bw, bh := boxSize(b.Kind)

	dx := b.Position.X - a.Position.X
	dy := b.Position.Y - a.Position.Y

	overlapX := (aw+bw)/2 + collisionPadding - abs(dx)
	overlapY := (ah+bh)/2 + collisionPadding - abs(dy)
	if overlapX <= 0 || overlapY <= 0 {
		return false
	}

	// Push along the cheaper axis; coincident centers get a fixed nudge
	// so the result stays deterministic.
	var pushX, pushY float64
	if overlapX < overlapY {
		pushX = overlapX
		if dx < 0 {
			pushX = -pushX
		} else if dx == 0 {
			pushX = overlapX
		}
	} else {
		pushY = overlapY
		if dy < 0 {
			pushY = -pushY
		} else if dy == 0 {
			pushY = overlapY
		}
	}

	switch {
	case a.ID == anchor:
		b.Position.X += pushX
		b.Position.Y += pushY
	case b.ID == anchor:
		a.Position.X -= pushX
		a.Position.Y -= pushY
	default:
		a.Position.X -= pushX / 2
		a.Position.Y -= pushY / 2
		b.Position.X += pushX / 2
		b.Position.Y += pushY / 2
	}
	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
