package dag

// AssignLayers assigns every node to a row using longest-path layering
// over a topological traversal (Kahn's algorithm): sources land in row 0
// and each node sits one row below its deepest parent. Existing row
// assignments are overwritten.
//
// The graphs built from schema extraction are acyclic by construction
// (edges always leave the main entity); if a cycle were ever present its
// members would simply stay in row 0.
func AssignLayers(g *DAG) {
	ids := g.NodeIDs()
	inDegree := make(map[string]int, len(ids))
	rows := make(map[string]int, len(ids))
	queue := make([]string, 0, len(ids))

	for _, id := range ids {
		degree := g.InDegree(id)
		inDegree[id] = degree
		if degree == 0 {
			queue = append(queue, id)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
