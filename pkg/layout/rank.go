package layout

// assignRanks computes a longest-path layering via Kahn's topological
// sort. Sources (in-degree zero) sit at rank 0; every other reachable
// node gets 1 + the maximum rank of its predecessors, so all edges in
// an acyclic subgraph point from lower to higher ranks.
//
// The seed queue is sorted by node ID and successors are visited in
// ID order, making the traversal fully deterministic.
//
// Nodes never dequeued sit on a cycle; they are all assigned
// maxRank + 1 rather than computing a feedback edge set. Downstream
// ordering and compaction assume this placement. Disconnected nodes
// are sources and stay at rank 0.
func assignRanks(g *diagramGraph) []int {
	if g.n == 0 {
		return nil
	}

	inDegree := make([]int, g.n)
	queue := make([]int, 0, g.n)
	for v := 0; v < g.n; v++ {
		inDegree[v] = len(g.pred[v])
		if inDegree[v] == 0 {
			queue = append(queue, v)
		}
	}
	g.sortByID(queue)

	ranks := make([]int, g.n)
	visited := make([]bool, g.n)
	dequeued := 0

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		visited[u] = true
		dequeued++

		// succ lists are already ID-sorted by newDiagramGraph.
		for _, v := range g.succ[u] {
			if r := ranks[u] + 1; r > ranks[v] {
				ranks[v] = r
			}
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if dequeued < g.n {
		maxRank := 0
		for _, r := range ranks {
			if r > maxRank {
				maxRank = r
			}
		}
		for v := 0; v < g.n; v++ {
			if !visited[v] {
				ranks[v] = maxRank + 1
			}
		}
	}

	return ranks
}
