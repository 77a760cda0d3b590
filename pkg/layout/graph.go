package layout

import (
	"slices"
	"strings"

	"github.com/flowgrid/flowgrid/pkg/ir"
)

// diagramGraph is the scratch adjacency view of the IR used by the
// layering and ordering phases. Self-edges and edges with unresolved
// endpoints are excluded; adjacency lists are ID-sorted and deduplicated
// so every traversal order is deterministic.
type diagramGraph struct {
	n    int
	succ [][]int
	pred [][]int
	ids  []string
}

func newDiagramGraph(d *ir.Diagram) *diagramGraph {
	n := len(d.Nodes)
	g := &diagramGraph{
		n:    n,
		succ: make([][]int, n),
		pred: make([][]int, n),
		ids:  make([]string, n),
	}
	for i, node := range d.Nodes {
		g.ids[i] = node.ID
	}

	for _, e := range d.Edges {
		u, okU := e.From.NodeIndex(d)
		v, okV := e.To.NodeIndex(d)
		if !okU || !okV || u == v {
			continue
		}
		g.succ[u] = append(g.succ[u], v)
		g.pred[v] = append(g.pred[v], u)
	}

	for i := range g.succ {
		g.sortByID(g.succ[i])
		g.succ[i] = slices.Compact(g.succ[i])
	}
	for i := range g.pred {
		g.sortByID(g.pred[i])
		g.pred[i] = slices.Compact(g.pred[i])
	}
	return g
}

// sortByID orders node indices by their string ID, falling back to the
// index itself so the order is total even with duplicate IDs.
func (g *diagramGraph) sortByID(nodes []int) {
	slices.SortFunc(nodes, func(a, b int) int {
		if c := strings.Compare(g.ids[a], g.ids[b]); c != 0 {
			return c
		}
		return a - b
	})
}
