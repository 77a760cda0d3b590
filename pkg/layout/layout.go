package layout

import (
	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
)

// NodeBox is a positioned node in the layout.
type NodeBox struct {
	Node      int        `json:"node"`
	Rect      geom.Rect  `json:"rect"`
	LabelRect *geom.Rect `json:"label_rect,omitempty"`
	Rank      int        `json:"rank"`
	Order     int        `json:"order"`
}

// ClusterBox is a positioned cluster boundary.
type ClusterBox struct {
	Cluster   int        `json:"cluster"`
	Rect      geom.Rect  `json:"rect"`
	TitleRect *geom.Rect `json:"title_rect,omitempty"`
}

// EdgePath is a routed edge as an ordered waypoint polyline. Edges with
// an unresolved endpoint have no waypoints.
type EdgePath struct {
	Edge      int          `json:"edge"`
	Waypoints []geom.Point `json:"waypoints,omitempty"`
}

// Stats reports how the bounded phases of the computation went.
type Stats struct {
	IterationsUsed int  `json:"iterations_used"`
	MaxIterations  int  `json:"max_iterations"`
	BudgetExceeded bool `json:"budget_exceeded"`
	Crossings      int  `json:"crossings"`
	Ranks          int  `json:"ranks"`
	MaxRankWidth   int  `json:"max_rank_width"`
}

// Degradation hints at rendering simplifications the caller may apply
// when a compute budget was exhausted. The engine itself still returns
// a structurally valid layout.
type Degradation struct {
	SimplifyRouting  bool `json:"simplify_routing"`
	HideLabels       bool `json:"hide_labels"`
	CollapseClusters bool `json:"collapse_clusters"`
}

// DiagramLayout is the complete result of one layout computation,
// expressed entirely in world units. The renderer owns scaling and
// rounding into terminal cells.
type DiagramLayout struct {
	Nodes       []NodeBox    `json:"nodes"`
	Clusters    []ClusterBox `json:"clusters,omitempty"`
	Edges       []EdgePath   `json:"edges"`
	BoundingBox geom.Rect    `json:"bounding_box"`
	Stats       Stats        `json:"stats"`
	Degradation *Degradation `json:"degradation,omitempty"`
}

// Compute lays out a diagram: ranks, in-rank order, coordinates,
// compaction, cluster bounds and baseline edge routing.
//
// Compute is a pure function of (d, cfg). It never mutates d, never
// fails, and two calls with identical inputs produce bit-identical
// results. Crossing minimization runs at most cfg.LayoutIterationBudget
// iterations; exhaustion is reported via Stats.BudgetExceeded and a
// simplify-routing degradation hint, not an error.
//
// When cfg.LogPath is set, one "layout_metrics" JSON line is appended
// best-effort; write failures are ignored.
func Compute(d *ir.Diagram, cfg *ir.Config) *DiagramLayout {
	n := len(d.Nodes)
	if n == 0 {
		return &DiagramLayout{
			Stats: Stats{MaxIterations: cfg.LayoutIterationBudget},
		}
	}

	g := newDiagramGraph(d)

	ranks := assignRanks(g)

	buckets := buildRankBuckets(ranks)
	for _, bucket := range buckets {
		g.sortByID(bucket)
	}
	iterations, crossings := minimizeCrossings(buckets, g, cfg.LayoutIterationBudget)
	budgetExceeded := iterations >= cfg.LayoutIterationBudget

	rects := assignCoordinates(buckets, d.Direction, cfg, n)
	compactPositions(rects, buckets, g, cfg, d.Direction, 3)

	orderOf := make([]int, n)
	for _, bucket := range buckets {
		for pos, node := range bucket {
			orderOf[node] = pos
		}
	}

	nodes := make([]NodeBox, n)
	for i := 0; i < n; i++ {
		box := NodeBox{Node: i, Rect: rects[i], Rank: ranks[i], Order: orderOf[i]}
		if d.Nodes[i].Label != ir.None {
			box.LabelRect = &geom.Rect{
				X:      rects[i].X + cfg.LabelPadding,
				Y:      rects[i].Y + cfg.LabelPadding,
				Width:  rects[i].Width - 2*cfg.LabelPadding,
				Height: rects[i].Height - 2*cfg.LabelPadding,
			}
		}
		nodes[i] = box
	}

	clusters := computeClusterBounds(d, rects, cfg)
	edges := routeBaseline(d, rects)

	maxRankWidth := 0
	for _, bucket := range buckets {
		if len(bucket) > maxRankWidth {
			maxRankWidth = len(bucket)
		}
	}

	result := &DiagramLayout{
		Nodes:       nodes,
		Clusters:    clusters,
		Edges:       edges,
		BoundingBox: computeBoundingBox(nodes, clusters),
		Stats: Stats{
			IterationsUsed: iterations,
			MaxIterations:  cfg.LayoutIterationBudget,
			BudgetExceeded: budgetExceeded,
			Crossings:      crossings,
			Ranks:          len(buckets),
			MaxRankWidth:   maxRankWidth,
		},
	}
	if budgetExceeded {
		result.Degradation = &Degradation{SimplifyRouting: true}
	}

	emitLayoutMetrics(cfg, result, Evaluate(result))

	return result
}

// routeBaseline produces the default 2-point straight-line route for
// every edge: the source exits its trailing boundary relative to the
// flow direction and the target enters its leading boundary. Edges with
// unresolved endpoints keep an empty waypoint list.
func routeBaseline(d *ir.Diagram, rects []geom.Rect) []EdgePath {
	edges := make([]EdgePath, len(d.Edges))
	for idx, e := range d.Edges {
		edges[idx] = EdgePath{Edge: idx}

		u, okU := e.From.NodeIndex(d)
		v, okV := e.To.NodeIndex(d)
		if !okU || !okV {
			continue
		}
		edges[idx].Waypoints = []geom.Point{
			PortPoint(rects[u], d.Direction, true),
			PortPoint(rects[v], d.Direction, false),
		}
	}
	return edges
}

// PortPoint returns the boundary attachment point for an edge endpoint
// on rect: the trailing edge for sources and the leading edge for
// targets, relative to the diagram direction.
func PortPoint(rect geom.Rect, dir ir.Direction, isSource bool) geom.Point {
	c := rect.Center()
	switch dir {
	case ir.BT:
		if isSource {
			return geom.Point{X: c.X, Y: rect.Y}
		}
		return geom.Point{X: c.X, Y: rect.Bottom()}
	case ir.LR:
		if isSource {
			return geom.Point{X: rect.Right(), Y: c.Y}
		}
		return geom.Point{X: rect.X, Y: c.Y}
	case ir.RL:
		if isSource {
			return geom.Point{X: rect.X, Y: c.Y}
		}
		return geom.Point{X: rect.Right(), Y: c.Y}
	default: // TB, TD
		if isSource {
			return geom.Point{X: c.X, Y: rect.Bottom()}
		}
		return geom.Point{X: c.X, Y: rect.Y}
	}
}

func computeBoundingBox(nodes []NodeBox, clusters []ClusterBox) geom.Rect {
	var bounds geom.Rect
	first := true
	for _, n := range nodes {
		if first {
			bounds = n.Rect
			first = false
			continue
		}
		bounds = bounds.Union(n.Rect)
	}
	for _, c := range clusters {
		if first {
			bounds = c.Rect
			first = false
			continue
		}
		bounds = bounds.Union(c.Rect)
	}
	return bounds
}
