package route

import (
	"math"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// laneGap is the perpendicular spacing between parallel edge lanes.
const laneGap = 1.5

// Report aggregates routing diagnostics for a whole diagram. The
// totals are sums over Edges.
type Report struct {
	Edges              []Diagnostics `json:"edges"`
	TotalCost          float64       `json:"total_cost"`
	TotalBends         int           `json:"total_bends"`
	TotalCellsExplored int           `json:"total_cells_explored"`
	FallbackCount      int           `json:"fallback_count"`
}

// SelfLoopRoute synthesizes a five-point loop next to a node for an
// edge whose source and target are the same node. The loop hangs off
// the side that faces away from the flow direction.
func SelfLoopRoute(rect geom.Rect, dir ir.Direction) []geom.Point {
	c := rect.Center()
	offset := math.Min(rect.Height, rect.Width) * 0.6

	switch dir {
	case ir.BT:
		return []geom.Point{
			{X: c.X + rect.Width/2, Y: c.Y},
			{X: c.X + rect.Width/2 + offset, Y: c.Y},
			{X: c.X + rect.Width/2 + offset, Y: c.Y + offset},
			{X: c.X, Y: c.Y + offset},
			{X: c.X, Y: rect.Bottom()},
		}
	case ir.LR, ir.RL:
		return []geom.Point{
			{X: c.X, Y: rect.Y},
			{X: c.X, Y: rect.Y - offset},
			{X: c.X + offset, Y: rect.Y - offset},
			{X: c.X + offset, Y: c.Y},
			{X: c.X + rect.Width/2, Y: c.Y},
		}
	default: // TB, TD
		return []geom.Point{
			{X: c.X + rect.Width/2, Y: c.Y},
			{X: c.X + rect.Width/2 + offset, Y: c.Y},
			{X: c.X + rect.Width/2 + offset, Y: c.Y - offset},
			{X: c.X, Y: c.Y - offset},
			{X: c.X, Y: rect.Y},
		}
	}
}

// ParallelEdgeOffset returns the lane offset for edge edgeIndex out of
// total parallel edges between one node pair. Lanes spread evenly
// around zero, so a single edge stays on the direct line.
func ParallelEdgeOffset(edgeIndex, total int, gap float64) float64 {
	if total <= 1 {
		return 0
	}
	center := float64(total-1) / 2
	return (float64(edgeIndex) - center) * gap
}

// applyOffset shifts both endpoints perpendicular to the flow axis.
func applyOffset(from, to geom.Point, offset float64, dir ir.Direction) (geom.Point, geom.Point) {
	if math.Abs(offset) < math.SmallestNonzeroFloat64 {
		return from, to
	}
	if dir.Vertical() {
		return geom.Point{X: from.X + offset, Y: from.Y}, geom.Point{X: to.X + offset, Y: to.Y}
	}
	return geom.Point{X: from.X, Y: from.Y + offset}, geom.Point{X: to.X, Y: to.Y + offset}
}

// AllEdges routes every edge of the diagram over an occupancy grid
// built from l.
//
// Self-loops use synthesized geometry and cost nothing against the
// budget. Parallel edges between the same unordered node pair fan out
// into lanes before routing. Edges with unresolved endpoints produce
// empty paths flagged as fallbacks. Once the accumulated cells explored
// reach cfg.RouteBudget, every remaining edge degrades to a direct
// center-to-center line flagged as a fallback.
//
// Routed cells feed the crossing penalty of later edges, so edges are
// processed in declaration order and the result is deterministic.
func AllEdges(d *ir.Diagram, l *layout.DiagramLayout, cfg *ir.Config, w Weights) ([]layout.EdgePath, Report) {
	grid := FromLayout(l.Nodes, l.Clusters, l.BoundingBox, cfg.NodeGap)

	occupiedRoutes := make([]bool, grid.Cols*grid.Rows)
	paths := make([]layout.EdgePath, 0, len(d.Edges))
	diags := make([]Diagnostics, 0, len(d.Edges))
	opsUsed := 0

	offsets := parallelOffsets(d)

	for idx, edge := range d.Edges {
		u, okU := edge.From.NodeIndex(d)
		v, okV := edge.To.NodeIndex(d)

		if !okU || !okV || u >= len(l.Nodes) || v >= len(l.Nodes) {
			diags = append(diags, Diagnostics{Fallback: true})
			paths = append(paths, layout.EdgePath{Edge: idx})
			continue
		}

		if u == v {
			waypoints := SelfLoopRoute(l.Nodes[u].Rect, d.Direction)
			diags = append(diags, Diagnostics{Bends: len(waypoints) - 2})
			paths = append(paths, layout.EdgePath{Edge: idx, Waypoints: waypoints})
			continue
		}

		if opsUsed >= cfg.RouteBudget {
			diags = append(diags, Diagnostics{Fallback: true})
			paths = append(paths, layout.EdgePath{Edge: idx, Waypoints: []geom.Point{
				l.Nodes[u].Rect.Center(),
				l.Nodes[v].Rect.Center(),
			}})
			continue
		}

		fromPt := layout.PortPoint(l.Nodes[u].Rect, d.Direction, true)
		toPt := layout.PortPoint(l.Nodes[v].Rect, d.Direction, false)
		fromPt, toPt = applyOffset(fromPt, toPt, offsets[idx], d.Direction)

		waypoints, diag := grid.FindPathAStar(fromPt, toPt, w, occupiedRoutes)
		opsUsed += diag.CellsExplored

		for _, wp := range waypoints {
			c, r := grid.toGrid(wp)
			occupiedRoutes[r*grid.Cols+c] = true
		}

		diags = append(diags, diag)
		paths = append(paths, layout.EdgePath{Edge: idx, Waypoints: waypoints})
	}

	report := Report{Edges: diags}
	for _, dg := range diags {
		report.TotalCost += dg.Cost
		report.TotalBends += dg.Bends
		report.TotalCellsExplored += dg.CellsExplored
		if dg.Fallback {
			report.FallbackCount++
		}
	}
	return paths, report
}

// parallelOffsets groups edges by unordered endpoint pair and assigns
// each member its lane offset. Unresolved endpoints group under node 0,
// matching the grouping of edges that later fail to route.
func parallelOffsets(d *ir.Diagram) []float64 {
	type pair struct{ a, b int }
	groups := make(map[pair][]int)
	var order []pair

	for idx, edge := range d.Edges {
		u, _ := edge.From.NodeIndex(d)
		v, _ := edge.To.NodeIndex(d)
		key := pair{a: u, b: v}
		if key.a > key.b {
			key.a, key.b = key.b, key.a
		}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], idx)
	}

	offsets := make([]float64, len(d.Edges))
	for _, key := range order {
		group := groups[key]
		for i, idx := range group {
			offsets[idx] = ParallelEdgeOffset(i, len(group), laneGap)
		}
	}
	return offsets
}
