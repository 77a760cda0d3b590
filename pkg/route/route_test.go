package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

func testDiagram(dir ir.Direction, ids []string, edges [][2]int) *ir.Diagram {
	d := &ir.Diagram{Direction: dir}
	for _, id := range ids {
		d.Nodes = append(d.Nodes, ir.Node{ID: id, Label: ir.None})
	}
	for _, e := range edges {
		d.Edges = append(d.Edges, ir.Edge{
			From:  ir.Endpoint{Node: e[0], Port: ir.None},
			To:    ir.Endpoint{Node: e[1], Port: ir.None},
			Label: ir.None,
			Arrow: "-->",
		})
	}
	return d
}

func testCfg() *ir.Config {
	cfg := ir.DefaultConfig()
	return &cfg
}

func TestGridBlocksNodeCells(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	g := FromLayout(l.Nodes, l.Clusters, l.BoundingBox, cfg.NodeGap)

	// markRect floors the lower bound and marks with exclusive upper
	// bounds, while toGrid snaps round-to-nearest, so the rect's min
	// corner is the point guaranteed to land in a blocked cell. The
	// center may round one past the marked band.
	c, r := g.toGrid(geom.Point{X: l.Nodes[0].Rect.X, Y: l.Nodes[0].Rect.Y})
	assert.False(t, g.isFree(c, r), "cell under the node's min corner must be blocked")

	c, r = g.toGrid(geom.Point{X: l.BoundingBox.X - cfg.NodeGap, Y: l.BoundingBox.Y - cfg.NodeGap})
	assert.True(t, g.isFree(c, r), "margin cell must be free")
}

func TestFindPathSameCell(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a"}, nil)
	cfg := testCfg()
	l := layout.Compute(d, cfg)
	g := FromLayout(l.Nodes, l.Clusters, l.BoundingBox, cfg.NodeGap)

	from := geom.Point{X: -5, Y: -5}
	to := geom.Point{X: -5.2, Y: -5.2}
	path := g.FindPath(from, to)
	require.Len(t, path, 2)
	assert.Equal(t, from, path[0])
	assert.Equal(t, to, path[1])
}

func TestFindPathAStarDeterministic(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b", "c"}, [][2]int{{0, 1}, {0, 2}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)
	g := FromLayout(l.Nodes, l.Clusters, l.BoundingBox, cfg.NodeGap)

	from := layout.PortPoint(l.Nodes[0].Rect, ir.TB, true)
	to := layout.PortPoint(l.Nodes[1].Rect, ir.TB, false)
	w := DefaultWeights()

	wp1, d1 := g.FindPathAStar(from, to, w, nil)
	wp2, d2 := g.FindPathAStar(from, to, w, nil)
	assert.Equal(t, wp1, wp2)
	assert.Equal(t, d1, d2)
}

func TestFindPathAStarEndpointsPreserved(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)
	g := FromLayout(l.Nodes, l.Clusters, l.BoundingBox, cfg.NodeGap)

	from := layout.PortPoint(l.Nodes[0].Rect, ir.TB, true)
	to := layout.PortPoint(l.Nodes[1].Rect, ir.TB, false)

	wp, diag := g.FindPathAStar(from, to, DefaultWeights(), nil)
	require.GreaterOrEqual(t, len(wp), 2)
	assert.Equal(t, from, wp[0])
	assert.Equal(t, to, wp[len(wp)-1])
	assert.False(t, diag.Fallback)
}

func TestSelfLoopRouteShapes(t *testing.T) {
	rect := geom.Rect{X: 10, Y: 10, Width: 10, Height: 4}

	for _, dir := range []ir.Direction{ir.TB, ir.TD, ir.BT, ir.LR, ir.RL} {
		wp := SelfLoopRoute(rect, dir)
		require.Len(t, wp, 5, "direction %s", dir)
		for i := 1; i < len(wp)-1; i++ {
			// Horizontal flows re-enter through the node's top face,
			// so their final approach waypoint sits inside the rect.
			if !dir.Vertical() && i == len(wp)-2 {
				continue
			}
			p := wp[i]
			inside := p.X > rect.X && p.X < rect.Right() && p.Y > rect.Y && p.Y < rect.Bottom()
			assert.False(t, inside, "direction %s: waypoint %d sits inside the node", dir, i)
		}
	}
}

func TestParallelEdgeOffset(t *testing.T) {
	tests := []struct {
		index, total int
		want         float64
	}{
		{0, 1, 0},
		{0, 2, -0.75},
		{1, 2, 0.75},
		{0, 3, -1.5},
		{1, 3, 0},
		{2, 3, 1.5},
	}
	for _, tc := range tests {
		got := ParallelEdgeOffset(tc.index, tc.total, laneGap)
		assert.InDelta(t, tc.want, got, 1e-9, "index %d of %d", tc.index, tc.total)
	}
}

func TestAllEdgesParallelLanesDiverge(t *testing.T) {
	// Two edges between the same pair fan out into distinct lanes.
	d := testDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}, {0, 1}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	paths, report := AllEdges(d, l, cfg, DefaultWeights())
	require.Len(t, paths, 2)
	require.NotEmpty(t, paths[0].Waypoints)
	require.NotEmpty(t, paths[1].Waypoints)
	assert.NotEqual(t, paths[0].Waypoints[0].X, paths[1].Waypoints[0].X,
		"parallel edges must start in different lanes")
	assert.Equal(t, 0, report.FallbackCount)
}

func TestAllEdgesSelfLoop(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 0}, {0, 1}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	paths, report := AllEdges(d, l, cfg, DefaultWeights())
	require.Len(t, paths, 2)
	assert.Len(t, paths[0].Waypoints, 5, "self-loop synthesizes five points")
	assert.Equal(t, 0, report.Edges[0].CellsExplored, "self-loops cost nothing against the budget")
	assert.False(t, report.Edges[0].Fallback)
}

func TestAllEdgesZeroBudgetFallsBack(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 2}})
	cfg := testCfg()
	cfg.RouteBudget = 0
	l := layout.Compute(d, cfg)

	paths, report := AllEdges(d, l, cfg, DefaultWeights())
	assert.Equal(t, 2, report.FallbackCount)
	for _, p := range paths {
		assert.Len(t, p.Waypoints, 2, "budgetless edges degrade to direct lines")
	}
	assert.Equal(t, 0, report.TotalCellsExplored)
}

func TestAllEdgesUnresolvedEndpoint(t *testing.T) {
	d := testDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}})
	d.Edges = append(d.Edges, ir.Edge{
		From:  ir.Endpoint{Node: ir.None, Port: ir.None},
		To:    ir.Endpoint{Node: 1, Port: ir.None},
		Label: ir.None,
	})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	paths, report := AllEdges(d, l, cfg, DefaultWeights())
	require.Len(t, paths, 2)
	assert.Empty(t, paths[1].Waypoints)
	assert.True(t, report.Edges[1].Fallback)
}

func TestReportTotalsMatchPerEdgeSums(t *testing.T) {
	d := testDiagram(ir.TB,
		[]string{"a", "b", "c", "e"},
		[][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {0, 0}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	_, report := AllEdges(d, l, cfg, DefaultWeights())

	var cost float64
	var bends, cells, fallbacks int
	for _, dg := range report.Edges {
		cost += dg.Cost
		bends += dg.Bends
		cells += dg.CellsExplored
		if dg.Fallback {
			fallbacks++
		}
	}
	assert.Equal(t, cost, report.TotalCost)
	assert.Equal(t, bends, report.TotalBends)
	assert.Equal(t, cells, report.TotalCellsExplored)
	assert.Equal(t, fallbacks, report.FallbackCount)
}

func TestAllEdgesDeterministic(t *testing.T) {
	d := testDiagram(ir.LR,
		[]string{"in", "p1", "p2", "out"},
		[][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}})
	cfg := testCfg()
	l := layout.Compute(d, cfg)

	paths1, report1 := AllEdges(d, l, cfg, DefaultWeights())
	paths2, report2 := AllEdges(d, l, cfg, DefaultWeights())
	assert.Equal(t, paths1, paths2)
	assert.Equal(t, report1, report2)
}
