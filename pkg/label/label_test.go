package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

func labeledDiagram(dir ir.Direction, ids []string, edges [][2]int, edgeLabels []string) *ir.Diagram {
	d := &ir.Diagram{Direction: dir}
	for _, id := range ids {
		d.Nodes = append(d.Nodes, ir.Node{ID: id, Label: ir.None})
	}
	for i, e := range edges {
		labelIdx := ir.None
		if i < len(edgeLabels) && edgeLabels[i] != "" {
			labelIdx = len(d.Labels)
			d.Labels = append(d.Labels, ir.Label{Text: edgeLabels[i]})
		}
		d.Edges = append(d.Edges, ir.Edge{
			From:  ir.Endpoint{Node: e[0], Port: ir.None},
			To:    ir.Endpoint{Node: e[1], Port: ir.None},
			Label: labelIdx,
			Arrow: "-->",
		})
	}
	return d
}

func TestMeasureText(t *testing.T) {
	cfg := DefaultPlacementConfig()

	tests := []struct {
		name      string
		text      string
		wantW     float64
		wantH     float64
		wantTrunc bool
	}{
		{name: "empty", text: "", wantW: 0, wantH: 0},
		{name: "single line", text: "hello", wantW: 5, wantH: 1},
		{name: "explicit newline", text: "ab\ncdef", wantW: 4, wantH: 2},
		{name: "wraps at max width", text: "aaaaaaaaaaaaaaaaaaaaaaaaa", wantW: 20, wantH: 2},
		{name: "vertical truncation", text: "a\nb\nc\nd\ne", wantW: 1, wantH: 3, wantTrunc: true},
	}
	for _, tc := range tests {
		w, h, trunc := MeasureText(tc.text, cfg)
		assert.Equal(t, tc.wantW, w, "%s: width", tc.name)
		assert.Equal(t, tc.wantH, h, "%s: height", tc.name)
		assert.Equal(t, tc.wantTrunc, trunc, "%s: truncated", tc.name)
	}
}

func TestEdgeMidpoint(t *testing.T) {
	assert.Equal(t, geom.Point{}, edgeMidpoint(nil))
	assert.Equal(t, geom.Point{X: 3, Y: 4}, edgeMidpoint([]geom.Point{{X: 3, Y: 4}}))

	// L-shaped path of length 10: midpoint is at the corner.
	mid := edgeMidpoint([]geom.Point{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 5, Y: 5}})
	assert.Equal(t, geom.Point{X: 0, Y: 5}, mid)

	// Straight segment: simple interpolation.
	mid = edgeMidpoint([]geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	assert.Equal(t, geom.Point{X: 5, Y: 0}, mid)
}

func TestOffsetCandidatesOrder(t *testing.T) {
	offsets := offsetCandidates(1, 2)

	require.Equal(t, 17, len(offsets), "1 + 2 rings of 8")
	assert.Equal(t, geom.Point{}, offsets[0], "no offset tried first")
	assert.Equal(t, geom.Point{X: 0, Y: -1}, offsets[1], "up before right")
	assert.Equal(t, geom.Point{X: 1, Y: 0}, offsets[2])
	assert.Equal(t, geom.Point{X: 0, Y: -2}, offsets[9], "second ring after first")
}

func TestPlaceNodeLabelsAnchored(t *testing.T) {
	d := labeledDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}}, nil)
	d.Nodes[0].Label = len(d.Labels)
	d.Labels = append(d.Labels, ir.Label{Text: "Start"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)

	result := Place(d, l, DefaultPlacementConfig())
	require.Len(t, result.NodeLabels, 1)
	pl := result.NodeLabels[0]
	assert.False(t, pl.WasOffset, "node labels never move")
	assert.Equal(t, l.Nodes[0].LabelRect.X, pl.Rect.X)
	assert.Equal(t, l.Nodes[0].LabelRect.Y, pl.Rect.Y)
}

func TestPlaceEdgeLabelNearMidpoint(t *testing.T) {
	d := labeledDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}}, []string{"yes"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)

	result := Place(d, l, DefaultPlacementConfig())
	require.Len(t, result.EdgeLabels, 1)

	mid := edgeMidpoint(l.Edges[0].Waypoints)
	center := result.EdgeLabels[0].Rect.Center()
	pcfg := DefaultPlacementConfig()
	assert.LessOrEqual(t, mid.Dist(center), pcfg.MaxOffset*1.5,
		"label must stay within the offset search radius of the midpoint")
}

func TestPlaceSkipsUnlabeledAndEmpty(t *testing.T) {
	d := labeledDiagram(ir.TB, []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 2}}, []string{"", "ok"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)

	result := Place(d, l, DefaultPlacementConfig())
	assert.Len(t, result.EdgeLabels, 1, "only the labeled edge places a label")
}

func TestPlaceDeterministic(t *testing.T) {
	d := labeledDiagram(ir.TB,
		[]string{"a", "b", "c", "e"},
		[][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}},
		[]string{"w", "x", "y", "z"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)
	pcfg := DefaultPlacementConfig()

	first := Place(d, l, pcfg)
	second := Place(d, l, pcfg)
	assert.Equal(t, first, second)
}

func TestPlacedLabelsDoNotOverlap(t *testing.T) {
	d := labeledDiagram(ir.TB,
		[]string{"a", "b", "c"},
		[][2]int{{0, 1}, {0, 2}},
		[]string{"first", "second"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)
	pcfg := DefaultPlacementConfig()

	result := Place(d, l, pcfg)
	require.Len(t, result.EdgeLabels, 2)
	for i := range result.EdgeLabels {
		for j := i + 1; j < len(result.EdgeLabels); j++ {
			a, b := result.EdgeLabels[i], result.EdgeLabels[j]
			assert.False(t, a.Rect.Overlaps(b.Rect, pcfg.LabelMargin),
				"labels %d and %d overlap", i, j)
		}
	}
}

func TestPlaceLegendSpillover(t *testing.T) {
	// A tiny offset search on a crowded diagram forces spillover.
	d := labeledDiagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}, {0, 1}, {0, 1}},
		[]string{"alpha", "beta", "gamma"})
	cfg := ir.DefaultConfig()
	l := layout.Compute(d, &cfg)

	pcfg := DefaultPlacementConfig()
	pcfg.MaxOffset = 0
	pcfg.LegendEnabled = true

	result := Place(d, l, pcfg)
	require.NotEmpty(t, result.LegendLabels, "crowded labels must spill to the legend")
	for _, pl := range result.LegendLabels {
		assert.True(t, pl.SpilledToLegend)
		require.NotNil(t, pl.Leader, "spilled labels carry leader lines")
		assert.GreaterOrEqual(t, pl.Rect.Y, l.BoundingBox.Bottom(),
			"legend labels sit below the diagram")
	}
}

func TestReservationRectsExcludeLegend(t *testing.T) {
	result := Result{
		NodeLabels:   []PlacedLabel{{Rect: geom.Rect{Width: 2, Height: 1}}},
		EdgeLabels:   []PlacedLabel{{Rect: geom.Rect{X: 5, Width: 3, Height: 1}}},
		LegendLabels: []PlacedLabel{{Rect: geom.Rect{Y: 50, Width: 4, Height: 1}}},
	}
	rects := ReservationRects(result)
	assert.Len(t, rects, 2)
}
