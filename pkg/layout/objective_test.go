package layout

import (
	"math"
	"testing"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
)

func TestEvaluateStraightChain(t *testing.T) {
	d := diagram(ir.TB, []string{"a", "b", "c"}, [][2]int{{0, 1}, {1, 2}})
	l := Compute(d, defaultCfg())
	o := Evaluate(l)

	if o.Crossings != 0 {
		t.Errorf("crossings = %d, want 0", o.Crossings)
	}
	if o.Bends != 0 {
		t.Errorf("bends = %d, want 0 for 2-point routes", o.Bends)
	}
	if o.PositionVariance != 0 {
		t.Errorf("position variance = %v, want 0 for single-node ranks", o.PositionVariance)
	}
	if o.AlignedNodes != 3 {
		t.Errorf("aligned nodes = %d, want 3", o.AlignedNodes)
	}
	if o.Symmetry < 0 || o.Symmetry > 1 {
		t.Errorf("symmetry = %v outside [0,1]", o.Symmetry)
	}
	if o.Compactness < 0 || o.Compactness > 1 {
		t.Errorf("compactness = %v outside [0,1]", o.Compactness)
	}
}

func TestEvaluateBendsCountInteriorWaypoints(t *testing.T) {
	l := &DiagramLayout{
		Edges: []EdgePath{
			{Edge: 0, Waypoints: []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 5, Y: 5}, {X: 5, Y: 9}}},
			{Edge: 1, Waypoints: []geom.Point{{X: 0, Y: 0}, {X: 3, Y: 0}}},
			{Edge: 2},
		},
		BoundingBox: geom.Rect{Width: 10, Height: 10},
	}
	o := Evaluate(l)

	if o.Bends != 2 {
		t.Errorf("bends = %d, want 2", o.Bends)
	}
	if got, want := o.TotalEdgeLength, 14.0+3.0; math.Abs(got-want) > 1e-9 {
		t.Errorf("total edge length = %v, want %v", got, want)
	}
}

func TestScoreWithPresets(t *testing.T) {
	o := Objective{Crossings: 2, Bends: 3, Symmetry: 1, Compactness: 0.5}

	tests := []struct {
		name string
		w    Weights
		want float64
	}{
		{"normal", NormalWeights(), 2*10 + 3*2 + 1*-3 + 0.5*-2},
		{"compact", CompactWeights(), 2*8 + 3*1 + 1*-1 + 0.5*-5},
		{"rich", RichWeights(), 2*15 + 3*3 + 1*-5 + 0.5*-0.5},
	}
	for _, tc := range tests {
		if got := o.ScoreWith(tc.w); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s score = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluateWithLabelsRaisesScore(t *testing.T) {
	d := diagram(ir.TB, []string{"a", "b"}, [][2]int{{0, 1}})
	l := Compute(d, defaultCfg())

	clean := Evaluate(l)
	dirty := EvaluateWithLabels(l, 2)

	if dirty.LabelCollisions != 2 {
		t.Errorf("label collisions = %d, want 2", dirty.LabelCollisions)
	}
	if dirty.Score <= clean.Score {
		t.Errorf("collisions must worsen the score: %v vs %v", dirty.Score, clean.Score)
	}
	if got, want := dirty.Score-clean.Score, 2*NormalWeights().LabelCollisions; math.Abs(got-want) > 1e-9 {
		t.Errorf("score delta = %v, want %v", got, want)
	}
}

func TestCompareBreakdown(t *testing.T) {
	a := Objective{Crossings: 3}
	b := Objective{Crossings: 1}
	w := NormalWeights()

	cmp := Compare(a, b, w)
	if cmp.Delta <= 0 {
		t.Errorf("delta = %v, want positive (b has fewer crossings)", cmp.Delta)
	}
	if got, want := cmp.Delta, cmp.ScoreA-cmp.ScoreB; got != want {
		t.Errorf("delta = %v, want score_a-score_b = %v", got, want)
	}

	var found bool
	for _, row := range cmp.Breakdown {
		if row.Name == "crossings" {
			found = true
			if want := (1.0 - 3.0) * w.Crossings; math.Abs(row.WeightedDelta-want) > 1e-9 {
				t.Errorf("crossings weighted delta = %v, want %v", row.WeightedDelta, want)
			}
		}
	}
	if !found {
		t.Error("breakdown missing crossings row")
	}
	if len(cmp.Breakdown) != 9 {
		t.Errorf("breakdown rows = %d, want 9", len(cmp.Breakdown))
	}
}

func TestSymmetryBalanced(t *testing.T) {
	nodes := []NodeBox{
		{Rect: geom.Rect{X: 0, Width: 2, Height: 2}},
		{Rect: geom.Rect{X: 8, Width: 2, Height: 2}},
	}
	bbox := geom.Rect{Width: 10, Height: 2}
	if got := symmetry(nodes, bbox); math.Abs(got-1) > 1e-9 {
		t.Errorf("symmetry = %v, want 1 for mirrored pair", got)
	}
}

func TestEdgeLengthVarianceUniform(t *testing.T) {
	edges := []EdgePath{
		{Waypoints: []geom.Point{{X: 0, Y: 0}, {X: 0, Y: 4}}},
		{Waypoints: []geom.Point{{X: 5, Y: 0}, {X: 5, Y: 4}}},
	}
	if got := edgeLengthVariance(edges); got != 0 {
		t.Errorf("variance = %v, want 0 for equal lengths", got)
	}
}
