package layout

import (
	"math"
	"slices"

	"github.com/flowgrid/flowgrid/pkg/geom"
)

// Objective holds the quality metrics of a computed layout plus the
// composite score under the default weights. Lower scores are better.
type Objective struct {
	Crossings          int     `json:"crossings"`
	Bends              int     `json:"bends"`
	PositionVariance   float64 `json:"position_variance"`
	TotalEdgeLength    float64 `json:"total_edge_length"`
	AlignedNodes       int     `json:"aligned_nodes"`
	Symmetry           float64 `json:"symmetry"`
	Compactness        float64 `json:"compactness"`
	EdgeLengthVariance float64 `json:"edge_length_variance"`
	LabelCollisions    int     `json:"label_collisions"`
	Score              float64 `json:"score"`
}

// Weights tune the composite aesthetic score. Negative weights reward
// higher metric values, so alignment, symmetry and compactness carry
// negative signs in every preset.
type Weights struct {
	Crossings          float64
	Bends              float64
	Variance           float64
	EdgeLength         float64
	Alignment          float64
	Symmetry           float64
	Compactness        float64
	EdgeLengthVariance float64
	LabelCollisions    float64
}

// NormalWeights is the balanced preset for medium-size diagrams.
func NormalWeights() Weights {
	return Weights{
		Crossings:          10,
		Bends:              2,
		Variance:           1,
		EdgeLength:         0.5,
		Alignment:          -1,
		Symmetry:           -3,
		Compactness:        -2,
		EdgeLengthVariance: 1,
		LabelCollisions:    8,
	}
}

// CompactWeights favors dense layouts for small screens.
func CompactWeights() Weights {
	return Weights{
		Crossings:          8,
		Bends:              1,
		Variance:           0.5,
		EdgeLength:         2,
		Alignment:          -0.5,
		Symmetry:           -1,
		Compactness:        -5,
		EdgeLengthVariance: 0.5,
		LabelCollisions:    6,
	}
}

// RichWeights favors aesthetics on large screens where space is cheap.
func RichWeights() Weights {
	return Weights{
		Crossings:          15,
		Bends:              3,
		Variance:           2,
		EdgeLength:         0.2,
		Alignment:          -2,
		Symmetry:           -5,
		Compactness:        -0.5,
		EdgeLengthVariance: 2,
		LabelCollisions:    10,
	}
}

// ScoreWith computes the weighted composite score for the objective.
func (o Objective) ScoreWith(w Weights) float64 {
	return float64(o.Crossings)*w.Crossings +
		float64(o.Bends)*w.Bends +
		o.PositionVariance*w.Variance +
		o.TotalEdgeLength*w.EdgeLength +
		float64(o.AlignedNodes)*w.Alignment +
		o.Symmetry*w.Symmetry +
		o.Compactness*w.Compactness +
		o.EdgeLengthVariance*w.EdgeLengthVariance +
		float64(o.LabelCollisions)*w.LabelCollisions
}

// Evaluate computes quality metrics for a layout. Label collisions are
// zero here; use EvaluateWithLabels once label placement has run.
func Evaluate(l *DiagramLayout) Objective {
	bends := 0
	for _, e := range l.Edges {
		if len(e.Waypoints) > 2 {
			bends += len(e.Waypoints) - 2
		}
	}

	o := Objective{
		Crossings:          l.Stats.Crossings,
		Bends:              bends,
		PositionVariance:   positionVariance(l.Nodes),
		TotalEdgeLength:    totalEdgeLength(l.Edges),
		AlignedNodes:       alignedNodes(l.Nodes),
		Symmetry:           symmetry(l.Nodes, l.BoundingBox),
		Compactness:        compactness(l.Nodes, l.BoundingBox),
		EdgeLengthVariance: edgeLengthVariance(l.Edges),
	}
	o.Score = o.ScoreWith(NormalWeights())
	return o
}

// EvaluateWithLabels is Evaluate plus a label collision count from a
// completed label placement pass.
func EvaluateWithLabels(l *DiagramLayout, labelCollisions int) Objective {
	o := Evaluate(l)
	o.LabelCollisions = labelCollisions
	o.Score = o.ScoreWith(NormalWeights())
	return o
}

// MetricDelta is one row of a layout comparison: the raw values of a
// single metric for both layouts and the weighted score contribution of
// their difference. Positive WeightedDelta means B scored worse on this
// metric.
type MetricDelta struct {
	Name          string  `json:"name"`
	A             float64 `json:"a"`
	B             float64 `json:"b"`
	WeightedDelta float64 `json:"weighted_delta"`
}

// Comparison is the result of scoring two layouts side by side.
// Positive Delta means B is better (lower composite score).
type Comparison struct {
	ScoreA    float64       `json:"score_a"`
	ScoreB    float64       `json:"score_b"`
	Delta     float64       `json:"delta"`
	Breakdown []MetricDelta `json:"breakdown"`
}

// Compare scores two objectives under the same weights and returns a
// per-metric breakdown of where the difference comes from.
func Compare(a, b Objective, w Weights) Comparison {
	sa := a.ScoreWith(w)
	sb := b.ScoreWith(w)

	row := func(name string, av, bv, weight float64) MetricDelta {
		return MetricDelta{Name: name, A: av, B: bv, WeightedDelta: (bv - av) * weight}
	}

	return Comparison{
		ScoreA: sa,
		ScoreB: sb,
		Delta:  sa - sb,
		Breakdown: []MetricDelta{
			row("crossings", float64(a.Crossings), float64(b.Crossings), w.Crossings),
			row("bends", float64(a.Bends), float64(b.Bends), w.Bends),
			row("variance", a.PositionVariance, b.PositionVariance, w.Variance),
			row("edge_length", a.TotalEdgeLength, b.TotalEdgeLength, w.EdgeLength),
			row("alignment", float64(a.AlignedNodes), float64(b.AlignedNodes), w.Alignment),
			row("symmetry", a.Symmetry, b.Symmetry, w.Symmetry),
			row("compactness", a.Compactness, b.Compactness, w.Compactness),
			row("edge_length_variance", a.EdgeLengthVariance, b.EdgeLengthVariance, w.EdgeLengthVariance),
			row("label_collisions", float64(a.LabelCollisions), float64(b.LabelCollisions), w.LabelCollisions),
		},
	}
}

// positionVariance averages, over ranks with 2+ nodes, the variance of
// node x-centers within the rank.
func positionVariance(nodes []NodeBox) float64 {
	if len(nodes) == 0 {
		return 0
	}
	maxRank := 0
	for _, n := range nodes {
		if n.Rank > maxRank {
			maxRank = n.Rank
		}
	}

	totalVar := 0.0
	rankCount := 0
	for r := 0; r <= maxRank; r++ {
		var xs []float64
		for _, n := range nodes {
			if n.Rank == r {
				xs = append(xs, n.Rect.Center().X)
			}
		}
		if len(xs) < 2 {
			continue
		}
		mean := 0.0
		for _, x := range xs {
			mean += x
		}
		mean /= float64(len(xs))
		v := 0.0
		for _, x := range xs {
			v += (x - mean) * (x - mean)
		}
		totalVar += v / float64(len(xs))
		rankCount++
	}

	if rankCount == 0 {
		return 0
	}
	return totalVar / float64(rankCount)
}

func totalEdgeLength(edges []EdgePath) float64 {
	total := 0.0
	for _, e := range edges {
		total += pathLength(e.Waypoints)
	}
	return total
}

func pathLength(waypoints []geom.Point) float64 {
	length := 0.0
	for i := 1; i < len(waypoints); i++ {
		length += waypoints[i-1].Dist(waypoints[i])
	}
	return length
}

// alignedNodes counts nodes whose x-center sits within 0.1 world units
// of their rank's median x-center.
func alignedNodes(nodes []NodeBox) int {
	if len(nodes) == 0 {
		return 0
	}
	maxRank := 0
	for _, n := range nodes {
		if n.Rank > maxRank {
			maxRank = n.Rank
		}
	}

	aligned := 0
	for r := 0; r <= maxRank; r++ {
		var xs []float64
		for _, n := range nodes {
			if n.Rank == r {
				xs = append(xs, n.Rect.Center().X)
			}
		}
		if len(xs) == 0 {
			continue
		}
		slices.Sort(xs)
		median := xs[len(xs)/2]
		for _, x := range xs {
			if math.Abs(x-median) < 0.1 {
				aligned++
			}
		}
	}
	return aligned
}

// symmetry measures left-right mass balance around the bounding box
// center, from 0 (all mass one-sided) to 1 (perfectly balanced).
func symmetry(nodes []NodeBox, bbox geom.Rect) float64 {
	if len(nodes) == 0 || bbox.Width < math.SmallestNonzeroFloat64 {
		return 1
	}
	cx := bbox.X + bbox.Width/2
	leftMass, rightMass := 0.0, 0.0
	for _, n := range nodes {
		nc := n.Rect.Center().X
		if nc < cx {
			leftMass += cx - nc
		} else {
			rightMass += nc - cx
		}
	}
	total := leftMass + rightMass
	if total < math.SmallestNonzeroFloat64 {
		return 1
	}
	return 1 - math.Abs(leftMass-rightMass)/total
}

// compactness is total node area over bounding box area, clamped to
// [0, 1].
func compactness(nodes []NodeBox, bbox geom.Rect) float64 {
	bboxArea := bbox.Width * bbox.Height
	if bboxArea < math.SmallestNonzeroFloat64 {
		return 0
	}
	nodeArea := 0.0
	for _, n := range nodes {
		nodeArea += n.Rect.Width * n.Rect.Height
	}
	return min(max(nodeArea/bboxArea, 0), 1)
}

// edgeLengthVariance is the population standard deviation of individual
// edge lengths.
func edgeLengthVariance(edges []EdgePath) float64 {
	if len(edges) < 2 {
		return 0
	}
	lengths := make([]float64, len(edges))
	mean := 0.0
	for i, e := range edges {
		lengths[i] = pathLength(e.Waypoints)
		mean += lengths[i]
	}
	mean /= float64(len(lengths))

	v := 0.0
	for _, l := range lengths {
		v += (l - mean) * (l - mean)
	}
	return math.Sqrt(v / float64(len(lengths)))
}
