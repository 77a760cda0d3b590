package layout

import (
	"math"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
)

// assignCoordinates maps (rank, order) onto world coordinates.
//
// The rank axis follows the diagram direction: TB/TD grow downward,
// BT upward (rank order reversed), LR rightward, RL leftward (rank
// order reversed). After the initial grid placement every rank is
// shifted so its secondary-axis extent is centered against the widest
// rank.
func assignCoordinates(buckets [][]int, dir ir.Direction, cfg *ir.Config, n int) []geom.Rect {
	rects := make([]geom.Rect, n)
	for i := range rects {
		rects[i] = geom.Rect{Width: cfg.NodeWidth, Height: cfg.NodeHeight}
	}

	var rankStep, orderStep float64
	if dir.Vertical() {
		rankStep = cfg.NodeHeight + cfg.RankGap
		orderStep = cfg.NodeWidth + cfg.NodeGap
	} else {
		rankStep = cfg.NodeWidth + cfg.RankGap
		orderStep = cfg.NodeHeight + cfg.NodeGap
	}

	numRanks := len(buckets)
	for r, bucket := range buckets {
		rankIdx := r
		if dir.Reversed() {
			rankIdx = numRanks - 1 - r
		}
		rankCoord := float64(rankIdx) * rankStep

		for orderIdx, node := range bucket {
			orderCoord := float64(orderIdx) * orderStep
			if dir.Vertical() {
				rects[node].X = orderCoord
				rects[node].Y = rankCoord
			} else {
				rects[node].X = rankCoord
				rects[node].Y = orderCoord
			}
		}
	}

	centerRanks(rects, buckets, dir, cfg)
	return rects
}

// centerRanks shifts each rank so it is centered relative to the widest
// rank's secondary-axis extent.
func centerRanks(rects []geom.Rect, buckets [][]int, dir ir.Direction, cfg *ir.Config) {
	orderSpan := cfg.NodeWidth
	if !dir.Vertical() {
		orderSpan = cfg.NodeHeight
	}

	widths := make([]float64, len(buckets))
	maxWidth := 0.0
	for r, bucket := range buckets {
		if len(bucket) == 0 {
			continue
		}
		count := float64(len(bucket))
		widths[r] = count*orderSpan + (count-1)*cfg.NodeGap
		maxWidth = math.Max(maxWidth, widths[r])
	}

	for r, bucket := range buckets {
		shift := (maxWidth - widths[r]) / 2
		if shift <= 0 {
			continue
		}
		for _, node := range bucket {
			if dir.Vertical() {
				rects[node].X += shift
			} else {
				rects[node].Y += shift
			}
		}
	}
}

// compactPositions relaxes node positions toward the mean center of
// their direct neighbors (predecessors and successors) on the secondary
// axis, up to maxPasses passes.
//
// A node moves only when the delta to its ideal position exceeds half a
// world unit AND the move keeps min-gap clearance (half extents plus
// NodeGap) from every other node in the same rank. The clearance check
// is what preserves the no-overlap and rank-order invariants; a pass
// with no moves ends compaction early.
func compactPositions(rects []geom.Rect, buckets [][]int, g *diagramGraph, cfg *ir.Config, dir ir.Direction, maxPasses int) {
	secondary := func(node int) float64 {
		c := rects[node].Center()
		if dir.Vertical() {
			return c.X
		}
		return c.Y
	}

	for pass := 0; pass < maxPasses; pass++ {
		moved := false

		for _, bucket := range buckets {
			for _, node := range bucket {
				sum := 0.0
				count := 0
				for _, pred := range g.pred[node] {
					sum += secondary(pred)
					count++
				}
				for _, succ := range g.succ[node] {
					sum += secondary(succ)
					count++
				}
				if count == 0 {
					continue
				}

				delta := sum/float64(count) - secondary(node)
				if math.Abs(delta) < 0.5 {
					continue
				}

				if !clearsRankNeighbors(rects, bucket, node, delta, dir, cfg.NodeGap) {
					continue
				}

				if dir.Vertical() {
					rects[node].X += delta
				} else {
					rects[node].Y += delta
				}
				moved = true
			}
		}

		if !moved {
			break
		}
	}
}

// clearsRankNeighbors reports whether shifting node by delta on the
// secondary axis keeps at least minGap between its extent and every
// other node in the same rank. A small epsilon absorbs float noise from
// repeated shifts.
func clearsRankNeighbors(rects []geom.Rect, bucket []int, node int, delta float64, dir ir.Direction, minGap float64) bool {
	for _, other := range bucket {
		if other == node {
			continue
		}
		var newCenter, otherCenter, clearance float64
		if dir.Vertical() {
			newCenter = rects[node].X + delta + rects[node].Width/2
			otherCenter = rects[other].X + rects[other].Width/2
			clearance = rects[node].Width/2 + rects[other].Width/2 + minGap
		} else {
			newCenter = rects[node].Y + delta + rects[node].Height/2
			otherCenter = rects[other].Y + rects[other].Height/2
			clearance = rects[node].Height/2 + rects[other].Height/2 + minGap
		}
		if math.Abs(newCenter-otherCenter) < clearance-0.01 {
			return false
		}
	}
	return true
}
