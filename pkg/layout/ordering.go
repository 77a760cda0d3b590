package layout

import (
	"math"
	"slices"
	"strings"
)

// buildRankBuckets groups node indices by rank. Buckets come back in
// insertion order; callers sort them by node ID before ordering begins.
func buildRankBuckets(ranks []int) [][]int {
	if len(ranks) == 0 {
		return nil
	}
	maxRank := slices.Max(ranks)
	buckets := make([][]int, maxRank+1)
	for v, r := range ranks {
		buckets[r] = append(buckets[r], v)
	}
	return buckets
}

// barycenter returns the mean position of neighbors within adjOrder,
// or +Inf when no neighbor is positioned there. Unanchored nodes sort
// after all anchored ones.
func barycenter(neighbors []int, adjPos []int) float64 {
	sum := 0.0
	count := 0
	for _, nb := range neighbors {
		if pos := adjPos[nb]; pos >= 0 {
			sum += float64(pos)
			count++
		}
	}
	if count == 0 {
		return math.Inf(1)
	}
	return sum / float64(count)
}

// resortByBarycenter reorders bucket by each node's barycenter relative
// to the adjacent rank's current order, ties broken by node ID.
func resortByBarycenter(bucket []int, neighbors func(int) []int, adjOrder []int, g *diagramGraph) {
	adjPos := make([]int, g.n)
	for i := range adjPos {
		adjPos[i] = -1
	}
	for pos, v := range adjOrder {
		adjPos[v] = pos
	}

	scores := make([]float64, g.n)
	for _, v := range bucket {
		scores[v] = barycenter(neighbors(v), adjPos)
	}

	slices.SortStableFunc(bucket, func(a, b int) int {
		switch {
		case scores[a] < scores[b]:
			return -1
		case scores[a] > scores[b]:
			return 1
		}
		return strings.Compare(g.ids[a], g.ids[b])
	})
}

// countLayerCrossings counts edge crossings between two adjacent ranks
// by brute-force pairwise inversion counting. O(E²) per rank pair is a
// known scaling limit accepted at terminal-diagram sizes.
func countLayerCrossings(upper, lower []int, g *diagramGraph) int {
	lowerPos := make([]int, g.n)
	for i := range lowerPos {
		lowerPos[i] = -1
	}
	for pos, v := range lower {
		lowerPos[v] = pos
	}

	type span struct{ a, b int }
	var edges []span
	for i, u := range upper {
		for _, v := range g.succ[u] {
			if lowerPos[v] >= 0 {
				edges = append(edges, span{a: i, b: lowerPos[v]})
			}
		}
	}

	crossings := 0
	for i := 0; i < len(edges); i++ {
		for j := i + 1; j < len(edges); j++ {
			e1, e2 := edges[i], edges[j]
			if (e1.a < e2.a && e1.b > e2.b) || (e1.a > e2.a && e1.b < e2.b) {
				crossings++
			}
		}
	}
	return crossings
}

func totalCrossings(buckets [][]int, g *diagramGraph) int {
	total := 0
	for r := 0; r+1 < len(buckets); r++ {
		total += countLayerCrossings(buckets[r], buckets[r+1], g)
	}
	return total
}

// minimizeCrossings runs the iterated barycenter heuristic: each
// iteration performs a forward sweep (rank r reordered against r-1 via
// predecessors) followed by a backward sweep (against r+1 via
// successors), then recounts crossings. Strict improvement keeps the
// new order as best; otherwise the best order is restored and the loop
// stops. At most maxIterations passes run.
//
// Returns iterations used and the best crossing count found. This is a
// bounded heuristic, not an optimum.
func minimizeCrossings(buckets [][]int, g *diagramGraph, maxIterations int) (iterations, crossings int) {
	if len(buckets) <= 1 {
		return 0, 0
	}

	best := totalCrossings(buckets, g)
	bestOrder := cloneBuckets(buckets)

	for iter := 0; iter < maxIterations; iter++ {
		iterations++

		for r := 1; r < len(buckets); r++ {
			resortByBarycenter(buckets[r], func(v int) []int { return g.pred[v] }, buckets[r-1], g)
		}
		for r := len(buckets) - 2; r >= 0; r-- {
			resortByBarycenter(buckets[r], func(v int) []int { return g.succ[v] }, buckets[r+1], g)
		}

		if c := totalCrossings(buckets, g); c < best {
			best = c
			bestOrder = cloneBuckets(buckets)
		} else {
			restoreBuckets(buckets, bestOrder)
			break
		}
	}

	return iterations, best
}

func cloneBuckets(buckets [][]int) [][]int {
	out := make([][]int, len(buckets))
	for i, b := range buckets {
		out[i] = slices.Clone(b)
	}
	return out
}

func restoreBuckets(dst, src [][]int) {
	for i := range src {
		copy(dst[i], src[i])
	}
}
