package route

import (
	"container/heap"
	"math"

	"github.com/flowgrid/flowgrid/pkg/geom"
)

// Weights are the cost knobs of the A* router.
type Weights struct {
	// StepCost is the base cost of moving one cell.
	StepCost float64
	// BendPenalty is added on every direction change.
	BendPenalty float64
	// CrossingPenalty is added when a step enters a cell already used
	// by a previously routed edge.
	CrossingPenalty float64
}

// DefaultWeights returns the standard routing costs.
func DefaultWeights() Weights {
	return Weights{StepCost: 1, BendPenalty: 3, CrossingPenalty: 5}
}

// Diagnostics describe how one edge was routed.
type Diagnostics struct {
	Cost          float64 `json:"cost"`
	Bends         int     `json:"bends"`
	CellsExplored int     `json:"cells_explored"`
	Fallback      bool    `json:"fallback"`
}

// Movement direction of the last A* step. Cost state is tracked per
// (cell, direction) so a cheaper bent approach cannot shadow a straight
// one.
type moveDir uint8

const (
	dirUp moveDir = iota
	dirDown
	dirLeft
	dirRight
	dirStart

	numDirs = 5
)

type astarState struct {
	col, row int
	gCost    float64
	fCost    float64
	dir      moveDir
}

// astarHeap is a min-heap on fCost with (col, row) tie-breaking so
// equal-cost frontiers pop in a deterministic order.
type astarHeap []astarState

func (h astarHeap) Len() int { return len(h) }

func (h astarHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	if h[i].col != h[j].col {
		return h[i].col < h[j].col
	}
	return h[i].row < h[j].row
}

func (h astarHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *astarHeap) Push(x any) { *h = append(*h, x.(astarState)) }

func (h *astarHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

type astarParent struct {
	col, row int
	dir      moveDir
	set      bool
}

var astarMoves = [4]struct {
	dc, dr int
	dir    moveDir
}{
	{0, -1, dirUp},
	{0, 1, dirDown},
	{-1, 0, dirLeft},
	{1, 0, dirRight},
}

// FindPathAStar routes between two world points, preferring straight
// runs over bends and untouched cells over cells in occupiedRoutes.
// The destination cell is traversable even when blocked. When the
// search exhausts the frontier without reaching the destination, the
// direct from-to line comes back with Fallback set; CellsExplored still
// reports the work done.
func (g *Grid) FindPathAStar(from, to geom.Point, w Weights, occupiedRoutes []bool) ([]geom.Point, Diagnostics) {
	sc, sr := g.toGrid(from)
	ec, er := g.toGrid(to)
	if sc == ec && sr == er {
		return []geom.Point{from, to}, Diagnostics{}
	}

	gridSize := g.Cols * g.Rows
	gBest := make([]float64, gridSize*numDirs)
	for i := range gBest {
		gBest[i] = math.Inf(1)
	}
	parent := make([]astarParent, gridSize*numDirs)
	cellsExplored := 0

	startIdx := sr*g.Cols + sc
	gBest[startIdx*numDirs+int(dirStart)] = 0

	frontier := &astarHeap{{
		col: sc, row: sr,
		fCost: heuristic(sc, sr, ec, er, w.StepCost),
		dir:   dirStart,
	}}
	heap.Init(frontier)

	found := false
	endDir := dirStart

	for frontier.Len() > 0 {
		state := heap.Pop(frontier).(astarState)
		c, r := state.col, state.row

		if c == ec && r == er {
			found = true
			endDir = state.dir
			break
		}

		idx := r*g.Cols + c
		if state.gCost > gBest[idx*numDirs+int(state.dir)] {
			continue
		}

		cellsExplored++

		for _, m := range astarMoves {
			nc, nr := c+m.dc, r+m.dr
			if nc < 0 || nr < 0 || nc >= g.Cols || nr >= g.Rows {
				continue
			}
			if !g.isFree(nc, nr) && !(nc == ec && nr == er) {
				continue
			}

			newIdx := nr*g.Cols + nc
			step := w.StepCost
			if state.dir != dirStart && state.dir != m.dir {
				step += w.BendPenalty
			}
			if newIdx < len(occupiedRoutes) && occupiedRoutes[newIdx] {
				step += w.CrossingPenalty
			}

			newG := state.gCost + step
			if newG < gBest[newIdx*numDirs+int(m.dir)] {
				gBest[newIdx*numDirs+int(m.dir)] = newG
				parent[newIdx*numDirs+int(m.dir)] = astarParent{col: c, row: r, dir: state.dir, set: true}
				heap.Push(frontier, astarState{
					col: nc, row: nr,
					gCost: newG,
					fCost: newG + heuristic(nc, nr, ec, er, w.StepCost),
					dir:   m.dir,
				})
			}
		}
	}

	if !found {
		return []geom.Point{from, to}, Diagnostics{CellsExplored: cellsExplored, Fallback: true}
	}

	var pathGrid [][2]int
	curC, curR, curDir := ec, er, endDir
	for {
		pathGrid = append(pathGrid, [2]int{curC, curR})
		p := parent[(curR*g.Cols+curC)*numDirs+int(curDir)]
		if !p.set {
			break
		}
		curC, curR, curDir = p.col, p.row, p.dir
	}
	reverseCells(pathGrid)

	cost := gBest[(er*g.Cols+ec)*numDirs+int(endDir)]
	waypoints, bends := g.simplify(pathGrid, from, to)

	return waypoints, Diagnostics{
		Cost:          cost,
		Bends:         bends,
		CellsExplored: cellsExplored,
	}
}

// heuristic is the admissible Manhattan distance lower bound.
func heuristic(c1, r1, c2, r2 int, stepCost float64) float64 {
	dc := c1 - c2
	if dc < 0 {
		dc = -dc
	}
	dr := r1 - r2
	if dr < 0 {
		dr = -dr
	}
	return float64(dc+dr) * stepCost
}
