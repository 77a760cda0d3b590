package route

import (
	"math"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// Grid is an occupancy grid over the layout's bounding box, padded by a
// two-cell margin on every side. Cells covered by a node or cluster
// rectangle are blocked; the router moves through free cells only,
// except that a search destination is always traversable.
type Grid struct {
	Cols     int
	Rows     int
	CellSize float64
	Origin   geom.Point

	occupied []bool
}

// FromLayout builds a routing grid from positioned nodes and clusters.
// cellSize is the world-unit width of one cell; callers pass the
// configured node gap so route corridors match inter-node spacing.
func FromLayout(nodes []layout.NodeBox, clusters []layout.ClusterBox, bbox geom.Rect, cellSize float64) *Grid {
	margin := cellSize * 2
	origin := geom.Point{X: bbox.X - margin, Y: bbox.Y - margin}
	totalWidth := bbox.Width + 2*margin
	totalHeight := bbox.Height + 2*margin

	cols := int(math.Ceil(totalWidth/cellSize)) + 1
	rows := int(math.Ceil(totalHeight/cellSize)) + 1

	g := &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		Origin:   origin,
		occupied: make([]bool, cols*rows),
	}
	for _, n := range nodes {
		g.markRect(n.Rect)
	}
	for _, c := range clusters {
		g.markRect(c.Rect)
	}
	return g
}

func (g *Grid) markRect(rect geom.Rect) {
	c0 := int(math.Max(math.Floor((rect.X-g.Origin.X)/g.CellSize), 0))
	r0 := int(math.Max(math.Floor((rect.Y-g.Origin.Y)/g.CellSize), 0))
	c1 := int(math.Ceil((rect.Right() - g.Origin.X) / g.CellSize))
	r1 := int(math.Ceil((rect.Bottom() - g.Origin.Y) / g.CellSize))

	for r := r0; r < min(r1, g.Rows); r++ {
		for c := c0; c < min(c1, g.Cols); c++ {
			g.occupied[r*g.Cols+c] = true
		}
	}
}

// toGrid snaps a world point to the nearest cell, clamped in-bounds.
func (g *Grid) toGrid(p geom.Point) (col, row int) {
	col = int(math.Max(math.Round((p.X-g.Origin.X)/g.CellSize), 0))
	row = int(math.Max(math.Round((p.Y-g.Origin.Y)/g.CellSize), 0))
	return min(col, g.Cols-1), min(row, g.Rows-1)
}

func (g *Grid) toWorld(col, row int) geom.Point {
	return geom.Point{
		X: g.Origin.X + float64(col)*g.CellSize,
		Y: g.Origin.Y + float64(row)*g.CellSize,
	}
}

func (g *Grid) isFree(col, row int) bool {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return false
	}
	return !g.occupied[row*g.Cols+col]
}

var gridDirs = [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// FindPath routes between two world points with a plain breadth-first
// search through free cells. Collinear interior points are dropped from
// the result. When no free path exists the direct from-to line comes
// back instead.
func (g *Grid) FindPath(from, to geom.Point) []geom.Point {
	sc, sr := g.toGrid(from)
	ec, er := g.toGrid(to)
	if sc == ec && sr == er {
		return []geom.Point{from, to}
	}

	visited := make([]bool, g.Cols*g.Rows)
	parent := make([]int, g.Cols*g.Rows)
	for i := range parent {
		parent[i] = -1
	}

	visited[sr*g.Cols+sc] = true
	queue := [][2]int{{sc, sr}}

	for head := 0; head < len(queue); head++ {
		c, r := queue[head][0], queue[head][1]
		if c == ec && r == er {
			break
		}
		for _, d := range gridDirs {
			nc, nr := c+d[0], r+d[1]
			if nc < 0 || nr < 0 || nc >= g.Cols || nr >= g.Rows {
				continue
			}
			idx := nr*g.Cols + nc
			if visited[idx] {
				continue
			}
			// The destination stays reachable even when blocked, so
			// node-attached ports can be entered.
			if !g.isFree(nc, nr) && !(nc == ec && nr == er) {
				continue
			}
			visited[idx] = true
			parent[idx] = r*g.Cols + c
			queue = append(queue, [2]int{nc, nr})
		}
	}

	if !visited[er*g.Cols+ec] {
		return []geom.Point{from, to}
	}

	var pathGrid [][2]int
	cur := er*g.Cols + ec
	for cur != -1 {
		pathGrid = append(pathGrid, [2]int{cur % g.Cols, cur / g.Cols})
		cur = parent[cur]
	}
	reverseCells(pathGrid)

	waypoints, _ := g.simplify(pathGrid, from, to)
	return waypoints
}

// simplify converts a grid path to world waypoints, dropping collinear
// interior cells. Returns the waypoints and the number of direction
// changes kept.
func (g *Grid) simplify(pathGrid [][2]int, from, to geom.Point) ([]geom.Point, int) {
	waypoints := []geom.Point{from}
	bends := 0
	for i := 1; i+1 < len(pathGrid); i++ {
		prev, curr, next := pathGrid[i-1], pathGrid[i], pathGrid[i+1]
		d1 := [2]int{curr[0] - prev[0], curr[1] - prev[1]}
		d2 := [2]int{next[0] - curr[0], next[1] - curr[1]}
		if d1 != d2 {
			waypoints = append(waypoints, g.toWorld(curr[0], curr[1]))
			bends++
		}
	}
	waypoints = append(waypoints, to)
	return waypoints, bends
}

func reverseCells(cells [][2]int) {
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}
}
