package render

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/flowgrid/flowgrid/pkg/geom"
)

// layer tags each cell with the kind of content it holds, so styled
// output can color runs without tracking styles per rune.
type layer uint8

const (
	layerNone layer = iota
	layerCluster
	layerEdge
	layerNode
	layerLabel
	layerLegend
)

// canvas is a fixed-size cell grid with an integer origin translating
// world coordinates into cell indices.
type canvas struct {
	cols, rows int
	originX    int
	originY    int
	cells      []rune
	layers     []layer
}

func newCanvas(bounds geom.Rect) *canvas {
	originX := int(math.Floor(bounds.X))
	originY := int(math.Floor(bounds.Y))
	cols := int(math.Ceil(bounds.Right())) - originX + 1
	rows := int(math.Ceil(bounds.Bottom())) - originY + 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	c := &canvas{
		cols:    cols,
		rows:    rows,
		originX: originX,
		originY: originY,
		cells:   make([]rune, cols*rows),
		layers:  make([]layer, cols*rows),
	}
	for i := range c.cells {
		c.cells[i] = ' '
	}
	return c
}

func (c *canvas) cellAt(p geom.Point) (col, row int) {
	return int(math.Round(p.X)) - c.originX, int(math.Round(p.Y)) - c.originY
}

func (c *canvas) set(col, row int, r rune, l layer) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	idx := row*c.cols + col
	// Higher layers win; edges never overwrite node frames.
	if c.layers[idx] > l {
		return
	}
	c.cells[idx] = r
	c.layers[idx] = l
}

// box draws a rectangle frame with box-drawing characters.
func (c *canvas) box(rect geom.Rect, l layer) {
	x0, y0 := c.cellAt(geom.Point{X: rect.X, Y: rect.Y})
	x1, y1 := c.cellAt(geom.Point{X: rect.Right(), Y: rect.Bottom()})
	if x1 <= x0 || y1 <= y0 {
		return
	}

	for x := x0 + 1; x < x1; x++ {
		c.set(x, y0, '─', l)
		c.set(x, y1, '─', l)
	}
	for y := y0 + 1; y < y1; y++ {
		c.set(x0, y, '│', l)
		c.set(x1, y, '│', l)
	}
	c.set(x0, y0, '┌', l)
	c.set(x1, y0, '┐', l)
	c.set(x0, y1, '└', l)
	c.set(x1, y1, '┘', l)
}

// polyline draws axis-aligned segments between consecutive waypoints.
// Diagonal segments step through intermediate cells. The final segment
// ends in an arrowhead pointing along its travel direction, placed one
// cell before the endpoint: the endpoint itself is the target's border
// cell, which the node frame layer owns.
func (c *canvas) polyline(points []geom.Point, l layer, arrow bool) {
	if len(points) < 2 {
		return
	}
	for i := 1; i < len(points); i++ {
		last := i == len(points)-1
		c.segment(points[i-1], points[i], l, arrow && last)
	}
}

func (c *canvas) segment(a, b geom.Point, l layer, arrow bool) {
	x0, y0 := c.cellAt(a)
	x1, y1 := c.cellAt(b)

	dx := sign(x1 - x0)
	dy := sign(y1 - y0)
	steps := max(abs(x1-x0), abs(y1-y0))

	glyph := '─'
	if dy != 0 {
		glyph = '│'
	}
	if dx != 0 && dy != 0 {
		glyph = '·'
	}

	x, y := x0, y0
	for step := 0; step <= steps; step++ {
		r := glyph
		skip := false
		switch {
		case arrow && steps > 0 && step == steps:
			// Endpoint cell is the target border; leave it to the frame.
			skip = true
		case arrow && (steps == 0 || step == steps-1):
			r = arrowRune(dx, dy)
		}
		if !skip {
			c.set(x, y, r, l)
		}
		if abs(x1-x0) >= abs(y1-y0) {
			x += dx
			if steps > 0 && abs(y1-y0) > 0 {
				y = y0 + dy*(abs(x-x0)*abs(y1-y0)/max(abs(x1-x0), 1))
			}
		} else {
			y += dy
			if steps > 0 && abs(x1-x0) > 0 {
				x = x0 + dx*(abs(y-y0)*abs(x1-x0)/max(abs(y1-y0), 1))
			}
		}
	}
}

func arrowRune(dx, dy int) rune {
	switch {
	case dy > 0:
		return '▼'
	case dy < 0:
		return '▲'
	case dx > 0:
		return '▶'
	case dx < 0:
		return '◀'
	}
	return '●'
}

// text writes a string starting at a world position, truncated with an
// ellipsis when it exceeds maxWidth display cells.
func (c *canvas) text(p geom.Point, s string, maxWidth int, l layer) {
	if maxWidth > 0 {
		s = runewidth.Truncate(s, maxWidth, "…")
	}
	col, row := c.cellAt(p)
	for _, r := range s {
		c.set(col, row, r, l)
		col += runewidth.RuneWidth(r)
	}
}

// flush assembles the grid into lines. When styles is non-nil, runs of
// same-layer cells are wrapped in their palette style.
func (c *canvas) flush(styles map[layer]lipgloss.Style) string {
	var out strings.Builder
	for row := 0; row < c.rows; row++ {
		line := c.cells[row*c.cols : (row+1)*c.cols]
		lineLayers := c.layers[row*c.cols : (row+1)*c.cols]

		if styles == nil {
			out.WriteString(strings.TrimRight(string(line), " "))
		} else {
			out.WriteString(styleRow(line, lineLayers, styles))
		}
		if row < c.rows-1 {
			out.WriteByte('\n')
		}
	}
	return out.String()
}

func styleRow(line []rune, lineLayers []layer, styles map[layer]lipgloss.Style) string {
	end := len(line)
	for end > 0 && line[end-1] == ' ' {
		end--
	}

	var out strings.Builder
	start := 0
	for start < end {
		runEnd := start + 1
		for runEnd < end && lineLayers[runEnd] == lineLayers[start] {
			runEnd++
		}
		run := string(line[start:runEnd])
		if style, ok := styles[lineLayers[start]]; ok {
			out.WriteString(style.Render(run))
		} else {
			out.WriteString(run)
		}
		start = runEnd
	}
	return out.String()
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
