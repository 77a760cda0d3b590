package label

import (
	"math"
	"strings"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// PlacementConfig tunes text measurement and the collision-avoidance
// search. All lengths are world units.
type PlacementConfig struct {
	// MaxLabelWidth bounds one wrapped line; longer text wraps.
	MaxLabelWidth float64
	// MaxLabelHeight bounds the measured box height.
	MaxLabelHeight float64
	// LabelMargin pads both rectangles during overlap checks.
	LabelMargin float64
	// OffsetStep is the ring spacing of the candidate search.
	OffsetStep float64
	// MaxOffset is the largest ring tried before giving up.
	MaxOffset float64
	// CharWidth is the measured width of one character.
	CharWidth float64
	// LineHeight is the measured height of one text line.
	LineHeight float64
	// LeaderLineThreshold is the offset distance at which a placed
	// label gets a leader line back to its anchor.
	LeaderLineThreshold float64
	// MaxLines caps wrapped lines; extra lines truncate.
	MaxLines int
	// LegendEnabled spills unplaceable labels into the legend area.
	LegendEnabled bool
}

// DefaultPlacementConfig returns the standard placement settings.
func DefaultPlacementConfig() PlacementConfig {
	return PlacementConfig{
		MaxLabelWidth:       20,
		MaxLabelHeight:      3,
		LabelMargin:         0.5,
		OffsetStep:          1,
		MaxOffset:           8,
		CharWidth:           1,
		LineHeight:          1,
		LeaderLineThreshold: 3,
		MaxLines:            3,
		LegendEnabled:       false,
	}
}

// LeaderLine connects a displaced label back to its anchor point.
type LeaderLine struct {
	From geom.Point `json:"from"`
	To   geom.Point `json:"to"`
}

// PlacedLabel is one label with its resolved world rectangle.
type PlacedLabel struct {
	Label           int         `json:"label"`
	Rect            geom.Rect   `json:"rect"`
	WasOffset       bool        `json:"was_offset"`
	WasTruncated    bool        `json:"was_truncated"`
	SpilledToLegend bool        `json:"spilled_to_legend"`
	Leader          *LeaderLine `json:"leader,omitempty"`
}

// ColliderKind says what kind of obstacle a label ran into.
type ColliderKind string

const (
	ColliderNode  ColliderKind = "node"
	ColliderEdge  ColliderKind = "edge"
	ColliderLabel ColliderKind = "label"
)

// Collider identifies the first obstacle hit during a label's
// placement search. Index counts within the collider's own kind.
type Collider struct {
	Kind  ColliderKind `json:"kind"`
	Index int          `json:"index"`
}

// CollisionEvent records one resolved label collision.
type CollisionEvent struct {
	Label    int        `json:"label"`
	Collider Collider   `json:"collider"`
	Offset   geom.Point `json:"offset"`
}

// Result is the outcome of one placement pass over a diagram.
type Result struct {
	EdgeLabels   []PlacedLabel    `json:"edge_labels"`
	NodeLabels   []PlacedLabel    `json:"node_labels"`
	Collisions   []CollisionEvent `json:"collisions"`
	LegendLabels []PlacedLabel    `json:"legend_labels"`
}

// MeasureText computes the wrapped text box size in world units.
// Explicit newlines split lines first, then each line hard-wraps at the
// configured width. Truncated reports whether MaxLines cut content off.
func MeasureText(text string, cfg PlacementConfig) (width, height float64, truncated bool) {
	if text == "" {
		return 0, 0, false
	}
	maxChars := int(math.Max(math.Floor(cfg.MaxLabelWidth/cfg.CharWidth), 1))

	var lines []int
	for _, raw := range strings.Split(text, "\n") {
		runes := []rune(raw)
		if len(runes) == 0 {
			lines = append(lines, 0)
			continue
		}
		for start := 0; start < len(runes); start += maxChars {
			end := min(start+maxChars, len(runes))
			lines = append(lines, end-start)
		}
	}

	totalRunes := len([]rune(text))
	truncated = len(lines) > cfg.MaxLines || totalRunes > maxChars*cfg.MaxLines

	visible := min(len(lines), cfg.MaxLines)
	maxLineChars := 0
	for _, n := range lines[:visible] {
		if n > maxLineChars {
			maxLineChars = n
		}
	}

	width = math.Min(float64(maxLineChars)*cfg.CharWidth, cfg.MaxLabelWidth)
	height = math.Min(float64(visible)*cfg.LineHeight, cfg.MaxLabelHeight)
	return width, height, truncated
}

// edgeMidpoint walks the polyline to the point at half the accumulated
// path length, interpolating within the segment it lands on.
func edgeMidpoint(waypoints []geom.Point) geom.Point {
	if len(waypoints) == 0 {
		return geom.Point{}
	}
	if len(waypoints) == 1 {
		return waypoints[0]
	}

	total := 0.0
	for i := 1; i < len(waypoints); i++ {
		total += waypoints[i-1].Dist(waypoints[i])
	}

	half := total / 2
	accumulated := 0.0
	for i := 1; i < len(waypoints); i++ {
		a, b := waypoints[i-1], waypoints[i]
		segLen := a.Dist(b)
		if accumulated+segLen >= half && segLen > 0 {
			t := (half - accumulated) / segLen
			return geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
		}
		accumulated += segLen
	}

	first, last := waypoints[0], waypoints[len(waypoints)-1]
	return geom.Point{X: (first.X + last.X) / 2, Y: (first.Y + last.Y) / 2}
}

// offsetCandidates lists displacement candidates: no offset first, then
// rings of growing distance, each ring trying up, right, down, left and
// then the four diagonals.
func offsetCandidates(step, maxOffset float64) []geom.Point {
	offsets := []geom.Point{{}}
	for dist := step; dist <= maxOffset; dist += step {
		offsets = append(offsets,
			geom.Point{X: 0, Y: -dist},
			geom.Point{X: dist, Y: 0},
			geom.Point{X: 0, Y: dist},
			geom.Point{X: -dist, Y: 0},
			geom.Point{X: dist, Y: -dist},
			geom.Point{X: dist, Y: dist},
			geom.Point{X: -dist, Y: -dist},
			geom.Point{X: -dist, Y: dist},
		)
	}
	return offsets
}

// edgeSegmentRects expands each path segment into a thin obstacle
// rectangle so labels keep clear of edge lines.
func edgeSegmentRects(waypoints []geom.Point, thickness float64) []geom.Rect {
	var rects []geom.Rect
	for i := 1; i < len(waypoints); i++ {
		a, b := waypoints[i-1], waypoints[i]
		minX, maxX := math.Min(a.X, b.X), math.Max(a.X, b.X)
		minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		rects = append(rects, geom.Rect{
			X:      minX - thickness/2,
			Y:      minY - thickness/2,
			Width:  (maxX - minX) + thickness,
			Height: (maxY - minY) + thickness,
		})
	}
	return rects
}

// Place positions every label of the diagram against the layout.
//
// Node labels anchor inside their node's label rectangle and never
// move. Edge labels start at the path midpoint and take the first
// collision-free candidate offset; each placed label immediately
// becomes an obstacle for the ones after it. With legend spillover
// enabled, labels that exhaust all candidates relocate below the
// diagram with a leader line; otherwise they stay at the midpoint and
// count as unresolved collisions.
func Place(d *ir.Diagram, l *layout.DiagramLayout, cfg PlacementConfig) Result {
	var result Result

	nodeCount := len(l.Nodes)
	occupied := make([]geom.Rect, 0, nodeCount)
	for _, n := range l.Nodes {
		occupied = append(occupied, n.Rect)
	}

	edgeOccStart := len(occupied)
	for _, e := range l.Edges {
		occupied = append(occupied, edgeSegmentRects(e.Waypoints, 0.5)...)
	}
	edgeOccEnd := len(occupied)

	for _, n := range l.Nodes {
		if n.LabelRect == nil {
			continue
		}
		labelIdx := d.Nodes[n.Node].Label
		if labelIdx == ir.None {
			continue
		}
		tw, th, wasTruncated := MeasureText(d.LabelText(labelIdx), cfg)
		placed := PlacedLabel{
			Label:        labelIdx,
			Rect:         geom.Rect{X: n.LabelRect.X, Y: n.LabelRect.Y, Width: tw, Height: th},
			WasTruncated: wasTruncated,
		}
		occupied = append(occupied, placed.Rect)
		result.NodeLabels = append(result.NodeLabels, placed)
	}

	legendY := l.BoundingBox.Bottom() + 2
	legendX := l.BoundingBox.X

	candidates := offsetCandidates(cfg.OffsetStep, cfg.MaxOffset)

	for _, edgePath := range l.Edges {
		if edgePath.Edge >= len(d.Edges) {
			continue
		}
		labelIdx := d.Edges[edgePath.Edge].Label
		if labelIdx == ir.None {
			continue
		}
		text := d.LabelText(labelIdx)
		if text == "" {
			continue
		}

		tw, th, wasTruncated := MeasureText(text, cfg)
		mid := edgeMidpoint(edgePath.Waypoints)
		labelRect := geom.Rect{X: mid.X - tw/2, Y: mid.Y - th/2, Width: tw, Height: th}

		wasOffset := false
		var offsetApplied geom.Point
		var collider *Collider
		placementFound := false

		for _, off := range candidates {
			candidate := labelRect
			candidate.X += off.X
			candidate.Y += off.Y

			collisionFound := false
			for occIdx, occ := range occupied {
				if candidate.Overlaps(occ, cfg.LabelMargin) {
					if collider == nil {
						collider = classifyCollider(occIdx, nodeCount, edgeOccStart, edgeOccEnd)
					}
					collisionFound = true
					break
				}
			}
			if !collisionFound {
				labelRect = candidate
				if off.X != 0 || off.Y != 0 {
					wasOffset = true
					offsetApplied = off
				}
				placementFound = true
				break
			}
		}

		if wasOffset && collider != nil {
			result.Collisions = append(result.Collisions, CollisionEvent{
				Label:    labelIdx,
				Collider: *collider,
				Offset:   offsetApplied,
			})
		}

		if !placementFound && cfg.LegendEnabled {
			legendRect := geom.Rect{X: legendX, Y: legendY, Width: tw, Height: th}
			legendX += tw + cfg.LabelMargin*2

			placed := PlacedLabel{
				Label:           labelIdx,
				Rect:            legendRect,
				WasTruncated:    wasTruncated,
				SpilledToLegend: true,
				Leader:          &LeaderLine{From: mid, To: geom.Point{X: legendRect.X, Y: legendRect.Y}},
			}
			occupied = append(occupied, placed.Rect)
			result.LegendLabels = append(result.LegendLabels, placed)
			continue
		}

		var leader *LeaderLine
		if wasOffset {
			dist := math.Hypot(offsetApplied.X, offsetApplied.Y)
			if dist >= cfg.LeaderLineThreshold {
				leader = &LeaderLine{From: mid, To: labelRect.Center()}
			}
		}

		placed := PlacedLabel{
			Label:        labelIdx,
			Rect:         labelRect,
			WasOffset:    wasOffset,
			WasTruncated: wasTruncated,
			Leader:       leader,
		}
		occupied = append(occupied, placed.Rect)
		result.EdgeLabels = append(result.EdgeLabels, placed)
	}

	return result
}

func classifyCollider(occIdx, nodeCount, edgeOccStart, edgeOccEnd int) *Collider {
	switch {
	case occIdx < nodeCount:
		return &Collider{Kind: ColliderNode, Index: occIdx}
	case occIdx < edgeOccEnd:
		return &Collider{Kind: ColliderEdge, Index: occIdx - edgeOccStart}
	default:
		return &Collider{Kind: ColliderLabel, Index: occIdx - edgeOccEnd}
	}
}

// ReservationRects returns the rectangles of placed node and edge
// labels for marking as obstacles in a routing grid, so a re-route can
// steer edges around them. Legend labels live outside the diagram and
// are not included.
func ReservationRects(r Result) []geom.Rect {
	rects := make([]geom.Rect, 0, len(r.NodeLabels)+len(r.EdgeLabels))
	for _, pl := range r.NodeLabels {
		rects = append(rects, pl.Rect)
	}
	for _, pl := range r.EdgeLabels {
		rects = append(rects, pl.Rect)
	}
	return rects
}
