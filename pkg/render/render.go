package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/label"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// Options control output appearance.
type Options struct {
	// Styled wraps each content kind in its palette color.
	Styled bool
	// Arrowheads draws a direction marker at the end of every edge.
	Arrowheads bool
}

// DefaultOptions returns plain output with arrowheads.
func DefaultOptions() Options {
	return Options{Arrowheads: true}
}

var (
	nodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	edgeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	clusterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	legendStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func palette() map[layer]lipgloss.Style {
	return map[layer]lipgloss.Style{
		layerNode:    nodeStyle,
		layerEdge:    edgeStyle,
		layerLabel:   labelStyle,
		layerCluster: clusterStyle,
		layerLegend:  legendStyle,
	}
}

// Frame is everything one render pass draws: the layout, optional
// routed paths overriding the layout's baseline edges, placed labels
// and a legend. Labels and Legend may be zero values.
type Frame struct {
	Layout *layout.DiagramLayout
	Paths  []layout.EdgePath
	Labels label.Result
	Legend label.Legend
}

// Render draws one frame of the diagram as text.
//
// Draw order is clusters, edges, node frames, labels, then legend;
// later layers win cell conflicts, so a node frame always shows through
// an edge crossing it.
func Render(d *ir.Diagram, frame Frame, opts Options) string {
	l := frame.Layout
	if l == nil || len(l.Nodes) == 0 {
		return ""
	}

	paths := frame.Paths
	if paths == nil {
		paths = l.Edges
	}

	bounds := l.BoundingBox
	if !frame.Legend.IsEmpty() {
		bounds = bounds.Union(frame.Legend.Region)
	}
	for _, pl := range frame.Labels.LegendLabels {
		bounds = bounds.Union(pl.Rect)
	}
	for _, p := range paths {
		for _, wp := range p.Waypoints {
			bounds = bounds.Union(geom.Rect{X: wp.X, Y: wp.Y})
		}
	}

	c := newCanvas(bounds)

	for _, cb := range l.Clusters {
		c.box(cb.Rect, layerCluster)
		if cb.TitleRect != nil {
			title := ""
			if cb.Cluster < len(d.Clusters) {
				title = d.LabelText(d.Clusters[cb.Cluster].Title)
			}
			c.text(geom.Point{X: cb.TitleRect.X, Y: cb.TitleRect.Y}, title,
				int(cb.TitleRect.Width), layerLabel)
		}
	}

	for _, p := range paths {
		c.polyline(p.Waypoints, layerEdge, opts.Arrowheads)
	}

	for _, n := range l.Nodes {
		c.box(n.Rect, layerNode)
	}

	drawLabels(c, d, l, frame)

	var styles map[layer]lipgloss.Style
	if opts.Styled {
		styles = palette()
	}
	return c.flush(styles)
}

func drawLabels(c *canvas, d *ir.Diagram, l *layout.DiagramLayout, frame Frame) {
	placedNodes := make(map[int]bool)
	for _, pl := range frame.Labels.NodeLabels {
		placedNodes[pl.Label] = true
		c.text(geom.Point{X: pl.Rect.X, Y: pl.Rect.Y}, d.LabelText(pl.Label),
			int(pl.Rect.Width), layerLabel)
	}

	// Nodes without a placement pass still show their ID or label text
	// centered in the frame.
	for _, n := range l.Nodes {
		node := d.Nodes[n.Node]
		if node.Label != ir.None && placedNodes[node.Label] {
			continue
		}
		text := node.ID
		if node.Label != ir.None {
			text = d.LabelText(node.Label)
		}
		inner := int(n.Rect.Width) - 2
		start := geom.Point{X: n.Rect.X + 1, Y: n.Rect.Center().Y}
		c.text(start, text, inner, layerLabel)
	}

	for _, pl := range frame.Labels.EdgeLabels {
		if pl.Leader != nil {
			c.segment(pl.Leader.From, pl.Leader.To, layerEdge, false)
		}
		c.text(geom.Point{X: pl.Rect.X, Y: pl.Rect.Y}, d.LabelText(pl.Label),
			int(pl.Rect.Width), layerLabel)
	}

	for _, pl := range frame.Labels.LegendLabels {
		c.text(geom.Point{X: pl.Rect.X, Y: pl.Rect.Y}, d.LabelText(pl.Label),
			int(pl.Rect.Width), layerLegend)
	}

	for _, e := range frame.Legend.Entries {
		c.text(geom.Point{X: e.Rect.X, Y: e.Rect.Y}, e.Text, int(e.Rect.Width), layerLegend)
	}
}
