package layout

import (
	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
)

// computeClusterBounds unions each cluster's member rects and pads the
// result by ClusterPadding on all sides. Empty clusters get a default
// minimum box at the origin. A titled cluster reserves a title strip
// along the top edge, inset by LabelPadding.
func computeClusterBounds(d *ir.Diagram, rects []geom.Rect, cfg *ir.Config) []ClusterBox {
	if len(d.Clusters) == 0 {
		return nil
	}

	boxes := make([]ClusterBox, 0, len(d.Clusters))
	for idx, cluster := range d.Clusters {
		var members []geom.Rect
		for _, m := range cluster.Members {
			if m >= 0 && m < len(rects) {
				members = append(members, rects[m])
			}
		}

		var rect geom.Rect
		if len(members) == 0 {
			rect = geom.Rect{
				Width:  cfg.NodeWidth + 2*cfg.ClusterPadding,
				Height: cfg.NodeHeight + 2*cfg.ClusterPadding,
			}
		} else {
			bounds := members[0]
			for _, r := range members[1:] {
				bounds = bounds.Union(r)
			}
			rect = geom.Rect{
				X:      bounds.X - cfg.ClusterPadding,
				Y:      bounds.Y - cfg.ClusterPadding,
				Width:  bounds.Width + 2*cfg.ClusterPadding,
				Height: bounds.Height + 2*cfg.ClusterPadding,
			}
		}

		box := ClusterBox{Cluster: idx, Rect: rect}
		if cluster.Title != ir.None {
			box.TitleRect = &geom.Rect{
				X:      rect.X + cfg.LabelPadding,
				Y:      rect.Y + cfg.LabelPadding,
				Width:  rect.Width - 2*cfg.LabelPadding,
				Height: cfg.NodeHeight * 0.5,
			}
		}
		boxes = append(boxes, box)
	}
	return boxes
}
