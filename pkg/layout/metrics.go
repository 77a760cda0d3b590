package layout

import (
	"encoding/json"
	"os"

	"github.com/flowgrid/flowgrid/pkg/ir"
)

// layoutMetricsEvent is the wire shape of one "layout_metrics" JSONL
// line: diagram shape, all raw metrics and the composite score under
// every weight preset.
type layoutMetricsEvent struct {
	Event              string  `json:"event"`
	Nodes              int     `json:"nodes"`
	Edges              int     `json:"edges"`
	Ranks              int     `json:"ranks"`
	BudgetExceeded     bool    `json:"budget_exceeded"`
	Crossings          int     `json:"crossings"`
	Bends              int     `json:"bends"`
	PositionVariance   float64 `json:"position_variance"`
	TotalEdgeLength    float64 `json:"total_edge_length"`
	AlignedNodes       int     `json:"aligned_nodes"`
	Symmetry           float64 `json:"symmetry"`
	Compactness        float64 `json:"compactness"`
	EdgeLengthVariance float64 `json:"edge_length_variance"`
	LabelCollisions    int     `json:"label_collisions"`
	ScoreDefault       float64 `json:"score_default"`
	ScoreNormal        float64 `json:"score_normal"`
	ScoreCompact       float64 `json:"score_compact"`
	ScoreRich          float64 `json:"score_rich"`
}

// emitLayoutMetrics appends one metrics line to cfg.LogPath. A nil or
// empty path disables emission; write failures are swallowed so logging
// can never affect the layout result.
func emitLayoutMetrics(cfg *ir.Config, l *DiagramLayout, obj Objective) {
	if cfg.LogPath == "" {
		return
	}
	ev := layoutMetricsEvent{
		Event:              "layout_metrics",
		Nodes:              len(l.Nodes),
		Edges:              len(l.Edges),
		Ranks:              l.Stats.Ranks,
		BudgetExceeded:     l.Stats.BudgetExceeded,
		Crossings:          obj.Crossings,
		Bends:              obj.Bends,
		PositionVariance:   obj.PositionVariance,
		TotalEdgeLength:    obj.TotalEdgeLength,
		AlignedNodes:       obj.AlignedNodes,
		Symmetry:           obj.Symmetry,
		Compactness:        obj.Compactness,
		EdgeLengthVariance: obj.EdgeLengthVariance,
		LabelCollisions:    obj.LabelCollisions,
		ScoreDefault:       obj.Score,
		ScoreNormal:        obj.ScoreWith(NormalWeights()),
		ScoreCompact:       obj.ScoreWith(CompactWeights()),
		ScoreRich:          obj.ScoreWith(RichWeights()),
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_ = AppendLogLine(cfg.LogPath, string(data))
}

// AppendLogLine appends one line to the JSONL log at path, creating the
// file if needed. Callers treat failures as best-effort and may ignore
// the returned error.
func AppendLogLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line + "\n")
	return err
}
