package label

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/flowgrid/flowgrid/pkg/geom"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/layout"
)

// Placement positions the legend region relative to the diagram.
type Placement string

const (
	// Below stacks the legend under the diagram bounding box.
	Below Placement = "below"
	// Right puts the legend in a column beside the diagram.
	Right Placement = "right"
)

// LegendConfig tunes the legend region geometry.
type LegendConfig struct {
	Placement Placement
	// MaxHeight caps the region; entries past it are dropped and
	// counted in OverflowCount.
	MaxHeight float64
	// MaxWidth caps the region width. Below placement also clamps to
	// the diagram width.
	MaxWidth float64
	// Gap separates the region from the diagram bounding box.
	Gap     float64
	Padding float64
	// CharWidth and LineHeight size entry text.
	CharWidth  float64
	LineHeight float64
	// MaxEntryChars truncates longer entries with an ellipsis.
	MaxEntryChars int
}

// DefaultLegendConfig returns the standard legend settings.
func DefaultLegendConfig() LegendConfig {
	return LegendConfig{
		Placement:     Below,
		MaxHeight:     10,
		MaxWidth:      60,
		Gap:           1,
		Padding:       0.5,
		CharWidth:     1,
		LineHeight:    1,
		MaxEntryChars: 56,
	}
}

// Entry is one positioned legend line.
type Entry struct {
	Text         string    `json:"text"`
	Rect         geom.Rect `json:"rect"`
	WasTruncated bool      `json:"was_truncated"`
}

// Legend is the computed legend region.
type Legend struct {
	Region    geom.Rect `json:"region"`
	Entries   []Entry   `json:"entries"`
	Placement Placement `json:"placement"`
	// OverflowCount is how many lines were dropped for height.
	OverflowCount int `json:"overflow_count"`
}

// IsEmpty reports whether the legend has no entries.
func (l Legend) IsEmpty() bool { return len(l.Entries) == 0 }

// BuildLegend lays out footnote lines next to the diagram bounding box.
// Entries stack top to bottom in input order; lines that would exceed
// MaxHeight are dropped and counted. The region never overlaps the
// diagram.
func BuildLegend(bbox geom.Rect, lines []string, cfg LegendConfig) Legend {
	if len(lines) == 0 {
		return Legend{Placement: cfg.Placement}
	}

	var originX, originY, availableWidth float64
	switch cfg.Placement {
	case Right:
		originX = bbox.Right() + cfg.Gap
		originY = bbox.Y
		availableWidth = cfg.MaxWidth
	default:
		originX = bbox.X
		originY = bbox.Bottom() + cfg.Gap
		availableWidth = math.Min(cfg.MaxWidth, math.Max(bbox.Width, 20))
	}

	innerWidth := availableWidth - cfg.Padding*2
	maxTextChars := int(math.Max(math.Floor(innerWidth/cfg.CharWidth), 1))
	maxTextChars = min(maxTextChars, cfg.MaxEntryChars)

	var entries []Entry
	currentY := originY + cfg.Padding
	maxY := originY + cfg.MaxHeight
	overflow := 0

	for _, line := range lines {
		if currentY+cfg.LineHeight > maxY {
			overflow = len(lines) - len(entries)
			break
		}
		display, wasTruncated := truncateEntry(line, maxTextChars)
		entries = append(entries, Entry{
			Text: display,
			Rect: geom.Rect{
				X:      originX + cfg.Padding,
				Y:      currentY,
				Width:  float64(len([]rune(display))) * cfg.CharWidth,
				Height: cfg.LineHeight,
			},
			WasTruncated: wasTruncated,
		})
		currentY += cfg.LineHeight
	}

	actualWidth := cfg.Padding * 2
	for _, e := range entries {
		actualWidth = math.Max(actualWidth, e.Rect.Width+cfg.Padding*2)
	}

	return Legend{
		Region: geom.Rect{
			X:      originX,
			Y:      originY,
			Width:  math.Min(actualWidth, availableWidth),
			Height: math.Min((currentY-originY)+cfg.Padding, cfg.MaxHeight),
		},
		Entries:       entries,
		Placement:     cfg.Placement,
		OverflowCount: overflow,
	}
}

// truncateEntry cuts text to maxChars runes, replacing the tail with an
// ellipsis when there is room for one.
func truncateEntry(text string, maxChars int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text, false
	}
	if maxChars <= 3 {
		return string(runes[:maxChars]), true
	}
	return string(runes[:maxChars-3]) + "...", true
}

// FootnoteLines formats spilled labels as numbered legend lines.
func FootnoteLines(d *ir.Diagram, spilled []PlacedLabel) []string {
	lines := make([]string, 0, len(spilled))
	for i, pl := range spilled {
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, d.LabelText(pl.Label)))
	}
	return lines
}

type legendEvent struct {
	Event         string    `json:"event"`
	LegendMode    Placement `json:"legend_mode"`
	LegendHeight  float64   `json:"legend_height"`
	LegendWidth   float64   `json:"legend_width"`
	LegendLines   int       `json:"legend_lines"`
	OverflowCount int       `json:"overflow_count"`
}

// EmitLegendMetrics appends one "diagram_legend" line to the JSONL log.
// Empty legends and write failures are ignored.
func EmitLegendMetrics(cfg *ir.Config, legend Legend) {
	if cfg.LogPath == "" || legend.IsEmpty() {
		return
	}
	data, err := json.Marshal(legendEvent{
		Event:         "diagram_legend",
		LegendMode:    legend.Placement,
		LegendHeight:  legend.Region.Height,
		LegendWidth:   legend.Region.Width,
		LegendLines:   len(legend.Entries),
		OverflowCount: legend.OverflowCount,
	})
	if err != nil {
		return
	}
	_ = layout.AppendLogLine(cfg.LogPath, string(data))
}
