package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/label"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/render"
	"github.com/flowgrid/flowgrid/pkg/route"
)

// directionCycle is the order the preview steps through on keypress.
var directionCycle = []ir.Direction{ir.TB, ir.LR, ir.BT, ir.RL}

// presetCycle pairs each weight preset with its display name.
var presetCycle = []struct {
	name    string
	weights layout.Weights
}{
	{"normal", layout.NormalWeights()},
	{"compact", layout.CompactWeights()},
	{"rich", layout.RichWeights()},
}

// PreviewModel is the bubbletea model for the interactive diagram preview.
// It recomputes the full pipeline whenever the flow direction changes.
type PreviewModel struct {
	Diagram *ir.Diagram
	Config  ir.Config

	dirIndex    int
	presetIndex int
	styled      bool
	frame       render.Frame
	stats       layout.Stats
	edges       int
	score       float64
	view        string
}

// NewPreviewModel creates a preview model and computes the initial layout.
func NewPreviewModel(d *ir.Diagram, cfg ir.Config, styled bool) PreviewModel {
	m := PreviewModel{Diagram: d, Config: cfg, styled: styled}
	for i, dir := range directionCycle {
		if dir == d.Direction {
			m.dirIndex = i
			break
		}
	}
	m.recompute()
	return m
}

// recompute reruns layout, routing and labeling for the current direction.
func (m *PreviewModel) recompute() {
	m.Diagram.Direction = directionCycle[m.dirIndex]

	l := layout.Compute(m.Diagram, &m.Config)
	paths, _ := route.AllEdges(m.Diagram, l, &m.Config, route.DefaultWeights())
	routed := *l
	routed.Edges = paths
	labels := label.Place(m.Diagram, &routed, label.DefaultPlacementConfig())

	obj := layout.EvaluateWithLabels(&routed, len(labels.Collisions))
	m.score = obj.ScoreWith(presetCycle[m.presetIndex].weights)

	m.frame = render.Frame{Layout: l, Paths: paths, Labels: labels}
	m.stats = l.Stats
	m.edges = len(paths)
	m.view = render.Render(m.Diagram, m.frame, render.Options{
		Styled:     m.styled,
		Arrowheads: true,
	})
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "d", "right", "tab":
			m.dirIndex = (m.dirIndex + 1) % len(directionCycle)
			m.recompute()
		case "left", "shift+tab":
			m.dirIndex = (m.dirIndex + len(directionCycle) - 1) % len(directionCycle)
			m.recompute()
		case "w":
			m.presetIndex = (m.presetIndex + 1) % len(presetCycle)
			m.recompute()
		case "s":
			m.styled = !m.styled
			m.recompute()
		}
	}
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Diagram Preview"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render("d: cycle direction  w: cycle weights  s: toggle color  q: quit"))
	b.WriteString("\n\n")

	b.WriteString(m.view)
	b.WriteString("\n\n")

	parts := []string{
		fmt.Sprintf("direction %s", directionCycle[m.dirIndex]),
		fmt.Sprintf("%d nodes", len(m.frame.Layout.Nodes)),
		fmt.Sprintf("%d edges", m.edges),
		fmt.Sprintf("%d crossings", m.stats.Crossings),
		fmt.Sprintf("score %.1f (%s)", m.score, presetCycle[m.presetIndex].name),
	}
	if m.stats.BudgetExceeded {
		parts = append(parts, StyleWarning.Render("budget exceeded"))
	}
	b.WriteString(StyleDim.Render("  " + strings.Join(parts, " · ")))

	return b.String()
}

// previewCommand creates the preview command for interactive exploration.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		configPath string
		styled     bool
	)

	cmd := &cobra.Command{
		Use:   "preview <diagram>",
		Short: "Preview a diagram interactively in the terminal",
		Long: `Open an interactive preview of the diagram. The flow direction can
be cycled live to compare layout variants without re-running the tool.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			d, cfg, err := loadInputs(logger, args[0], configPath)
			if err != nil {
				return err
			}

			model := NewPreviewModel(d, cfg, styled)
			p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().BoolVar(&styled, "styled", false, "colorize output with ANSI styles")

	return cmd
}
