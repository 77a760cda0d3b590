package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/render"
)

// renderCommand creates the render command for drawing diagrams as text.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		configPath string
		outPath    string
		legendMode string
		styled     bool
		noArrows   bool
	)

	cmd := &cobra.Command{
		Use:   "render <diagram>",
		Short: "Draw a diagram as box-drawing terminal text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())
			p := newProgress(logger)

			sp := newSpinner(cmd.Context(), "Computing layout")
			sp.Start()
			doc, d, err := computePipeline(cmd.Context(), logger, args[0], configPath, legendMode)
			sp.Stop()
			if err != nil {
				return err
			}
			if sp.Cancelled() {
				return cmd.Context().Err()
			}

			opts := render.Options{Styled: styled, Arrowheads: !noArrows}
			frame := render.Frame{
				Layout: doc.Layout,
				Paths:  doc.Routes,
				Labels: doc.Labels,
				Legend: doc.Legend,
			}
			out := render.Render(d, frame, opts)
			p.done(fmt.Sprintf("Rendered %d nodes, %d edges", len(doc.Layout.Nodes), len(doc.Routes)))

			if outPath == "" {
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(out+"\n"), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			printSuccess("Render written")
			printFile(outPath)
			printStats(len(doc.Layout.Nodes), len(doc.Routes), doc.Layout.Stats.Crossings,
				doc.Layout.Stats.BudgetExceeded)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&legendMode, "legend", "", "spill crowded labels to a legend: below or right")
	cmd.Flags().BoolVar(&styled, "styled", false, "colorize output with ANSI styles")
	cmd.Flags().BoolVar(&noArrows, "no-arrows", false, "omit edge arrowheads")

	return cmd
}
