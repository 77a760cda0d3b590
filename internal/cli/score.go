package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/layout"
)

// presetWeights maps a preset name to its weight set.
func presetWeights(name string) (layout.Weights, error) {
	switch name {
	case "", "normal":
		return layout.NormalWeights(), nil
	case "compact":
		return layout.CompactWeights(), nil
	case "rich":
		return layout.RichWeights(), nil
	}
	return layout.Weights{}, fmt.Errorf("unknown preset %q (want normal, compact or rich)", name)
}

// scoreCommand creates the score command for comparing layout quality.
func (c *CLI) scoreCommand() *cobra.Command {
	var (
		configPath string
		preset     string
	)

	cmd := &cobra.Command{
		Use:   "score <diagram-a> <diagram-b>",
		Short: "Compare the layout quality of two diagrams",
		Long: `Compute both diagrams' layouts and score them under an aesthetic
weight preset. Lower composite scores are better; the per-metric
breakdown shows where the difference comes from.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			weights, err := presetWeights(preset)
			if err != nil {
				return err
			}

			docA, _, err := computePipeline(cmd.Context(), logger, args[0], configPath, "")
			if err != nil {
				return err
			}
			docB, _, err := computePipeline(cmd.Context(), logger, args[1], configPath, "")
			if err != nil {
				return err
			}

			cmp := layout.Compare(docA.Objective, docB.Objective, weights)

			if docA.Layout.Stats.BudgetExceeded || docB.Layout.Stats.BudgetExceeded {
				printWarning("layout budget exceeded; scores reflect degraded layouts")
			}
			printInfo("Scoring with %s weights (lower is better)", presetName(preset))
			printKeyValue("score A", fmt.Sprintf("%.2f  %s", cmp.ScoreA, args[0]))
			printKeyValue("score B", fmt.Sprintf("%.2f  %s", cmp.ScoreB, args[1]))

			switch {
			case cmp.Delta > 0:
				printSuccess("B wins by %.2f", cmp.Delta)
			case cmp.Delta < 0:
				printSuccess("A wins by %.2f", -cmp.Delta)
			default:
				printInfo("Tie")
			}

			fmt.Println()
			for _, row := range cmp.Breakdown {
				if row.WeightedDelta == 0 {
					continue
				}
				printDetail("%-22s A=%-8.2f B=%-8.2f Δ=%+.2f",
					row.Name, row.A, row.B, row.WeightedDelta)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&preset, "preset", "p", "normal", "weight preset: normal, compact or rich")

	return cmd
}

func presetName(p string) string {
	if p == "" {
		return "normal"
	}
	return p
}
