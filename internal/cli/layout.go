package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flowgrid/flowgrid/pkg/cache"
	"github.com/flowgrid/flowgrid/pkg/ir"
	"github.com/flowgrid/flowgrid/pkg/label"
	"github.com/flowgrid/flowgrid/pkg/layout"
	"github.com/flowgrid/flowgrid/pkg/observability"
	"github.com/flowgrid/flowgrid/pkg/route"
)

// layoutDocument is the JSON shape written by the layout command: the
// computed layout plus routed paths, placed labels, legend and the
// quality metrics.
type layoutDocument struct {
	Layout    *layout.DiagramLayout `json:"layout"`
	Routes    []layout.EdgePath     `json:"routes"`
	Routing   route.Report          `json:"routing"`
	Labels    label.Result          `json:"labels"`
	Legend    label.Legend          `json:"legend"`
	Objective layout.Objective      `json:"objective"`
}

// layoutCommand creates the layout command for computing layouts as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		configPath string
		outPath    string
		legendMode string
		cacheDir   string
	)

	cmd := &cobra.Command{
		Use:   "layout <diagram>",
		Short: "Compute a diagram layout and emit it as JSON",
		Long: `Compute the full layout pipeline for a diagram file (JSON or YAML):
ranking, ordering, coordinates, edge routing, label placement and legend,
then write the result as a single JSON document.

With --cache-dir, results are stored content-addressed by diagram bytes
and config, so repeated runs over unchanged inputs skip recomputation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			data, err := layoutWithCache(ctx, logger, args[0], configPath, legendMode, cacheDir)
			if err != nil {
				return err
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			printSuccess("Layout written")
			printFile(outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&legendMode, "legend", "", "spill crowded labels to a legend: below or right")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the layout result cache")

	return cmd
}

// layoutWithCache computes the layout document as encoded JSON, consulting
// the file cache when a cache directory is configured. Cache write
// failures degrade to recomputation on the next run and are not errors.
func layoutWithCache(ctx context.Context, logger *log.Logger, diagramPath, configPath, legendMode, cacheDir string) ([]byte, error) {
	store := cache.NewNullCache()
	var key string
	if cacheDir != "" {
		fc, err := cache.NewFileCache(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("open cache %s: %w", cacheDir, err)
		}
		store = fc

		raw, err := os.ReadFile(diagramPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", diagramPath, err)
		}
		cfg := ir.DefaultConfig()
		if configPath != "" {
			if cfg, err = ir.LoadConfig(configPath); err != nil {
				return nil, err
			}
		}
		key = cache.LayoutKey(raw, struct {
			Config ir.Config `json:"config"`
			Legend string    `json:"legend"`
		}{cfg, legendMode})

		if data, ok, err := store.Get(ctx, key); err == nil && ok {
			observability.Cache().OnCacheHit(ctx, "layout")
			return data, nil
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	doc, _, err := computePipeline(ctx, logger, diagramPath, configPath, legendMode)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}
	data = append(data, '\n')

	if key != "" {
		if err := store.Set(ctx, key, data, 0); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return data, nil
}

// computePipeline runs the full layout pipeline for one diagram file
// and returns the result document together with the parsed diagram.
func computePipeline(ctx context.Context, logger *log.Logger, diagramPath, configPath, legendMode string) (*layoutDocument, *ir.Diagram, error) {
	d, cfg, err := loadInputs(logger, diagramPath, configPath)
	if err != nil {
		return nil, nil, err
	}

	hooks := observability.Engine()

	hooks.OnLayoutStart(ctx, len(d.Nodes), len(d.Edges))
	start := time.Now()
	l := layout.Compute(d, &cfg)
	hooks.OnLayoutComplete(ctx, l.Stats.Crossings, l.Stats.BudgetExceeded, time.Since(start))

	start = time.Now()
	paths, report := route.AllEdges(d, l, &cfg, route.DefaultWeights())
	hooks.OnRouteComplete(ctx, len(paths), report.FallbackCount, report.TotalCellsExplored, time.Since(start))
	if report.FallbackCount > 0 {
		logger.Warn("some edges fell back to direct lines", "count", report.FallbackCount)
	}

	pcfg := label.DefaultPlacementConfig()
	pcfg.LegendEnabled = legendMode != ""
	routed := *l
	routed.Edges = paths
	start = time.Now()
	labels := label.Place(d, &routed, pcfg)
	placed := len(labels.NodeLabels) + len(labels.EdgeLabels)
	hooks.OnLabelComplete(ctx, placed, len(labels.Collisions), len(labels.LegendLabels), time.Since(start))

	var legend label.Legend
	if legendMode != "" {
		lcfg := label.DefaultLegendConfig()
		if legendMode == string(label.Right) {
			lcfg.Placement = label.Right
		}
		legend = label.BuildLegend(l.BoundingBox, label.FootnoteLines(d, labels.LegendLabels), lcfg)
		label.EmitLegendMetrics(&cfg, legend)
	}

	obj := layout.EvaluateWithLabels(&routed, len(labels.Collisions))

	return &layoutDocument{
		Layout:    l,
		Routes:    paths,
		Routing:   report,
		Labels:    labels,
		Legend:    legend,
		Objective: obj,
	}, d, nil
}
