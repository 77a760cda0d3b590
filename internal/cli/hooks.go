package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/flowgrid/flowgrid/pkg/observability"
)

// logHooks forwards engine and cache events to the CLI logger at debug
// level. Registered once per run so phase timings show up under -v.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.EngineHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnLayoutStart(_ context.Context, nodeCount, edgeCount int) {
	h.logger.Debug("layout start", "nodes", nodeCount, "edges", edgeCount)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, crossings int, budgetExceeded bool, d time.Duration) {
	h.logger.Debug("layout complete",
		"crossings", crossings,
		"budget_exceeded", budgetExceeded,
		"duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnRouteComplete(_ context.Context, edgeCount, fallbackCount, cellsExplored int, d time.Duration) {
	h.logger.Debug("routing complete",
		"edges", edgeCount,
		"fallbacks", fallbackCount,
		"cells_explored", cellsExplored,
		"duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnLabelComplete(_ context.Context, placed, collisions, spilled int, d time.Duration) {
	h.logger.Debug("labeling complete",
		"placed", placed,
		"collisions", collisions,
		"spilled", spilled,
		"duration", d.Round(time.Microsecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
