// Package pkg provides the core libraries for the Flowgrid diagram
// layout engine.
//
// # Overview
//
// Flowgrid turns a flow diagram description (nodes, edges, clusters,
// labels) into deterministic world-unit geometry and renders it as
// terminal text. The pkg directory is organized by pipeline phase:
//
//  1. [ir] - Diagram intermediate representation, config, file import
//  2. [geom] - Points and rectangles shared by every phase
//  3. [layout] - Ranking, ordering, coordinates, clusters, scoring
//  4. [route] - Obstacle-aware edge routing over an occupancy grid
//  5. [label] - Collision-avoiding label placement and legend spillover
//  6. [render] - Box-drawing text output with optional ANSI styling
//
// # Architecture
//
// The typical data flow through Flowgrid:
//
//	JSON/YAML diagram file
//	         ↓
//	    [ir] package (parse + resolve references)
//	         ↓
//	    [layout] package (ranks, orders, coordinates, bounds)
//	         ↓
//	    [route] package (grid pathfinding, lane offsets, self-loops)
//	         ↓
//	    [label] package (placement, collisions, legend)
//	         ↓
//	    [render] package (terminal text output)
//
// # Quick Start
//
// Compute a layout and render it:
//
//	import (
//	    "fmt"
//	    "github.com/flowgrid/flowgrid/pkg/ir"
//	    "github.com/flowgrid/flowgrid/pkg/layout"
//	    "github.com/flowgrid/flowgrid/pkg/render"
//	    "github.com/flowgrid/flowgrid/pkg/route"
//	)
//
//	// 1. Import the diagram
//	d, warnings, _ := ir.Import("pipeline.json")
//	_ = warnings
//
//	// 2. Compute the layout
//	cfg := ir.DefaultConfig()
//	l := layout.Compute(d, &cfg)
//
//	// 3. Route the edges around obstacles
//	paths, _ := route.AllEdges(d, l, &cfg, route.DefaultWeights())
//
//	// 4. Render as terminal text
//	fmt.Println(render.Render(d, render.Frame{Layout: l, Paths: paths},
//	    render.DefaultOptions()))
//
// # Supporting Packages
//
// [cache] - Content-addressed store for computed layouts, keyed by
// diagram bytes and config.
//
// [observability] - Hook registry for phase timings and cache activity
// without coupling the engine to a logging backend.
//
// [buildinfo] - Version information injected at build time via ldflags.
//
// All phases are deterministic: identical input bytes and config
// produce identical geometry, routes, and rendered text.
package pkg
