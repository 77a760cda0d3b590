// Package render draws computed diagram layouts as terminal text.
//
// World units map one-to-one onto character cells: coordinates are
// rounded, nodes become box-drawing frames, edge polylines become line
// runs with arrowheads, and labels and legend entries are written over
// the top. Rendering is read-only over its inputs and deterministic.
//
// Output comes in two flavors: plain runes, or ANSI-styled text where
// nodes, edges, labels and clusters each take a palette color.
package render
