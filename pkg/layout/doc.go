// Package layout computes deterministic positions for diagram graphs.
//
// The engine implements a Sugiyama-style layered pipeline:
//
//  1. Rank assignment (longest path from sources)
//  2. Ordering within ranks (barycenter crossing minimization)
//  3. Coordinate assignment with per-rank centering and compaction
//  4. Cluster boundary computation
//  5. Baseline edge routing (port-to-port waypoints)
//
// All output is deterministic: identical IR input produces identical
// layout, bit for bit. Coordinates are abstract world units, not
// terminal cells. Every entry point is a pure function of its inputs;
// the IR is borrowed and never mutated, and no state survives a call.
// The only side effect is an optional best-effort JSONL metrics append
// when the config names a log path.
//
// Iterative phases are bounded by caller-supplied budgets and degrade
// rather than fail: budget exhaustion is reported through Stats and the
// degradation hint, and the returned layout is always structurally
// valid. Obstacle-aware edge routing builds on this package's output
// and lives in package route; label placement in package label.
package layout
