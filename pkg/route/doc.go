// Package route computes obstacle-aware edge paths over a computed
// layout.
//
// Routing happens on an occupancy grid derived from node and cluster
// rectangles. Two path tiers exist: a plain BFS that finds any free
// path, and an A* search that additionally penalizes bends and
// crossings of already-routed edges. Self-loops and parallel edges
// bypass the search and use synthesized geometry.
//
// All searches share a single cell budget per diagram. When the budget
// runs out, remaining edges fall back to direct lines and are flagged
// in the routing report; routing never fails.
package route
