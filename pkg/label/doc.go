// Package label places node and edge labels over a computed layout and
// spills the ones that cannot fit into a legend region.
//
// Edge labels start at their edge's path midpoint and move through a
// fixed ring of offset candidates until a collision-free spot is found.
// Anything that still collides is either left at the midpoint or, when
// legend spillover is enabled, relocated to the legend with a leader
// line back to its anchor. The whole pass is deterministic: labels are
// processed in declaration order and candidates in a fixed order.
package label
