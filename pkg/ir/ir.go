// Package ir defines the normalized diagram intermediate representation
// consumed by the layout engine, together with the engine configuration.
//
// The IR is produced upstream (by whatever parses and normalizes diagram
// source text) and is treated as read-only by every consumer in this
// module. Node, label, port and cluster references are dense indices into
// the corresponding slices; order is significant and must be stable, as
// the layout engine derives its determinism from it.
package ir

import "errors"

var (
	// ErrInvalidNodeID is returned when a diagram declares a node with an
	// empty identifier. All nodes must have non-empty string IDs.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned when two nodes share an identifier.
	// Node IDs must be unique across the diagram.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownDirection is returned when a diagram names a flow
	// direction other than TB, TD, LR, RL or BT.
	ErrUnknownDirection = errors.New("unknown diagram direction")
)

// None marks an absent optional index reference (label, title, port).
const None = -1

// Direction is the primary flow axis of the diagram.
type Direction string

// Recognized flow directions. TD is an alias of TB.
const (
	TB Direction = "TB" // top to bottom
	TD Direction = "TD" // top to bottom (alias)
	LR Direction = "LR" // left to right
	RL Direction = "RL" // right to left
	BT Direction = "BT" // bottom to top
)

// ParseDirection converts a direction string into a Direction.
// Returns ErrUnknownDirection for anything outside the recognized set.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case TB, TD, LR, RL, BT:
		return Direction(s), nil
	}
	return "", ErrUnknownDirection
}

// Vertical reports whether ranks stack along the y axis (TB, TD, BT).
func (d Direction) Vertical() bool {
	return d == TB || d == TD || d == BT
}

// Reversed reports whether rank order runs against the axis (BT, RL).
func (d Direction) Reversed() bool {
	return d == BT || d == RL
}

// Node is a diagram vertex. Label indexes Diagram.Labels, or None.
type Node struct {
	ID      string
	Label   int
	Classes []string
}

// Port is a named attachment point on a node. Endpoints may reference a
// port instead of a bare node.
type Port struct {
	Name string
	Node int
}

// Endpoint identifies one end of an edge: either a node directly
// (Port == None) or indirectly through a named port (Port >= 0, in
// which case Node is ignored). A Node of None marks an endpoint that
// failed to resolve upstream; the layout engine skips such edges.
type Endpoint struct {
	Node int
	Port int
}

// NodeIndex resolves the endpoint to a node index within d.
// The second return value is false when the endpoint is unresolved or
// references an out-of-range node or port.
func (e Endpoint) NodeIndex(d *Diagram) (int, bool) {
	idx := e.Node
	if e.Port != None {
		if e.Port < 0 || e.Port >= len(d.Ports) {
			return 0, false
		}
		idx = d.Ports[e.Port].Node
	}
	if idx < 0 || idx >= len(d.Nodes) {
		return 0, false
	}
	return idx, true
}

// Edge is a directed connection between two endpoints. Label indexes
// Diagram.Labels, or None. Arrow is the source arrow-style string and is
// opaque to the layout engine.
type Edge struct {
	From  Endpoint
	To    Endpoint
	Label int
	Arrow string
}

// Cluster groups member nodes under an optional title label.
// Title indexes Diagram.Labels, or None.
type Cluster struct {
	Members []int
	Title   int
}

// Label is a resolved text label referenced by nodes, edges and clusters.
type Label struct {
	Text string
}

// Diagram is the complete normalized graph handed to the layout engine.
// It is borrowed by the engine and never mutated.
type Diagram struct {
	Direction Direction
	Nodes     []Node
	Ports     []Port
	Edges     []Edge
	Clusters  []Cluster
	Labels    []Label
}

// LabelText returns the text of the label at idx, or "" when idx is None
// or out of range.
func (d *Diagram) LabelText(idx int) string {
	if idx < 0 || idx >= len(d.Labels) {
		return ""
	}
	return d.Labels[idx].Text
}
