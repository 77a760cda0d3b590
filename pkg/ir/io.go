package ir

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// fileDiagram is the on-disk diagram format. It is the interchange
// shape the IR-building side writes: nodes and edges reference each
// other by string ID, and labels are inline strings. Reading resolves
// everything into the dense-index Diagram form.
type fileDiagram struct {
	Direction string        `json:"direction" yaml:"direction"`
	Nodes     []fileNode    `json:"nodes" yaml:"nodes"`
	Edges     []fileEdge    `json:"edges" yaml:"edges"`
	Clusters  []fileCluster `json:"clusters,omitempty" yaml:"clusters,omitempty"`
}

type fileNode struct {
	ID      string   `json:"id" yaml:"id"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	Ports   []string `json:"ports,omitempty" yaml:"ports,omitempty"`
}

type fileEdge struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Arrow string `json:"arrow,omitempty" yaml:"arrow,omitempty"`
}

type fileCluster struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Members []string `json:"members" yaml:"members"`
}

// ReadJSON decodes a JSON diagram from r.
//
// The input must be an object with "nodes" and "edges" arrays and an
// optional "direction" (default "TB") and "clusters" array:
//
//	{
//	  "direction": "LR",
//	  "nodes": [{"id": "a", "label": "Start"}, {"id": "b", "ports": ["in"]}],
//	  "edges": [{"from": "a", "to": "b.in"}]
//	}
//
// Edge endpoints are either a node ID or "node.port". Endpoints that
// reference unknown nodes or ports are kept as unresolved (the layout
// engine skips such edges) and reported in the returned warnings rather
// than failing the whole import; this mirrors the upstream normalizer's
// fallback policy. Structural problems (duplicate or empty node IDs,
// malformed JSON) are errors.
func ReadJSON(r io.Reader) (*Diagram, []string, error) {
	var data fileDiagram
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return data.resolve()
}

// ReadYAML decodes a YAML diagram from r. The document shape matches
// ReadJSON.
func ReadYAML(r io.Reader) (*Diagram, []string, error) {
	var data fileDiagram
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, nil, fmt.Errorf("decode: %w", err)
	}
	return data.resolve()
}

// Import reads a diagram file, dispatching on the extension:
// .yaml/.yml for YAML, anything else JSON.
func Import(path string) (*Diagram, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ReadYAML(f)
	default:
		return ReadJSON(f)
	}
}

func (data *fileDiagram) resolve() (*Diagram, []string, error) {
	dir := TB
	if data.Direction != "" {
		parsed, err := ParseDirection(data.Direction)
		if err != nil {
			return nil, nil, fmt.Errorf("direction %q: %w", data.Direction, err)
		}
		dir = parsed
	}

	d := &Diagram{Direction: dir}
	var warnings []string

	nodeIdx := make(map[string]int, len(data.Nodes))
	portIdx := make(map[string]int)

	for _, n := range data.Nodes {
		if n.ID == "" {
			return nil, nil, ErrInvalidNodeID
		}
		if _, exists := nodeIdx[n.ID]; exists {
			return nil, nil, fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		idx := len(d.Nodes)
		nodeIdx[n.ID] = idx

		label := None
		if n.Label != "" {
			label = d.addLabel(n.Label)
		}
		d.Nodes = append(d.Nodes, Node{ID: n.ID, Label: label, Classes: n.Classes})

		for _, port := range n.Ports {
			portIdx[n.ID+"."+port] = len(d.Ports)
			d.Ports = append(d.Ports, Port{Name: port, Node: idx})
		}
	}

	for _, e := range data.Edges {
		from, w := resolveEndpoint(e.From, nodeIdx, portIdx)
		if w != "" {
			warnings = append(warnings, fmt.Sprintf("edge %s->%s: %s", e.From, e.To, w))
		}
		to, w := resolveEndpoint(e.To, nodeIdx, portIdx)
		if w != "" {
			warnings = append(warnings, fmt.Sprintf("edge %s->%s: %s", e.From, e.To, w))
		}

		label := None
		if e.Label != "" {
			label = d.addLabel(e.Label)
		}
		arrow := e.Arrow
		if arrow == "" {
			arrow = "-->"
		}
		d.Edges = append(d.Edges, Edge{From: from, To: to, Label: label, Arrow: arrow})
	}

	for _, c := range data.Clusters {
		title := None
		if c.Title != "" {
			title = d.addLabel(c.Title)
		}
		var members []int
		for _, id := range c.Members {
			idx, ok := nodeIdx[id]
			if !ok {
				warnings = append(warnings, fmt.Sprintf("cluster member %s: unknown node", id))
				continue
			}
			members = append(members, idx)
		}
		d.Clusters = append(d.Clusters, Cluster{Members: members, Title: title})
	}

	return d, warnings, nil
}

func (d *Diagram) addLabel(text string) int {
	d.Labels = append(d.Labels, Label{Text: text})
	return len(d.Labels) - 1
}

// resolveEndpoint maps "node" or "node.port" to an Endpoint. Unknown
// references yield an unresolved endpoint plus a warning message.
func resolveEndpoint(ref string, nodes, ports map[string]int) (Endpoint, string) {
	if idx, ok := nodes[ref]; ok {
		return Endpoint{Node: idx, Port: None}, ""
	}
	if idx, ok := ports[ref]; ok {
		return Endpoint{Node: None, Port: idx}, ""
	}
	return Endpoint{Node: None, Port: None}, fmt.Sprintf("unresolved endpoint %q", ref)
}
