package state

import (
	"fmt"
	"strconv"
)

// Shapes lists the topologies Generate can build.
var Shapes = []string{"line", "ring", "star", "mesh"}

// Generate builds a topology of n nodes named p1..pn, where node pi owns address i and p1
// is the only start node.
//
//   - line: p1 - p2 - ... - pn
//   - ring: a line closed by pn - p1, at least 3 nodes
//   - star: p1 linked to every other node
//   - mesh: every pair linked
func Generate(shape string, n int) (*Topology, error) {
	minNodes := 2
	if shape == "ring" {
		minNodes = 3
	}
	if n < minNodes {
		return nil, fmt.Errorf("a %s needs at least %d nodes, got %d", shape, minNodes, n)
	}

	t := NewTopology()
	ids := make([]NodeId, n)
	for i := range n {
		ids[i] = NodeId("p" + strconv.Itoa(i+1))
		if _, err := t.AddNode(ids[i], Address(strconv.Itoa(i+1))); err != nil {
			return nil, err
		}
	}

	var links []Link
	switch shape {
	case "line", "ring":
		for i := 1; i < n; i++ {
			links = append(links, Link{ids[i-1], ids[i]})
		}
		if shape == "ring" {
			links = append(links, Link{ids[n-1], ids[0]})
		}
	case "star":
		for i := 1; i < n; i++ {
			links = append(links, Link{ids[0], ids[i]})
		}
	case "mesh":
		for i := range n {
			for j := i + 1; j < n; j++ {
				links = append(links, Link{ids[i], ids[j]})
			}
		}
	default:
		return nil, fmt.Errorf("unknown shape %q, expected one of %v", shape, Shapes)
	}
	for _, l := range links {
		if _, err := t.Connect(l.A, l.B); err != nil {
			return nil, err
		}
	}
	if err := t.AddStart(ids[0]); err != nil {
		return nil, err
	}
	return t, nil
}
