package state

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"go.uber.org/multierr"
)

// Link is an undirected edge between two nodes.
type Link struct {
	A NodeId
	B NodeId
}

// Topology is the set of simulated nodes, their symmetric links and the nodes that start the
// simulation. Nodes are kept in declaration order, which fixes every iteration order the
// simulation depends on.
type Topology struct {
	Nodes  []*Node
	Starts []NodeId
	links  []Link
	index  map[NodeId]*Node

	// Skipped holds every line that was reported and ignored while building the topology.
	Skipped error
}

func NewTopology() *Topology {
	return &Topology{
		index: make(map[NodeId]*Node),
	}
}

func (t *Topology) Node(id NodeId) *Node {
	return t.index[id]
}

// Lookup returns the node with the given id, or ErrUnknownNode.
func (t *Topology) Lookup(id NodeId) (*Node, error) {
	n, ok := t.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, id)
	}
	return n, nil
}

func (t *Topology) AddNode(id NodeId, locals ...Address) (*Node, error) {
	if err := NameValidator(string(id)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedLine, err)
	}
	if _, ok := t.index[id]; ok {
		return nil, fmt.Errorf("%w: node %s declared twice", ErrMalformedLine, id)
	}
	for _, addr := range locals {
		if err := AddressValidator(string(addr)); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedLine, err)
		}
	}
	n := NewNode(id)
	for _, addr := range locals {
		n.AddLocal(addr)
	}
	t.Nodes = append(t.Nodes, n)
	t.index[id] = n
	return n, nil
}

// Connect links a and b in both directions. It returns false if they were already linked.
func (t *Topology) Connect(a, b NodeId) (bool, error) {
	na, err := t.Lookup(a)
	if err != nil {
		return false, err
	}
	nb, err := t.Lookup(b)
	if err != nil {
		return false, err
	}
	if a == b {
		return false, fmt.Errorf("%w: node %s cannot link to itself", ErrMalformedLine, a)
	}
	added := na.AddNeighbour(b)
	added = nb.AddNeighbour(a) || added
	if added {
		t.links = append(t.links, Link{A: a, B: b})
	}
	return added, nil
}

// AddStart designates a start node. A node designated twice starts twice.
func (t *Topology) AddStart(id NodeId) error {
	if _, err := t.Lookup(id); err != nil {
		return err
	}
	t.Starts = append(t.Starts, id)
	return nil
}

// Links returns every link once, in the order it was declared.
func (t *Topology) Links() []Link {
	return slices.Clone(t.links)
}

// Leaves returns the nodes with exactly one link that are not start nodes. Without
// send-back, their local addresses never reach the rest of the network.
func (t *Topology) Leaves() []NodeId {
	out := make([]NodeId, 0)
	for _, n := range t.Nodes {
		if n.Degree() == 1 && !slices.Contains(t.Starts, n.Id) {
			out = append(out, n.Id)
		}
	}
	return out
}

// Owners maps every address to the nodes that own it locally.
func (t *Topology) Owners() map[Address][]NodeId {
	owners := make(map[Address][]NodeId)
	for _, n := range t.Nodes {
		for _, addr := range n.Locals {
			owners[addr] = append(owners[addr], n.Id)
		}
	}
	return owners
}

// Clone returns a deep copy of the topology, including tables and pending messages.
func (t *Topology) Clone() *Topology {
	c := NewTopology()
	for _, n := range t.Nodes {
		cn := &Node{
			Id:         n.Id,
			Locals:     slices.Clone(n.Locals),
			Neighbours: slices.Clone(n.Neighbours),
			Table:      n.CopyTable(),
		}
		for _, msg := range n.Inbox {
			cn.Inbox = append(cn.Inbox, Message{From: msg.From, Table: msg.Table.Clone()})
		}
		c.Nodes = append(c.Nodes, cn)
		c.index[cn.Id] = cn
	}
	c.Starts = slices.Clone(t.Starts)
	c.links = slices.Clone(t.links)
	c.Skipped = t.Skipped
	return c
}

func (t *Topology) skip(line int, text string, err error) {
	t.Skipped = multierr.Append(t.Skipped, &LineError{Line: line, Text: text, Err: err})
}

/*
ParseTopology reads a topology description, one statement per line:

node <name> [local...]

link <a> <b>

send <name>

Blank lines and lines starting with # are ignored. Malformed lines are recorded in
Topology.Skipped and skipped. A reference to an undeclared node aborts parsing with a
*LineError wrapping ErrUnknownNode.
*/
func ParseTopology(r io.Reader) (*Topology, error) {
	t := NewTopology()
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := sc.Text()
		fields := strings.Fields(text)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		err := t.apply(fields)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrUnknownNode) {
			return nil, &LineError{Line: lineNo, Text: text, Err: err}
		}
		t.skip(lineNo, text, err)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopologyUnreadable, err)
	}
	return t, nil
}

func (t *Topology) apply(fields []string) error {
	switch fields[0] {
	case "node":
		if len(fields) < 2 {
			return fmt.Errorf("%w: node needs a name", ErrMalformedLine)
		}
		locals := make([]Address, 0, len(fields)-2)
		for _, f := range fields[2:] {
			locals = append(locals, Address(f))
		}
		_, err := t.AddNode(NodeId(fields[1]), locals...)
		return err
	case "link":
		if len(fields) != 3 {
			return fmt.Errorf("%w: link needs exactly two nodes", ErrMalformedLine)
		}
		_, err := t.Connect(NodeId(fields[1]), NodeId(fields[2]))
		return err
	case "send":
		if len(fields) != 2 {
			return fmt.Errorf("%w: send needs exactly one node", ErrMalformedLine)
		}
		return t.AddStart(NodeId(fields[1]))
	default:
		return fmt.Errorf("%w: unknown statement %q", ErrMalformedLine, fields[0])
	}
}
