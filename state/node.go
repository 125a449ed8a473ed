package state

import (
	"fmt"
	"slices"
)

// Message is a routing table snapshot in flight, tagged with its sender.
type Message struct {
	From  NodeId
	Table *RoutingTable
}

// Node holds the routing state of a single simulated router.
// Its table and inbox must only be touched by operations on that node.
type Node struct {
	Id         NodeId
	Locals     []Address
	Neighbours []NodeId
	Table      *RoutingTable
	Inbox      []Message

	snap        *RoutingTable
	snapOf      *RoutingTable
	snapVersion uint64
}

func NewNode(id NodeId) *Node {
	return &Node{
		Id:    id,
		Table: NewRoutingTable(),
	}
}

// AddLocal registers an address owned by this node. Returns false if it was already owned.
func (n *Node) AddLocal(addr Address) bool {
	if slices.Contains(n.Locals, addr) {
		return false
	}
	n.Locals = append(n.Locals, addr)
	n.Table.Insert(Route{Dest: addr, Via: Local, Cost: 0})
	return true
}

// AddNeighbour appends a link to another node. Returns false if the link already exists.
func (n *Node) AddNeighbour(id NodeId) bool {
	if slices.Contains(n.Neighbours, id) {
		return false
	}
	n.Neighbours = append(n.Neighbours, id)
	return true
}

func (n *Node) IsNeighbour(id NodeId) bool {
	return slices.Contains(n.Neighbours, id)
}

func (n *Node) Degree() int {
	return len(n.Neighbours)
}

// CopyTable returns a snapshot of the node's table that shares nothing with it.
func (n *Node) CopyTable() *RoutingTable {
	return n.Table.Clone()
}

// Snapshot returns a copy of the table that callers must treat as read-only. Consecutive
// calls share one copy until the table changes.
func (n *Node) Snapshot() *RoutingTable {
	if n.snap == nil || n.snapOf != n.Table || n.snapVersion != n.Table.Version() {
		n.snap = n.Table.Clone()
		n.snapOf = n.Table
		n.snapVersion = n.Table.Version()
	}
	return n.snap
}

func (n *Node) Enqueue(msg Message) {
	n.Inbox = append(n.Inbox, msg)
}

// Dequeue pops the oldest pending message.
func (n *Node) Dequeue() (Message, bool) {
	if len(n.Inbox) == 0 {
		return Message{}, false
	}
	msg := n.Inbox[0]
	n.Inbox[0] = Message{}
	n.Inbox = n.Inbox[1:]
	return msg, true
}

func (n *Node) Pending() int {
	return len(n.Inbox)
}

// CheckTable verifies that every learned route goes through an existing neighbour.
func (n *Node) CheckTable() error {
	for _, r := range n.Table.Routes() {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("node %s: %w", n.Id, err)
		}
		if !r.IsLocal() && !n.IsNeighbour(r.Via) {
			return fmt.Errorf("node %s: route %s goes via %s, which is not a neighbour", n.Id, r, r.Via)
		}
	}
	return nil
}
