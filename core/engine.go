package core

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
)

// frame is a broadcast in progress: node is sending its table to its neighbours in order,
// starting at next. from is the neighbour whose message triggered the broadcast, empty for
// a start.
type frame struct {
	node *state.Node
	from state.NodeId
	next int
}

// Engine moves routing tables between the nodes of a topology.
//
// In Immediate mode a received message is processed on the spot, and any resulting
// broadcast runs to completion before the sender moves on to its next neighbour. That
// depth-first order is kept on an explicit stack of frames, so a long chain of updates
// grows the heap rather than the goroutine stack.
type Engine struct {
	top      *state.Topology
	cfg      state.SimCfg
	obs      []Observer
	count    Counter
	stack    []frame
	draining bool
}

func NewEngine(top *state.Topology, cfg state.SimCfg, obs ...Observer) *Engine {
	e := &Engine{
		top: top,
		cfg: cfg,
	}
	// the engine's own counter sees every event first
	e.obs = append([]Observer{&e.count}, obs...)
	return e
}

// Counter returns the events counted so far.
func (e *Engine) Counter() Counter {
	return e.count
}

// Start makes a node send its current table to all of its neighbours.
func (e *Engine) Start(id state.NodeId) error {
	n, err := e.top.Lookup(id)
	if err != nil {
		return err
	}
	e.stack = append(e.stack, frame{node: n})
	return e.drain()
}

// Receive queues a message at a node, processing it right away in Immediate mode.
func (e *Engine) Receive(to state.NodeId, msg state.Message) error {
	n, err := e.top.Lookup(to)
	if err != nil {
		return err
	}
	e.deliver(n, msg)
	return e.drain()
}

// ProcessOne handles the oldest queued message of a node and reports whether its table
// changed. A node with an empty inbox does nothing.
func (e *Engine) ProcessOne(id state.NodeId) (bool, error) {
	n, err := e.top.Lookup(id)
	if err != nil {
		return false, err
	}
	changed := e.processOne(n)
	return changed, e.drain()
}

func (e *Engine) deliver(n *state.Node, msg state.Message) {
	n.Enqueue(msg)
	if e.cfg.Mode == state.Immediate {
		e.processOne(n)
	}
}

func (e *Engine) processOne(n *state.Node) bool {
	msg, ok := n.Dequeue()
	if !ok {
		return false
	}
	if !n.IsNeighbour(msg.From) {
		panic(fmt.Sprintf("node %s received a table from %s, which is not a neighbour", n.Id, msg.From))
	}
	for _, o := range e.obs {
		o.Receive(n.Id, msg.From, msg.Table)
	}
	changed := Merge(n.Table, msg.Table, msg.From)
	if changed {
		e.stack = append(e.stack, frame{node: n, from: msg.From})
	}
	return changed
}

// drain runs queued broadcasts until the stack is empty. Broadcasts pushed while draining
// are picked up by the running loop instead of a nested one.
func (e *Engine) drain() error {
	if e.draining {
		return nil
	}
	e.draining = true
	defer func() {
		e.draining = false
	}()

	for len(e.stack) > 0 {
		top := &e.stack[len(e.stack)-1]
		if top.next >= len(top.node.Neighbours) {
			e.stack = e.stack[:len(e.stack)-1]
			continue
		}
		src := top.node
		to := src.Neighbours[top.next]
		back := to == top.from
		top.next++
		if back && !e.cfg.SendBack {
			continue
		}
		if err := e.send(src, to); err != nil {
			e.stack = nil
			return err
		}
	}
	return nil
}

func (e *Engine) send(src *state.Node, toId state.NodeId) error {
	if e.cfg.MaxSends > 0 && e.count.Sends >= e.cfg.MaxSends {
		return fmt.Errorf("%w: more than %d send events", state.ErrNoConvergence, e.cfg.MaxSends)
	}
	to := e.top.Node(toId)
	if to == nil {
		panic(fmt.Sprintf("node %s links to unknown node %s", src.Id, toId))
	}
	snapshot := src.Snapshot()
	for _, o := range e.obs {
		o.Send(src.Id, to.Id, snapshot)
	}
	e.deliver(to, state.Message{From: src.Id, Table: snapshot})
	return nil
}
