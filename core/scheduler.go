package core

import (
	"errors"
	"fmt"
	"slices"

	"github.com/encodeous/dvsim/state"
)

// NodeTable is the final routing table of one node.
type NodeTable struct {
	Id    state.NodeId
	Table *state.RoutingTable
}

type Result struct {
	Sends    int
	Receives int
	Passes   int // round-robin passes, including the final one without changes
	Pending  int // messages still queued when the run stopped
	Tables   []NodeTable
}

// Table returns the final table of a node, or nil.
func (r Result) Table(id state.NodeId) *state.RoutingTable {
	for _, nt := range r.Tables {
		if nt.Id == id {
			return nt.Table
		}
	}
	return nil
}

// Scheduler drives one simulation of a topology to convergence.
type Scheduler struct {
	top    *state.Topology
	cfg    state.SimCfg
	engine *Engine
	ran    bool
}

func NewScheduler(top *state.Topology, cfg state.SimCfg, obs ...Observer) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		top:    top,
		cfg:    cfg,
		engine: NewEngine(top, cfg, obs...),
	}, nil
}

func (s *Scheduler) Engine() *Engine {
	return s.engine
}

// Run starts every start node in order, then, in RoundRobin mode, makes passes over the
// nodes until a pass in which no table changed. A Scheduler can only run once.
func (s *Scheduler) Run() (Result, error) {
	if s.ran {
		return Result{}, errors.New("scheduler has already run")
	}
	s.ran = true

	res := Result{}
	var err error
	for _, id := range s.top.Starts {
		if err = s.engine.Start(id); err != nil {
			break
		}
	}
	if err == nil && s.cfg.Mode == state.RoundRobin {
		res.Passes, err = s.passes()
	}

	for _, n := range s.top.Nodes {
		if cerr := n.CheckTable(); cerr != nil {
			panic(cerr)
		}
		res.Pending += n.Pending()
		res.Tables = append(res.Tables, NodeTable{Id: n.Id, Table: n.CopyTable()})
	}
	c := s.engine.Counter()
	res.Sends = c.Sends
	res.Receives = c.Receives
	return res, err
}

func (s *Scheduler) passes() (int, error) {
	order := slices.Clone(s.top.Nodes)
	if s.cfg.ReversePasses {
		slices.Reverse(order)
	}
	passes := 0
	for {
		if s.cfg.MaxPasses > 0 && passes >= s.cfg.MaxPasses {
			return passes, fmt.Errorf("%w: more than %d passes", state.ErrNoConvergence, s.cfg.MaxPasses)
		}
		passes++
		changed := false
		for _, n := range order {
			c, err := s.engine.ProcessOne(n.Id)
			if err != nil {
				return passes, err
			}
			changed = changed || c
		}
		if !changed {
			return passes, nil
		}
	}
}

// Simulate runs a topology once with the given configuration.
func Simulate(top *state.Topology, cfg state.SimCfg, obs ...Observer) (Result, error) {
	s, err := NewScheduler(top, cfg, obs...)
	if err != nil {
		return Result{}, err
	}
	return s.Run()
}
