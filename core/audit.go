package core

import (
	"maps"
	"math"
	"slices"

	"github.com/encodeous/dvsim/state"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Unreachable marks a missing route or a destination with no path.
const Unreachable = -1

// Discrepancy is a route whose cost differs from the shortest hop count.
type Discrepancy struct {
	Node state.NodeId  `yaml:"node"`
	Dest state.Address `yaml:"dest"`
	Want int           `yaml:"want"`
	Got  int           `yaml:"got"`
}

// ShortestCosts computes, for every node, the hop count to every reachable address.
// Each link weighs 1, so the shortest path is the one a converged distance-vector
// protocol should settle on.
func ShortestCosts(top *state.Topology) map[state.NodeId]map[state.Address]int {
	g := simple.NewUndirectedGraph()
	ids := make(map[state.NodeId]int64, len(top.Nodes))
	for i, n := range top.Nodes {
		ids[n.Id] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, l := range top.Links() {
		g.SetEdge(g.NewEdge(simple.Node(ids[l.A]), simple.Node(ids[l.B])))
	}

	owners := top.Owners()
	costs := make(map[state.NodeId]map[state.Address]int, len(top.Nodes))
	for _, n := range top.Nodes {
		tree := path.DijkstraFrom(g.Node(ids[n.Id]), g)
		nc := make(map[state.Address]int)
		for addr, owns := range owners {
			best := math.Inf(1)
			for _, o := range owns {
				best = math.Min(best, tree.WeightTo(ids[o]))
			}
			if !math.IsInf(best, 1) {
				nc[addr] = int(best)
			}
		}
		costs[n.Id] = nc
	}
	return costs
}

// Audit compares the current tables of a topology against the shortest hop counts.
// Results are ordered by node declaration, then address.
func Audit(top *state.Topology) []Discrepancy {
	want := ShortestCosts(top)
	out := make([]Discrepancy, 0)
	for _, n := range top.Nodes {
		nw := want[n.Id]
		for _, addr := range slices.Sorted(maps.Keys(nw)) {
			d := Discrepancy{Node: n.Id, Dest: addr, Want: nw[addr], Got: Unreachable}
			if r, ok := n.Table.Get(addr); ok {
				d.Got = r.Cost
			}
			if d.Got != d.Want {
				out = append(out, d)
			}
		}
	}
	return out
}
