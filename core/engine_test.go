package core

import (
	"bytes"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_PairEventStream(t *testing.T) {
	top := mustParse(t, pairTopology)
	buf := &bytes.Buffer{}
	out := NewEventPrinter(buf)

	res, err := Simulate(top, simCfg(state.Immediate, true), out)
	require.NoError(t, err)
	for _, n := range top.Nodes {
		out.Table(n)
	}
	require.NoError(t, out.Err())

	expected := `send p1 p2 (1|local|0) (2|local|0)
receive p2 p1 (1|local|0) (2|local|0)
send p2 p1 (3|local|0) (4|local|0) (1|p1|1) (2|p1|1)
receive p1 p2 (3|local|0) (4|local|0) (1|p1|1) (2|p1|1)
send p1 p2 (1|local|0) (2|local|0) (3|p2|1) (4|p2|1)
receive p2 p1 (1|local|0) (2|local|0) (3|p2|1) (4|p2|1)
table p1 (1|local|0) (2|local|0) (3|p2|1) (4|p2|1)
table p2 (3|local|0) (4|local|0) (1|p1|1) (2|p1|1)
`
	assert.Equal(t, expected, buf.String())
	assert.Equal(t, 3, res.Sends)
	assert.Equal(t, 3, res.Receives)
}

func TestEngine_ImmediateIsDepthFirst(t *testing.T) {
	top := mustParse(t, cycleTopology)
	h := &RouterHarness{}
	_, err := Simulate(top, simCfg(state.Immediate, true), h)
	require.NoError(t, err)

	actions := h.GetActions()
	assert.Equal(t, 16, actions.Count("SEND"))
	assert.Equal(t, 16, actions.Count("RECEIVE"))
	assert.Empty(t, h.GetActions())
	// p1's first send is handled by p2, which floods before p1 reaches p3
	expected := `SEND p1 p2
RECEIVE p2 p1
SEND p2 p1
RECEIVE p1 p2
SEND p1 p2`
	assert.Equal(t, expected, actions[:5].String())
	// every send is received right away
	for i := 0; i < len(actions); i += 2 {
		assert.Equal(t, "SEND", actions[i].Message)
		assert.Equal(t, "RECEIVE", actions[i+1].Message)
		assert.Equal(t, actions[i].Args[0], actions[i+1].Args[1])
		assert.Equal(t, actions[i].Args[1], actions[i+1].Args[0])
		assert.Equal(t, actions[i].Args[2], actions[i+1].Args[2])
	}
}

// p4 hangs off p3 only. Without send-back it never answers, so its address stays unknown.
func TestEngine_LeafNeverAdvertises(t *testing.T) {
	for _, mode := range []state.Mode{state.Immediate, state.RoundRobin} {
		t.Run(mode.String(), func(t *testing.T) {
			top := mustLoad(t, "../testdata/diamond.txt")
			require.Equal(t, []state.NodeId{"p4"}, top.Leaves())
			h := &RouterHarness{}
			res, err := Simulate(top, simCfg(mode, false), h)
			require.NoError(t, err)

			actions := h.GetActions()
			actions.AssertContains(t, "RECEIVE", state.NodeId("p4"), state.NodeId("p3"))
			actions.AssertNotContains(t, "SEND", state.NodeId("p4"))
			for _, id := range []state.NodeId{"p1", "p2", "p3"} {
				_, ok := res.Table(id).Get("5")
				assert.False(t, ok, "%s learned about 5", id)
			}
		})
	}
}

func TestEngine_NoSendBack(t *testing.T) {
	top := mustParse(t, pairTopology)
	h := &RouterHarness{}
	res, err := Simulate(top, simCfg(state.Immediate, false), h)
	require.NoError(t, err)

	assert.Equal(t, "SEND p1 p2\nRECEIVE p2 p1", h.GetActions().String())
	assert.Equal(t, 1, res.Sends)
	// p2 learned from p1 and never answers, so p1 never hears of 3 and 4
	assert.Equal(t, "(1|local|0) (2|local|0)", res.Table("p1").String())
	assert.Equal(t, "(3|local|0) (4|local|0) (1|p1|1) (2|p1|1)", res.Table("p2").String())
}

type snapshotRecorder struct {
	tables []*state.RoutingTable
	dumps  []string
}

func (s *snapshotRecorder) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	s.tables = append(s.tables, tbl)
	s.dumps = append(s.dumps, tbl.String())
}

func (s *snapshotRecorder) Receive(to, from state.NodeId, tbl *state.RoutingTable) {}

func TestEngine_SentTablesAreSnapshots(t *testing.T) {
	top := mustLoad(t, "../testdata/diamond.txt")
	rec := &snapshotRecorder{}
	_, err := Simulate(top, simCfg(state.Immediate, true), rec)
	require.NoError(t, err)

	require.Len(t, rec.tables, 28)
	for i, tbl := range rec.tables {
		assert.Equal(t, rec.dumps[i], tbl.String(), "send %d changed after it was sent", i)
	}
	for _, n := range top.Nodes {
		for _, tbl := range rec.tables {
			assert.NotSame(t, n.Table, tbl)
		}
	}
}

func TestEngine_CountsEveryObservedEvent(t *testing.T) {
	top := mustLoad(t, "../testdata/diamond.txt")
	h := &RouterHarness{}
	s, err := NewScheduler(top, simCfg(state.RoundRobin, true), h)
	require.NoError(t, err)

	res, err := s.Run()
	require.NoError(t, err)
	actions := h.GetActions()
	assert.Equal(t, Counter{Sends: actions.Count("SEND"), Receives: actions.Count("RECEIVE")}, s.Engine().Counter())
	assert.Equal(t, Counter{Sends: res.Sends, Receives: res.Receives}, s.Engine().Counter())
}

func TestEngine_RoundRobinQueues(t *testing.T) {
	top := mustParse(t, pairTopology)
	e := NewEngine(top, simCfg(state.RoundRobin, true))

	require.NoError(t, e.Start("p1"))
	assert.Equal(t, 1, top.Node("p2").Pending())
	assert.Equal(t, Counter{Sends: 1}, e.Counter())

	changed, err := e.ProcessOne("p2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 0, top.Node("p2").Pending())
	assert.Equal(t, 1, top.Node("p1").Pending())
	assert.Equal(t, Counter{Sends: 2, Receives: 1}, e.Counter())
}

func TestEngine_ProcessOneEmptyInbox(t *testing.T) {
	top := mustParse(t, pairTopology)
	e := NewEngine(top, simCfg(state.RoundRobin, true))

	changed, err := e.ProcessOne("p1")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, Counter{}, e.Counter())
}

func TestEngine_Receive(t *testing.T) {
	top := mustParse(t, pairTopology)
	e := NewEngine(top, simCfg(state.Immediate, false))

	err := e.Receive("p1", state.Message{From: "p2", Table: top.Node("p2").CopyTable()})
	require.NoError(t, err)
	assert.Equal(t, "(1|local|0) (2|local|0) (3|p2|1) (4|p2|1)", top.Node("p1").Table.String())
	// the only neighbour is the one it learned from
	assert.Equal(t, Counter{Receives: 1}, e.Counter())
}

func TestEngine_UnknownNode(t *testing.T) {
	top := mustParse(t, pairTopology)
	e := NewEngine(top, simCfg(state.Immediate, true))

	assert.ErrorIs(t, e.Start("p9"), state.ErrUnknownNode)
	_, err := e.ProcessOne("p9")
	assert.ErrorIs(t, err, state.ErrUnknownNode)
	assert.ErrorIs(t, e.Receive("p9", state.Message{From: "p1", Table: state.NewRoutingTable()}), state.ErrUnknownNode)
}

func TestEngine_RejectsNonNeighbour(t *testing.T) {
	top := mustLoad(t, "../testdata/diamond.txt")
	e := NewEngine(top, simCfg(state.Immediate, true))

	// p1 and p4 are not linked
	assert.Panics(t, func() {
		_ = e.Receive("p4", state.Message{From: "p1", Table: top.Node("p1").CopyTable()})
	})
}

func TestEngine_MaxSends(t *testing.T) {
	top := mustParse(t, cycleTopology)
	cfg := simCfg(state.Immediate, true)
	cfg.MaxSends = 5

	res, err := Simulate(top, cfg)
	assert.ErrorIs(t, err, state.ErrNoConvergence)
	assert.Equal(t, 5, res.Sends)
	assert.Len(t, res.Tables, 3)
}

func TestEngine_CostsNeverGrow(t *testing.T) {
	top := mustLoad(t, "../testdata/diamond.txt")
	seen := make(map[state.NodeId]map[state.Address]int)
	check := &costWatcher{top: top, seen: seen, t: t}
	_, err := Simulate(top, simCfg(state.RoundRobin, true), check)
	require.NoError(t, err)
	assert.NotZero(t, check.checks)
}

// costWatcher checks, at every event, that no node's cost to a destination went up and
// that no destination was forgotten.
type costWatcher struct {
	t      *testing.T
	top    *state.Topology
	seen   map[state.NodeId]map[state.Address]int
	checks int
}

func (c *costWatcher) observe() {
	for _, n := range c.top.Nodes {
		prev, ok := c.seen[n.Id]
		if !ok {
			prev = make(map[state.Address]int)
			c.seen[n.Id] = prev
		}
		for addr, cost := range prev {
			r, ok := n.Table.Get(addr)
			if assert.True(c.t, ok, "%s forgot %s", n.Id, addr) {
				assert.LessOrEqual(c.t, r.Cost, cost)
			}
		}
		for _, r := range n.Table.Routes() {
			prev[r.Dest] = r.Cost
		}
	}
	c.checks++
}

func (c *costWatcher) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	c.observe()
}

func (c *costWatcher) Receive(to, from state.NodeId, tbl *state.RoutingTable) {
	c.observe()
}
