package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/encodeous/dvsim/state"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type HarnessEvent struct {
	Message string
	Args    []any
}

func MakeEvent(msg string, args ...any) HarnessEvent {
	return HarnessEvent{
		Message: msg,
		Args:    args,
	}
}

// RouterHarness records every event of a run, in order.
type RouterHarness struct {
	actions []HarnessEvent
}

func (h *RouterHarness) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	h.actions = append(h.actions, MakeEvent("SEND", from, to, tbl.String()))
}

func (h *RouterHarness) Receive(to, from state.NodeId, tbl *state.RoutingTable) {
	h.actions = append(h.actions, MakeEvent("RECEIVE", to, from, tbl.String()))
}

type HarnessEvents []HarnessEvent

func (h HarnessEvents) String() string {
	out := make([]string, 0)
	for _, action := range h {
		cur := action.Message
		for _, arg := range action.Args[:2] {
			cur += " " + fmt.Sprint(arg)
		}
		out = append(out, cur)
	}
	return strings.Join(out, "\n")
}

func (h *RouterHarness) GetActions() HarnessEvents {
	x := h.actions
	h.actions = make([]HarnessEvent, 0)
	return x
}

func (e HarnessEvents) Count(msg string) int {
	n := 0
	for _, event := range e {
		if event.Message == msg {
			n++
		}
	}
	return n
}

func (e HarnessEvents) contains(msg string, args ...any) bool {
	for _, event := range e {
		if event.Message != msg || len(event.Args) < len(args) {
			continue
		}
		match := true
		for i, arg := range args {
			if !cmp.Equal(event.Args[i], arg) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (e HarnessEvents) AssertContains(t *testing.T, msg string, args ...any) {
	if e.contains(msg, args...) {
		return
	}
	t.Fatal("Expected event not found: ", msg, " with args: ", args, " in ", e)
}

func (e HarnessEvents) AssertNotContains(t *testing.T, msg string, args ...any) {
	if !e.contains(msg, args...) {
		return
	}
	t.Fatal("Unexpected event found: ", msg, " with args: ", args, " in ", e)
}

func mustParse(t *testing.T, input string) *state.Topology {
	t.Helper()
	top, err := state.ParseTopology(strings.NewReader(input))
	require.NoError(t, err)
	require.NoError(t, top.Skipped)
	return top
}

func mustLoad(t *testing.T, path string) *state.Topology {
	t.Helper()
	top, err := state.LoadTopologyFile(path)
	require.NoError(t, err)
	require.NoError(t, top.Skipped)
	return top
}

func simCfg(mode state.Mode, sendBack bool) state.SimCfg {
	cfg := state.DefaultSimCfg()
	cfg.Mode = mode
	cfg.SendBack = sendBack
	return cfg
}

const pairTopology = `node p1 1 2
node p2 3 4
link p1 p2
send p1`

const cycleTopology = `node p1 1 2
node p2 3 4
node p3 5
link p1 p2
link p2 p3
link p3 p1
send p1`
