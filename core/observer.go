package core

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/encodeous/dvsim/state"
)

// Observer is notified of every message exchanged during a run. Implementations must not
// modify the tables they are handed.
type Observer interface {
	Send(from, to state.NodeId, tbl *state.RoutingTable)
	Receive(to, from state.NodeId, tbl *state.RoutingTable)
}

// Counter tallies send and receive events.
type Counter struct {
	Sends    int
	Receives int
}

func (c *Counter) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	c.Sends++
}

func (c *Counter) Receive(to, from state.NodeId, tbl *state.RoutingTable) {
	c.Receives++
}

// EventPrinter writes the human-readable event stream.
type EventPrinter struct {
	w   io.Writer
	err error
}

func NewEventPrinter(w io.Writer) *EventPrinter {
	return &EventPrinter{w: w}
}

func (p *EventPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func dump(tbl *state.RoutingTable) string {
	if tbl.Len() == 0 {
		return ""
	}
	return " " + tbl.String()
}

func (p *EventPrinter) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	p.printf("send %s %s%s\n", from, to, dump(tbl))
}

func (p *EventPrinter) Receive(to, from state.NodeId, tbl *state.RoutingTable) {
	p.printf("receive %s %s%s\n", to, from, dump(tbl))
}

// Table prints the final table of a node.
func (p *EventPrinter) Table(n *state.Node) {
	p.printf("table %s%s\n", n.Id, dump(n.Table))
}

// Run echoes the configuration of a run, before it starts.
func (p *EventPrinter) Run(path string, cfg state.SimCfg) {
	p.printf("run %s %s\n", path, cfg.Describe())
}

// Sends prints the send event total of a finished run.
func (p *EventPrinter) Sends(n int) {
	p.printf("sends %d\n", n)
}

// Err returns the first write error, after which nothing more is written.
func (p *EventPrinter) Err() error {
	return p.err
}

// LogObserver mirrors events to a logger at debug level.
type LogObserver struct {
	Log *slog.Logger
}

func (l LogObserver) Send(from, to state.NodeId, tbl *state.RoutingTable) {
	l.Log.Debug("send", "from", from, "to", to, "routes", tbl.Len())
}

func (l LogObserver) Receive(to, from state.NodeId, tbl *state.RoutingTable) {
	l.Log.Debug("receive", "to", to, "from", from, "routes", tbl.Len())
}
