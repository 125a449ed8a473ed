package state

import (
	"fmt"
	"strings"
)

// RoutingTable maps destinations to routes and iterates in insertion order.
// Routes are stored by value, so no two tables ever share a route.
type RoutingTable struct {
	order   []Address
	routes  map[Address]Route
	version uint64 // bumped on every change
}

func NewRoutingTable() *RoutingTable {
	return &RoutingTable{
		routes: make(map[Address]Route),
	}
}

func (t *RoutingTable) Len() int {
	return len(t.order)
}

func (t *RoutingTable) Get(dest Address) (Route, bool) {
	r, ok := t.routes[dest]
	return r, ok
}

// Insert adds a route for a destination that is not yet in the table.
// Inserting a duplicate destination or a malformed route is a programming error.
func (t *RoutingTable) Insert(r Route) {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	if _, ok := t.routes[r.Dest]; ok {
		panic(fmt.Sprintf("duplicate destination %s inserted into routing table", r.Dest))
	}
	t.order = append(t.order, r.Dest)
	t.routes[r.Dest] = r
	t.version++
}

// Replace overwrites the route for an existing destination, keeping its position.
func (t *RoutingTable) Replace(r Route) {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	if _, ok := t.routes[r.Dest]; !ok {
		panic(fmt.Sprintf("replacing missing destination %s", r.Dest))
	}
	t.routes[r.Dest] = r
	t.version++
}

// Version changes whenever a route is inserted or replaced.
func (t *RoutingTable) Version() uint64 {
	return t.version
}

// Routes returns a copy of the routes in iteration order.
func (t *RoutingTable) Routes() []Route {
	out := make([]Route, 0, len(t.order))
	for _, dest := range t.order {
		out = append(out, t.routes[dest])
	}
	return out
}

func (t *RoutingTable) Destinations() []Address {
	out := make([]Address, len(t.order))
	copy(out, t.order)
	return out
}

// Clone returns a deep copy of the table.
func (t *RoutingTable) Clone() *RoutingTable {
	c := &RoutingTable{
		order:   make([]Address, len(t.order)),
		routes:  make(map[Address]Route, len(t.routes)),
		version: t.version,
	}
	copy(c.order, t.order)
	for dest, r := range t.routes {
		c.routes[dest] = r
	}
	return c
}

// String renders the table dump used in the event stream: "(addr|via|cost) ...".
func (t *RoutingTable) String() string {
	sb := strings.Builder{}
	for i, dest := range t.order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.routes[dest].String())
	}
	return sb.String()
}
