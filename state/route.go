package state

import "fmt"

type NodeId string

// Address is a destination a node can own locally and advertise.
type Address string

// Local is the via value of routes to a node's own addresses.
const Local NodeId = "local"

type Route struct {
	Dest Address
	Via  NodeId // next hop neighbour, or Local
	Cost int    // hop count
}

func (r Route) IsLocal() bool {
	return r.Via == Local
}

// Validate checks that cost 0 is used exactly for local routes.
func (r Route) Validate() error {
	if r.Cost < 0 {
		return fmt.Errorf("route %s has negative cost %d", r, r.Cost)
	}
	if (r.Cost == 0) != r.IsLocal() {
		return fmt.Errorf("route %s: cost 0 must coincide with via %s", r, Local)
	}
	return nil
}

func (r Route) String() string {
	return fmt.Sprintf("(%s|%s|%d)", r.Dest, r.Via, r.Cost)
}
