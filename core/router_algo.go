package core

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
)

// Merge folds a neighbour's advertised table into current and reports whether anything
// changed. Every advertised route costs one extra hop through via.
//
// A route is adopted when the destination is new or the path through via is strictly
// shorter. A route that already goes through via is corrected when the neighbour's cost
// dropped by more than one hop since we recorded it. A neighbour whose cost got worse is
// never followed: there is no retraction and no infinite metric, so a stale, optimistic
// entry stays until something shorter shows up.
func Merge(current, incoming *state.RoutingTable, via state.NodeId) bool {
	if via == state.Local {
		panic(fmt.Sprintf("cannot merge a table advertised by %s", state.Local))
	}
	changed := false
	for _, adv := range incoming.Routes() {
		if err := adv.Validate(); err != nil {
			panic(fmt.Sprintf("malformed route advertised by %s: %v", via, err))
		}
		cost := adv.Cost + 1
		existing, ok := current.Get(adv.Dest)
		switch {
		case !ok:
			// new destination
			current.Insert(state.Route{Dest: adv.Dest, Via: via, Cost: cost})
			changed = true
		case cost < existing.Cost:
			// shorter path, possibly through another neighbour
			current.Replace(state.Route{Dest: adv.Dest, Via: via, Cost: cost})
			changed = true
		case existing.Via == via && existing.Cost-adv.Cost > 1:
			// triggered update: the next hop improved by more than one hop
			current.Replace(state.Route{Dest: adv.Dest, Via: via, Cost: cost})
			changed = true
		}
	}
	return changed
}
