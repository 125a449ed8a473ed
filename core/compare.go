package core

import (
	"github.com/encodeous/dvsim/state"
)

// Outcome summarises one run of a comparison.
type Outcome struct {
	Mode          state.Mode    `yaml:"mode"`
	SendBack      bool          `yaml:"send_back"`
	ReversePasses bool          `yaml:"reverse_passes"`
	Sends         int           `yaml:"sends"`
	Receives      int           `yaml:"receives"`
	Passes        int           `yaml:"passes"`
	Pending       int           `yaml:"pending"`
	Optimal       bool          `yaml:"optimal"`
	Discrepancies []Discrepancy `yaml:"discrepancies,omitempty"`
	Error         string        `yaml:"error,omitempty"`
}

// Matrix lists every combination of scheduling mode and send-back policy. With reverse,
// round-robin runs are repeated with reversed pass order.
func Matrix(base state.SimCfg, reverse bool) []state.SimCfg {
	cfgs := make([]state.SimCfg, 0, 6)
	for _, mode := range []state.Mode{state.Immediate, state.RoundRobin} {
		for _, sendBack := range []bool{true, false} {
			cfg := base
			cfg.Mode = mode
			cfg.SendBack = sendBack
			cfg.ReversePasses = false
			cfgs = append(cfgs, cfg)
			if reverse && mode == state.RoundRobin {
				cfg.ReversePasses = true
				cfgs = append(cfgs, cfg)
			}
		}
	}
	return cfgs
}

// Compare runs a fresh copy of the topology under each configuration.
func Compare(top *state.Topology, cfgs []state.SimCfg) ([]Outcome, error) {
	out := make([]Outcome, 0, len(cfgs))
	for _, cfg := range cfgs {
		run := top.Clone()
		res, err := Simulate(run, cfg)
		o := Outcome{
			Mode:          cfg.Mode,
			SendBack:      cfg.SendBack,
			ReversePasses: cfg.ReversePasses,
			Sends:         res.Sends,
			Receives:      res.Receives,
			Passes:        res.Passes,
			Pending:       res.Pending,
		}
		if err != nil {
			if res.Tables == nil {
				return nil, err
			}
			o.Error = err.Error()
		}
		o.Discrepancies = Audit(run)
		o.Optimal = len(o.Discrepancies) == 0
		out = append(out, o)
	}
	return out, nil
}
