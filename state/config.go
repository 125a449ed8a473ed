package state

import (
	"fmt"
	"strings"
)

type Mode int

const (
	// Immediate processes every message as soon as it is received, depth first.
	Immediate Mode = iota
	// RoundRobin lets each node process at most one message per pass.
	RoundRobin
)

func (m Mode) String() string {
	switch m {
	case Immediate:
		return "immediate"
	case RoundRobin:
		return "round-robin"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "immediate":
		*m = Immediate
	case "round-robin", "roundrobin", "rr":
		*m = RoundRobin
	default:
		return fmt.Errorf("unknown scheduling mode %q", text)
	}
	return nil
}

// SimCfg is the configuration of a single simulation run. It is passed by value and never
// modified once a run starts.
type SimCfg struct {
	Mode          Mode `yaml:"mode"`
	SendBack      bool `yaml:"send_back"`
	Verbose       bool `yaml:"verbose,omitempty"`
	ReversePasses bool `yaml:"reverse_passes,omitempty"` // round-robin passes visit nodes in reverse declaration order
	MaxSends      int  `yaml:"max_sends,omitempty"`      // 0 disables the cutoff
	MaxPasses     int  `yaml:"max_passes,omitempty"`     // 0 disables the cutoff
}

func DefaultSimCfg() SimCfg {
	return SimCfg{
		Mode:      Immediate,
		SendBack:  true,
		MaxSends:  DefaultMaxSends,
		MaxPasses: DefaultMaxPasses,
	}
}

func (c SimCfg) Validate() error {
	if c.Mode != Immediate && c.Mode != RoundRobin {
		return fmt.Errorf("invalid scheduling mode %s", c.Mode)
	}
	if c.MaxSends < 0 {
		return fmt.Errorf("max sends must not be negative, got %d", c.MaxSends)
	}
	if c.MaxPasses < 0 {
		return fmt.Errorf("max passes must not be negative, got %d", c.MaxPasses)
	}
	return nil
}

// Describe renders the run configuration echoed in verbose output.
func (c SimCfg) Describe() string {
	sendBack := "on"
	if !c.SendBack {
		sendBack = "off"
	}
	desc := fmt.Sprintf("mode=%s send-back=%s", c.Mode, sendBack)
	if c.ReversePasses {
		desc += " passes=reverse"
	}
	return desc
}
