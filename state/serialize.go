package state

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

type NodeCfg struct {
	Id     NodeId    `yaml:"id"`
	Locals []Address `yaml:"locals,omitempty"`
}

// TopologyCfg is the YAML form of a topology description.
type TopologyCfg struct {
	Nodes []NodeCfg  `yaml:"nodes"`
	Links [][]NodeId `yaml:"links,omitempty"`
	Start []NodeId   `yaml:"start,omitempty"`
}

// Config returns the declarations the topology was built from.
func (t *Topology) Config() TopologyCfg {
	cfg := TopologyCfg{}
	for _, n := range t.Nodes {
		cfg.Nodes = append(cfg.Nodes, NodeCfg{Id: n.Id, Locals: append([]Address(nil), n.Locals...)})
	}
	for _, l := range t.links {
		cfg.Links = append(cfg.Links, []NodeId{l.A, l.B})
	}
	cfg.Start = append(cfg.Start, t.Starts...)
	return cfg
}

// BuildTopology applies the same rules as ParseTopology to a decoded YAML description.
// Line numbers in the returned errors are the 1-based position of the item within its list.
func BuildTopology(cfg TopologyCfg) (*Topology, error) {
	t := NewTopology()
	for i, n := range cfg.Nodes {
		if _, err := t.AddNode(n.Id, n.Locals...); err != nil {
			t.skip(i+1, nodeStatement(n), err)
		}
	}
	for i, l := range cfg.Links {
		text := "link " + joinIds(l)
		if len(l) != 2 {
			t.skip(i+1, text, fmt.Errorf("%w: link needs exactly two nodes", ErrMalformedLine))
			continue
		}
		_, err := t.Connect(l[0], l[1])
		if errors.Is(err, ErrUnknownNode) {
			return nil, &LineError{Line: i + 1, Text: text, Err: err}
		} else if err != nil {
			t.skip(i+1, text, err)
		}
	}
	for i, id := range cfg.Start {
		if err := t.AddStart(id); err != nil {
			return nil, &LineError{Line: i + 1, Text: "send " + string(id), Err: err}
		}
	}
	return t, nil
}

func nodeStatement(n NodeCfg) string {
	sb := strings.Builder{}
	sb.WriteString("node ")
	sb.WriteString(string(n.Id))
	for _, addr := range n.Locals {
		sb.WriteString(" ")
		sb.WriteString(string(addr))
	}
	return sb.String()
}

func joinIds(ids []NodeId) string {
	s := make([]string, 0, len(ids))
	for _, id := range ids {
		s = append(s, string(id))
	}
	return strings.Join(s, " ")
}

func IsYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadTopologyFile reads a topology description from disk. Files ending in .yaml or .yml
// are decoded as TopologyCfg, everything else is parsed as the line format.
func LoadTopologyFile(path string) (*Topology, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTopologyUnreadable, err)
	}
	if IsYAMLPath(path) {
		var cfg TopologyCfg
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrTopologyUnreadable, path, err)
		}
		return BuildTopology(cfg)
	}
	return ParseTopology(bytes.NewReader(file))
}
