package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

type inspectReport struct {
	Topology state.TopologyCfg `yaml:"topology"`
	Leaves   []state.NodeId    `yaml:"leaves,omitempty"`
	Skipped  []string          `yaml:"skipped,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:     "inspect <file>",
	Aliases: []string{"i"},
	Short:   "Prints a topology file as YAML",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		top, err := state.LoadTopologyFile(args[0])
		if err != nil {
			return err
		}
		report := inspectReport{
			Topology: top.Config(),
			Leaves:   top.Leaves(),
		}
		for _, skipped := range multierr.Errors(top.Skipped) {
			report.Skipped = append(report.Skipped, skipped.Error())
		}
		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
		return err
	},
	GroupID: "topo",
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
