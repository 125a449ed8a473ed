package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var (
	newOutput string
	newForce  bool
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <shape> <nodes>",
	Short: "Generates a topology file",
	Long: `Generates a topology of the given shape and size, written as YAML.
Node pi owns address i and p1 starts the simulation.

Shapes: ` + strings.Join(state.Shapes, ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid node count %q: %w", args[1], err)
		}
		top, err := state.Generate(args[0], n)
		if err != nil {
			return err
		}
		cfg, err := yaml.Marshal(top.Config())
		if err != nil {
			return err
		}

		if newOutput == "" {
			_, err = cmd.OutOrStdout().Write(cfg)
			return err
		}
		if !state.IsYAMLPath(newOutput) {
			return fmt.Errorf("%s: generated topologies are YAML, use a .yaml or .yml file", newOutput)
		}
		if _, err := os.Stat(newOutput); err == nil && !newForce {
			return fmt.Errorf("%s already exists, use --force to overwrite it", newOutput)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		return os.WriteFile(newOutput, cfg, 0600)
	},
	GroupID: "topo",
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringVarP(&newOutput, "output", "o", "", "write the topology to this file instead of stdout")
	newCmd.Flags().BoolVarP(&newForce, "force", "f", false, "overwrite an existing output file")
}
