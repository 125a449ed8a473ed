package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
)

var (
	compareReverse bool
	compareCfg     = state.DefaultSimCfg()
)

var compareCmd = &cobra.Command{
	Use:   "compare <file>",
	Short: "Runs a topology under every scheduling mode and send-back policy",
	Long: `Runs the topology once per combination of scheduling mode and send-back policy
and prints, as YAML, the number of events each run needed and whether the final tables
hold the shortest hop count to every reachable address.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, closeLog, err := newLogger(cmd, debug, logPath)
		if err != nil {
			return err
		}
		defer closeLog()

		top, err := state.LoadTopologyFile(args[0])
		if err != nil {
			return err
		}
		for _, skipped := range multierr.Errors(top.Skipped) {
			log.Warn("skipped line", "file", args[0], "err", skipped)
		}
		outcomes, err := core.Compare(top, core.Matrix(compareCfg, compareReverse))
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(outcomes)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
		return err
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().BoolVarP(&compareReverse, "reverse", "r", false, "also run round-robin with reversed pass order")
	addLimitFlags(compareCmd.Flags(), &compareCfg)
}
