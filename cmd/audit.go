package cmd

import (
	"fmt"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
)

var auditCfg = state.DefaultSimCfg()

var auditCmd = &cobra.Command{
	Use:   "audit <file>",
	Short: "Lists routes that did not converge to the shortest hop count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		roundRobin, _ := cmd.Flags().GetBool("round-robin")
		noSendBack, _ := cmd.Flags().GetBool("no-send-back")
		cfg := auditCfg
		if roundRobin {
			cfg.Mode = state.RoundRobin
		}
		cfg.SendBack = !noSendBack

		top, err := state.LoadTopologyFile(args[0])
		if err != nil {
			return err
		}
		res, err := core.Simulate(top, cfg)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %d sends, %d pending\n", cfg.Describe(), res.Sends, res.Pending)
		for _, d := range core.Audit(top) {
			got := "missing"
			if d.Got != core.Unreachable {
				got = fmt.Sprint(d.Got)
			}
			fmt.Fprintf(w, "%s -> %s: want %d, got %s\n", d.Node, d.Dest, d.Want, got)
		}
		return nil
	},
	GroupID: "sim",
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().BoolP("round-robin", "t", false, "round-robin scheduling")
	auditCmd.Flags().BoolP("no-send-back", "s", false, "disable send-back")
	auditCmd.Flags().BoolVarP(&auditCfg.ReversePasses, "reverse", "r", false, "reverse round-robin pass order")
	addLimitFlags(auditCmd.Flags(), &auditCfg)
}
