package cmd

import (
	"errors"

	"github.com/encodeous/dvsim/core"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [-t] [-s] [-v] [-r] [--max-sends n] [--max-passes n] file... ",
	Short: "Simulate topology files",
	Long: `Simulates each topology file in turn and prints every send and receive event,
followed by the final table of each node.

Flags apply to every file listed after them:
  -t  round-robin scheduling: each node processes one queued table per pass
  -s  do not send updated tables back to the neighbour they came from
  -v  echo the run configuration and the number of send events
  -r  round-robin passes visit nodes in reverse declaration order
  --max-sends <n>   give up after n send events (0 for no limit)
  --max-passes <n>  give up after n round-robin passes (0 for no limit)

A file that cannot be read or parsed is reported and skipped.`,
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := parseRunArgs(args)
		if errors.Is(err, errHelp) || err == nil && len(plan.Jobs) == 0 {
			return cmd.Help()
		}
		if err != nil {
			return err
		}
		log, closeLog, err := newLogger(cmd, plan.Debug || debug, firstNonEmpty(plan.LogPath, logPath))
		if err != nil {
			return err
		}
		defer closeLog()

		r := &core.Runner{Out: cmd.OutOrStdout(), Log: log}
		// per-file failures are logged by the runner and do not change the exit status
		_ = r.RunAll(plan.Jobs)
		return nil
	},
	GroupID: "sim",
}

func firstNonEmpty(s ...string) string {
	for _, v := range s {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(runCmd)
}
