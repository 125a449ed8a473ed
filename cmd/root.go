package cmd

import (
	"log/slog"
	"os"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	debug   bool
	logPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dvsim",
	Short: "Distance-vector routing convergence simulator",
	Long: `dvsim simulates a hop-count distance-vector protocol over a declared topology.
It shows how routing tables converge depending on the order in which nodes process
advertisements and on whether updates are sent back to the neighbour that triggered them.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{
		ID:    "sim",
		Title: "Simulation Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "topo",
		Title: "Topology Commands",
	})
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every send and receive")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-path", "", "also append logs to this file")
}

func newLogger(cmd *cobra.Command, debug bool, logPath string) (*slog.Logger, func() error, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return core.NewLogger(cmd.ErrOrStderr(), level, logPath)
}

// addLimitFlags binds the run cutoffs of cfg to --max-sends and --max-passes.
func addLimitFlags(flags *pflag.FlagSet, cfg *state.SimCfg) {
	flags.IntVar(&cfg.MaxSends, "max-sends", state.DefaultMaxSends, "give up after this many send events, 0 for no limit")
	flags.IntVar(&cfg.MaxPasses, "max-passes", state.DefaultMaxPasses, "give up after this many round-robin passes, 0 for no limit")
}
