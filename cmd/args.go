package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/encodeous/dvsim/core"
	"github.com/encodeous/dvsim/state"
)

var errHelp = errors.New("help requested")

type runPlan struct {
	Jobs    []core.Job
	Debug   bool
	LogPath string
}

// parseRunArgs walks the arguments in order. Each short flag changes the configuration of
// every file listed after it, so "a -t b" runs a in Immediate mode and b in RoundRobin mode.
func parseRunArgs(args []string) (runPlan, error) {
	plan := runPlan{}
	cfg := state.DefaultSimCfg()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			return plan, errHelp
		case arg == "--debug":
			plan.Debug = true
		case arg == "--log-path":
			if i+1 >= len(args) {
				return plan, fmt.Errorf("--log-path needs a value")
			}
			i++
			plan.LogPath = args[i]
		case strings.HasPrefix(arg, "--log-path="):
			plan.LogPath = strings.TrimPrefix(arg, "--log-path=")
		case isLimitFlag(arg):
			name, value, ok := strings.Cut(arg, "=")
			if !ok {
				if i+1 >= len(args) {
					return plan, fmt.Errorf("%s needs a value", name)
				}
				i++
				value = args[i]
			}
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return plan, fmt.Errorf("%s: %q is not a non-negative number", name, value)
			}
			if name == "--max-sends" {
				cfg.MaxSends = n
			} else {
				cfg.MaxPasses = n
			}
		case strings.HasPrefix(arg, "--"):
			return plan, fmt.Errorf("unknown flag %s", arg)
		case len(arg) > 1 && arg[0] == '-':
			for _, f := range arg[1:] {
				switch f {
				case 't':
					cfg.Mode = state.RoundRobin
				case 's':
					cfg.SendBack = false
				case 'v':
					cfg.Verbose = true
				case 'r':
					cfg.ReversePasses = true
				default:
					return plan, fmt.Errorf("unknown flag -%c in %s", f, arg)
				}
			}
		default:
			plan.Jobs = append(plan.Jobs, core.Job{Path: arg, Cfg: cfg})
		}
	}
	return plan, nil
}

func isLimitFlag(arg string) bool {
	name, _, _ := strings.Cut(arg, "=")
	return name == "--max-sends" || name == "--max-passes"
}
