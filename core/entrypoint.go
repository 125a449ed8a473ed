package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/encodeous/dvsim/state"
	"go.uber.org/multierr"
)

// Job is one topology file to simulate with its run configuration.
type Job struct {
	Path string
	Cfg  state.SimCfg
}

// Runner simulates topology files, writing the event stream to Out and diagnostics to Log.
type Runner struct {
	Out io.Writer
	Log *slog.Logger
}

// RunAll runs every job in order. A failing job is logged and does not stop the others.
// The returned error combines the failures.
func (r *Runner) RunAll(jobs []Job) error {
	var errs error
	for _, job := range jobs {
		if _, err := r.RunFile(job.Path, job.Cfg); err != nil {
			r.Log.Error("run failed", "file", job.Path, "err", err)
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// RunFile loads a topology file, simulates it and prints the events and final tables.
// Internal invariant violations surface as an error for this file only.
func (r *Runner) RunFile(path string, cfg state.SimCfg) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while simulating %s: %v", path, rec)
		}
	}()

	out := NewEventPrinter(r.Out)
	if cfg.Verbose {
		out.Run(path, cfg)
	}

	top, err := state.LoadTopologyFile(path)
	if err != nil {
		return res, err
	}
	for _, skipped := range multierr.Errors(top.Skipped) {
		r.Log.Warn("skipped line", "file", path, "err", skipped)
	}
	r.Log.Debug("loaded topology", "file", path, "nodes", len(top.Nodes), "links", len(top.Links()), "starts", len(top.Starts))
	if len(top.Starts) == 0 {
		r.Log.Warn("no start node, nothing will be sent", "file", path)
	}

	res, err = Simulate(top, cfg, out, LogObserver{Log: r.Log.With("file", path)})
	if err != nil && !errors.Is(err, state.ErrNoConvergence) {
		return res, err
	}
	for _, n := range top.Nodes {
		out.Table(n)
	}
	if cfg.Verbose {
		out.Sends(res.Sends)
	}
	if res.Pending > 0 {
		r.Log.Info("run stopped with queued messages", "file", path, "pending", res.Pending)
	}
	if werr := out.Err(); werr != nil {
		return res, werr
	}
	return res, err
}
