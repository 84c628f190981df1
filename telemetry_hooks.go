package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/petri/sim"
	"github.com/pthm-cable/petri/telemetry"
)

// runner drives a simulation and routes its telemetry to logs, files and metrics.
type runner struct {
	sim         *sim.Simulation
	out         *telemetry.OutputManager
	metrics     *telemetry.Metrics
	metricsFile string
	collector   *telemetry.Collector
	bookmarks   *telemetry.BookmarkDetector
	logStats    bool
	snapshotDir string
}

// run steps until the simulation is done, maxSteps steps have run
// (0 = no limit) or ctx is cancelled.
func (r *runner) run(ctx context.Context, maxSteps int) error {
	for n := 0; maxSteps == 0 || n < maxSteps; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !r.sim.Step() {
			return nil
		}
		r.afterStep()
	}
	return nil
}

// afterStep records the latest step and flushes the window when full.
func (r *runner) afterStep() {
	rec := r.sim.LastRecord()

	if r.logStats {
		rec.LogStats()
	}
	if err := r.out.WriteStep(rec); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	r.metrics.Observe(rec)

	r.collector.Add(rec)
	if r.collector.ShouldFlush() {
		r.flushWindow(rec)
	}
}

// flushWindow summarises the window, then checks it for bookmarks.
func (r *runner) flushWindow(last telemetry.StepRecord) {
	stats := r.collector.Flush(last)
	perfStats := r.sim.Perf()

	stats.LogStats()
	if r.logStats {
		perfStats.LogStats()
	}

	if err := r.out.WriteWindow(stats); err != nil {
		slog.Error("failed to write window", "error", err)
	}
	if err := r.out.WritePerf(perfStats, stats.WindowEnd); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	if err := r.writeMetricsFile(); err != nil {
		slog.Error("failed to write metrics", "error", err)
	}

	for _, bm := range r.bookmarks.Check(stats) {
		bm.LogBookmark()
		if err := r.out.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if r.snapshotDir != "" {
			r.saveSnapshot(bm)
		}
	}
}

// saveSnapshot writes the current state named after a bookmark.
func (r *runner) saveSnapshot(bm telemetry.Bookmark) {
	name := fmt.Sprintf("%s_%06d_%s.json", r.sim.RunID(), bm.Iteration, bm.Type)
	path := filepath.Join(r.snapshotDir, name)
	if err := telemetry.SaveSnapshot(r.sim.State(), path); err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "iteration", bm.Iteration)
}

// finish flushes a partial window and writes the final state.
func (r *runner) finish(snapshotPath string) error {
	if r.collector.Pending() {
		r.flushWindow(r.sim.LastRecord())
	}

	if r.out == nil && snapshotPath == "" {
		return r.writeMetricsFile()
	}

	state := r.sim.State()
	if err := r.out.WriteSnapshot(state); err != nil {
		return err
	}
	if snapshotPath != "" {
		if err := telemetry.SaveSnapshot(state, snapshotPath); err != nil {
			return err
		}
		slog.Info("snapshot saved", "path", snapshotPath, "iteration", state.Iteration)
	}
	return r.writeMetricsFile()
}

func (r *runner) writeMetricsFile() error {
	if r.metricsFile == "" {
		return nil
	}
	if err := r.metrics.WriteTextfile(r.metricsFile); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
