package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/sim"
	"github.com/pthm-cable/petri/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	patchPath := flag.String("patch", "", "Path to a YAML patch applied on top of the config")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Stop after N steps (0 = run to max_iterations)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and final snapshot")
	snapshotPath := flag.String("snapshot", "", "Write the final state as JSON to this path")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshots taken at bookmarks")
	logStats := flag.Bool("log-stats", false, "Log every step via slog")
	logEvery := flag.Int("log-every", 100, "Steps per summary window")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus metrics in textfile format to this path")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *patchPath != "" {
		patch, err := config.LoadPatch(*patchPath)
		if err != nil {
			slog.Error("failed to load patch", "error", err)
			os.Exit(1)
		}
		if cfg, err = cfg.Apply(patch); err != nil {
			slog.Error("failed to apply patch", "error", err)
			os.Exit(1)
		}
	}

	s, err := sim.New(cfg, sim.WithSeed(*seed), sim.WithLogger(logger), sim.WithPerfWindow(*logEvery))
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	var metrics *telemetry.Metrics
	if *metricsAddr != "" || *metricsFile != "" {
		metrics = telemetry.NewMetrics(s.RunID())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *metricsAddr != "" {
		srv := serveMetrics(*metricsAddr, metrics)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	r := &runner{
		sim:         s,
		out:         out,
		metrics:     metrics,
		metricsFile: *metricsFile,
		collector:   telemetry.NewCollector(*logEvery),
		bookmarks:   telemetry.NewBookmarkDetector(10),
		logStats:    *logStats,
		snapshotDir: *snapshotDir,
	}

	slog.Info("starting simulation",
		"run_id", s.RunID(),
		"seed", s.Seed(),
		"steps", *steps,
		"max_iterations", cfg.Simulation.MaxIterations,
	)

	err = r.run(ctx, *steps)
	if errors.Is(err, context.Canceled) {
		slog.Info("interrupted", "iteration", s.Iteration())
	} else if err != nil {
		slog.Error("run failed", "error", err)
	}

	if err := r.finish(*snapshotPath); err != nil {
		slog.Error("failed to write final output", "error", err)
		os.Exit(1)
	}

	slog.Info("simulation finished",
		"run_id", s.RunID(),
		"iteration", s.Iteration(),
		"population", s.Population(),
	)
}

func serveMetrics(addr string, metrics *telemetry.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	slog.Info("serving metrics", "addr", addr)
	return srv
}
