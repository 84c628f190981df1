package sim

import (
	"io"
	"log/slog"
	"testing"

	"github.com/pthm-cable/petri/config"
)

// constRNG returns the same value from every draw. With 0.5 the random walk
// and birth jitter are zero and mutation never fires for rates below 0.5.
type constRNG float64

func (c constRNG) Float64() float64 { return float64(c) }
func (constRNG) Intn(int) int       { return 0 }
func (constRNG) Int63() int64       { return 0 }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallConfig(w, h, initial int) *config.Config {
	cfg := config.Default()
	cfg.World.Width = w
	cfg.World.Height = h
	cfg.Population.Initial = initial
	cfg.Simulation.MaxIterations = 1000
	return cfg
}

func newSim(t *testing.T, cfg *config.Config, opts ...Option) *Simulation {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	s, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
