package sim

import (
	"log/slog"

	"github.com/pthm-cable/petri/systems"
)

// Option configures a Simulation.
type Option func(*Simulation)

// WithSeed seeds the random source. A zero seed is replaced by the current time.
func WithSeed(seed int64) Option {
	return func(s *Simulation) {
		s.seed = seed
	}
}

// WithRand injects a random source, overriding any seed.
func WithRand(rng systems.RNG) Option {
	return func(s *Simulation) {
		s.rng = rng
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulation) {
		s.logger = logger
	}
}

// WithPerfWindow sets the number of steps the step timer averages over.
func WithPerfWindow(steps int) Option {
	return func(s *Simulation) {
		s.perfWindow = steps
	}
}
