// Package sim runs the bacterial evolution engine: a population of organisms
// moving, feeding and dividing on a nutrient grid, one discrete step at a time.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
)

// StepReport counts what happened during the most recent step.
type StepReport struct {
	Births      int     `json:"births"`
	Deaths      int     `json:"deaths"`
	Consumed    float64 `json:"consumed"`
	Recycled    float64 `json:"recycled"`
	Replenished float64 `json:"replenished"`
}

// Simulation owns the configuration, environment, population and statistics
// of one run. It is not safe for concurrent use.
type Simulation struct {
	cfg    *config.Config
	env    *systems.Environment
	rng    systems.RNG
	seed   int64
	logger *slog.Logger

	// ECS
	world     *ecs.World
	organisms *ecs.Map3[components.Position, components.Genes, components.Vitals]
	order     []ecs.Entity // insertion order, oldest first

	stats      telemetry.Series
	lastReport StepReport
	lastRecord telemetry.StepRecord

	perf       *telemetry.PerfCollector
	perfWindow int

	runID     string
	iteration int
	nextID    uint64
	extinct   bool
}

// New validates cfg and builds a simulation with a freshly seeded population.
// The configuration is copied; later changes to cfg have no effect.
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{cfg: cfg.Clone()}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.rng != nil {
		s.seed = 0
	} else {
		if s.seed == 0 {
			s.seed = time.Now().UnixNano()
		}
		s.rng = systems.NewRNG(s.seed)
	}
	s.perf = telemetry.NewPerfCollector(s.perfWindow)

	s.Reset()
	return s, nil
}

// Reset discards the population and statistics, rebuilds the environment from
// the current configuration and spawns a new founder population. The random
// source continues its sequence.
func (s *Simulation) Reset() {
	s.world = ecs.NewWorld()
	s.organisms = ecs.NewMap3[components.Position, components.Genes, components.Vitals](s.world)
	s.order = s.order[:0]

	s.env = systems.NewEnvironment(s.cfg, s.rng)
	s.stats.Reset()
	s.lastReport = StepReport{}
	s.lastRecord = telemetry.StepRecord{}
	s.perf.Reset()

	s.runID = uuid.NewString()
	s.iteration = 0
	s.nextID = 0
	s.extinct = false

	s.spawnFounders()

	s.logger.Info("simulation reset",
		"run_id", s.runID,
		"width", s.cfg.World.Width,
		"height", s.cfg.World.Height,
		"population", len(s.order),
		"max_iterations", s.cfg.Simulation.MaxIterations,
	)
}

// Step advances the simulation by one iteration. It returns false without
// doing anything once the configured iteration limit has been reached.
func (s *Simulation) Step() bool {
	if s.iteration >= s.cfg.Simulation.MaxIterations {
		return false
	}

	var report StepReport

	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhaseMovement)
	s.moveOrganisms()

	s.perf.StartPhase(telemetry.PhaseMetabolism)
	s.metabolizeAndReproduce(&report)

	s.perf.StartPhase(telemetry.PhaseEnvironment)
	report.Replenished = s.env.ReplenishAndDiffuse()

	s.perf.StartPhase(telemetry.PhaseStatistics)
	s.iteration++
	s.lastReport = report
	s.recordStatistics()

	s.perf.EndStep()

	if len(s.order) == 0 && !s.extinct {
		s.extinct = true
		s.logger.Info("population extinct", "run_id", s.runID, "iteration", s.iteration)
	}

	return true
}

// Run steps until the iteration limit and returns a copy of the statistics.
func (s *Simulation) Run() telemetry.Series {
	for s.Step() {
	}
	return s.stats.Clone()
}

// RunContext steps until the iteration limit or until ctx is done. If every
// is positive, fn receives a State after every such number of steps and once
// more at the end if the last step was not already reported.
// Cancellation is only observed between steps.
func (s *Simulation) RunContext(ctx context.Context, every int, fn func(State)) error {
	reported := s.iteration
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Step() {
			break
		}
		if fn != nil && every > 0 && s.iteration%every == 0 {
			fn(s.State())
			reported = s.iteration
		}
	}
	if fn != nil && every > 0 && reported != s.iteration {
		fn(s.State())
	}
	return nil
}

// UpdateConfig merges p into the configuration. The merged configuration is
// validated first; on error the previous configuration stays in force.
// Changes take effect on the next Step, except for the grid dimensions,
// which only apply at the next Reset.
func (s *Simulation) UpdateConfig(p config.Patch) error {
	merged, err := s.cfg.Apply(p)
	if err != nil {
		return fmt.Errorf("update config: %w", err)
	}

	if w, h := s.env.Dims(); p.Resizes() && (merged.World.Width != w || merged.World.Height != h) {
		s.logger.Warn("grid dimensions changed; live grid keeps its size until reset",
			"live_width", w,
			"live_height", h,
			"width", merged.World.Width,
			"height", merged.World.Height,
		)
	}

	s.cfg = merged
	s.logger.Info("config updated", "run_id", s.runID, "iteration", s.iteration)
	return nil
}

// Iteration returns the number of completed steps.
func (s *Simulation) Iteration() int {
	return s.iteration
}

// Population returns the number of living organisms.
func (s *Simulation) Population() int {
	return len(s.order)
}

// Done reports whether the iteration limit has been reached.
func (s *Simulation) Done() bool {
	return s.iteration >= s.cfg.Simulation.MaxIterations
}

// LastReport returns the event counts of the most recent step.
func (s *Simulation) LastReport() StepReport {
	return s.lastReport
}

// LastRecord returns the telemetry row of the most recent step.
func (s *Simulation) LastRecord() telemetry.StepRecord {
	return s.lastRecord
}

// Statistics returns a copy of the recorded series.
func (s *Simulation) Statistics() telemetry.Series {
	return s.stats.Clone()
}

// Config returns a copy of the configuration in force.
func (s *Simulation) Config() *config.Config {
	return s.cfg.Clone()
}

// RunID identifies the current run; it changes on every Reset.
func (s *Simulation) RunID() string {
	return s.runID
}

// Seed returns the seed the random source was built from, or 0 when the
// source was injected.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Perf returns step timing statistics over the recent window.
func (s *Simulation) Perf() telemetry.PerfStats {
	return s.perf.Stats()
}
