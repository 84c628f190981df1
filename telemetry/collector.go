package telemetry

import "log/slog"

// Collector accumulates per-step records into fixed-size windows for
// periodic logging.
type Collector struct {
	windowSteps int

	// Current window tracking
	windowStart int
	steps       int

	// Event counters for current window
	births   int
	deaths   int
	consumed float64
	recycled float64
}

// WindowStats summarises a window of steps.
type WindowStats struct {
	WindowStart int `csv:"window_start"`
	WindowEnd   int `csv:"window_end"`

	// State at window end
	Population   int     `csv:"population"`
	Diversity    float64 `csv:"diversity"`
	MeanFitness  float64 `csv:"mean_fitness"`
	NutrientMass float64 `csv:"nutrient_mass"`

	// Totals over the window
	Births   int     `csv:"births"`
	Deaths   int     `csv:"deaths"`
	Consumed float64 `csv:"consumed"`
	Recycled float64 `csv:"recycled"`
}

// NewCollector creates a collector that flushes every windowSteps steps.
func NewCollector(windowSteps int) *Collector {
	if windowSteps < 1 {
		windowSteps = 1
	}
	return &Collector{windowSteps: windowSteps}
}

// Add folds one step into the current window.
func (c *Collector) Add(r StepRecord) {
	c.steps++
	c.births += r.Births
	c.deaths += r.Deaths
	c.consumed += r.Consumed
	c.recycled += r.Recycled
}

// ShouldFlush returns true once the window is full.
func (c *Collector) ShouldFlush() bool {
	return c.steps >= c.windowSteps
}

// Pending reports whether any steps are waiting to be flushed.
func (c *Collector) Pending() bool {
	return c.steps > 0
}

// Flush produces WindowStats ending at last and resets counters for the next window.
func (c *Collector) Flush(last StepRecord) WindowStats {
	stats := WindowStats{
		WindowStart:  c.windowStart,
		WindowEnd:    last.Iteration,
		Population:   last.Population,
		Diversity:    last.Diversity,
		MeanFitness:  last.MeanFitness,
		NutrientMass: last.NutrientMass,
		Births:       c.births,
		Deaths:       c.deaths,
		Consumed:     c.consumed,
		Recycled:     c.recycled,
	}

	// Reset for next window
	c.windowStart = stats.WindowEnd
	c.steps = 0
	c.births = 0
	c.deaths = 0
	c.consumed = 0
	c.recycled = 0

	return stats
}

// WindowSteps returns the number of steps per window.
func (c *Collector) WindowSteps() int {
	return c.windowSteps
}

// LogValue implements slog.LogValuer for structured logging.
func (w WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", w.WindowStart),
		slog.Int("window_end", w.WindowEnd),
		slog.Int("population", w.Population),
		slog.Float64("diversity", w.Diversity),
		slog.Float64("mean_fitness", w.MeanFitness),
		slog.Float64("nutrient_mass", w.NutrientMass),
		slog.Int("births", w.Births),
		slog.Int("deaths", w.Deaths),
		slog.Float64("consumed", w.Consumed),
		slog.Float64("recycled", w.Recycled),
	)
}

// LogStats logs the window using slog.
func (w WindowStats) LogStats() {
	slog.Info("window", "stats", w)
}
