package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petri/components"
)

// Series holds the per-step time series. The three slices always have
// equal length, one entry per executed step.
type Series struct {
	Population  []int     `json:"population"`
	Diversity   []float64 `json:"diversity"`
	MeanFitness []float64 `json:"mean_fitness"`
}

// Sample is one step's worth of statistics.
type Sample struct {
	Population  int
	Diversity   float64
	MeanFitness float64
}

// Record appends one sample to every series.
func (s *Series) Record(smp Sample) {
	s.Population = append(s.Population, smp.Population)
	s.Diversity = append(s.Diversity, smp.Diversity)
	s.MeanFitness = append(s.MeanFitness, smp.MeanFitness)
}

// Len returns the number of recorded steps.
func (s *Series) Len() int {
	return len(s.Population)
}

// Last returns the most recent sample, or false if nothing was recorded.
func (s *Series) Last() (Sample, bool) {
	n := s.Len()
	if n == 0 {
		return Sample{}, false
	}
	return Sample{
		Population:  s.Population[n-1],
		Diversity:   s.Diversity[n-1],
		MeanFitness: s.MeanFitness[n-1],
	}, true
}

// Reset clears all series.
func (s *Series) Reset() {
	s.Population = s.Population[:0]
	s.Diversity = s.Diversity[:0]
	s.MeanFitness = s.MeanFitness[:0]
}

// Clone returns an independent copy.
func (s *Series) Clone() Series {
	return Series{
		Population:  append([]int(nil), s.Population...),
		Diversity:   append([]float64(nil), s.Diversity...),
		MeanFitness: append([]float64(nil), s.MeanFitness...),
	}
}

// Rows returns the series as one Sample per step.
func (s *Series) Rows() []Sample {
	rows := make([]Sample, s.Len())
	for i := range rows {
		rows[i] = Sample{
			Population:  s.Population[i],
			Diversity:   s.Diversity[i],
			MeanFitness: s.MeanFitness[i],
		}
	}
	return rows
}

// Measure computes a Sample from the current population.
// fitness[i] must belong to the organism carrying genes[i].
func Measure(genes []components.Genes, fitness []float64) Sample {
	return Sample{
		Population:  len(genes),
		Diversity:   Diversity(genes),
		MeanFitness: MeanFitness(fitness),
	}
}

// Diversity is the root of the mean per-gene population variance.
// Returns 0 for populations of one or fewer.
func Diversity(genes []components.Genes) float64 {
	n := len(genes)
	if n <= 1 {
		return 0
	}

	values := make([]float64, n)
	var total float64
	for _, k := range components.AllGenes {
		for i := range genes {
			values[i] = genes[i].Get(k)
		}
		_, variance := stat.PopMeanVariance(values, nil)
		total += variance
	}
	return math.Sqrt(total / components.NumGenes)
}

// MeanFitness averages fitness values; 0 for an empty population.
func MeanFitness(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// FieldSummary describes the spread of a grid.
type FieldSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// Summarize computes min, max, mean and median of values.
// Returns zeros for an empty slice.
func Summarize(values []float64) FieldSummary {
	n := len(values)
	if n == 0 {
		return FieldSummary{}
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return FieldSummary{
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Mean:   floats.Sum(values) / float64(n),
		Median: Percentile(sorted, 0.5),
	}
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats returns mean, p10, p50, p90 of the given values.
// Returns zeros for an empty slice.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(values, nil)
	p10 = Percentile(sorted, 0.1)
	p50 = Percentile(sorted, 0.5)
	p90 = Percentile(sorted, 0.9)
	return mean, p10, p50, p90
}

// StepRecord is one row of the per-step telemetry log.
// Iteration counts completed steps, including the one recorded.
type StepRecord struct {
	Iteration   int     `csv:"iteration"`
	Population  int     `csv:"population"`
	Diversity   float64 `csv:"diversity"`
	MeanFitness float64 `csv:"mean_fitness"`

	// Energy distribution after the step
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Events during the step
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`

	// Nutrient flows (for mass balance checks)
	Consumed     float64 `csv:"consumed"`
	Recycled     float64 `csv:"recycled"`
	Replenished  float64 `csv:"replenished"`
	NutrientMass float64 `csv:"nutrient_mass"`
}

// LogValue implements slog.LogValuer for structured logging.
func (r StepRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("iteration", r.Iteration),
		slog.Int("population", r.Population),
		slog.Float64("diversity", r.Diversity),
		slog.Float64("mean_fitness", r.MeanFitness),
		slog.Float64("energy_mean", r.EnergyMean),
		slog.Float64("energy_p50", r.EnergyP50),
		slog.Int("births", r.Births),
		slog.Int("deaths", r.Deaths),
		slog.Float64("consumed", r.Consumed),
		slog.Float64("recycled", r.Recycled),
		slog.Float64("replenished", r.Replenished),
		slog.Float64("nutrient_mass", r.NutrientMass),
	)
}

// LogStats logs the record using slog.
func (r StepRecord) LogStats() {
	slog.Info("stats", "step", r)
}
