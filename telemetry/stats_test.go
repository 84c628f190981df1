package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeEnergyStats(t *testing.T) {
	values := []float64{10, 2, 3, 4, 5, 6, 7, 8, 9, 1}
	mean, p10, p50, p90 := ComputeEnergyStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if math.Abs(p10-1.9) > 0.001 {
		t.Errorf("p10 = %v, want 1.9", p10)
	}
	if math.Abs(p50-5.5) > 0.001 {
		t.Errorf("p50 = %v, want 5.5", p50)
	}
	if math.Abs(p90-9.1) > 0.001 {
		t.Errorf("p90 = %v, want 9.1", p90)
	}
	if values[0] != 10 {
		t.Error("input slice was reordered")
	}
}

func TestComputeEnergyStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeEnergyStats([]float64{})

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func genesWith(temp, ph, eff, thr, chem float64) components.Genes {
	return components.Genes{
		OptimalTemperature:    temp,
		OptimalPH:             ph,
		MetabolicEfficiency:   eff,
		ReproductionThreshold: thr,
		ChemotaxisSensitivity: chem,
	}
}

func TestDiversity(t *testing.T) {
	a := genesWith(37, 7, 0.5, 10, 0)
	b := genesWith(39, 7, 0.5, 10, 0)

	tests := []struct {
		name  string
		genes []components.Genes
		want  float64
	}{
		{"empty", nil, 0},
		{"single", []components.Genes{a}, 0},
		{"identical", []components.Genes{a, a, a}, 0},
		// Temperature variance is 1, every other gene 0: sqrt(1/5).
		{"one gene differs", []components.Genes{a, b}, math.Sqrt(0.2)},
		// Every gene has variance 1.
		{"all genes differ", []components.Genes{
			genesWith(0, 0, 0, 0, 0),
			genesWith(2, 2, 2, 2, 2),
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diversity(tt.genes)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Diversity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanFitness(t *testing.T) {
	if got := MeanFitness(nil); got != 0 {
		t.Errorf("MeanFitness(nil) = %v, want 0", got)
	}
	if got := MeanFitness([]float64{0.2, 0.4, 0.9}); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("MeanFitness = %v, want 0.5", got)
	}
}

func TestMeasure(t *testing.T) {
	g := genesWith(37, 7, 0.5, 10, 0)
	s := Measure([]components.Genes{g, g}, []float64{0.6, 0.8})
	if s.Population != 2 || s.Diversity != 0 || math.Abs(s.MeanFitness-0.7) > 1e-9 {
		t.Errorf("Measure = %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]float64{4, 1, 3, 2})
	want := FieldSummary{Min: 1, Max: 4, Mean: 2.5, Median: 2.5}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
	if (Summarize(nil) != FieldSummary{}) {
		t.Error("empty summary should be zero")
	}
}

func TestSeries(t *testing.T) {
	var s Series
	if _, ok := s.Last(); ok {
		t.Error("Last on empty series should report false")
	}

	s.Record(Sample{Population: 10, Diversity: 0.1, MeanFitness: 0.9})
	s.Record(Sample{Population: 12, Diversity: 0.2, MeanFitness: 0.8})

	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	last, ok := s.Last()
	if !ok || last.Population != 12 {
		t.Errorf("Last = %+v, %v", last, ok)
	}

	rows := s.Rows()
	if len(rows) != 2 || rows[0].Population != 10 || rows[1].MeanFitness != 0.8 {
		t.Errorf("Rows = %+v", rows)
	}

	c := s.Clone()
	c.Population[0] = 99
	if s.Population[0] != 10 {
		t.Error("Clone shares memory with the original")
	}

	s.Reset()
	if s.Len() != 0 || len(s.Diversity) != 0 || len(s.MeanFitness) != 0 {
		t.Error("Reset left entries behind")
	}
	if c.Len() != 2 {
		t.Error("Reset affected the clone")
	}
}
