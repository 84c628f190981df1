package systems

import (
	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

// scriptedRNG replays fixed draws; Float64 and Intn cycle independently.
type scriptedRNG struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func (r *scriptedRNG) Int63() int64 { return 42 }

func testConfig(w, h int) *config.Config {
	cfg := config.Default()
	cfg.World.Width = w
	cfg.World.Height = h
	return cfg
}

func testEnv(w, h int, nutrient float64) *Environment {
	cfg := testConfig(w, h)
	cfg.Environment.Nutrients = nutrient
	return NewEnvironment(cfg, NewRNG(1))
}

func testGenes() components.Genes {
	return components.Genes{
		OptimalTemperature:    37,
		OptimalPH:             7,
		MetabolicEfficiency:   0.75,
		ReproductionThreshold: 15,
		ChemotaxisSensitivity: 0,
	}
}
