package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Patch is a partial configuration update. Nil fields are left unchanged.
type Patch struct {
	Width              *int     `yaml:"width"`
	Height             *int     `yaml:"height"`
	Temperature        *float64 `yaml:"temperature"`
	PH                 *float64 `yaml:"ph"`
	Nutrients          *float64 `yaml:"nutrients"`
	FlowRate           *float64 `yaml:"flow_rate"`
	FlowDirection      *float64 `yaml:"flow_direction"`
	TemperaturePattern *Pattern `yaml:"temperature_pattern"`
	PHPattern          *Pattern `yaml:"ph_pattern"`
	InitialPopulation  *int     `yaml:"initial_population"`
	GrowthRate         *float64 `yaml:"growth_rate"`
	MutationRate       *float64 `yaml:"mutation_rate"`
	ChemotaxisStrength *float64 `yaml:"chemotaxis_strength"`
	TimeStep           *float64 `yaml:"time_step"`
	MaxIterations      *int     `yaml:"max_iterations"`
}

// Resizes reports whether the patch touches the grid dimensions.
func (p Patch) Resizes() bool {
	return p.Width != nil || p.Height != nil
}

// Apply returns a validated copy of c with the patch merged in.
// The receiver is never modified.
func (c *Config) Apply(p Patch) (*Config, error) {
	out := c.Clone()

	set(&out.World.Width, p.Width)
	set(&out.World.Height, p.Height)
	set(&out.Environment.Temperature, p.Temperature)
	set(&out.Environment.PH, p.PH)
	set(&out.Environment.Nutrients, p.Nutrients)
	set(&out.Environment.FlowRate, p.FlowRate)
	set(&out.Environment.FlowDirection, p.FlowDirection)
	set(&out.Environment.TemperaturePattern, p.TemperaturePattern)
	set(&out.Environment.PHPattern, p.PHPattern)
	set(&out.Population.Initial, p.InitialPopulation)
	set(&out.Population.GrowthRate, p.GrowthRate)
	set(&out.Population.MutationRate, p.MutationRate)
	set(&out.Population.ChemotaxisStrength, p.ChemotaxisStrength)
	set(&out.Simulation.TimeStep, p.TimeStep)
	set(&out.Simulation.MaxIterations, p.MaxIterations)

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadPatch reads a partial update from a flat YAML file.
func LoadPatch(path string) (Patch, error) {
	var p Patch
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("reading patch file: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing patch file: %w", err)
	}
	return p, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
