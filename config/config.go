// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all simulation configuration parameters.
type Config struct {
	World       WorldConfig       `yaml:"world" json:"world"`
	Environment EnvironmentConfig `yaml:"environment" json:"environment"`
	Population  PopulationConfig  `yaml:"population" json:"population"`
	Simulation  SimulationConfig  `yaml:"simulation" json:"simulation"`
}

// WorldConfig holds grid dimensions in cells.
type WorldConfig struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// EnvironmentConfig holds the initial state of the three scalar fields and
// the uniform advection applied to every organism.
type EnvironmentConfig struct {
	Temperature        float64 `yaml:"temperature" json:"temperature"`                 // degrees Celsius
	PH                 float64 `yaml:"ph" json:"ph"`                                   // not clamped to [0,14]
	Nutrients          float64 `yaml:"nutrients" json:"nutrients"`                     // initial nutrient per cell
	FlowRate           float64 `yaml:"flow_rate" json:"flow_rate"`                     // cells per step
	FlowDirection      float64 `yaml:"flow_direction" json:"flow_direction"`           // radians
	TemperaturePattern Pattern `yaml:"temperature_pattern" json:"temperature_pattern"` // spatial layout of the temperature field
	PHPattern          Pattern `yaml:"ph_pattern" json:"ph_pattern"`                   // spatial layout of the pH field
}

// Pattern describes how a static field is laid out around its configured value.
// Values span [center-Spread, center+Spread] for every kind except uniform.
type Pattern struct {
	Kind   string  `yaml:"kind" json:"kind"`
	Spread float64 `yaml:"spread" json:"spread"`
}

// Pattern kinds.
const (
	PatternUniform    = "uniform"
	PatternHorizontal = "horizontal"
	PatternVertical   = "vertical"
	PatternRadial     = "radial"
	PatternRandom     = "random"
	PatternPerlin     = "perlin"
	PatternSimplex    = "simplex"
)

// PopulationConfig holds founder and inheritance parameters.
type PopulationConfig struct {
	Initial            int     `yaml:"initial" json:"initial"`
	GrowthRate         float64 `yaml:"growth_rate" json:"growth_rate"` // reserved, no effect on stepping
	MutationRate       float64 `yaml:"mutation_rate" json:"mutation_rate"`
	ChemotaxisStrength float64 `yaml:"chemotaxis_strength" json:"chemotaxis_strength"`
}

// SimulationConfig holds run control parameters.
type SimulationConfig struct {
	TimeStep      float64 `yaml:"time_step" json:"time_step"` // reserved, no effect on stepping
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Validate reports every malformed field. The returned error wraps ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.World.Width <= 0 {
		bad("world.width must be positive, got %d", c.World.Width)
	}
	if c.World.Height <= 0 {
		bad("world.height must be positive, got %d", c.World.Height)
	}

	finite := map[string]float64{
		"environment.temperature":                c.Environment.Temperature,
		"environment.ph":                         c.Environment.PH,
		"environment.nutrients":                  c.Environment.Nutrients,
		"environment.flow_rate":                  c.Environment.FlowRate,
		"environment.flow_direction":             c.Environment.FlowDirection,
		"environment.temperature_pattern.spread": c.Environment.TemperaturePattern.Spread,
		"environment.ph_pattern.spread":          c.Environment.PHPattern.Spread,
		"population.growth_rate":                 c.Population.GrowthRate,
		"population.mutation_rate":               c.Population.MutationRate,
		"population.chemotaxis_strength":         c.Population.ChemotaxisStrength,
		"simulation.time_step":                   c.Simulation.TimeStep,
	}
	for _, name := range slices.Sorted(maps.Keys(finite)) {
		if v := finite[name]; math.IsNaN(v) || math.IsInf(v, 0) {
			bad("%s must be finite, got %v", name, v)
		}
	}

	if c.Environment.Nutrients < 0 {
		bad("environment.nutrients must be >= 0, got %v", c.Environment.Nutrients)
	}
	if c.Environment.FlowRate < 0 {
		bad("environment.flow_rate must be >= 0, got %v", c.Environment.FlowRate)
	}
	if err := c.Environment.TemperaturePattern.validate("environment.temperature_pattern"); err != nil {
		errs = append(errs, err)
	}
	if err := c.Environment.PHPattern.validate("environment.ph_pattern"); err != nil {
		errs = append(errs, err)
	}

	if c.Population.Initial < 1 {
		bad("population.initial must be >= 1, got %d", c.Population.Initial)
	}
	if c.Population.MutationRate < 0 || c.Population.MutationRate > 1 {
		bad("population.mutation_rate must be in [0,1], got %v", c.Population.MutationRate)
	}
	if c.Population.ChemotaxisStrength < 0 {
		bad("population.chemotaxis_strength must be >= 0, got %v", c.Population.ChemotaxisStrength)
	}

	if c.Simulation.MaxIterations < 0 {
		bad("simulation.max_iterations must be >= 0, got %d", c.Simulation.MaxIterations)
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

func (p Pattern) validate(name string) error {
	switch p.Kind {
	case "", PatternUniform, PatternHorizontal, PatternVertical, PatternRadial, PatternRandom, PatternPerlin, PatternSimplex:
	default:
		return fmt.Errorf("%s.kind %q is not a known pattern", name, p.Kind)
	}
	if p.Spread < 0 {
		return fmt.Errorf("%s.spread must be >= 0, got %v", name, p.Spread)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
