package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.World.Width != 100 || cfg.World.Height != 100 {
		t.Errorf("expected 100x100 world, got %dx%d", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Environment.Temperature != 37 || cfg.Environment.PH != 7 {
		t.Errorf("unexpected environment defaults: %+v", cfg.Environment)
	}
	if cfg.Environment.Nutrients != 100 {
		t.Errorf("expected nutrients 100, got %v", cfg.Environment.Nutrients)
	}
	if cfg.Population.Initial != 10 {
		t.Errorf("expected initial population 10, got %d", cfg.Population.Initial)
	}
	if cfg.Population.MutationRate != 0.001 {
		t.Errorf("expected mutation rate 0.001, got %v", cfg.Population.MutationRate)
	}
	if cfg.Simulation.MaxIterations != 1000 {
		t.Errorf("expected 1000 max iterations, got %d", cfg.Simulation.MaxIterations)
	}
	if cfg.Environment.TemperaturePattern.Kind != PatternUniform {
		t.Errorf("expected uniform temperature pattern, got %q", cfg.Environment.TemperaturePattern.Kind)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "world:\n  width: 20\npopulation:\n  initial: 3\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 20 {
		t.Errorf("expected width 20, got %d", cfg.World.Width)
	}
	if cfg.World.Height != 100 {
		t.Errorf("expected default height 100 to survive overlay, got %d", cfg.World.Height)
	}
	if cfg.Population.Initial != 3 {
		t.Errorf("expected initial 3, got %d", cfg.Population.Initial)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.World.Width = 0 }, "world.width"},
		{"negative height", func(c *Config) { c.World.Height = -4 }, "world.height"},
		{"negative nutrients", func(c *Config) { c.Environment.Nutrients = -1 }, "environment.nutrients"},
		{"negative flow", func(c *Config) { c.Environment.FlowRate = -0.5 }, "environment.flow_rate"},
		{"nan temperature", func(c *Config) { c.Environment.Temperature = math.NaN() }, "environment.temperature"},
		{"inf direction", func(c *Config) { c.Environment.FlowDirection = math.Inf(1) }, "environment.flow_direction"},
		{"empty population", func(c *Config) { c.Population.Initial = 0 }, "population.initial"},
		{"mutation above one", func(c *Config) { c.Population.MutationRate = 1.5 }, "population.mutation_rate"},
		{"negative chemotaxis", func(c *Config) { c.Population.ChemotaxisStrength = -1 }, "population.chemotaxis_strength"},
		{"negative iterations", func(c *Config) { c.Simulation.MaxIterations = -1 }, "simulation.max_iterations"},
		{"unknown pattern", func(c *Config) { c.Environment.PHPattern.Kind = "spiral" }, "environment.ph_pattern"},
		{"negative spread", func(c *Config) { c.Environment.TemperaturePattern.Spread = -2 }, "environment.temperature_pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to name %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidateReportsAllFields(t *testing.T) {
	cfg := Default()
	cfg.World.Width = 0
	cfg.Population.Initial = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, field := range []string{"world.width", "population.initial"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in %v", field, err)
		}
	}
}

func TestApplyPatch(t *testing.T) {
	base := Default()
	rate := 0.25
	iters := 5

	out, err := base.Apply(Patch{MutationRate: &rate, MaxIterations: &iters})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Population.MutationRate != 0.25 || out.Simulation.MaxIterations != 5 {
		t.Errorf("patch not merged: %+v", out)
	}
	if base.Population.MutationRate != 0.001 {
		t.Error("Apply must not modify the receiver")
	}
	if out.World.Width != base.World.Width {
		t.Error("untouched fields should be preserved")
	}
}

func TestApplyPatchRejectsInvalid(t *testing.T) {
	base := Default()
	w := 0
	if _, err := base.Apply(Patch{Width: &w}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if base.World.Width != 100 {
		t.Error("failed Apply must leave the receiver unchanged")
	}
}

func TestPatchResizes(t *testing.T) {
	w := 5
	if (Patch{}).Resizes() {
		t.Error("empty patch should not resize")
	}
	if !(Patch{Width: &w}).Resizes() {
		t.Error("width patch should resize")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.Environment.FlowRate = 0.3
	cfg.Environment.TemperaturePattern = Pattern{Kind: PatternRadial, Spread: 4}
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, cfg)
	}
}

func TestLoadPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.yaml")
	data := "flow_rate: 0.5\ninitial_population: 7\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadPatch(path)
	if err != nil {
		t.Fatalf("LoadPatch: %v", err)
	}
	if p.FlowRate == nil || *p.FlowRate != 0.5 {
		t.Errorf("expected flow_rate 0.5, got %v", p.FlowRate)
	}
	if p.InitialPopulation == nil || *p.InitialPopulation != 7 {
		t.Errorf("expected initial_population 7, got %v", p.InitialPopulation)
	}
	if p.Width != nil {
		t.Error("absent fields should stay nil")
	}
}
