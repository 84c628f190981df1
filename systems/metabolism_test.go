package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/petri/components"
)

func TestMetabolizeFeeds(t *testing.T) {
	env := testEnv(3, 3, 0.5)
	genes := testGenes() // efficiency 0.75, threshold 15
	v := components.Vitals{Energy: 10, Generation: 1}

	out := Metabolize(&v, &genes, components.Position{X: 1.4, Y: 2.9}, env)

	if math.Abs(out.Consumed-0.5) > 1e-12 {
		t.Errorf("consumed %v, want 0.5 (cell limited)", out.Consumed)
	}
	if env.Nutrient.At(1, 2) != 0 {
		t.Errorf("cell not drained: %v", env.Nutrient.At(1, 2))
	}
	if math.Abs(v.Energy-(10+0.5-MetabolicUpkeep)) > 1e-12 {
		t.Errorf("energy = %v, want %v", v.Energy, 10+0.5-MetabolicUpkeep)
	}
	if v.Age != 1 {
		t.Errorf("age = %d, want 1", v.Age)
	}
	if out.Reproduced || out.Died {
		t.Errorf("unexpected outcome %+v", out)
	}
}

func TestMetabolizeReproductionSplit(t *testing.T) {
	env := testEnv(3, 3, 10)
	genes := testGenes()
	genes.ReproductionThreshold = 12
	v := components.Vitals{Energy: 11.5}

	out := Metabolize(&v, &genes, components.Position{}, env)

	if !out.Reproduced {
		t.Fatal("expected reproduction at 12.25 >= 12")
	}
	pre := 11.5 + 0.75
	if math.Abs(out.ChildEnergy-pre/2) > 1e-12 {
		t.Errorf("child energy %v, want %v", out.ChildEnergy, pre/2)
	}
	if math.Abs(v.Energy-(pre/2-MetabolicUpkeep)) > 1e-12 {
		t.Errorf("parent energy %v, want %v", v.Energy, pre/2-MetabolicUpkeep)
	}
}

func TestMetabolizeDeathRecycles(t *testing.T) {
	env := testEnv(3, 3, 0)
	genes := testGenes()
	v := components.Vitals{Energy: 0.1}

	out := Metabolize(&v, &genes, components.Position{X: 2, Y: 0}, env)

	if !out.Died {
		t.Fatal("expected death")
	}
	if out.Recycled != DeathRecycle || env.Nutrient.At(2, 0) != DeathRecycle {
		t.Errorf("recycled %v, cell %v, want %v", out.Recycled, env.Nutrient.At(2, 0), DeathRecycle)
	}
}

func TestStarvingDividerDiesOnFifthStep(t *testing.T) {
	env := testEnv(4, 4, 100)
	genes := testGenes()
	genes.MetabolicEfficiency = 0
	genes.ReproductionThreshold = 0
	v := components.Vitals{Energy: InitialEnergy, Generation: 1}

	// 10 -> 4.8 -> 2.2 -> 0.9 -> 0.25 -> -0.075
	steps := 0
	for {
		steps++
		out := Metabolize(&v, &genes, components.Position{X: 1, Y: 1}, env)
		if !out.Reproduced {
			t.Fatalf("step %d: expected division every surviving step", steps)
		}
		if out.Consumed != 0 {
			t.Fatalf("step %d: consumed %v with zero efficiency", steps, out.Consumed)
		}
		if out.Died {
			break
		}
		if steps > 100 {
			t.Fatal("organism never died")
		}
	}
	if steps != 5 {
		t.Errorf("died after %d steps, want 5", steps)
	}
}

func TestOffspring(t *testing.T) {
	parentGenes := testGenes()
	parent := components.Vitals{ID: 3, Energy: 6, Age: 9, Generation: 4}
	rng := &scriptedRNG{floats: []float64{0.0, 0.99}}

	pos, genes, v := Offspring(components.Position{X: 5, Y: 5}, parentGenes, parent, 6, 17, 0, 10, 10, rng)

	if math.Abs(pos.X-4.5) > 1e-12 || math.Abs(pos.Y-(5+0.99-0.5)) > 1e-12 {
		t.Errorf("unexpected position %+v", pos)
	}
	if genes != parentGenes {
		t.Errorf("genes changed without mutation: %+v", genes)
	}
	if v.ID != 17 || v.Energy != 6 || v.Age != 0 || v.Generation != 5 {
		t.Errorf("unexpected vitals %+v", v)
	}
}

func TestOffspringClampedAtBirth(t *testing.T) {
	rng := &scriptedRNG{floats: []float64{0.0, 0.0}}
	pos, _, _ := Offspring(components.Position{X: 0.2, Y: 0}, testGenes(), components.Vitals{}, 1, 1, 0, 10, 10, rng)
	if pos.X != 0 || pos.Y != 0 {
		t.Errorf("newborn escaped the grid: %+v", pos)
	}
}

func TestMutate(t *testing.T) {
	genes := testGenes()

	// First draw 0.0 < rate, Intn picks MetabolicEfficiency, factor draw 1.0 -> 1+0.1.
	rng := &scriptedRNG{floats: []float64{0.0, 1.0}, ints: []int{int(components.MetabolicEfficiency)}}
	key, ok := Mutate(&genes, 0.5, rng)
	if !ok || key != components.MetabolicEfficiency {
		t.Fatalf("Mutate = (%v, %v), want MetabolicEfficiency", key, ok)
	}
	if math.Abs(genes.MetabolicEfficiency-0.75*1.1) > 1e-12 {
		t.Errorf("efficiency = %v, want %v", genes.MetabolicEfficiency, 0.75*1.1)
	}
}

func TestMutateRateZeroNeverMutates(t *testing.T) {
	rng := NewRNG(5)
	for i := 0; i < 1000; i++ {
		genes := testGenes()
		if _, ok := Mutate(&genes, 0, rng); ok {
			t.Fatal("mutation with rate 0")
		}
	}
}

func TestMutateBoundedRelative(t *testing.T) {
	orig := testGenes()
	orig.ChemotaxisSensitivity = 1
	rng := NewRNG(9)
	for i := 0; i < 1000; i++ {
		genes := orig
		key, ok := Mutate(&genes, 1, rng)
		if !ok {
			t.Fatal("rate 1 must always mutate")
		}
		ratio := genes.Get(key) / orig.Get(key)
		if ratio < 0.9-1e-12 || ratio >= 1.1 {
			t.Fatalf("gene %v ratio %v outside [0.9,1.1)", key, ratio)
		}
	}
}

func TestFounders(t *testing.T) {
	cfg := testConfig(30, 20)
	cfg.Population.ChemotaxisStrength = 2
	rng := NewRNG(21)

	for i := 0; i < 200; i++ {
		g := FounderGenes(cfg, rng)
		if g.OptimalTemperature != cfg.Environment.Temperature || g.OptimalPH != cfg.Environment.PH {
			t.Fatalf("founder optima %+v do not match environment", g)
		}
		if g.MetabolicEfficiency < 0.5 || g.MetabolicEfficiency >= 1 {
			t.Fatalf("efficiency %v out of range", g.MetabolicEfficiency)
		}
		if g.ReproductionThreshold < 10 || g.ReproductionThreshold >= 20 {
			t.Fatalf("threshold %v out of range", g.ReproductionThreshold)
		}
		if g.ChemotaxisSensitivity < 1 || g.ChemotaxisSensitivity >= 3 {
			t.Fatalf("chemotaxis %v out of range", g.ChemotaxisSensitivity)
		}

		p := FounderPosition(30, 20, rng)
		if p.X != math.Floor(p.X) || p.X < 0 || p.X > 29 || p.Y < 0 || p.Y > 19 {
			t.Fatalf("founder position %+v invalid", p)
		}
	}
}
