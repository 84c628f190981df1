package systems

import (
	"math"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
)

// Lifecycle constants.
const (
	InitialEnergy    = 10.0 // founder energy
	MetabolicUpkeep  = 0.2  // energy burned every step
	DeathRecycle     = 2.0  // nutrient returned to the cell on death
	ReproductionCost = 0.5  // fraction of energy the parent keeps after dividing
	BirthJitter      = 0.5  // offspring offset is uniform in [-BirthJitter, BirthJitter)
	MutationScale    = 0.1  // relative perturbation bound for a mutated gene
)

// Founder gene ranges.
const (
	founderEfficiencyMin = 0.5
	founderEfficiencyMax = 1.0
	founderThresholdMin  = 10.0
	founderThresholdMax  = 20.0
	founderChemotaxisMin = 0.5
	founderChemotaxisMax = 1.5
)

// Outcome reports what happened to one organism during metabolism.
type Outcome struct {
	Consumed    float64 // nutrient taken from the cell
	Reproduced  bool
	ChildEnergy float64 // energy handed to the offspring, if any
	Died        bool
	Recycled    float64 // nutrient returned to the cell on death
}

// Metabolize runs one step of feeding, ageing, division and upkeep for a
// single organism, mutating its vitals and the nutrient cell under it.
// An organism can divide and die in the same step.
func Metabolize(v *components.Vitals, genes *components.Genes, pos components.Position, env *Environment) Outcome {
	var out Outcome
	cx, cy := pos.Cell()

	out.Consumed = env.Consume(cx, cy, genes.MetabolicEfficiency)
	v.Energy += out.Consumed
	v.Age++

	if v.Energy >= genes.ReproductionThreshold {
		out.Reproduced = true
		out.ChildEnergy = v.Energy * ReproductionCost
		v.Energy *= ReproductionCost
	}

	v.Energy -= MetabolicUpkeep

	if v.Energy <= 0 {
		out.Died = true
		out.Recycled = DeathRecycle
		env.Deposit(cx, cy, DeathRecycle)
	}

	return out
}

// Offspring builds a child next to its parent. The child inherits the
// parent's genes, possibly with one mutated trait, and is clamped onto
// the w x h grid at birth.
func Offspring(
	parentPos components.Position,
	parentGenes components.Genes,
	parent components.Vitals,
	childEnergy float64,
	id uint64,
	mutationRate float64,
	w, h int,
	rng RNG,
) (components.Position, components.Genes, components.Vitals) {
	pos := components.Position{
		X: parentPos.X + uniform(rng, -BirthJitter, BirthJitter),
		Y: parentPos.Y + uniform(rng, -BirthJitter, BirthJitter),
	}
	ClampToGrid(&pos, w, h)

	genes := parentGenes
	Mutate(&genes, mutationRate, rng)

	vitals := components.Vitals{
		ID:         id,
		Energy:     childEnergy,
		Age:        0,
		Generation: parent.Generation + 1,
	}
	return pos, genes, vitals
}

// Mutate perturbs one uniformly chosen gene by a factor in
// [1-MutationScale, 1+MutationScale) with probability rate.
// Returns the mutated key and whether a mutation happened.
func Mutate(genes *components.Genes, rate float64, rng RNG) (components.GeneKey, bool) {
	if rng.Float64() >= rate {
		return 0, false
	}
	key := components.AllGenes[rng.Intn(components.NumGenes)]
	factor := 1 + uniform(rng, -MutationScale, MutationScale)
	genes.Set(key, genes.Get(key)*factor)
	return key, true
}

// FounderGenes seeds a first-generation gene set. Optimal temperature and
// pH start at the configured environment values.
func FounderGenes(cfg *config.Config, rng RNG) components.Genes {
	return components.Genes{
		OptimalTemperature:    cfg.Environment.Temperature,
		OptimalPH:             cfg.Environment.PH,
		MetabolicEfficiency:   uniform(rng, founderEfficiencyMin, founderEfficiencyMax),
		ReproductionThreshold: uniform(rng, founderThresholdMin, founderThresholdMax),
		ChemotaxisSensitivity: cfg.Population.ChemotaxisStrength * uniform(rng, founderChemotaxisMin, founderChemotaxisMax),
	}
}

// FounderPosition places a founder at the corner of a random cell.
func FounderPosition(w, h int, rng RNG) components.Position {
	return components.Position{
		X: math.Floor(rng.Float64() * float64(w)),
		Y: math.Floor(rng.Float64() * float64(h)),
	}
}
