package sim

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
)

// spawnFounders creates the initial population at random cells.
func (s *Simulation) spawnFounders() {
	w, h := s.env.Dims()
	for i := 0; i < s.cfg.Population.Initial; i++ {
		pos := systems.FounderPosition(w, h, s.rng)
		genes := systems.FounderGenes(s.cfg, s.rng)
		vitals := components.Vitals{
			ID:         s.allocID(),
			Energy:     systems.InitialEnergy,
			Generation: 1,
		}
		s.spawn(pos, genes, vitals)
	}
}

func (s *Simulation) spawn(pos components.Position, genes components.Genes, vitals components.Vitals) ecs.Entity {
	entity := s.organisms.NewEntity(&pos, &genes, &vitals)
	s.order = append(s.order, entity)
	return entity
}

func (s *Simulation) allocID() uint64 {
	id := s.nextID
	s.nextID++
	return id
}

// moveOrganisms displaces every organism and clamps it onto the live grid.
func (s *Simulation) moveOrganisms() {
	flow := systems.FlowVector(s.cfg.Environment.FlowRate, s.cfg.Environment.FlowDirection)
	for _, e := range s.order {
		pos, genes, _ := s.organisms.Get(e)
		systems.Move(pos, genes, s.env, flow, s.rng)
	}
}

// birth is an offspring waiting to be added after the metabolism pass.
type birth struct {
	pos    components.Position
	genes  components.Genes
	vitals components.Vitals
}

// metabolizeAndReproduce feeds, ages and divides every organism in insertion
// order. Dead organisms are removed and offspring appended after the pass,
// so newborns neither act nor get counted as parents this step.
func (s *Simulation) metabolizeAndReproduce(report *StepReport) {
	w, h := s.env.Dims()
	mutationRate := s.cfg.Population.MutationRate

	var births []birth
	survivors := s.order[:0]
	var dead []ecs.Entity

	for _, e := range s.order {
		pos, genes, vitals := s.organisms.Get(e)
		out := systems.Metabolize(vitals, genes, *pos, s.env)
		report.Consumed += out.Consumed

		if out.Reproduced {
			cpos, cgenes, cvitals := systems.Offspring(*pos, *genes, *vitals, out.ChildEnergy, s.allocID(), mutationRate, w, h, s.rng)
			births = append(births, birth{cpos, cgenes, cvitals})
		}

		if out.Died {
			report.Recycled += out.Recycled
			dead = append(dead, e)
			continue
		}
		survivors = append(survivors, e)
	}

	// Structural changes only after all component pointers are released.
	for _, e := range dead {
		s.world.RemoveEntity(e)
	}
	s.order = survivors
	for _, b := range births {
		s.spawn(b.pos, b.genes, b.vitals)
	}

	report.Births = len(births)
	report.Deaths = len(dead)
}

// recordStatistics appends this step's population, diversity and mean
// fitness to the series and builds the telemetry row.
func (s *Simulation) recordStatistics() {
	n := len(s.order)
	genes := make([]components.Genes, n)
	fitness := make([]float64, n)
	energy := make([]float64, n)

	for i, e := range s.order {
		pos, g, v := s.organisms.Get(e)
		genes[i] = *g
		fitness[i] = systems.FitnessAt(g, *pos, s.env)
		energy[i] = v.Energy
	}

	sample := telemetry.Measure(genes, fitness)
	s.stats.Record(sample)

	mean, p10, p50, p90 := telemetry.ComputeEnergyStats(energy)
	s.lastRecord = telemetry.StepRecord{
		Iteration:    s.iteration,
		Population:   sample.Population,
		Diversity:    sample.Diversity,
		MeanFitness:  sample.MeanFitness,
		EnergyMean:   mean,
		EnergyP10:    p10,
		EnergyP50:    p50,
		EnergyP90:    p90,
		Births:       s.lastReport.Births,
		Deaths:       s.lastReport.Deaths,
		Consumed:     s.lastReport.Consumed,
		Recycled:     s.lastReport.Recycled,
		Replenished:  s.lastReport.Replenished,
		NutrientMass: s.env.Nutrient.Sum(),
	}
}
