package systems

import (
	"math"

	"github.com/pthm-cable/petri/components"
)

// Fitness weights and tolerances.
const (
	tempTolerance    = 20.0
	phTolerance      = 3.0
	tempWeight       = 0.4
	phWeight         = 0.4
	efficiencyWeight = 0.2
)

// Fitness scores how well genes match a local temperature and pH, in [0,1].
// Descriptive only: nothing in the step reads it back.
func Fitness(genes *components.Genes, temp, ph float64) float64 {
	tempFitness := 1 - math.Abs(temp-genes.OptimalTemperature)/tempTolerance
	phFitness := 1 - math.Abs(ph-genes.OptimalPH)/phTolerance
	return clamp01(tempWeight*tempFitness + phWeight*phFitness + efficiencyWeight*genes.MetabolicEfficiency)
}

// FitnessAt evaluates Fitness at the organism's cell.
func FitnessAt(genes *components.Genes, pos components.Position, env *Environment) float64 {
	temp, ph := env.Sample(pos.Cell())
	return Fitness(genes, temp, ph)
}
