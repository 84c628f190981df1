package sim

import (
	"github.com/pthm-cable/petri/components"
	"github.com/pthm-cable/petri/config"
	"github.com/pthm-cable/petri/systems"
	"github.com/pthm-cable/petri/telemetry"
)

// State is a deep copy of the simulation at one point in time. Consumers may
// modify it freely; nothing in it is shared with the engine.
type State struct {
	RunID     string `json:"run_id"`
	Seed      int64  `json:"seed,omitempty"`
	Iteration int    `json:"iteration"`

	Organisms []OrganismState `json:"organisms"`

	Nutrient    [][]float64 `json:"nutrient"`
	Temperature [][]float64 `json:"temperature"`
	PH          [][]float64 `json:"ph"`

	Statistics telemetry.Series `json:"statistics"`
	LastReport StepReport       `json:"last_report"`
	Config     config.Config    `json:"config"`
}

// OrganismState is one organism's complete state.
type OrganismState struct {
	ID         uint64           `json:"id"`
	X          float64          `json:"x"`
	Y          float64          `json:"y"`
	Genes      components.Genes `json:"genes"`
	Energy     float64          `json:"energy"`
	Age        int              `json:"age"`
	Generation int              `json:"generation"`
	Fitness    float64          `json:"fitness"`
}

// EnvironmentSummary describes the spread of each grid.
type EnvironmentSummary struct {
	Nutrient    telemetry.FieldSummary `json:"nutrient"`
	Temperature telemetry.FieldSummary `json:"temperature"`
	PH          telemetry.FieldSummary `json:"ph"`
}

// State returns a deep copy of the current simulation state. Organisms are
// listed in insertion order.
func (s *Simulation) State() State {
	organisms := make([]OrganismState, 0, len(s.order))
	for _, e := range s.order {
		pos, genes, vitals := s.organisms.Get(e)
		organisms = append(organisms, OrganismState{
			ID:         vitals.ID,
			X:          pos.X,
			Y:          pos.Y,
			Genes:      *genes,
			Energy:     vitals.Energy,
			Age:        vitals.Age,
			Generation: vitals.Generation,
			Fitness:    systems.FitnessAt(genes, *pos, s.env),
		})
	}

	return State{
		RunID:       s.runID,
		Seed:        s.seed,
		Iteration:   s.iteration,
		Organisms:   organisms,
		Nutrient:    s.env.Nutrient.Rows(),
		Temperature: s.env.Temperature.Rows(),
		PH:          s.env.PH.Rows(),
		Statistics:  s.stats.Clone(),
		LastReport:  s.lastReport,
		Config:      *s.cfg.Clone(),
	}
}

// Summary computes min, max, mean and median for each grid.
func (st *State) Summary() EnvironmentSummary {
	return EnvironmentSummary{
		Nutrient:    telemetry.Summarize(flatten(st.Nutrient)),
		Temperature: telemetry.Summarize(flatten(st.Temperature)),
		PH:          telemetry.Summarize(flatten(st.PH)),
	}
}

// Find returns the organism with the given id.
func (st *State) Find(id uint64) (OrganismState, bool) {
	for _, o := range st.Organisms {
		if o.ID == id {
			return o, true
		}
	}
	return OrganismState{}, false
}

func flatten(rows [][]float64) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
