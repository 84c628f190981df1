package systems

import (
	"math"

	"github.com/pthm-cable/petri/components"
)

// Flow is the uniform advection applied to every organism each step.
type Flow struct {
	DX, DY float64
}

// FlowVector converts a rate and direction (radians) into a per-step displacement.
func FlowVector(rate, direction float64) Flow {
	return Flow{
		DX: math.Cos(direction) * rate,
		DY: math.Sin(direction) * rate,
	}
}

// Displacement computes one organism's unclamped move for this step:
// a random walk in [-1,1) per axis, plus chemotaxis up the nutrient
// gradient scaled by the organism's sensitivity, plus flow.
func Displacement(pos components.Position, genes *components.Genes, env *Environment, flow Flow, rng RNG) (dx, dy float64) {
	dx = uniform(rng, -1, 1)
	dy = uniform(rng, -1, 1)

	if s := genes.ChemotaxisSensitivity; s > 0 {
		cx, cy := pos.Cell()
		gx, gy := env.NutrientGradient(cx, cy)
		dx += gx * s
		dy += gy * s
	}

	return dx + flow.DX, dy + flow.DY
}

// Move displaces an organism and clamps it back onto the grid.
// Reads only the organism's own state and the environment.
func Move(pos *components.Position, genes *components.Genes, env *Environment, flow Flow, rng RNG) {
	dx, dy := Displacement(*pos, genes, env, flow, rng)
	pos.X += dx
	pos.Y += dy
	w, h := env.Dims()
	ClampToGrid(pos, w, h)
}

// ClampToGrid pins a position into [0, w-1] x [0, h-1].
func ClampToGrid(pos *components.Position, w, h int) {
	pos.X = clampFloat(pos.X, 0, float64(w-1))
	pos.Y = clampFloat(pos.Y, 0, float64(h-1))
}
