package systems

import "github.com/pthm-cable/petri/config"

// Nutrient field constants.
const (
	ReplenishAmount = 0.01 // added to every cell each step
	DiffusionRate   = 0.1  // fraction of the gap to the neighbour mean closed per step
)

// Environment owns the three same-shaped scalar fields.
// Temperature and PH are static after creation; Nutrient evolves every step.
type Environment struct {
	Nutrient    *Field
	Temperature *Field
	PH          *Field

	// Scratch buffer for diffusion
	tmp []float64
}

// NewEnvironment builds the fields for cfg. The nutrient field is uniform;
// temperature and pH follow their configured patterns.
func NewEnvironment(cfg *config.Config, rng RNG) *Environment {
	w, h := cfg.World.Width, cfg.World.Height
	env := cfg.Environment
	return &Environment{
		Nutrient:    NewField(w, h, env.Nutrients),
		Temperature: BuildPattern(w, h, env.Temperature, env.TemperaturePattern, rng),
		PH:          BuildPattern(w, h, env.PH, env.PHPattern, rng),
		tmp:         make([]float64, w*h),
	}
}

// Dims returns the grid width and height.
func (e *Environment) Dims() (int, int) {
	return e.Nutrient.W, e.Nutrient.H
}

// Sample returns the temperature and pH of a cell.
func (e *Environment) Sample(cx, cy int) (temp, ph float64) {
	return e.Temperature.At(cx, cy), e.PH.At(cx, cy)
}

// Consume removes up to want nutrient from a cell and returns the amount taken.
func (e *Environment) Consume(cx, cy int, want float64) float64 {
	take := min(e.Nutrient.At(cx, cy), want)
	e.Nutrient.Add(cx, cy, -take)
	return take
}

// Deposit returns nutrient to a cell.
func (e *Environment) Deposit(cx, cy int, amount float64) {
	e.Nutrient.Add(cx, cy, amount)
}

// NutrientGradient returns (right-left, down-up) around a cell.
// Out-of-bounds neighbours read as zero, so edges pull organisms inward.
func (e *Environment) NutrientGradient(cx, cy int) (gx, gy float64) {
	f := e.Nutrient
	var left, right, up, down float64
	if cx > 0 {
		left = f.At(cx-1, cy)
	}
	if cx < f.W-1 {
		right = f.At(cx+1, cy)
	}
	if cy > 0 {
		up = f.At(cx, cy-1)
	}
	if cy < f.H-1 {
		down = f.At(cx, cy+1)
	}
	return right - left, down - up
}

// ReplenishAndDiffuse adds ReplenishAmount to every nutrient cell, then
// relaxes each cell toward the mean of its in-bounds 4-neighbours.
// Returns the total nutrient added.
func (e *Environment) ReplenishAndDiffuse() float64 {
	data := e.Nutrient.Data
	for i := range data {
		data[i] += ReplenishAmount
	}
	e.diffuse()
	return ReplenishAmount * float64(len(data))
}

// diffuse reads only the pre-step grid and writes into the scratch buffer,
// so the result does not depend on visiting order. No wraparound.
func (e *Environment) diffuse() {
	f := e.Nutrient
	w, h := f.W, f.H
	if len(e.tmp) != len(f.Data) {
		e.tmp = make([]float64, len(f.Data))
	}
	src := f.Data
	dst := e.tmp

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			var sum float64
			n := 0
			if x > 0 {
				sum += src[i-1]
				n++
			}
			if x < w-1 {
				sum += src[i+1]
				n++
			}
			if y > 0 {
				sum += src[i-w]
				n++
			}
			if y < h-1 {
				sum += src[i+w]
				n++
			}

			c := src[i]
			if n == 0 {
				dst[i] = c
				continue
			}
			dst[i] = c + (sum/float64(n)-c)*DiffusionRate
		}
	}

	// Swap
	f.Data, e.tmp = dst, src
}

// Clone returns a deep copy of the environment.
func (e *Environment) Clone() *Environment {
	return &Environment{
		Nutrient:    e.Nutrient.Clone(),
		Temperature: e.Temperature.Clone(),
		PH:          e.PH.Clone(),
		tmp:         make([]float64, len(e.tmp)),
	}
}
