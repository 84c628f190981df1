package systems

import (
	"math"
	"math/rand"
)

// RNG is the interface for random number generation.
// *rand.Rand satisfies it; tests can substitute a scripted source.
type RNG interface {
	Float64() float64
	Intn(n int) int
	Int63() int64
}

var _ RNG = (*rand.Rand)(nil)

// NewRNG returns a seeded generator.
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// uniform draws from [lo, hi).
func uniform(rng RNG, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// clampFloat clamps v between minVal and maxVal.
func clampFloat(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// clamp01 clamps v to the [0, 1] range.
func clamp01(v float64) float64 {
	return clampFloat(v, 0, 1)
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x1-x2, y1-y2)
}
