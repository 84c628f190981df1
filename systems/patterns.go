package systems

import (
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/petri/config"
)

// Perlin parameters for noise-patterned fields.
const (
	perlinAlpha = 1.8
	perlinBeta  = 2
	perlinN     = 3
	perlinScale = 25.0 // cells per noise unit
)

const simplexScale = 20.0

// BuildPattern lays out a static field around center.
// Non-uniform patterns span [center-spread, center+spread].
func BuildPattern(w, h int, center float64, p config.Pattern, rng RNG) *Field {
	f := NewField(w, h, center)
	lo, hi := center-p.Spread, center+p.Spread

	switch p.Kind {
	case "", config.PatternUniform:
		// already filled

	case config.PatternHorizontal:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				f.Set(x, y, lerp(lo, hi, ramp(x, w)))
			}
		}

	case config.PatternVertical:
		for y := 0; y < h; y++ {
			t := ramp(y, h)
			for x := 0; x < w; x++ {
				f.Set(x, y, lerp(lo, hi, t))
			}
		}

	case config.PatternRadial:
		cx, cy := float64(w)/2, float64(h)/2
		maxDist := math.Hypot(cx, cy)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				d := distance(float64(x), float64(y), cx, cy)
				f.Set(x, y, lerp(lo, hi, 1-d/maxDist))
			}
		}

	case config.PatternRandom:
		for i := range f.Data {
			f.Data[i] = uniform(rng, lo, hi)
		}

	case config.PatternPerlin:
		gen := perlin.NewPerlin(perlinAlpha, perlinBeta, perlinN, rng.Int63())
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				n := gen.Noise2D(float64(x)/perlinScale, float64(y)/perlinScale)
				f.Set(x, y, center+p.Spread*clampFloat(n, -1, 1))
			}
		}

	case config.PatternSimplex:
		noise := opensimplex.New(rng.Int63())
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				n := noise.Eval2(float64(x)/simplexScale, float64(y)/simplexScale)
				f.Set(x, y, center+p.Spread*clampFloat(n, -1, 1))
			}
		}
	}

	return f
}

// ramp maps i in [0, n-1] to [0, 1]. A single cell maps to 0.
func ramp(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
