package out

import (
	"math/rand/v2"

	signalout "neurofade/internal/modules/signal/port/out"
)

type MathRandom struct {
	rng *rand.Rand
}

// NewMathRandom returns a uniform source. A nil rng uses the global generator.
func NewMathRandom(rng *rand.Rand) signalout.Random {
	return &MathRandom{rng: rng}
}

func (r *MathRandom) Uniform(min, max float64) float64 {
	if max <= min {
		return min
	}
	f := rand.Float64
	if r.rng != nil {
		f = r.rng.Float64
	}
	return min + f()*(max-min)
}
