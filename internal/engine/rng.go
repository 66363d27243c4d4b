package engine

import "math/rand"

// Rand is the single pseudo-random source threaded through every simulation
// call. One Rand per match, seeded from the config, never shared across
// matches: the whole determinism contract hangs on that.
type Rand struct {
	r *rand.Rand
}

// NewRand creates a seeded source.
func NewRand(seed int64) *Rand {
	return &Rand{r: rand.New(rand.NewSource(seed))}
}

// Chance returns true with probability p (clamped to [0, 1]).
func (r *Rand) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.r.Float64() < p
}

// Float returns a uniform value in [0, 1).
func (r *Rand) Float() float64 {
	return r.r.Float64()
}

// Between returns a uniform integer in [min, max] inclusive.
func (r *Rand) Between(min, max int) int {
	if max <= min {
		return min
	}
	return min + r.r.Intn(max-min+1)
}

// FloatBetween returns a uniform value in [min, max).
func (r *Rand) FloatBetween(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + r.r.Float64()*(max-min)
}

// Vary returns base scaled by a uniform factor in [1-frac, 1+frac].
func (r *Rand) Vary(base int, frac float64) int {
	f := 1 - frac + r.r.Float64()*2*frac
	return int(float64(base) * f)
}

// PickIndex returns an index weighted by the given non-negative weights.
// A zero total falls back to index 0.
func (r *Rand) PickIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := r.r.Float64() * total
	for i, w := range weights {
		roll -= w
		if roll < 0 {
			return i
		}
	}
	return len(weights) - 1
}

// Shuffle permutes n elements via the swap function.
func (r *Rand) Shuffle(n int, swap func(i, j int)) {
	r.r.Shuffle(n, swap)
}
