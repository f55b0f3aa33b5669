package core

import "math/rand/v2"

// Sampler supplies the uniform random numbers consumed by material and
// light sampling. It is the seam between the deterministic math in this
// package and whatever random source a caller (or test) wants to drive
// it with.
type Sampler interface {
	// Get1D returns a uniform sample in [0, 1).
	Get1D() float64
	// Get2D returns a pair of independent uniform samples in [0, 1).
	Get2D() (float64, float64)
}

// RandomSampler is a Sampler backed by math/rand/v2's PCG source, the
// default RNG used by every render worker.
type RandomSampler struct {
	rng *rand.Rand
}

// NewRandomSampler creates a sampler seeded deterministically from seed1/seed2,
// so that a fixed seed pair reproduces a fixed sample stream.
func NewRandomSampler(seed1, seed2 uint64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

func (s *RandomSampler) Get1D() float64 {
	return s.rng.Float64()
}

func (s *RandomSampler) Get2D() (float64, float64) {
	return s.rng.Float64(), s.rng.Float64()
}
