package generator

import (
	"math/rand/v2"
)

// Source supplies the randomness consumed by Generate.
type Source interface {
	// IntN returns a uniform integer in [0, n). n > 0.
	IntN(n int) int
	// Bool returns true with probability p
	Bool(p float64) bool
}

// RandSource is a Source backed by a math/rand/v2 generator. It is not safe
// for concurrent use.
type RandSource struct {
	rng *rand.Rand
}

// NewSource returns a deterministic source seeded with seed
func NewSource(seed uint64) *RandSource {
	return &RandSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *RandSource) IntN(n int) int {
	return s.rng.IntN(n)
}

func (s *RandSource) Bool(p float64) bool {
	return s.rng.Float64() < p
}

type globalSource struct{}

func (globalSource) IntN(n int) int {
	return rand.IntN(n)
}

func (globalSource) Bool(p float64) bool {
	return rand.Float64() < p
}

// DefaultSource returns a source drawing from the process-wide generator.
// It is safe for concurrent use and not reproducible.
func DefaultSource() Source {
	return globalSource{}
}
