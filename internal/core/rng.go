package core

import "math/rand/v2"

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Float64 returns a value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// IntN returns a value in [0, n). n <= 0 yields 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Shuffle randomizes the order of vals in place (Fisher-Yates).
func (r *RNG) Shuffle(vals []int) {
	for i := len(vals) - 1; i > 0; i-- {
		j := r.r.IntN(i + 1)
		vals[i], vals[j] = vals[j], vals[i]
	}
}

// SampleN picks up to n distinct elements of pool uniformly without
// replacement. The pool is permuted in place; the returned slice aliases its
// tail.
func (r *RNG) SampleN(pool []int, n int) []int {
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	last := len(pool)
	for k := 0; k < n; k++ {
		j := r.r.IntN(last)
		last--
		pool[j], pool[last] = pool[last], pool[j]
	}
	return pool[last:]
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
