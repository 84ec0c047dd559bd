// SPDX-License-Identifier: MIT
// Package parameter - RNG utilities for sampling.
//
// Goals:
//   - Determinism: same seed ⇒ identical samples across platforms.
//   - Encapsulation: a single RNG factory; no time-based sources hidden anywhere.
//
// Concurrency:
//   - math/rand.Rand is NOT goroutine-safe. Do not share a *rand.Rand across goroutines.
package parameter

import "math/rand"

// defaultRNGSeed is the fixed "zero" seed used when callers pass seed==0.
const defaultRNGSeed int64 = 1

// NewRNG returns a deterministic *rand.Rand.
// Policy: seed==0 ⇒ use defaultRNGSeed; otherwise use the provided seed verbatim.
func NewRNG(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultRNGSeed
	}

	return rand.New(rand.NewSource(s))
}

// Samples draws n values from the law by inverse-transform sampling.
// If rng==nil, the default deterministic stream is used.
//
// Complexity: O(n) quantile evaluations.
func (p *Parameter) Samples(n int, rng *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	if rng == nil {
		rng = NewRNG(0)
	}

	out := make([]float64, n)
	var u float64
	for i := range out {
		// Quantile(0) is -Inf for unbounded laws; redraw the single excluded value.
		for u = rng.Float64(); u == 0; u = rng.Float64() {
		}
		out[i] = p.law.Quantile(u)
	}

	return out
}
