// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
)

// Statistics are the first four moments of the surrogate output.
// Kurtosis is the plain fourth standardized moment (3 for a Gaussian output).
type Statistics struct {
	Mean     float64
	Variance float64
	Skewness float64
	Kurtosis float64
}

// SobolIndex is the share of variance carried by the interaction of exactly
// the inputs in Dims.
type SobolIndex struct {
	Dims  []int
	Value float64
}

// Mean is the coefficient of the zero multi-index.
func (p *Poly) Mean() float64 {
	if i, ok := p.basis.Find(make([]int, len(p.params))); ok {
		return p.coeffs[i]
	}

	return 0
}

// Variance is Σ c_n² over the non-zero multi-indices.
func (p *Poly) Variance() float64 {
	v := 0.0
	for n, j := range p.basis.Elements() {
		if !isZero(j) {
			v += p.coeffs[n] * p.coeffs[n]
		}
	}

	return v
}

// Statistics integrates the centred powers of the surrogate with a tensor Gauss
// rule of 2·MaxDegrees()+1 points per dimension, exact for the fourth power.
// The surrogate is evaluated on the grid by Kronecker products of the 1-D
// polynomial tables applied to the coefficient tensor, so no design matrix
// over the grid is formed. Skewness and Kurtosis are 0 for a constant surrogate.
//
// Complexity: O(m·Σ(2p_k+1)) time and O(m) memory for m = Π(2p_k+1) nodes.
func (p *Poly) Statistics() (Statistics, error) {
	s := Statistics{Mean: p.Mean(), Variance: p.Variance()}
	if s.Variance == 0 {
		return s, nil
	}

	d := len(p.params)
	tables := make([]*matrix.Dense, d)
	weights := make([][]float64, d)
	dims := make([]int, d)
	size := 1
	for k, prm := range p.params {
		x, w, err := prm.Quadrature(2*p.maxDeg[k] + 1)
		if err != nil {
			return Statistics{}, polyErrorf(opStatistics, err)
		}
		P, _, err := prm.OrthoPoly(x, p.maxDeg[k])
		if err != nil {
			return Statistics{}, polyErrorf(opStatistics, err)
		}
		if tables[k], err = matrix.Transpose(P); err != nil {
			return Statistics{}, polyErrorf(opStatistics, err)
		}
		weights[k], dims[k] = w, p.maxDeg[k]+1
		size *= dims[k]
	}

	// Coefficient tensor over degrees 0..maxDeg[k], first dimension slowest.
	coeffs := make([]float64, size)
	for n, j := range p.basis.Elements() {
		at := 0
		for k, deg := range j {
			at = at*dims[k] + deg
		}
		coeffs[at] += p.coeffs[n]
	}
	y := kronMult(tables, coeffs)

	var m3, m4 float64
	idx := make([]int, d)
	for _, v := range y {
		w := 1.0
		for k, i := range idx {
			w *= weights[k][i]
		}
		dev := v - s.Mean
		dev2 := dev * dev
		m3 += w * dev2 * dev
		m4 += w * dev2 * dev2

		for k := d - 1; k >= 0; k-- {
			if idx[k]++; idx[k] < len(weights[k]) {
				break
			}
			idx[k] = 0
		}
	}
	s.Skewness = m3 / math.Pow(s.Variance, 1.5)
	s.Kurtosis = m4 / (s.Variance * s.Variance)

	return s, nil
}

// SobolIndices returns, for every subset of exactly order inputs (in
// lexicographic order), the variance share of the terms whose non-zero
// degrees are exactly on that subset. order = 1 gives first-order indices.
//
// Errors:
//   - ErrInvalidOrder (order < 1 or > d), ErrZeroVariance.
func (p *Poly) SobolIndices(order int) ([]SobolIndex, error) {
	d := len(p.params)
	if order < 1 || order > d {
		return nil, polyErrorf(opSobol, ErrInvalidOrder)
	}
	v := p.Variance()
	if v == 0 {
		return nil, polyErrorf(opSobol, ErrZeroVariance)
	}

	subsets := combin.Combinations(d, order)
	pos := make(map[string]int, len(subsets))
	out := make([]SobolIndex, len(subsets))
	for i, s := range subsets {
		out[i].Dims = s
		pos[supportKey(s)] = i
	}
	for n, j := range p.basis.Elements() {
		if i, ok := pos[supportKey(support(j))]; ok {
			out[i].Value += p.coeffs[n] * p.coeffs[n]
		}
	}
	for i := range out {
		out[i].Value /= v
	}

	return out, nil
}

// TotalSobolIndices returns, per input k, the variance share of every term
// with j_k > 0.
//
// Errors:
//   - ErrZeroVariance.
func (p *Poly) TotalSobolIndices() ([]float64, error) {
	v := p.Variance()
	if v == 0 {
		return nil, polyErrorf(opTotalSobol, ErrZeroVariance)
	}
	out := make([]float64, len(p.params))
	for n, j := range p.basis.Elements() {
		c2 := p.coeffs[n] * p.coeffs[n]
		for k, deg := range j {
			if deg > 0 {
				out[k] += c2
			}
		}
	}
	for k := range out {
		out[k] /= v
	}

	return out, nil
}

// Samples evaluates the surrogate at n inputs drawn from the parameters' laws.
// A nil rng uses the default deterministic stream.
func (p *Poly) Samples(n int, rng *rand.Rand) ([]float64, error) {
	if n <= 0 {
		return nil, nil
	}
	if rng == nil {
		rng = parameter.NewRNG(0)
	}
	d := len(p.params)
	X, err := matrix.NewDense(n, d)
	if err != nil {
		return nil, err
	}
	for k, prm := range p.params {
		for i, v := range prm.Samples(n, rng) {
			X.RawRow(i)[k] = v
		}
	}

	return p.Evaluate(X)
}

// SampleMoments is a Monte Carlo estimate of the output mean and variance
// from n surrogate samples.
func (p *Poly) SampleMoments(n int, rng *rand.Rand) (mean, variance float64, err error) {
	y, err := p.Samples(n, rng)
	if err != nil {
		return 0, 0, err
	}
	mean, variance = stat.MeanVariance(y, nil)

	return mean, variance, nil
}

func isZero(j []int) bool {
	for _, v := range j {
		if v != 0 {
			return false
		}
	}

	return true
}

// support lists the dimensions with a non-zero degree.
func support(j []int) []int {
	var s []int
	for k, v := range j {
		if v != 0 {
			s = append(s, k)
		}
	}

	return s
}

func supportKey(s []int) string { return fmt.Sprint(s) }
