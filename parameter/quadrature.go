// SPDX-License-Identifier: MIT
// Package: parameter
//
// Purpose:
//   - Univariate quadrature rules w.r.t. the parameter's probability measure.
//   - Gauss: Golub–Welsch on the Jacobi matrix built from Recurrence.
//   - Gauss–Lobatto: the same with the last row modified so that both ends
//     of the support become nodes.
//
// Weights always sum to 1, so Σ w_i f(x_i) approximates E[f(X)].

package parameter

import (
	"math"

	"github.com/katalvlaran/equad/matrix"
)

// Quadrature returns the n-point Gauss rule (nodes ascending). It integrates
// polynomials of degree ≤ 2n-1 exactly against the parameter's law.
//
// Errors:
//   - ErrInvalidPoints (n < 1), matrix.ErrMatrixEigenFailed.
func (p *Parameter) Quadrature(n int) (nodes, weights []float64, err error) {
	if n < 1 {
		return nil, nil, parameterErrorf(opGauss, ErrInvalidPoints)
	}
	a, b, err := p.Recurrence(n)
	if err != nil {
		return nil, nil, parameterErrorf(opGauss, err)
	}
	if nodes, weights, err = golubWelsch(a, b); err != nil {
		return nil, nil, parameterErrorf(opGauss, err)
	}

	return nodes, weights, nil
}

// LobattoQuadrature returns the n-point Gauss–Lobatto rule: both support
// endpoints are nodes and polynomials of degree ≤ 2n-3 are integrated exactly.
//
// Errors:
//   - ErrInvalidPoints (n < 2), ErrUnboundedSupport, matrix.ErrSingular when
//     the endpoint system degenerates.
func (p *Parameter) LobattoQuadrature(n int) (nodes, weights []float64, err error) {
	if n < 2 {
		return nil, nil, parameterErrorf(opLobatto, ErrInvalidPoints)
	}
	if !p.Bounded() {
		return nil, nil, parameterErrorf(opLobatto, ErrUnboundedSupport)
	}
	a, b, err := p.Recurrence(n)
	if err != nil {
		return nil, nil, parameterErrorf(opLobatto, err)
	}

	// Monic p_{n-1}, p_{n-2} at both ends.
	lo, hi := p.lo, p.hi
	pLo1, pLo2 := monicPair(a, b, n, lo)
	pHi1, pHi2 := monicPair(a, b, n, hi)

	// [pLo1 pLo2; pHi1 pHi2] [a*; b*] = [lo·pLo1; hi·pHi1]
	det := pLo1*pHi2 - pLo2*pHi1
	if det == 0 || math.IsNaN(det) {
		return nil, nil, parameterErrorf(opLobatto, matrix.ErrSingular)
	}
	rLo, rHi := lo*pLo1, hi*pHi1
	aStar := (rLo*pHi2 - pLo2*rHi) / det
	bStar := (pLo1*rHi - rLo*pHi1) / det
	if !(bStar > 0) {
		return nil, nil, parameterErrorf(opLobatto, matrix.ErrSingular)
	}

	a[n-1] = aStar
	b[n-1] = bStar
	if nodes, weights, err = golubWelsch(a, b); err != nil {
		return nil, nil, parameterErrorf(opLobatto, err)
	}
	// Snap the endpoints exactly; the eigen-solver leaves them a few ulps off.
	nodes[0], nodes[n-1] = lo, hi

	return nodes, weights, nil
}

// monicPair evaluates the monic polynomials p_{n-1}(x) and p_{n-2}(x) of the
// recurrence p_{k+1} = (x - a_k) p_k - b_k p_{k-1}.
func monicPair(a, b []float64, n int, x float64) (pn1, pn2 float64) {
	prev, cur := 0.0, 1.0
	for k := 0; k < n-1; k++ {
		prev, cur = cur, (x-a[k])*cur-b[k]*prev
	}

	return cur, prev
}
