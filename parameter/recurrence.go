// SPDX-License-Identifier: MIT
// Package: parameter
//
// Purpose:
//   - Three-term recurrence coefficients (a_k, b_k) of the polynomials
//     orthonormal w.r.t. each law, expressed in physical coordinates:
//
//     sqrt(b_{k+1}) q_{k+1}(x) = (x - a_k) q_k(x) - sqrt(b_k) q_{k-1}(x),  q_0 = 1, q_{-1} = 0.
//
//   - Closed forms for Jacobi (Uniform, Beta, Chebyshev), Hermite (Gaussian)
//     and Laguerre (Gamma, Exponential). Discretised Stieltjes otherwise.
//
// Conventions:
//   - b[0] = 1 (total mass of a probability measure), so a[0] is the mean and
//     b[1] the variance.

package parameter

import (
	"math"

	"github.com/katalvlaran/equad/matrix"
)

// Recurrence returns the first n coefficients a[0..n-1], b[0..n-1].
//
// Errors:
//   - ErrInvalidPoints for n < 1.
//
// Complexity: O(n) for closed forms, O(n·M) for Stieltjes laws (M discretisation nodes).
func (p *Parameter) Recurrence(n int) (a, b []float64, err error) {
	if n < 1 {
		return nil, nil, parameterErrorf(opRecurrence, ErrInvalidPoints)
	}
	c := p.cfg
	switch c.Distribution {
	case Uniform:
		a, b = jacobiRecurrence(0, 0, n)
		affineRecurrence(a, b, c.Lower, c.Upper)
	case Beta:
		// Beta(α,β) on [0,1] is the Jacobi weight (1-t)^(β-1) (1+t)^(α-1) on [-1,1].
		a, b = jacobiRecurrence(c.ShapeB-1, c.ShapeA-1, n)
		affineRecurrence(a, b, c.Lower, c.Upper)
	case Chebyshev:
		a, b = jacobiRecurrence(-0.5, -0.5, n)
		affineRecurrence(a, b, c.Lower, c.Upper)
	case Gaussian:
		a, b = hermiteRecurrence(c.ShapeA, c.ShapeB, n)
	case Gamma:
		a, b = laguerreRecurrence(c.ShapeA, c.ShapeB, n)
	case Exponential:
		a, b = laguerreRecurrence(1, 1/c.ShapeA, n)
	default:
		disc := p.disc
		if n*4 > len(disc.x) {
			if disc, err = p.discretise(n * 4); err != nil {
				return nil, nil, parameterErrorf(opRecurrence, err)
			}
		}
		a, b = disc.stieltjes(n)
	}

	return a, b, nil
}

// jacobiRecurrence returns the monic Jacobi coefficients for the normalized
// weight (1-t)^α (1+t)^β on [-1, 1], α, β > -1.
func jacobiRecurrence(alpha, beta float64, n int) (a, b []float64) {
	a = make([]float64, n)
	b = make([]float64, n)
	ab := alpha + beta
	a[0] = (beta - alpha) / (ab + 2)
	b[0] = 1
	if n > 1 {
		b[1] = 4 * (1 + alpha) * (1 + beta) / ((2 + ab) * (2 + ab) * (3 + ab))
	}

	var k, s float64
	for i := 1; i < n; i++ {
		k = float64(i)
		s = 2*k + ab
		a[i] = (beta*beta - alpha*alpha) / (s * (s + 2))
		if i >= 2 {
			b[i] = 4 * k * (k + alpha) * (k + beta) * (k + ab) / (s * s * (s + 1) * (s - 1))
		}
	}

	return a, b
}

// affineRecurrence maps coefficients from t ∈ [-1, 1] to x = c + s·t in place.
func affineRecurrence(a, b []float64, lo, hi float64) {
	c, s := (lo+hi)/2, (hi-lo)/2
	for i := range a {
		a[i] = c + s*a[i]
		if i > 0 {
			b[i] *= s * s
		}
	}
}

// hermiteRecurrence: probabilists' Hermite for N(μ, σ²): a_k = μ, b_k = σ² k.
func hermiteRecurrence(mu, variance float64, n int) (a, b []float64) {
	a = make([]float64, n)
	b = make([]float64, n)
	b[0] = 1
	for i := 0; i < n; i++ {
		a[i] = mu
		if i > 0 {
			b[i] = variance * float64(i)
		}
	}

	return a, b
}

// laguerreRecurrence: Gamma(shape k, scale θ): a_n = θ(2n+k), b_n = θ² n(n+k-1).
func laguerreRecurrence(shape, scale float64, n int) (a, b []float64) {
	a = make([]float64, n)
	b = make([]float64, n)
	b[0] = 1
	var k float64
	for i := 0; i < n; i++ {
		k = float64(i)
		a[i] = scale * (2*k + shape)
		if i > 0 {
			b[i] = scale * scale * k * (k + shape - 1)
		}
	}

	return a, b
}

// discreteMeasure is a finite probability measure Σ w_i δ(x_i), Σ w_i = 1.
type discreteMeasure struct {
	x, w []float64
}

// usesStieltjes reports laws whose recurrence comes from a discretised measure.
func (p *Parameter) usesStieltjes() bool {
	switch p.cfg.Distribution {
	case TruncatedGaussian, Weibull:
		return true
	}

	return false
}

// discretise pushes a composite Gauss–Legendre rule on (0, 1) through the
// law's quantile function, so E[g(X)] = ∫₀¹ g(Q(u)) du is approximated by
// Σ w_i g(Q(u_i)). The panels halve towards both ends of (0, 1) down to a
// width of 2^-discretisationLevels, which resolves heavy upper tails and
// singular densities at the support's edge. m is the minimum node count.
func (p *Parameter) discretise(m int) (*discreteMeasure, error) {
	panels := 2 * (discretisationLevels + 1)
	g := max((m+panels-1)/panels, panelNodes)
	t, w, err := legendreRule(g)
	if err != nil {
		return nil, err
	}

	// Panel edges 0, 2^-L, ..., 1/4, 1/2, 3/4, ..., 1-2^-L, 1.
	edges := make([]float64, 0, panels+1)
	edges = append(edges, 0)
	for l := discretisationLevels; l >= 1; l-- {
		edges = append(edges, math.Ldexp(1, -l))
	}
	for l := 1; l <= discretisationLevels; l++ {
		edges = append(edges, 1-math.Ldexp(1, -l))
	}
	edges = append(edges, 1)

	x := make([]float64, 0, panels*g)
	mass := make([]float64, 0, panels*g)
	total := 0.0
	for e := 1; e < len(edges); e++ {
		c, h := (edges[e]+edges[e-1])/2, edges[e]-edges[e-1]
		for i := range t {
			q := p.law.Quantile(c + h/2*t[i])
			if math.IsNaN(q) || math.IsInf(q, 0) {
				continue
			}
			x = append(x, q)
			mass = append(mass, h*w[i])
			total += h * w[i]
		}
	}
	if !(total > 0) {
		return nil, ErrInvalidShape
	}
	for i := range mass {
		mass[i] /= total
	}

	return &discreteMeasure{x: x, w: mass}, nil
}

// stieltjes runs the orthonormal Stieltjes procedure for n coefficients.
func (d *discreteMeasure) stieltjes(n int) (a, b []float64) {
	m := len(d.x)
	a = make([]float64, n)
	b = make([]float64, n)
	b[0] = 1

	prev := make([]float64, m) // q_{k-1}
	cur := make([]float64, m)  // q_k
	next := make([]float64, m)
	for i := range cur {
		cur[i] = 1
	}

	var k, i int
	var acc, sb float64
	for k = 0; k < n; k++ {
		acc = 0
		for i = 0; i < m; i++ {
			acc += d.w[i] * d.x[i] * cur[i] * cur[i]
		}
		a[k] = acc
		if k+1 == n {
			break
		}
		sb = 0
		if k > 0 {
			sb = math.Sqrt(b[k])
		}
		acc = 0
		for i = 0; i < m; i++ {
			next[i] = (d.x[i]-a[k])*cur[i] - sb*prev[i]
			acc += d.w[i] * next[i] * next[i]
		}
		b[k+1] = acc
		norm := math.Sqrt(acc)
		for i = 0; i < m; i++ {
			next[i] /= norm
		}
		prev, cur, next = cur, next, prev
	}

	return a, b
}

// legendreRule returns the m-point Gauss–Legendre rule on [-1, 1] with
// weights summing to 1 (the uniform probability measure).
func legendreRule(m int) (nodes, weights []float64, err error) {
	a, b := jacobiRecurrence(0, 0, m)

	return golubWelsch(a, b)
}

// golubWelsch turns n recurrence coefficients into the n-point Gauss rule.
func golubWelsch(a, b []float64) (nodes, weights []float64, err error) {
	n := len(a)
	sub := make([]float64, n-1)
	for i := 1; i < n; i++ {
		sub[i-1] = math.Sqrt(b[i])
	}
	nodes, first, err := matrix.SymTridiagonalEigen(a, sub, false)
	if err != nil {
		return nil, nil, err
	}
	weights = first.Row(0)
	for j, z := range weights {
		weights[j] = z * z
	}

	return nodes, weights, nil
}
