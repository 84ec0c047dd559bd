// SPDX-License-Identifier: MIT
// Package: parameter
//
// Purpose:
//   - Bind each Distribution to a gonum distuv law (density, CDF, quantile, moments).
//   - Laws without a native distuv type are built from one: Beta and Chebyshev
//     are affine images of distuv.Beta, the truncated Gaussian renormalizes
//     distuv.Normal on [Lower, Upper].

package parameter

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// defaultDiscretisation is the minimum number of nodes carrying the
	// discretised measure for Stieltjes-driven laws.
	defaultDiscretisation = 400

	// discretisationLevels is the number of halvings towards each end of the
	// probability axis; the outermost panels are 2^-40 wide.
	discretisationLevels = 40

	// panelNodes is the minimum Gauss–Legendre node count per panel.
	panelNodes = 10
)

// measure is the slice of the distuv API a Parameter relies on.
type measure interface {
	Prob(x float64) float64
	CDF(x float64) float64
	Quantile(p float64) float64
	Mean() float64
	Variance() float64
}

var (
	_ measure = distuv.Uniform{}
	_ measure = distuv.Normal{}
	_ measure = distuv.Gamma{}
	_ measure = distuv.Exponential{}
	_ measure = distuv.Weibull{}
	_ measure = affine{}
	_ measure = truncNormal{}
)

// affine is base pushed forward through x = lo + width·u.
type affine struct {
	base      measure
	lo, width float64
}

func (a affine) Prob(x float64) float64 {
	if x < a.lo || x > a.lo+a.width {
		return 0
	}

	return a.base.Prob((x-a.lo)/a.width) / a.width
}

func (a affine) CDF(x float64) float64    { return a.base.CDF((x - a.lo) / a.width) }
func (a affine) Quantile(p float64) float64 { return a.lo + a.width*a.base.Quantile(p) }
func (a affine) Mean() float64              { return a.lo + a.width*a.base.Mean() }
func (a affine) Variance() float64          { return a.width * a.width * a.base.Variance() }

// truncNormal is distuv.Normal conditioned on [lo, hi].
type truncNormal struct {
	n          distuv.Normal
	lo, hi     float64
	cLo, cMass float64 // CDF(lo) and CDF(hi)-CDF(lo) of the parent
}

func newTruncNormal(mu, sigma, lo, hi float64) truncNormal {
	n := distuv.Normal{Mu: mu, Sigma: sigma}
	cLo := n.CDF(lo)

	return truncNormal{n: n, lo: lo, hi: hi, cLo: cLo, cMass: n.CDF(hi) - cLo}
}

func (t truncNormal) Prob(x float64) float64 {
	if x < t.lo || x > t.hi {
		return 0
	}

	return t.n.Prob(x) / t.cMass
}

func (t truncNormal) CDF(x float64) float64 {
	switch {
	case x <= t.lo:
		return 0
	case x >= t.hi:
		return 1
	}

	return (t.n.CDF(x) - t.cLo) / t.cMass
}

func (t truncNormal) Quantile(p float64) float64 {
	x := t.n.Quantile(t.cLo + p*t.cMass)

	return math.Min(math.Max(x, t.lo), t.hi)
}

func (t truncNormal) Mean() float64 {
	s := t.n.Sigma
	alpha, beta := (t.lo-t.n.Mu)/s, (t.hi-t.n.Mu)/s
	std := distuv.UnitNormal

	return t.n.Mu + s*(std.Prob(alpha)-std.Prob(beta))/t.cMass
}

func (t truncNormal) Variance() float64 {
	s := t.n.Sigma
	alpha, beta := (t.lo-t.n.Mu)/s, (t.hi-t.n.Mu)/s
	std := distuv.UnitNormal
	pa, pb := std.Prob(alpha), std.Prob(beta)
	d := (pa - pb) / t.cMass

	return s * s * (1 + (alpha*pa-beta*pb)/t.cMass - d*d)
}

// positive reports 0 < v < ∞ (false for NaN).
func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

// finite reports that v is neither NaN nor ±Inf.
func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// boundsOK validates a finite, strictly increasing [Lower, Upper].
func (c Config) boundsOK() bool {
	return finite(c.Lower) && finite(c.Upper) && c.Lower < c.Upper
}

// init binds the law and the support, and prepares the discretised measure
// where needed.
func (p *Parameter) init() error {
	c := p.cfg
	switch c.Distribution {
	case Uniform:
		if !c.boundsOK() {
			return ErrInvalidBounds
		}
		p.law = distuv.Uniform{Min: c.Lower, Max: c.Upper}
		p.lo, p.hi = c.Lower, c.Upper

	case Gaussian:
		if !finite(c.ShapeA) || !positive(c.ShapeB) {
			return ErrInvalidShape
		}
		p.law = distuv.Normal{Mu: c.ShapeA, Sigma: math.Sqrt(c.ShapeB)}
		p.lo, p.hi = math.Inf(-1), math.Inf(1)

	case Beta:
		if !c.boundsOK() {
			return ErrInvalidBounds
		}
		if !positive(c.ShapeA) || !positive(c.ShapeB) {
			return ErrInvalidShape
		}
		p.law = affine{base: distuv.Beta{Alpha: c.ShapeA, Beta: c.ShapeB}, lo: c.Lower, width: c.Upper - c.Lower}
		p.lo, p.hi = c.Lower, c.Upper

	case Chebyshev:
		if !c.boundsOK() {
			return ErrInvalidBounds
		}
		p.law = affine{base: distuv.Beta{Alpha: 0.5, Beta: 0.5}, lo: c.Lower, width: c.Upper - c.Lower}
		p.lo, p.hi = c.Lower, c.Upper

	case Gamma:
		if !positive(c.ShapeA) || !positive(c.ShapeB) {
			return ErrInvalidShape
		}
		p.law = distuv.Gamma{Alpha: c.ShapeA, Beta: 1 / c.ShapeB}
		p.lo, p.hi = 0, math.Inf(1)

	case Exponential:
		if !positive(c.ShapeA) {
			return ErrInvalidShape
		}
		p.law = distuv.Exponential{Rate: c.ShapeA}
		p.lo, p.hi = 0, math.Inf(1)

	case TruncatedGaussian:
		if !c.boundsOK() {
			return ErrInvalidBounds
		}
		if !finite(c.ShapeA) || !positive(c.ShapeB) {
			return ErrInvalidShape
		}
		tn := newTruncNormal(c.ShapeA, math.Sqrt(c.ShapeB), c.Lower, c.Upper)
		if !(tn.cMass > 0) {
			return ErrInvalidShape
		}
		p.law = tn
		p.lo, p.hi = c.Lower, c.Upper

	case Weibull:
		if !positive(c.ShapeA) || !positive(c.ShapeB) {
			return ErrInvalidShape
		}
		p.law = distuv.Weibull{K: c.ShapeB, Lambda: c.ShapeA}
		p.lo, p.hi = 0, math.Inf(1)

	default:
		return ErrUnknownDistribution
	}

	if p.usesStieltjes() {
		disc, err := p.discretise(defaultDiscretisation)
		if err != nil {
			return err
		}
		p.disc = disc
	}

	return nil
}

// PDF evaluates the probability density at x (0 outside the support).
func (p *Parameter) PDF(x float64) float64 {
	if x < p.lo || x > p.hi {
		return 0
	}

	return p.law.Prob(x)
}

// CDF evaluates the cumulative distribution function at x.
func (p *Parameter) CDF(x float64) float64 {
	switch {
	case x <= p.lo:
		return 0
	case x >= p.hi:
		return 1
	}

	return p.law.CDF(x)
}

// Quantile inverts the CDF. It returns NaN for u outside [0, 1].
func (p *Parameter) Quantile(u float64) float64 {
	if !(u >= 0 && u <= 1) {
		return math.NaN()
	}

	return p.law.Quantile(u)
}

// Mean returns the exact mean of the law.
func (p *Parameter) Mean() float64 { return p.law.Mean() }

// Variance returns the exact variance of the law.
func (p *Parameter) Variance() float64 { return p.law.Variance() }
