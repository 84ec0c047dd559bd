// SPDX-License-Identifier: MIT

// Package optimise finds extrema of polynomial surrogates under bounds,
// linear constraints and constraints on other surrogates.
//
// Constraints enter a quadratic exterior penalty that is tightened round by
// round; each round is an unconstrained solve with gonum's optimize package
// (BFGS on analytic surrogate gradients, or Nelder–Mead). Anything satisfying
// Function can be optimised, so *poly.Poly plugs in directly:
//
//	res, err := optimise.Optimise(ctx, optimise.Problem{
//		Objective:   p,
//		Constraints: []optimise.Constraint{{Function: g, Lower: math.Inf(-1), Upper: 1}},
//	}, x0)
//
// MultiStart repeats the solve from several points and keeps the best
// feasible result, for objectives with more than one local extremum.
package optimise
