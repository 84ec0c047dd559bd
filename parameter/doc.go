// SPDX-License-Identifier: MIT

// Package parameter models one independent uncertain input of a model.
//
// A Parameter couples a probability law (uniform, Gaussian, beta, Chebyshev,
// gamma, exponential, truncated Gaussian, Weibull) with the family of
// polynomials orthonormal with respect to it:
//
//	p, _ := parameter.New(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1, Order: 4})
//	x, w, _ := p.Quadrature(5)      // Gauss rule, Σw = 1
//	P, dP, _ := p.OrthoPoly(x, 4)   // q_0..q_4 and derivatives at x
//
// Densities, distribution functions, quantiles and moments come from gonum's
// stat/distuv. Recurrence coefficients are closed-form for the classical
// families and obtained by a discretised Stieltjes procedure for the
// truncated Gaussian and Weibull laws.
package parameter
