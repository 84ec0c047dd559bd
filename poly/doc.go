// SPDX-License-Identifier: MIT

// Package poly fits and queries polynomial surrogates of scalar models whose
// inputs are independent random variables.
//
// A surrogate is f(x) ≈ Σ_n c_n ψ_n(x) where ψ_n(x) = Π_k q_{j_k}(x_k) runs over
// the multi-indices j of a basis.Basis and q are the orthonormal polynomials of
// each parameter.Parameter. Three fitting routes are provided:
//
//	FitIntegration   pseudospectral projection on a tensor grid, or SPAM on a
//	                 sparse grid (model evaluated at quadrature nodes)
//	FitRegression    ordinary least squares on user-supplied samples
//	FitLeastSquares  weighted least squares on rows of a tensor grid chosen by
//	                 pivoted QR (model evaluated at the chosen nodes only)
//
// Because the basis is orthonormal, the mean is the coefficient of the zero
// multi-index, the variance is the sum of the remaining squared coefficients,
// and Sobol indices are ratios of partial sums of squares.
//
// Model evaluations run concurrently through golang.org/x/sync/errgroup; a
// Model must therefore be safe for concurrent use, or WithWorkers(1) must be set.
package poly
