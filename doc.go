// Package equad builds polynomial surrogates of expensive models and uses
// them for uncertainty quantification and optimisation.
//
// 🚀 What is equad?
//
//	A numerics library that brings together:
//		• Parameters: uniform, Gaussian, beta, Chebyshev, gamma, exponential,
//		  truncated Gaussian and Weibull inputs with their orthonormal polynomials
//		  and Gauss / Gauss–Lobatto rules
//		• Index sets: tensor, total-order, hyperbolic, Euclidean, univariate and
//		  Smolyak sparse-grid bases
//		• Quadrature: tensor rules by Kronecker products, sparse-grid rules
//		• Surrogates: pseudospectral projection (tensor and sparse grids),
//		  regression on user data, least squares on subsampled Gauss grids
//		• Statistics: mean, variance, skewness, kurtosis, Sobol indices
//		• Optimisation: bounded, linearly and polynomially constrained
//		  minimisation of a fitted surrogate
//
// Under the hood, everything is organized in subpackages:
//
//	matrix/      dense matrices, LU, QR, Jacobi and tridiagonal eigen solvers
//	parameter/   distributions, recurrences, orthonormal polynomials, Gauss rules
//	basis/       multi-index sets and Smolyak sub-grids
//	quadrature/  multivariate tensor and sparse quadrature rules
//	poly/        the Poly surrogate, its fitting methods and statistics
//	optimise/    constrained optimisation of surrogates
//	config/      YAML study files with environment overrides
//
// Quick example:
//
//	x := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1, Order: 3})
//	b := basis.MustNew(basis.TotalOrder, []int{3, 3})
//	p, _ := poly.FitIntegration(ctx, []*parameter.Parameter{x, x}, b, model)
//	fmt.Println(p.Mean(), p.Variance())
//
//	go get github.com/katalvlaran/equad
package equad
