// SPDX-License-Identifier: MIT

// Package basis builds the multi-index sets that select which multivariate
// orthonormal polynomials ψ_j(x) = Π_k q_{j_k}(x_k) enter a surrogate.
//
// Kinds:
//
//	TensorGrid   0 ≤ j_k ≤ orders[k]
//	TotalOrder   Σ j_k ≤ max(orders)
//	Hyperbolic   (Σ j_k^q)^(1/q) ≤ max(orders), 0 < q ≤ 1
//	Euclidean    ||j||₂ ≤ max(orders)
//	Univariate   at most one non-zero component
//	SparseGrid   Smolyak level L with Linear or Exponential growth
//
// All kinds except SparseGrid also cap each component by orders[k].
// Elements are sorted by total order, then lexicographically; the zero
// multi-index is always first, so the first coefficient of a fitted
// surrogate is its mean.
package basis
