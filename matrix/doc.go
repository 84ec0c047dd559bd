// SPDX-License-Identifier: MIT

// Package matrix provides the dense linear-algebra kernels used by equad.
//
// The matrix package provides:
//
//   - Dense, a row-major float64 matrix with safe At/Set accessors.
//   - Products and reshapes: Mul, Transpose, MatVec, Scale, Induced.
//   - Factorizations: LU/Inverse (Doolittle, no pivoting), Eigen (Jacobi
//     rotations for symmetric matrices), SymTridiagonalEigen (implicit QL for
//     Jacobi matrices of orthogonal polynomials).
//   - Least squares: LeastSquares (Householder QR) and PivotedQR
//     (Businger–Golub column selection).
//
// All kernels validate their inputs through validators.go and return the
// sentinels from errors.go wrapped with an operation tag, so callers can
// match them with errors.Is. Loop orders are fixed: identical inputs give
// bit-identical outputs.
//
// Complexity quicksheet:
//   - Mul O(r·n·c); Eigen O(maxIter·n²); SymTridiagonalEigen O(n²) values,
//     O(n³) with vectors; LeastSquares O(m·n²); PivotedQR O(m·n·k).
package matrix
