// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// matrix multiplication, transpose, scaling, matrix-vector products, and the
// classical square factorizations (Jacobi eigen, Doolittle LU, inverse).
//
// Purpose:
//   - Canonical kernels used across equad (design matrices, Gram matrices,
//     normal equations, conditioning diagnostics).
//   - Operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Every kernel normalizes its operands once through asDense and then runs
//     flat row-major loops; non-Dense inputs pay one O(r*c) copy.
//   - All kernels validate via validators.go and wrap errors with matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

// NormZero is the additive identity for norm and accumulation operations.
const NormZero = 0.0

// ZeroSum is the initial sum value for forward/backward substitution and similar.
const ZeroSum = 0.0

// ZeroPivot is the sentinel for detecting a zero pivot in LU/Inverse routines.
const ZeroPivot = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opMul          = "Mul"
	opTranspose    = "Transpose"
	opScale        = "Scale"
	opMatVec       = "MatVec"
	opEigen        = "Eigen"
	opInverse      = "Inverse"
	opLU           = "LU"
	opTridiagEigen = "SymTridiagonalEigen"
	opLeastSquares = "LeastSquares"
	opPivotedQR    = "PivotedQR"
	opAllClose     = "AllClose"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: i→k→j loops over flat buffers, skipping zero A[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	ad, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	bd, err := asDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	r, n, c := ad.r, ad.c, bd.c
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var i, k, j, aBase, bBase, oBase int
	var aik float64
	for i = 0; i < r; i++ {
		aBase, oBase = i*n, i*c
		for k = 0; k < n; k++ {
			aik = ad.data[aBase+k]
			if aik == 0 {
				continue
			}
			bBase = k * c
			for j = 0; j < c; j++ {
				out.data[oBase+j] += aik * bd.data[bBase+j]
			}
		}
	}

	return out, nil
}

// Transpose returns a fresh Dense holding mᵀ.
// Complexity: Time O(r*c), Space O(r*c).
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out, err := NewDense(d.c, d.r)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	out.validateNaNInf = d.validateNaNInf
	for i := 0; i < d.r; i++ {
		for j := 0; j < d.c; j++ {
			out.data[j*d.r+i] = d.data[i*d.c+j]
		}
	}

	return out, nil
}

// Scale returns alpha*m as a fresh Dense.
//
// Errors:
//   - ErrNilMatrix; ErrNaNInf for a non-finite alpha.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return nil, matrixErrorf(opScale, ErrNaNInf)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	out, err := NewDense(d.r, d.c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	for k, v := range d.data {
		out.data[k] = alpha * v
	}

	return out, nil
}

// MatVec computes y = m·x.
//
// Errors:
//   - ErrNilMatrix (nil m or x), ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.r)
	var i, j, base int
	var acc, xv float64
	for i = 0; i < d.r; i++ {
		acc = ZeroSum
		base = i * d.c
		for j = 0; j < d.c; j++ {
			xv = x[j]
			if xv != 0 { // skip zero multiplications
				acc += d.data[base+j] * xv
			}
		}
		y[i] = acc
	}

	return y, nil
}

// MatTVec computes y = mᵀ·x without materializing the transpose.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Rows).
func MatTVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	d, err := asDense(m)
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	y := make([]float64, d.c)
	var i, j, base int
	var xv float64
	for i = 0; i < d.r; i++ {
		xv = x[i]
		if xv == 0 {
			continue
		}
		base = i * d.c
		for j = 0; j < d.c; j++ {
			y[j] += d.data[base+j] * xv
		}
	}

	return y, nil
}

// Eigen computes eigenvalues and eigenvectors of a symmetric matrix via Jacobi rotations.
// Implementation:
//   - Stage 1: Validate symmetric square input within tol.
//   - Stage 2: Repeatedly pick (p,q) with the largest |A[p,q]| in i→j order and
//     apply one Jacobi rotation, accumulating it into Q.
//
// Inputs:
//   - m: symmetric Matrix (within tol).
//   - tol: convergence threshold on max |A[p,q]| (typ. 1e-10..1e-12).
//   - maxIter: safety cap on the number of rotations.
//
// Returns:
//   - []float64: eigenvalues (diagonal of the rotated matrix, unsorted).
//   - *Dense: Q whose columns are the matching eigenvectors.
//
// Errors:
//   - ErrDimensionMismatch, ErrAsymmetry, ErrMatrixEigenFailed (max off-diagonal ≥ tol after maxIter).
//
// Complexity:
//   - Time O(maxIter * n^2) (pivot scan dominates), Space O(n^2).
//
// Notes:
//   - Meant for small dense symmetric matrices (Gram matrices of a few hundred
//     columns at most). Jacobi matrices of orthogonal polynomials go through
//     SymTridiagonalEigen instead.
func Eigen(m Matrix, tol float64, maxIter int) ([]float64, *Dense, error) {
	if err := ValidateSymmetric(m, tol); err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	src, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}
	A := src.Clone().(*Dense)
	n := A.r
	Q, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opEigen, err)
	}

	var (
		iter, i, j, p, q int
		maxOff, off      float64
		app, aqq, apq    float64
		aip, aiq         float64
		qip, qiq         float64
		theta, t, c, s   float64
	)
	maxOffDiag := func() float64 {
		mx := NormZero
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if v := math.Abs(A.data[i*n+j]); v > mx {
					mx = v
				}
			}
		}
		return mx
	}

	for iter = 0; iter < maxIter; iter++ {
		// Pivot: largest |A[p,q]| in a fixed i→j scan.
		maxOff = NormZero
		for i = 0; i < n; i++ {
			for j = i + 1; j < n; j++ {
				off = math.Abs(A.data[i*n+j])
				if off > maxOff {
					maxOff, p, q = off, i, j
				}
			}
		}
		if maxOff < tol {
			break
		}

		app, aqq, apq = A.data[p*n+p], A.data[q*n+q], A.data[p*n+q]
		theta = (aqq - app) / (2 * apq)
		t = math.Copysign(1.0/(math.Abs(theta)+math.Hypot(theta, 1)), theta)
		c = 1.0 / math.Sqrt(t*t+1)
		s = t * c

		for i = 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip, aiq = A.data[i*n+p], A.data[i*n+q]
			A.data[i*n+p] = c*aip - s*aiq
			A.data[p*n+i] = A.data[i*n+p]
			A.data[i*n+q] = s*aip + c*aiq
			A.data[q*n+i] = A.data[i*n+q]
		}
		A.data[p*n+p] = c*c*app - 2*c*s*apq + s*s*aqq
		A.data[q*n+q] = s*s*app + 2*c*s*apq + c*c*aqq
		A.data[p*n+q], A.data[q*n+p] = 0, 0

		for i = 0; i < n; i++ {
			qip, qiq = Q.data[i*n+p], Q.data[i*n+q]
			Q.data[i*n+p] = c*qip - s*qiq
			Q.data[i*n+q] = s*qip + c*qiq
		}
	}
	if maxOffDiag() >= tol {
		return nil, nil, matrixErrorf(opEigen, ErrMatrixEigenFailed)
	}

	eigs := make([]float64, n)
	for i = 0; i < n; i++ {
		eigs[i] = A.data[i*n+i]
	}

	return eigs, Q, nil
}

// LU computes the Doolittle factorization A = L*U with unit diagonal on L (no pivoting).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular (if U[i,i]==0 during factorization).
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// Notes:
//   - Callers in equad only factor symmetric positive definite Gram matrices,
//     for which the unpivoted scheme never meets a zero pivot in exact arithmetic.
func LU(m Matrix) (*Dense, *Dense, error) {
	if err := ValidateSquareNonNil(m); err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	A, err := asDense(m)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	n := A.r
	L, err := NewIdentity(n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}
	U, err := NewDense(n, n)
	if err != nil {
		return nil, nil, matrixErrorf(opLU, err)
	}

	var i, j, k int
	var sum float64
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * U.data[k*n+j]
			}
			U.data[i*n+j] = A.data[i*n+j] - sum
		}
		if U.data[i*n+i] == ZeroPivot {
			return nil, nil, matrixErrorf(opLU, ErrSingular)
		}
		for j = i + 1; j < n; j++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[j*n+k] * U.data[k*n+i]
			}
			L.data[j*n+i] = (A.data[j*n+i] - sum) / U.data[i*n+i]
		}
	}

	return L, U, nil
}

// Inverse computes A^{-1} from LU(m): one forward and one backward solve per
// canonical basis column.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
func Inverse(m Matrix) (*Dense, error) {
	L, U, err := LU(m)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := L.r
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}

	y := make([]float64, n)
	x := make([]float64, n)
	var col, i, k int
	var sum float64
	for col = 0; col < n; col++ {
		// L*y = e_col
		for i = 0; i < n; i++ {
			sum = ZeroSum
			for k = 0; k < i; k++ {
				sum += L.data[i*n+k] * y[k]
			}
			if i == col {
				y[i] = 1.0 - sum
			} else {
				y[i] = -sum
			}
		}
		// U*x = y
		for i = n - 1; i >= 0; i-- {
			sum = ZeroSum
			for k = i + 1; k < n; k++ {
				sum += U.data[i*n+k] * x[k]
			}
			x[i] = (y[i] - sum) / U.data[i*n+i]
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
	}

	return inv, nil
}
