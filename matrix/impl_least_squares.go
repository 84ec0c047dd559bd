// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Householder-based kernels for overdetermined systems:
//     LeastSquares solves min ||A x - b||₂, PivotedQR ranks columns by how much
//     new information they carry (Businger–Golub column pivoting).
//
// Determinism:
//   - Fixed loop orders; pivot ties resolve to the lowest column index.

package matrix

import "math"

// householder turns column col of R (rows from..m-1) into a reflector.
// It returns the reflector v (length m-from), the new diagonal value alpha and
// vᵀv. A zero column yields vtv == 0 and must be skipped by the caller.
func householder(R *Dense, col, from int) (v []float64, alpha, vtv float64) {
	m, n := R.r, R.c
	v = make([]float64, m-from)
	norm := NormZero
	for i := from; i < m; i++ {
		v[i-from] = R.data[i*n+col]
		norm += v[i-from] * v[i-from]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return v, 0, 0
	}
	alpha = -math.Copysign(norm, v[0])
	v[0] -= alpha
	for _, x := range v {
		vtv += x * x
	}

	return v, alpha, vtv
}

// reflectColumns applies H = I - 2vvᵀ/(vᵀv) to columns [c0,n) of R, rows [from,m).
func reflectColumns(R *Dense, v []float64, vtv float64, from, c0 int) {
	m, n := R.r, R.c
	var i, j int
	var dot, f float64
	for j = c0; j < n; j++ {
		dot = ZeroSum
		for i = from; i < m; i++ {
			dot += v[i-from] * R.data[i*n+j]
		}
		f = 2 * dot / vtv
		for i = from; i < m; i++ {
			R.data[i*n+j] -= f * v[i-from]
		}
	}
}

// LeastSquares solves min_x ||A x - b||₂ for a full-column-rank A (m ≥ n).
//
// Implementation:
//   - Householder QR of A applied in place to a copy of b (Qᵀb), then
//     back substitution on the leading n×n block of R.
//
// Returns:
//   - x of length n and the residual norm ||A x - b||₂ (the tail of Qᵀb).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(b) != m or m < n),
//     ErrSingular (|R[k,k]| ≤ DefaultRankTolerance·max|R[i,i]|).
//
// Complexity:
//   - Time O(m·n²), Space O(m·n).
func LeastSquares(a Matrix, b []float64) ([]float64, float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	m, n := a.Rows(), a.Cols()
	if m < n {
		return nil, 0, matrixErrorf(opLeastSquares, ErrDimensionMismatch)
	}
	if err := ValidateVecLen(b, m); err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	src, err := asDense(a)
	if err != nil {
		return nil, 0, matrixErrorf(opLeastSquares, err)
	}
	R := src.Clone().(*Dense)
	y := make([]float64, m)
	copy(y, b)

	var i, j, k int
	var dot, f float64
	for k = 0; k < n; k++ {
		v, alpha, vtv := householder(R, k, k)
		if vtv == 0 {
			continue // zero column: caught by the rank test below
		}
		reflectColumns(R, v, vtv, k, k+1)
		R.data[k*n+k] = alpha
		for i = k + 1; i < m; i++ {
			R.data[i*n+k] = 0
		}
		dot = ZeroSum
		for i = k; i < m; i++ {
			dot += v[i-k] * y[i]
		}
		f = 2 * dot / vtv
		for i = k; i < m; i++ {
			y[i] -= f * v[i-k]
		}
	}

	maxDiag := NormZero
	for k = 0; k < n; k++ {
		maxDiag = math.Max(maxDiag, math.Abs(R.data[k*n+k]))
	}
	if maxDiag == 0 {
		return nil, 0, matrixErrorf(opLeastSquares, ErrSingular)
	}
	for k = 0; k < n; k++ {
		if math.Abs(R.data[k*n+k]) <= DefaultRankTolerance*maxDiag {
			return nil, 0, matrixErrorf(opLeastSquares, ErrSingular)
		}
	}

	x := make([]float64, n)
	var sum float64
	for i = n - 1; i >= 0; i-- {
		sum = ZeroSum
		for j = i + 1; j < n; j++ {
			sum += R.data[i*n+j] * x[j]
		}
		x[i] = (y[i] - sum) / R.data[i*n+i]
	}

	res := NormZero
	for i = n; i < m; i++ {
		res += y[i] * y[i]
	}

	return x, math.Sqrt(res), nil
}

// PivotedQR runs k steps of Householder QR with column pivoting on A and
// returns the indices of the k columns chosen, in selection order.
//
// At each step the remaining column with the largest residual norm (its norm
// after projecting out the columns already chosen) is swapped to the front.
// Residual norms are downdated per step and recomputed when cancellation
// makes the downdate unreliable.
//
// Errors:
//   - ErrNilMatrix; ErrDimensionMismatch when k < 1 or k > min(Rows, Cols).
//
// Complexity:
//   - Time O(k·m·n), Space O(m·n).
func PivotedQR(a Matrix, k int) ([]int, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, matrixErrorf(opPivotedQR, err)
	}
	m, n := a.Rows(), a.Cols()
	if k < 1 || k > m || k > n {
		return nil, matrixErrorf(opPivotedQR, ErrDimensionMismatch)
	}
	src, err := asDense(a)
	if err != nil {
		return nil, matrixErrorf(opPivotedQR, err)
	}
	R := src.Clone().(*Dense)

	perm := make([]int, n)
	norms := make([]float64, n)
	orig := make([]float64, n)
	colNorm := func(j, from int) float64 {
		s := NormZero
		for i := from; i < m; i++ {
			s += R.data[i*n+j] * R.data[i*n+j]
		}
		return s
	}
	for j := 0; j < n; j++ {
		perm[j] = j
		norms[j] = colNorm(j, 0)
		orig[j] = norms[j]
	}

	var s, j, best, i int
	for s = 0; s < k; s++ {
		best = s
		for j = s + 1; j < n; j++ {
			if norms[j] > norms[best] {
				best = j
			}
		}
		if best != s {
			for i = 0; i < m; i++ {
				R.data[i*n+s], R.data[i*n+best] = R.data[i*n+best], R.data[i*n+s]
			}
			perm[s], perm[best] = perm[best], perm[s]
			norms[s], norms[best] = norms[best], norms[s]
			orig[s], orig[best] = orig[best], orig[s]
		}

		v, alpha, vtv := householder(R, s, s)
		if vtv != 0 {
			reflectColumns(R, v, vtv, s, s+1)
			R.data[s*n+s] = alpha
			for i = s + 1; i < m; i++ {
				R.data[i*n+s] = 0
			}
		}

		for j = s + 1; j < n; j++ {
			norms[j] -= R.data[s*n+j] * R.data[s*n+j]
			if norms[j] <= 1e-10*orig[j] {
				norms[j] = colNorm(j, s+1)
			}
		}
	}

	return perm[:k:k], nil
}
