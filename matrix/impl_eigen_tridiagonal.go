// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Eigen-decomposition of a symmetric tridiagonal matrix given by its
//     diagonal and sub-diagonal. This is the workhorse of Golub–Welsch
//     quadrature: nodes are the eigenvalues, weights come from the first
//     component of each normalized eigenvector.

package matrix

import (
	"math"
	"sort"
)

// SymTridiagonalEigen diagonalizes the symmetric tridiagonal matrix T with
// T[i,i] = diag[i] and T[i+1,i] = T[i,i+1] = sub[i].
//
// Implementation:
//   - Implicit QL with Wilkinson-style shifts, deflating one eigenvalue at a time.
//   - Rotations are accumulated into Z (starting at I). When wantVectors is
//     false only the first row of Z is tracked, which is all Gauss rules need.
//   - Eigenvalues are sorted ascending and Z's columns are permuted alongside.
//
// Inputs:
//   - diag: length n ≥ 1.
//   - sub: length n-1.
//
// Returns:
//   - []float64: eigenvalues in ascending order.
//   - *Dense: n×n eigenvectors as columns, or the 1×n first row when !wantVectors.
//
// Errors:
//   - ErrInvalidDimensions (empty diag), ErrDimensionMismatch (len(sub) != n-1),
//     ErrNaNInf (non-finite input), ErrMatrixEigenFailed (no deflation within
//     DefaultQLMaxIter sweeps for some eigenvalue).
//
// Complexity:
//   - Time O(n^2) without vectors, O(n^3) with vectors. Space O(n) / O(n^2).
func SymTridiagonalEigen(diag, sub []float64, wantVectors bool) ([]float64, *Dense, error) {
	n := len(diag)
	if n == 0 {
		return nil, nil, matrixErrorf(opTridiagEigen, ErrInvalidDimensions)
	}
	if len(sub) != n-1 {
		return nil, nil, matrixErrorf(opTridiagEigen, ErrDimensionMismatch)
	}
	if err := ValidateFinite(diag); err != nil {
		return nil, nil, matrixErrorf(opTridiagEigen, err)
	}
	if err := ValidateFinite(sub); err != nil {
		return nil, nil, matrixErrorf(opTridiagEigen, err)
	}

	d := make([]float64, n)
	copy(d, diag)
	e := make([]float64, n) // e[n-1] stays 0
	copy(e, sub)

	zr := 1
	if wantVectors {
		zr = n
	}
	Z, err := NewDense(zr, n)
	if err != nil {
		return nil, nil, matrixErrorf(opTridiagEigen, err)
	}
	for i := 0; i < zr; i++ {
		Z.data[i*n+i] = 1
	}

	var (
		l, m, i, k, iter int
		dd, g, r, s, c   float64
		p, f, b, zf      float64
		split            bool
	)
	for l = 0; l < n; l++ {
		iter = 0
		for {
			// Look for a negligible off-diagonal element to split the matrix.
			for m = l; m < n-1; m++ {
				dd = math.Abs(d[m]) + math.Abs(d[m+1])
				if math.Abs(e[m]) <= machineEps*dd {
					break
				}
			}
			if m == l {
				break
			}
			if iter == DefaultQLMaxIter {
				return nil, nil, matrixErrorf(opTridiagEigen, ErrMatrixEigenFailed)
			}
			iter++

			g = (d[l+1] - d[l]) / (2 * e[l])
			r = math.Hypot(g, 1)
			g = d[m] - d[l] + e[l]/(g+math.Copysign(r, g))
			s, c, p = 1, 1, 0
			split = false
			for i = m - 1; i >= l; i-- {
				f = s * e[i]
				b = c * e[i]
				r = math.Hypot(f, g)
				e[i+1] = r
				if r == 0 {
					// Underflow: recover and restart the sweep.
					d[i+1] -= p
					e[m] = 0
					split = true
					break
				}
				s = f / r
				c = g / r
				g = d[i+1] - p
				r = (d[i]-g)*s + 2*c*b
				p = s * r
				d[i+1] = g + p
				g = c*r - b
				for k = 0; k < zr; k++ {
					zf = Z.data[k*n+i+1]
					Z.data[k*n+i+1] = s*Z.data[k*n+i] + c*zf
					Z.data[k*n+i] = c*Z.data[k*n+i] - s*zf
				}
			}
			if split {
				continue
			}
			d[l] -= p
			e[l] = g
			e[m] = 0
		}
	}

	order := make([]int, n)
	for i = range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return d[order[a]] < d[order[b]] })

	vals := make([]float64, n)
	vecs, err := NewDense(zr, n)
	if err != nil {
		return nil, nil, matrixErrorf(opTridiagEigen, err)
	}
	for j, src := range order {
		vals[j] = d[src]
		for k = 0; k < zr; k++ {
			vecs.data[k*n+j] = Z.data[k*n+src]
		}
	}

	return vals, vecs, nil
}
