// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   - Provide small, deterministic fixtures and property checks for kernels.
//   - Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equad/matrix"
)

// hide wraps any Matrix to hide its concrete type from type assertions.
// Wrapping an operand forces the asDense copy path inside kernels, so tests
// can assert that the copy path and the *Dense path agree.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t *testing.T, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err, "NewDense(%d,%d)", r, c)

	return m
}

// NewFilledDense builds an r×c *Dense from a row-major flat slice.
func NewFilledDense(t *testing.T, r, c int, vals []float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(r, c, vals)
	require.NoError(t, err, "NewDenseFrom(%d,%d)", r, c)

	return m
}

// RandFilledDense returns a new r×c Dense filled with deterministic U(-1,1) values.
func RandFilledDense(t *testing.T, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	m := MustDense(t, r, c)
	rng := rand.New(rand.NewSource(seed))
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			MustSet(t, m, i, j, rng.Float64()*2-1)
		}
	}

	return m
}

// MustSet writes v to m[i,j] or fails the test.
func MustSet(t *testing.T, m matrix.Matrix, i, j int, v float64) {
	t.Helper()
	require.NoError(t, m.Set(i, j, v), "Set(%d,%d,%v)", i, j, v)
}

// MustAt reads m[i,j] or fails the test.
func MustAt(t *testing.T, m matrix.Matrix, i, j int) float64 {
	t.Helper()
	v, err := m.At(i, j)
	require.NoError(t, err, "At(%d,%d)", i, j)

	return v
}

// CompareExact asserts strict equality between a matrix and a 2D literal.
func CompareExact(t *testing.T, want [][]float64, m matrix.Matrix) {
	t.Helper()
	require.Equal(t, len(want), m.Rows(), "rows")
	for i := range want {
		require.Equal(t, len(want[i]), m.Cols(), "cols of row %d", i)
		for j := range want[i] {
			require.Equal(t, want[i][j], MustAt(t, m, i, j), "m[%d,%d]", i, j)
		}
	}
}

// CompareClose asserts AllClose(a,b) under (rtol, atol).
func CompareClose(t *testing.T, a, b matrix.Matrix, rtol, atol float64) {
	t.Helper()
	ok, err := matrix.AllClose(a, b, rtol, atol)
	require.NoError(t, err)
	require.True(t, ok, "matrices differ:\n%v\nvs\n%v", a, b)
}

// SymmetricTridiagonal expands (diag, sub) into a dense n×n matrix.
func SymmetricTridiagonal(t *testing.T, diag, sub []float64) *matrix.Dense {
	t.Helper()
	n := len(diag)
	m := MustDense(t, n, n)
	for i := 0; i < n; i++ {
		MustSet(t, m, i, i, diag[i])
		if i+1 < n {
			MustSet(t, m, i, i+1, sub[i])
			MustSet(t, m, i+1, i, sub[i])
		}
	}

	return m
}

// propOrthonormal asserts QᵀQ ≈ I.
func propOrthonormal(t *testing.T, Q matrix.Matrix, delta float64) {
	t.Helper()
	Qt, err := matrix.Transpose(Q)
	require.NoError(t, err)
	QtQ, err := matrix.Mul(Qt, Q)
	require.NoError(t, err)
	I, err := matrix.NewIdentity(Q.Cols())
	require.NoError(t, err)
	CompareClose(t, QtQ, I, 0, delta)
}

// propEigenEquation asserts A·q_j ≈ λ_j·q_j for every column q_j of Q.
func propEigenEquation(t *testing.T, A, Q matrix.Matrix, vals []float64, delta float64) {
	t.Helper()
	AQ, err := matrix.Mul(A, Q)
	require.NoError(t, err)
	n := Q.Rows()
	for j := range vals {
		for i := 0; i < n; i++ {
			require.InDelta(t, vals[j]*MustAt(t, Q, i, j), MustAt(t, AQ, i, j), delta, "(AQ)[%d,%d]", i, j)
		}
	}
}

// propReconstructionLU asserts A ≈ L·U.
func propReconstructionLU(t *testing.T, A, L, U matrix.Matrix, delta float64) {
	t.Helper()
	LU, err := matrix.Mul(L, U)
	require.NoError(t, err)
	CompareClose(t, LU, A, 0, delta)
}

// residualNorm returns ||A x - b||₂.
func residualNorm(t *testing.T, A matrix.Matrix, x, b []float64) float64 {
	t.Helper()
	Ax, err := matrix.MatVec(A, x)
	require.NoError(t, err)
	s := 0.0
	for i := range b {
		s += (Ax[i] - b[i]) * (Ax[i] - b[i])
	}

	return math.Sqrt(s)
}
