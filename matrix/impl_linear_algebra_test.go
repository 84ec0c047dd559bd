// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for universal Matrix (linear algebra) operations.
package matrix_test

import (
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equad/matrix"
)

func TestNewDense_InvalidAndZero(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	m := MustDense(t, 3, 2)
	CompareExact(t, [][]float64{{0, 0}, {0, 0}, {0, 0}}, m)

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, math.NaN(), 3, 4})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	assert.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
	_, err = m.At(3, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestDense_RowColInduced(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.Equal(t, []float64{4, 5, 6}, m.Row(1))
	assert.Equal(t, []float64{3, 6, 9}, m.Col(2))
	assert.Nil(t, m.Row(5))

	sub, err := m.Induced([]int{2, 0}, []int{1})
	require.NoError(t, err)
	CompareExact(t, [][]float64{{8}, {2}}, sub)

	_, err = m.Induced([]int{3}, []int{0})
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)

	row := m.RawRow(0)
	row[0] = 42
	assert.Equal(t, 42.0, MustAt(t, m, 0, 0))
	assert.Equal(t, "[42, 2, 3]\n[4, 5, 6]\n[7, 8, 9]\n", m.String())
}

func TestMul(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	B := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	want := [][]float64{{58, 64}, {139, 154}}

	tests := []struct {
		name string
		a, b matrix.Matrix
	}{
		{"dense", A, B},
		{"hidden left", hide{A}, B},
		{"hidden both", hide{A}, hide{B}},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			C, err := matrix.Mul(tc.a, tc.b)
			require.NoError(t, err)
			CompareExact(t, want, C)
		})
	}

	_, err := matrix.Mul(A, A)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, A)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTranspose_InvolutionNoMutation(t *testing.T) {
	t.Parallel()

	A := RandFilledDense(t, 4, 7, 7)
	orig := A.Clone()

	At, err := matrix.Transpose(hide{A})
	require.NoError(t, err)
	assert.Equal(t, 7, At.Rows())
	assert.Equal(t, 4, At.Cols())
	assert.Equal(t, MustAt(t, A, 1, 5), MustAt(t, At, 5, 1))

	Att, err := matrix.Transpose(At)
	require.NoError(t, err)
	CompareClose(t, Att, A, 0, 0)
	CompareClose(t, A, orig, 0, 0)
}

func TestScale(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 2, []float64{1, -2, 3, 0.5})
	S, err := matrix.Scale(A, -2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{-2, 4}, {-6, -1}}, S)

	_, err = matrix.Scale(A, math.NaN())
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestMatVec_MatTVec(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	y, err := matrix.MatVec(hide{A}, []float64{1, 0, -1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-2, -2}, y)

	z, err := matrix.MatTVec(A, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 12, 15}, z)

	_, err = matrix.MatVec(A, []float64{1, 2})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MatTVec(A, nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestEigen_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := matrix.Eigen(MustDense(t, 3, 4), 1e-10, 50)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	asym := MustDense(t, 3, 3)
	MustSet(t, asym, 0, 1, 1)
	MustSet(t, asym, 1, 0, 2)
	_, _, err = matrix.Eigen(asym, 1e-12, 50)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)

	// zero rotations with non-zero off-diagonals cannot converge
	sym := NewFilledDense(t, 3, 3, []float64{2, 1, 0, 1, 3, 0, 0, 0, 4})
	_, _, err = matrix.Eigen(sym, 1e-12, 0)
	assert.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestEigen_2x2_Analytic(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 2, []float64{2, 1, 1, 2})
	vals, Q, err := matrix.Eigen(A, 1e-12, 50)
	require.NoError(t, err)

	got := append([]float64(nil), vals...)
	sort.Float64s(got)
	assert.InDelta(t, 1.0, got[0], 1e-10)
	assert.InDelta(t, 3.0, got[1], 1e-10)

	propOrthonormal(t, Q, 1e-10)
	propEigenEquation(t, A, Q, vals, 1e-10)
}

func TestEigen_SPD_6x6(t *testing.T) {
	t.Parallel()

	M := RandFilledDense(t, 6, 6, 42)
	Mt, err := matrix.Transpose(M)
	require.NoError(t, err)
	A, err := matrix.Mul(Mt, M)
	require.NoError(t, err)

	vals, Q, err := matrix.Eigen(hide{A}, 1e-9, 500)
	require.NoError(t, err)
	require.Len(t, vals, 6)
	for _, v := range vals {
		assert.Greater(t, v, -1e-9, "SPD eigenvalue")
	}
	propOrthonormal(t, Q, 1e-8)
	propEigenEquation(t, A, Q, vals, 1e-6)
}

func TestLU_KnownDoolittle(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 3, 3, []float64{2, 1, 1, 4, 3, 3, 8, 7, 9})
	L, U, err := matrix.LU(A)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 0, 0}, {2, 1, 0}, {4, 3, 1}}, L)
	CompareExact(t, [][]float64{{2, 1, 1}, {0, 1, 1}, {0, 0, 2}}, U)

	L2, U2, err := matrix.LU(hide{A})
	require.NoError(t, err)
	CompareClose(t, L2, L, 0, 0)
	CompareClose(t, U2, U, 0, 0)

	B := RandFilledDense(t, 5, 5, 3)
	for i := 0; i < 5; i++ {
		MustSet(t, B, i, i, MustAt(t, B, i, i)+10) // diagonally dominant
	}
	L, U, err = matrix.LU(B)
	require.NoError(t, err)
	propReconstructionLU(t, B, L, U, 1e-12)
}

func TestLU_Inverse_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := matrix.LU(MustDense(t, 2, 3))
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	// zero leading pivot without pivoting
	perm := NewFilledDense(t, 2, 2, []float64{0, 1, 1, 0})
	_, err = matrix.Inverse(perm)
	assert.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(nil)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestInverse_Known2x2(t *testing.T) {
	t.Parallel()

	A := NewFilledDense(t, 2, 2, []float64{4, 7, 2, 6})
	inv, err := matrix.Inverse(A)
	require.NoError(t, err)
	want := NewFilledDense(t, 2, 2, []float64{0.6, -0.7, -0.2, 0.4})
	CompareClose(t, inv, want, 0, 1e-14)

	prod, err := matrix.Mul(A, inv)
	require.NoError(t, err)
	I, err := matrix.NewIdentity(2)
	require.NoError(t, err)
	CompareClose(t, prod, I, 0, 1e-14)
}

func TestAllClose(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 1, 2, []float64{1, 2})
	b := NewFilledDense(t, 1, 2, []float64{1 + 1e-10, 2})

	ok, err := matrix.AllClose(a, b, 0, 1e-9)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = matrix.AllClose(a, b, 0, 1e-12)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = matrix.AllClose(a, MustDense(t, 2, 1), 0, 0)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.AllClose(a, b, math.NaN(), 0)
	assert.ErrorIs(t, err, matrix.ErrNaNInf)
}
