// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
)

// FitRegression fits coefficients to given data by ordinary least squares
// (Polyreg). X holds one sample per row (m×d) and y the matching outputs.
//
// SolverQR solves min ||A c - y|| by Householder QR; SolverNormal solves
// (AᵀA) c = Aᵀy with an LU inverse. Both report R² on the data and the
// condition number of AᵀA.
//
// Errors:
//   - ErrDimensionMismatch (X.Cols() != d or len(y) != m), ErrUnderdetermined
//     (m < Cardinality), ErrInvalidOption, matrix.ErrSingular.
func FitRegression(params []*parameter.Parameter, b *basis.Basis, X *matrix.Dense, y []float64, opts ...Option) (*Poly, error) {
	if err := checkSetup(params, b); err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}
	if X == nil || len(y) != X.Rows() {
		return nil, polyErrorf(opFitRegression, ErrDimensionMismatch)
	}
	if err := matrix.ValidateFinite(y); err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}
	o, err := resolve(opts)
	if err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}
	if X.Rows() < b.Cardinality() {
		return nil, polyErrorf(opFitRegression,
			fmt.Errorf("%d samples for %d terms: %w", X.Rows(), b.Cardinality(), ErrUnderdetermined))
	}

	A, _, err := designMatrix(params, b, b.MaxDegrees(), X, false)
	if err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}

	o.Logger.Debug("poly: regression fit",
		"basis", b.String(), "samples", X.Rows(), "solver", o.Solver.String())

	coeffs, err := solve(A, y, o.Solver)
	if err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}

	cond, err := ConditionNumber(A, o.EigenTolerance)
	if err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}
	if cond > IllConditioned {
		o.Logger.Warn("poly: ill-conditioned regression", "condition", cond, "samples", X.Rows())
	}

	est, err := matrix.MatVec(A, coeffs)
	if err != nil {
		return nil, polyErrorf(opFitRegression, err)
	}
	diag := Diagnostics{
		Method:          Regression,
		Samples:         X.Rows(),
		RSquared:        stat.RSquaredFrom(est, y, nil),
		Residual:        residualNorm(est, y),
		ConditionNumber: cond,
	}

	return newPoly(params, b, coeffs, diag), nil
}

// solve returns argmin ||A c - y||₂ with the chosen solver.
func solve(A *matrix.Dense, y []float64, s Solver) ([]float64, error) {
	if s == SolverQR {
		c, _, err := matrix.LeastSquares(A, y)
		return c, err
	}

	At, err := matrix.Transpose(A)
	if err != nil {
		return nil, err
	}
	G, err := matrix.Mul(At, A)
	if err != nil {
		return nil, err
	}
	Ginv, err := matrix.Inverse(G)
	if err != nil {
		return nil, err
	}
	rhs, err := matrix.MatTVec(A, y)
	if err != nil {
		return nil, err
	}

	return matrix.MatVec(Ginv, rhs)
}

// ConditionNumber returns λ_max/λ_min of the Gram matrix AᵀA/m using Jacobi
// eigenvalues; +Inf when AᵀA is singular.
func ConditionNumber(A *matrix.Dense, tol float64) (float64, error) {
	At, err := matrix.Transpose(A)
	if err != nil {
		return 0, err
	}
	G, err := matrix.Mul(At, A)
	if err != nil {
		return 0, err
	}
	G, err = matrix.Scale(G, 1/float64(A.Rows()))
	if err != nil {
		return 0, err
	}
	n := G.Rows()
	// symmetric up to rounding; mirror the upper triangle
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			G.RawRow(j)[i] = G.RawRow(i)[j]
		}
	}

	vals, _, err := matrix.Eigen(G, tol, 100*n*n+100)
	if err != nil {
		return 0, err
	}
	lo, hi := floats.Min(vals), floats.Max(vals)
	if lo <= 0 {
		return math.Inf(1), nil
	}

	return hi / lo, nil
}

// residualNorm is ||est - y||₂.
func residualNorm(est, y []float64) float64 {
	return floats.Distance(est, y, 2)
}
