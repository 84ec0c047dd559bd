// SPDX-License-Identifier: MIT

package poly

import (
	"context"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
	"github.com/katalvlaran/equad/quadrature"
)

// FitLeastSquares fits coefficients on a subsample of a tensor Gauss grid (Polylsq).
//
// The candidate grid has MaxDegrees()+1 points per dimension. Rows of the
// weighted design matrix √w_i·ψ_n(x_i) are chosen by pivoted QR on its
// transpose (one row per basis term); when WithSamplingRatio asks for more
// rows, the remaining candidates with the largest weighted row norms are
// added. The model is evaluated at the chosen nodes only and the weighted
// system is solved by QR.
//
// Errors:
//   - ErrDimensionMismatch, ErrNoModel, ErrInvalidOption, ErrNonFiniteModel,
//     ctx.Err(), matrix.ErrSingular.
func FitLeastSquares(ctx context.Context, params []*parameter.Parameter, b *basis.Basis, model Model, opts ...Option) (*Poly, error) {
	if err := checkSetup(params, b); err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}
	if model == nil {
		return nil, polyErrorf(opFitLSQ, ErrNoModel)
	}
	o, err := resolve(opts)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}

	maxDeg := b.MaxDegrees()
	points := make([]int, len(maxDeg))
	for k, v := range maxDeg {
		points[k] = v + 1
	}
	grid, err := quadrature.Tensor(params, points)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}
	A, _, err := designMatrix(params, b, maxDeg, grid.Points, false)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}
	for i, w := range grid.Weights {
		floats.Scale(math.Sqrt(w), A.RawRow(i))
	}

	N, M := b.Cardinality(), grid.Len()
	want := int(math.Ceil(o.SamplingRatio * float64(N)))
	if want > M {
		want = M
	}
	rows, err := selectRows(A, N, want)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}

	o.Logger.Debug("poly: least-squares fit",
		"basis", b.String(), "candidates", M, "selected", len(rows), "workers", o.Workers)

	ns := newNodeSet(len(params))
	for _, r := range rows {
		ns.add(grid.Points.RawRow(r))
	}
	values, err := evaluate(ctx, model, ns, o.Workers)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}

	cols := make([]int, N)
	for n := range cols {
		cols[n] = n
	}
	As, err := A.Induced(rows, cols)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}
	rhs := make([]float64, len(rows))
	for i, r := range rows {
		rhs[i] = math.Sqrt(grid.Weights[r]) * values[i]
	}
	coeffs, _, err := matrix.LeastSquares(As, rhs)
	if err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}

	p := newPoly(params, b, coeffs, Diagnostics{
		Method:      LeastSquares,
		Evaluations: len(rows),
		Samples:     len(rows),
	})
	if err := p.scoreOn(ns, values); err != nil {
		return nil, polyErrorf(opFitLSQ, err)
	}

	return p, nil
}

// selectRows picks n rows of A by pivoted QR on Aᵀ, then tops up to want rows
// with the largest remaining row norms (ties to the lower index).
func selectRows(A *matrix.Dense, n, want int) ([]int, error) {
	if A.Rows() < n {
		return nil, fmt.Errorf("%d candidates for %d terms: %w", A.Rows(), n, ErrUnderdetermined)
	}
	At, err := matrix.Transpose(A)
	if err != nil {
		return nil, err
	}
	rows, err := matrix.PivotedQR(At, n)
	if err != nil {
		return nil, err
	}
	if want <= n {
		return rows, nil
	}

	taken := make(map[int]bool, want)
	for _, r := range rows {
		taken[r] = true
	}
	rest := make([]int, 0, A.Rows()-n)
	for i := 0; i < A.Rows(); i++ {
		if !taken[i] {
			rest = append(rest, i)
		}
	}
	norm := func(i int) float64 { return floats.Norm(A.RawRow(i), 2) }
	sort.SliceStable(rest, func(a, b int) bool { return norm(rest[a]) > norm(rest[b]) })

	return append(rows, rest[:want-n]...), nil
}
