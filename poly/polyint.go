// SPDX-License-Identifier: MIT
// Package: poly
//
// Purpose:
//   - Pseudospectral projection c_n = E[f ψ_n] by Gauss quadrature.
//   - Tensor bases: one tensor grid with MaxDegrees()+1 points per dimension;
//     the per-dimension projections Φ_k[j,i] = q_j(x_i)·w_i are applied with
//     kronMult, so the d-dimensional transform costs O(M·Σ n_k) instead of O(M²).
//   - SparseGrid bases (SPAM): every Smolyak sub-grid is projected on its own
//     tensor grid and the results are summed with the combination coefficients.
//     Model evaluations are shared between sub-grids with coincident nodes.

package poly

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
)

// tensorGrid is one tensor Gauss grid, its projection factors and the
// positions of its nodes in the shared nodeSet.
type tensorGrid struct {
	points  []int
	factors []*matrix.Dense
	nodes   []int
	weight  float64 // Smolyak coefficient; 1 for a plain tensor grid
}

// newTensorGrid builds the grid and registers its nodes (Kronecker order) in ns.
func newTensorGrid(params []*parameter.Parameter, points []int, weight float64, ns *nodeSet) (*tensorGrid, error) {
	d := len(params)
	tg := &tensorGrid{points: points, factors: make([]*matrix.Dense, d), weight: weight}
	x := make([][]float64, d)
	for k, p := range params {
		nodes, w, err := p.Quadrature(points[k])
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", k, err)
		}
		Q, _, err := p.OrthoPoly(nodes, points[k]-1)
		if err != nil {
			return nil, fmt.Errorf("dimension %d: %w", k, err)
		}
		for j := 0; j < points[k]; j++ {
			row := Q.RawRow(j)
			for i := range row {
				row[i] *= w[i]
			}
		}
		tg.factors[k], x[k] = Q, nodes
	}

	idx := combin.Cartesian(points)
	tg.nodes = make([]int, len(idx))
	pt := make([]float64, d)
	for i, tuple := range idx {
		for k, j := range tuple {
			pt[k] = x[k][j]
		}
		tg.nodes[i] = ns.add(pt)
	}

	return tg, nil
}

// project returns the tensor coefficients of this grid given all node values,
// in combin.Cartesian order over degrees 0..points[k]-1.
func (tg *tensorGrid) project(values []float64) []float64 {
	f := make([]float64, len(tg.nodes))
	for i, at := range tg.nodes {
		f[i] = values[at]
	}

	return kronMult(tg.factors, f)
}

// FitIntegration computes coefficients by pseudospectral projection (Polyint).
//
// A SparseGrid basis is fitted with the sparse pseudospectral approximation
// method over its sub-grids; any other basis uses a tensor grid resolving its
// maximum per-dimension degrees and keeps the coefficients of its elements.
//
// The model is evaluated once per distinct node, concurrently (WithWorkers).
//
// Errors:
//   - ErrDimensionMismatch, ErrNoModel, ErrInvalidOption, ErrNonFiniteModel,
//     ctx.Err(), and parameter quadrature errors.
func FitIntegration(ctx context.Context, params []*parameter.Parameter, b *basis.Basis, model Model, opts ...Option) (*Poly, error) {
	if err := checkSetup(params, b); err != nil {
		return nil, polyErrorf(opFitIntegration, err)
	}
	if model == nil {
		return nil, polyErrorf(opFitIntegration, ErrNoModel)
	}
	o, err := resolve(opts)
	if err != nil {
		return nil, polyErrorf(opFitIntegration, err)
	}

	ns := newNodeSet(len(params))
	var grids []*tensorGrid
	if b.Kind() == basis.SparseGrid {
		for _, sg := range b.SubGrids() {
			tg, err := newTensorGrid(params, sg.Points, sg.Coefficient, ns)
			if err != nil {
				return nil, polyErrorf(opFitIntegration, err)
			}
			grids = append(grids, tg)
		}
	} else {
		points := b.MaxDegrees()
		for k := range points {
			points[k]++
		}
		tg, err := newTensorGrid(params, points, 1, ns)
		if err != nil {
			return nil, polyErrorf(opFitIntegration, err)
		}
		grids = append(grids, tg)
	}

	o.Logger.Debug("poly: integration fit",
		"basis", b.String(), "grids", len(grids), "nodes", ns.len(), "workers", o.Workers)

	values, err := evaluate(ctx, model, ns, o.Workers)
	if err != nil {
		return nil, polyErrorf(opFitIntegration, err)
	}

	coeffs := make([]float64, b.Cardinality())
	for _, tg := range grids {
		c := tg.project(values)
		for i, j := range combin.Cartesian(tg.points) {
			if n, ok := b.Find(j); ok {
				coeffs[n] += tg.weight * c[i]
			}
		}
	}

	p := newPoly(params, b, coeffs, Diagnostics{
		Method:      Integration,
		Evaluations: ns.len(),
		Samples:     ns.len(),
	})
	if err := p.scoreOn(ns, values); err != nil {
		return nil, polyErrorf(opFitIntegration, err)
	}
	o.Logger.Debug("poly: integration done", "evaluations", ns.len(), "r2", p.diag.RSquared)

	return p, nil
}

// scoreOn records R² and the residual norm of the surrogate on the given nodes.
func (p *Poly) scoreOn(ns *nodeSet, values []float64) error {
	X, err := ns.matrix()
	if err != nil {
		return err
	}
	est, err := p.Evaluate(X)
	if err != nil {
		return err
	}
	p.diag.RSquared = stat.RSquaredFrom(est, values, nil)
	p.diag.Residual = residualNorm(est, values)

	return nil
}
