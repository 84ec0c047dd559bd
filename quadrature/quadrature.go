// SPDX-License-Identifier: MIT

// Package quadrature assembles multivariate rules from univariate Gauss rules:
// full tensor products and Smolyak sparse grids.
//
// Rules integrate against the joint probability measure of independent
// parameters, so weights of a tensor rule sum to 1, and so do the signed
// weights of a sparse rule.
package quadrature

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
)

// Sentinel errors.
var (
	// ErrDimensionMismatch indicates that points/basis and parameters disagree on d.
	ErrDimensionMismatch = errors.New("quadrature: dimension mismatch")

	// ErrNotSparse indicates a Sparse call with a basis that is not a SparseGrid.
	ErrNotSparse = errors.New("quadrature: basis is not a sparse grid")

	// ErrNoParameters indicates an empty parameter list.
	ErrNoParameters = errors.New("quadrature: no parameters")
)

// MergeTolerance is the absolute distance under which sparse-grid nodes are
// treated as the same point.
const MergeTolerance = 1e-9

// Rule is a multivariate quadrature rule: Σ_i Weights[i]·f(Points[i,:]).
type Rule struct {
	Points  *matrix.Dense // m×d, one node per row
	Weights []float64     // length m
}

// Len is the number of nodes.
func (r *Rule) Len() int { return len(r.Weights) }

// Dimensions is the number of coordinates per node.
func (r *Rule) Dimensions() int { return r.Points.Cols() }

// Point returns a copy of node i.
func (r *Rule) Point(i int) []float64 { return r.Points.Row(i) }

// Integrate applies the rule to f.
func (r *Rule) Integrate(f func(x []float64) float64) float64 {
	sum := 0.0
	for i, w := range r.Weights {
		sum += w * f(r.Points.RawRow(i))
	}

	return sum
}

// Integrate is a convenience wrapper for rule.Integrate(f).
func Integrate(rule *Rule, f func(x []float64) float64) float64 {
	return rule.Integrate(f)
}

// Tensor builds the Kronecker product of per-dimension Gauss rules with
// points[k] nodes for params[k]. The first dimension varies slowest.
//
// Errors:
//   - ErrNoParameters, ErrDimensionMismatch, parameter.ErrInvalidPoints.
//
// Complexity: O(d·Π points[k]).
func Tensor(params []*parameter.Parameter, points []int) (*Rule, error) {
	if len(params) == 0 {
		return nil, fmt.Errorf("quadrature.Tensor: %w", ErrNoParameters)
	}
	if len(points) != len(params) {
		return nil, fmt.Errorf("quadrature.Tensor: %w", ErrDimensionMismatch)
	}

	d := len(params)
	nodes := make([][]float64, d)
	weights := make([][]float64, d)
	for k, p := range params {
		x, w, err := p.Quadrature(points[k])
		if err != nil {
			return nil, fmt.Errorf("quadrature.Tensor: dimension %d: %w", k, err)
		}
		nodes[k], weights[k] = x, w
	}

	idx := combin.Cartesian(points)
	P, err := matrix.NewDense(len(idx), d)
	if err != nil {
		return nil, fmt.Errorf("quadrature.Tensor: %w", err)
	}
	W := make([]float64, len(idx))
	for i, tuple := range idx {
		row := P.RawRow(i)
		w := 1.0
		for k, j := range tuple {
			row[k] = nodes[k][j]
			w *= weights[k][j]
		}
		W[i] = w
	}

	return &Rule{Points: P, Weights: W}, nil
}

// Sparse builds the Smolyak rule of a SparseGrid basis: every sub-grid's tensor
// rule scaled by its combination coefficient, with coincident nodes merged
// (within MergeTolerance) and their weights summed. Node order follows first
// appearance over the sub-grids.
//
// Errors:
//   - ErrNotSparse, ErrDimensionMismatch, plus Tensor's errors.
func Sparse(params []*parameter.Parameter, b *basis.Basis) (*Rule, error) {
	if b.Kind() != basis.SparseGrid {
		return nil, fmt.Errorf("quadrature.Sparse: %w", ErrNotSparse)
	}
	if b.Dimensions() != len(params) {
		return nil, fmt.Errorf("quadrature.Sparse: %w", ErrDimensionMismatch)
	}

	d := len(params)
	var (
		flat    []float64
		weights []float64
		seen    = make(map[string]int)
	)
	for _, sg := range b.SubGrids() {
		r, err := Tensor(params, sg.Points)
		if err != nil {
			return nil, fmt.Errorf("quadrature.Sparse: %w", err)
		}
		for i := 0; i < r.Len(); i++ {
			x := r.Points.RawRow(i)
			k := NodeKey(x)
			if at, ok := seen[k]; ok {
				weights[at] += sg.Coefficient * r.Weights[i]
				continue
			}
			seen[k] = len(weights)
			flat = append(flat, x...)
			weights = append(weights, sg.Coefficient*r.Weights[i])
		}
	}

	P, err := matrix.NewDenseFrom(len(weights), d, flat)
	if err != nil {
		return nil, fmt.Errorf("quadrature.Sparse: %w", err)
	}

	return &Rule{Points: P, Weights: weights}, nil
}

// NodeKey quantizes x on a MergeTolerance lattice so that coincident nodes
// from different tensor rules share a key.
func NodeKey(x []float64) string {
	buf := make([]byte, 0, 16*len(x))
	for k, v := range x {
		if k > 0 {
			buf = append(buf, ',')
		}
		q := math.Round(v / MergeTolerance)
		if q == 0 {
			q = 0 // fold -0 into 0
		}
		buf = fmt.Appendf(buf, "%.0f", q)
	}

	return string(buf)
}
