// SPDX-License-Identifier: MIT

package poly

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/quadrature"
)

// Model is the scalar function being approximated. It may be called from
// several goroutines at once (see WithWorkers) and receives its own copy of x.
type Model func(x []float64) float64

// nodeSet collects distinct nodes in first-seen order.
type nodeSet struct {
	d     int
	flat  []float64
	index map[string]int
}

func newNodeSet(d int) *nodeSet {
	return &nodeSet{d: d, index: make(map[string]int)}
}

// add registers x and returns its position.
func (s *nodeSet) add(x []float64) int {
	k := quadrature.NodeKey(x)
	if i, ok := s.index[k]; ok {
		return i
	}
	i := len(s.flat) / s.d
	s.index[k] = i
	s.flat = append(s.flat, x...)

	return i
}

func (s *nodeSet) len() int { return len(s.flat) / s.d }

func (s *nodeSet) point(i int) []float64 { return s.flat[i*s.d : (i+1)*s.d] }

func (s *nodeSet) matrix() (*matrix.Dense, error) {
	return matrix.NewDenseFrom(s.len(), s.d, s.flat)
}

// evaluate runs model once per node with at most workers calls in flight.
// The first failure (non-finite value or cancelled ctx) stops scheduling.
func evaluate(ctx context.Context, model Model, nodes *nodeSet, workers int) ([]float64, error) {
	out := make([]float64, nodes.len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range out {
		if gctx.Err() != nil {
			break
		}
		i := i
		x := append([]float64(nil), nodes.point(i)...)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v := model(x)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("at %v: %w", x, ErrNonFiniteModel)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// kronMult returns (A_0 ⊗ A_1 ⊗ ... ⊗ A_{d-1}) v without forming the product.
// v is laid out in Kronecker order (first factor slowest) with len(v) = Π cols(A_k);
// the result has Π rows(A_k) entries in the same order.
//
// Complexity: O(len(v)·Σ rows(A_k)) for square factors.
func kronMult(factors []*matrix.Dense, v []float64) []float64 {
	cur := append([]float64(nil), v...)
	nright := 1
	for k := len(factors) - 1; k >= 0; k-- {
		A := factors[k]
		r, n := A.Shape()
		nleft := 1
		for _, B := range factors[:k] {
			nleft *= B.Cols()
		}

		next := make([]float64, nleft*r*nright)
		for l := 0; l < nleft; l++ {
			in := cur[l*n*nright : (l+1)*n*nright]
			out := next[l*r*nright : (l+1)*r*nright]
			for p := 0; p < r; p++ {
				dst := out[p*nright : (p+1)*nright]
				for i, a := range A.RawRow(p) {
					if a == 0 {
						continue
					}
					floats.AddScaled(dst, a, in[i*nright:(i+1)*nright])
				}
			}
		}
		cur = next
		nright *= r
	}

	return cur
}
