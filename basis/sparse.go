// SPDX-License-Identifier: MIT
// Package: basis
//
// Purpose:
//   - Smolyak combination technique. With q = L + d, the level-L grid is
//
//     A(q, d) = Σ_{q-d+1 ≤ |l| ≤ q} (-1)^(q-|l|) C(d-1, q-|l|) (U^{l_1} ⊗ ... ⊗ U^{l_d}),
//
//     over per-dimension levels l_k ≥ 1, where U^l is a univariate rule of
//     Growth.Points(l) points.
//   - The SparseGrid index set is the union of the tensor index sets that each
//     sub-grid can resolve (degree ≤ points-1 per dimension).

package basis

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// smolyak enumerates the sub-grids of a level-L, d-dimensional sparse grid.
func smolyak(d, level int, growth Growth) []SubGrid {
	lowest := level + 1 - d
	if lowest < 0 {
		lowest = 0
	}

	var excess [][]int // m = l - 1, |m| in [lowest, level]
	for s := lowest; s <= level; s++ {
		excess = append(excess, compositions(s, d)...)
	}
	sortElements(excess)

	out := make([]SubGrid, 0, len(excess))
	for _, m := range excess {
		gap := level - sumInts(m) // q - |l|
		g := SubGrid{
			Levels:      make([]int, d),
			Points:      make([]int, d),
			Coefficient: math.Pow(-1, float64(gap)) * float64(combin.Binomial(d-1, gap)),
		}
		for k, v := range m {
			g.Levels[k] = v + 1
			g.Points[k] = growth.Points(v + 1)
		}
		out = append(out, g)
	}

	return out
}

// compositions lists every j ∈ N^d with Σ j = total.
func compositions(total, d int) [][]int {
	if d == 1 {
		return [][]int{{total}}
	}
	var out [][]int
	for first := 0; first <= total; first++ {
		for _, rest := range compositions(total-first, d-1) {
			out = append(out, append([]int{first}, rest...))
		}
	}

	return out
}

// sparseSet unions the tensor index sets resolvable by each sub-grid.
func sparseSet(grids []SubGrid) [][]int {
	seen := make(map[string]bool)
	var out [][]int
	orders := make([]int, 0)
	for _, g := range grids {
		orders = orders[:0]
		for _, p := range g.Points {
			orders = append(orders, p-1)
		}
		for _, j := range tensorSet(orders) {
			k := key(j)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, j)
		}
	}

	return out
}
