// SPDX-License-Identifier: MIT

package basis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat/combin"
)

// hyperbolicSlack absorbs rounding in (Σ j^q)^(1/q) ≤ p.
const hyperbolicSlack = 1e-10

// Basis is an immutable, ordered set of multi-indices.
// Elements are sorted by total order, then lexicographically, so the zero
// multi-index always comes first.
type Basis struct {
	kind     Kind
	orders   []int
	opts     options
	elements [][]int
	index    map[string]int
	subgrids []SubGrid
}

// New builds a basis of the given kind over len(orders) dimensions.
//
// For SparseGrid, orders fixes the dimension and the resolution comes from
// WithLevel and WithGrowth.
//
// Errors:
//   - ErrEmptyOrders, ErrInvalidOrder, ErrUnknownKind, ErrInvalidQ,
//     ErrInvalidLevel, ErrUnknownGrowth.
func New(kind Kind, orders []int, opts ...Option) (*Basis, error) {
	if len(orders) == 0 {
		return nil, basisErrorf(opNew, ErrEmptyOrders)
	}
	for _, o := range orders {
		if o < 0 {
			return nil, basisErrorf(opNew, ErrInvalidOrder)
		}
	}
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	b := &Basis{kind: kind, orders: append([]int(nil), orders...), opts: o}
	var elems [][]int
	switch kind {
	case TensorGrid:
		elems = tensorSet(orders)
	case TotalOrder:
		p := maxInt(orders)
		elems = filterSet(orders, func(j []int) bool { return sumInts(j) <= p })
	case Hyperbolic:
		if !(o.q > 0 && o.q <= 1) {
			return nil, basisErrorf(opNew, ErrInvalidQ)
		}
		p := float64(maxInt(orders))
		elems = filterSet(orders, func(j []int) bool {
			s := 0.0
			for _, v := range j {
				s += math.Pow(float64(v), o.q)
			}
			return math.Pow(s, 1/o.q) <= p+hyperbolicSlack
		})
	case Euclidean:
		p := maxInt(orders)
		elems = filterSet(orders, func(j []int) bool {
			s := 0
			for _, v := range j {
				s += v * v
			}
			return s <= p*p
		})
	case Univariate:
		elems = filterSet(orders, func(j []int) bool {
			nz := 0
			for _, v := range j {
				if v != 0 {
					nz++
				}
			}
			return nz <= 1
		})
	case SparseGrid:
		if o.level < 0 {
			return nil, basisErrorf(opNew, ErrInvalidLevel)
		}
		if o.growth != Linear && o.growth != Exponential {
			return nil, basisErrorf(opNew, ErrUnknownGrowth)
		}
		b.subgrids = smolyak(len(orders), o.level, o.growth)
		elems = sparseSet(b.subgrids)
	default:
		return nil, basisErrorf(opNew, ErrUnknownKind)
	}

	b.setElements(elems)

	return b, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed literals.
func MustNew(kind Kind, orders []int, opts ...Option) *Basis {
	b, err := New(kind, orders, opts...)
	if err != nil {
		panic(err)
	}

	return b
}

// setElements sorts elems into canonical order and rebuilds the lookup index.
func (b *Basis) setElements(elems [][]int) {
	sortElements(elems)
	b.elements = elems
	b.index = make(map[string]int, len(elems))
	for i, j := range elems {
		b.index[key(j)] = i
	}
}

// Kind reports the index-set rule.
func (b *Basis) Kind() Kind { return b.kind }

// Orders returns a copy of the per-dimension orders.
func (b *Basis) Orders() []int { return append([]int(nil), b.orders...) }

// Dimensions is the number of inputs d.
func (b *Basis) Dimensions() int { return len(b.orders) }

// Cardinality is the number of multi-indices.
func (b *Basis) Cardinality() int { return len(b.elements) }

// Level is the Smolyak level (meaningful for SparseGrid only).
func (b *Basis) Level() int { return b.opts.level }

// Growth is the sparse-grid growth rule (meaningful for SparseGrid only).
func (b *Basis) Growth() Growth { return b.opts.growth }

// Elements returns a deep copy of the multi-indices in canonical order.
func (b *Basis) Elements() [][]int {
	out := make([][]int, len(b.elements))
	for i, j := range b.elements {
		out[i] = append([]int(nil), j...)
	}

	return out
}

// Element returns a copy of the i-th multi-index, or nil when out of range.
func (b *Basis) Element(i int) []int {
	if i < 0 || i >= len(b.elements) {
		return nil
	}

	return append([]int(nil), b.elements[i]...)
}

// Find returns the position of multi-index j, or (-1, false).
func (b *Basis) Find(j []int) (int, bool) {
	if len(j) != len(b.orders) {
		return -1, false
	}
	i, ok := b.index[key(j)]
	if !ok {
		return -1, false
	}

	return i, true
}

// MaxDegrees returns, per dimension, the largest degree present in the basis.
func (b *Basis) MaxDegrees() []int {
	out := make([]int, len(b.orders))
	for _, j := range b.elements {
		for k, v := range j {
			if v > out[k] {
				out[k] = v
			}
		}
	}

	return out
}

// SubGrids returns a copy of the Smolyak sub-grids (nil unless SparseGrid).
func (b *Basis) SubGrids() []SubGrid {
	if b.subgrids == nil {
		return nil
	}
	out := make([]SubGrid, len(b.subgrids))
	for i, g := range b.subgrids {
		out[i] = SubGrid{
			Levels:      append([]int(nil), g.Levels...),
			Points:      append([]int(nil), g.Points...),
			Coefficient: g.Coefficient,
		}
	}

	return out
}

// Prune returns a new basis without its k last elements (the highest total
// orders, lexicographically last among ties). Sub-grids are kept.
//
// Errors:
//   - ErrInvalidPrune when k < 0 or k ≥ Cardinality().
func (b *Basis) Prune(k int) (*Basis, error) {
	if k < 0 || k >= len(b.elements) {
		return nil, basisErrorf(opPrune, ErrInvalidPrune)
	}
	out := &Basis{
		kind:     b.kind,
		orders:   append([]int(nil), b.orders...),
		opts:     b.opts,
		subgrids: b.SubGrids(),
	}
	out.setElements(b.Elements()[:len(b.elements)-k])

	return out, nil
}

// String renders e.g. "total-order(d=7, orders=[3 3 3 3 3 3 3], cardinality=120)".
func (b *Basis) String() string {
	if b.kind == SparseGrid {
		return fmt.Sprintf("%s(d=%d, level=%d, growth=%s, cardinality=%d)",
			b.kind, len(b.orders), b.opts.level, b.opts.growth, len(b.elements))
	}

	return fmt.Sprintf("%s(d=%d, orders=%v, cardinality=%d)", b.kind, len(b.orders), b.orders, len(b.elements))
}

// tensorSet enumerates 0 ≤ j_k ≤ orders[k], first dimension varying slowest.
func tensorSet(orders []int) [][]int {
	lens := make([]int, len(orders))
	for k, o := range orders {
		lens[k] = o + 1
	}

	return combin.Cartesian(lens)
}

// filterSet keeps the tensor-set elements accepted by keep.
func filterSet(orders []int, keep func([]int) bool) [][]int {
	all := tensorSet(orders)
	out := all[:0]
	for _, j := range all {
		if keep(j) {
			out = append(out, j)
		}
	}

	return out
}

// sortElements orders by total degree, then lexicographically.
func sortElements(elems [][]int) {
	sort.SliceStable(elems, func(a, b int) bool {
		sa, sb := sumInts(elems[a]), sumInts(elems[b])
		if sa != sb {
			return sa < sb
		}
		for k := range elems[a] {
			if elems[a][k] != elems[b][k] {
				return elems[a][k] < elems[b][k]
			}
		}
		return false
	})
}

// key encodes a multi-index as "j0,j1,...".
func key(j []int) string {
	var sb strings.Builder
	for k, v := range j {
		if k > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(v))
	}

	return sb.String()
}

func sumInts(j []int) int {
	s := 0
	for _, v := range j {
		s += v
	}

	return s
}

func maxInt(v []int) int {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}

	return m
}
