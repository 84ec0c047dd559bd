// SPDX-License-Identifier: MIT

package parameter

import (
	"math"

	"github.com/katalvlaran/equad/matrix"
)

// OrthoPoly evaluates the orthonormal polynomials q_0..q_order and their first
// derivatives at every point of x.
//
// Returns:
//   - P:  (order+1)×len(x), P[k,i] = q_k(x_i).
//   - dP: (order+1)×len(x), dP[k,i] = q_k'(x_i).
//
// Errors:
//   - ErrInvalidOrder (order < 0), ErrEmptyInput (len(x) == 0).
//
// Complexity: O(order·len(x)).
func (p *Parameter) OrthoPoly(x []float64, order int) (P, dP *matrix.Dense, err error) {
	if order < 0 {
		return nil, nil, parameterErrorf(opOrthoPoly, ErrInvalidOrder)
	}
	if len(x) == 0 {
		return nil, nil, parameterErrorf(opOrthoPoly, ErrEmptyInput)
	}
	a, b, err := p.Recurrence(order + 1)
	if err != nil {
		return nil, nil, parameterErrorf(opOrthoPoly, err)
	}

	m := len(x)
	if P, err = matrix.NewDense(order+1, m); err != nil {
		return nil, nil, parameterErrorf(opOrthoPoly, err)
	}
	if dP, err = matrix.NewDense(order+1, m); err != nil {
		return nil, nil, parameterErrorf(opOrthoPoly, err)
	}

	q0 := P.RawRow(0)
	for i := range q0 {
		q0[i] = 1
	}
	if order == 0 {
		return P, dP, nil
	}

	// q_{-1} = 0 is represented by a zero row so every step uses the same formula.
	zero := make([]float64, m)
	qm1, dqm1 := zero, zero

	var sbk, sbk1, xa float64
	for k := 0; k < order; k++ {
		sbk1 = math.Sqrt(b[k+1])
		sbk = 0
		if k > 0 {
			sbk = math.Sqrt(b[k])
		}
		qk, dqk := P.RawRow(k), dP.RawRow(k)
		qn, dqn := P.RawRow(k+1), dP.RawRow(k+1)
		for i := 0; i < m; i++ {
			xa = x[i] - a[k]
			qn[i] = (xa*qk[i] - sbk*qm1[i]) / sbk1
			dqn[i] = (qk[i] + xa*dqk[i] - sbk*dqm1[i]) / sbk1
		}
		qm1, dqm1 = qk, dqk
	}

	return P, dP, nil
}
