// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise comparison used by tests and by callers that need a
//     tolerance-aware equality between two results.

package matrix

import "math"

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN != anything; +Inf equals +Inf; -Inf equals -Inf.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; non-finite tolerances are rejected.
//
// Complexity: Time O(r*c). Space O(1) for Dense inputs.
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	da, err := asDense(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := asDense(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	var av, bv float64
	for k := range da.data {
		av, bv = da.data[k], db.data[k]
		if math.IsInf(av, 0) || math.IsInf(bv, 0) {
			if av != bv {
				return false, nil
			}
			continue
		}
		if !(math.Abs(av-bv) <= atol+rtol*math.Abs(bv)) { // NaN fails here
			return false, nil
		}
	}

	return true, nil
}
