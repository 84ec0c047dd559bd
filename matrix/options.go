// SPDX-License-Identifier: MIT

// Package matrix: numeric policy defaults (single source of truth).
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - Every default is referenced by a kernel and covered by tests.
package matrix

import "math"

const (
	// DefaultEpsilon is the symmetry tolerance used by structural checks.
	DefaultEpsilon = 1e-9

	// DefaultValidateNaNInf toggles strict finite-value validation in Set.
	DefaultValidateNaNInf = true

	// DefaultRankTolerance is the relative threshold |R[k,k]| ≤ tol·max|R[i,i]|
	// under which LeastSquares reports a rank-deficient system.
	DefaultRankTolerance = 1e-12

	// DefaultQLMaxIter bounds the implicit-QL iterations spent on one eigenvalue.
	DefaultQLMaxIter = 60
)

// machineEps is the float64 unit roundoff used by convergence tests.
var machineEps = math.Nextafter(1, 2) - 1
