// SPDX-License-Identifier: MIT

package poly

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every exported function wraps them with its operation tag;
// match with errors.Is.
var (
	// ErrDimensionMismatch indicates inputs whose width differs from the number
	// of parameters, or a basis of another dimension.
	ErrDimensionMismatch = errors.New("poly: dimension mismatch")

	// ErrUnderdetermined indicates fewer samples (or selected rows) than basis terms.
	ErrUnderdetermined = errors.New("poly: fewer samples than basis terms")

	// ErrNotFitted indicates a coefficient vector whose length differs from the basis cardinality.
	ErrNotFitted = errors.New("poly: coefficients do not match the basis")

	// ErrInvalidOrder indicates a Sobol interaction order outside [1, d].
	ErrInvalidOrder = errors.New("poly: invalid interaction order")

	// ErrInvalidOption indicates an option value outside its documented range.
	ErrInvalidOption = errors.New("poly: invalid option")

	// ErrZeroVariance indicates Sobol indices requested for a constant surrogate.
	ErrZeroVariance = errors.New("poly: surrogate has zero variance")

	// ErrNonFiniteModel indicates a model returning NaN or ±Inf at a node.
	ErrNonFiniteModel = errors.New("poly: model returned a non-finite value")

	// ErrNoModel indicates a nil model function.
	ErrNoModel = errors.New("poly: nil model")
)

// Operation tags.
const (
	opNew            = "New"
	opEvaluateBasis  = "EvaluateBasis"
	opBasisGradient  = "EvaluateBasisGradient"
	opEvaluate       = "Evaluate"
	opGradient       = "Gradient"
	opStatistics     = "Statistics"
	opSobol          = "SobolIndices"
	opTotalSobol     = "TotalSobolIndices"
	opFitIntegration = "FitIntegration"
	opFitRegression  = "FitRegression"
	opFitLSQ         = "FitLeastSquares"
)

// polyErrorf wraps err with an operation tag, keeping the sentinel reachable via %w.
func polyErrorf(tag string, err error) error {
	return fmt.Errorf("poly.%s: %w", tag, err)
}
