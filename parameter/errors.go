// SPDX-License-Identifier: MIT

package parameter

import (
	"errors"
	"fmt"
)

// Sentinel errors for parameter construction and evaluation.
var (
	// ErrUnknownDistribution indicates an unsupported Distribution value or name.
	ErrUnknownDistribution = errors.New("parameter: unknown distribution")

	// ErrInvalidOrder indicates a negative polynomial order.
	ErrInvalidOrder = errors.New("parameter: order must be non-negative")

	// ErrInvalidBounds indicates Lower/Upper that are non-finite or not strictly increasing.
	ErrInvalidBounds = errors.New("parameter: bounds must be finite with lower < upper")

	// ErrInvalidShape indicates shape values outside the distribution's domain.
	ErrInvalidShape = errors.New("parameter: shape parameters out of range")

	// ErrInvalidPoints indicates a non-positive (or too small) number of quadrature points.
	ErrInvalidPoints = errors.New("parameter: invalid number of quadrature points")

	// ErrUnboundedSupport indicates a Gauss–Lobatto request on an infinite support.
	ErrUnboundedSupport = errors.New("parameter: Gauss-Lobatto rule needs a bounded support")

	// ErrEmptyInput indicates an empty list of evaluation points.
	ErrEmptyInput = errors.New("parameter: no evaluation points")
)

// Operation tags.
const (
	opNew        = "New"
	opRecurrence = "Recurrence"
	opOrthoPoly  = "OrthoPoly"
	opGauss      = "Quadrature"
	opLobatto    = "LobattoQuadrature"
	opParse      = "ParseDistribution"
)

// parameterErrorf wraps err with an operation tag, keeping the sentinel reachable via %w.
func parameterErrorf(tag string, err error) error {
	return fmt.Errorf("parameter.%s: %w", tag, err)
}
