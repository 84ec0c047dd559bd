// SPDX-License-Identifier: MIT

package basis

import (
	"errors"
	"fmt"
)

// Sentinel errors for index-set construction.
var (
	// ErrEmptyOrders indicates a basis with zero dimensions.
	ErrEmptyOrders = errors.New("basis: orders must be non-empty")

	// ErrInvalidOrder indicates a negative per-dimension order.
	ErrInvalidOrder = errors.New("basis: orders must be non-negative")

	// ErrUnknownKind indicates an unsupported Kind value or name.
	ErrUnknownKind = errors.New("basis: unknown kind")

	// ErrUnknownGrowth indicates an unsupported Growth value or name.
	ErrUnknownGrowth = errors.New("basis: unknown growth rule")

	// ErrInvalidQ indicates a hyperbolic q outside (0, 1].
	ErrInvalidQ = errors.New("basis: hyperbolic q must lie in (0, 1]")

	// ErrInvalidLevel indicates a negative sparse-grid level.
	ErrInvalidLevel = errors.New("basis: sparse-grid level must be non-negative")

	// ErrInvalidPrune indicates a prune count that is negative or would empty the basis.
	ErrInvalidPrune = errors.New("basis: prune count out of range")
)

const (
	opNew   = "New"
	opPrune = "Prune"
	opParse = "Parse"
)

// basisErrorf wraps err with an operation tag, keeping the sentinel reachable via %w.
func basisErrorf(tag string, err error) error {
	return fmt.Errorf("basis.%s: %w", tag, err)
}
