// SPDX-License-Identifier: MIT

package basis

import (
	"fmt"
	"strings"
)

// Kind selects the rule that decides which multi-indices belong to a basis.
type Kind int

const (
	// TensorGrid keeps every j with 0 ≤ j_k ≤ orders[k].
	TensorGrid Kind = iota
	// TotalOrder keeps j_k ≤ orders[k] with Σ j_k ≤ max(orders).
	TotalOrder
	// Hyperbolic keeps j_k ≤ orders[k] with (Σ j_k^q)^(1/q) ≤ max(orders).
	Hyperbolic
	// Euclidean keeps j_k ≤ orders[k] with ||j||₂ ≤ max(orders).
	Euclidean
	// Univariate keeps j_k ≤ orders[k] with at most one non-zero component.
	Univariate
	// SparseGrid is the union of the tensor index sets of a Smolyak grid.
	SparseGrid
)

var kindNames = [...]string{
	TensorGrid: "tensor-grid",
	TotalOrder: "total-order",
	Hyperbolic: "hyperbolic",
	Euclidean:  "euclidean",
	Univariate: "univariate",
	SparseGrid: "sparse-grid",
}

// String returns the canonical lower-case name, e.g. "total-order".
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// ParseKind resolves a case-insensitive name; underscores are accepted for dashes.
func ParseKind(s string) (Kind, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for k, name := range kindNames {
		if name == key {
			return Kind(k), nil
		}
	}

	return 0, basisErrorf(opParse, fmt.Errorf("%q: %w", s, ErrUnknownKind))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, ErrUnknownKind
	}

	return []byte(kindNames[k]), nil
}

// Growth maps a sparse-grid level l ≥ 1 to a number of quadrature points.
type Growth int

const (
	// Linear growth: 2l-1 points (1, 3, 5, 7, ...).
	Linear Growth = iota
	// Exponential growth: 2^l-1 points (1, 3, 7, 15, ...).
	Exponential
)

var growthNames = [...]string{Linear: "linear", Exponential: "exponential"}

// String returns "linear" or "exponential".
func (g Growth) String() string {
	if g < 0 || int(g) >= len(growthNames) {
		return fmt.Sprintf("Growth(%d)", int(g))
	}

	return growthNames[g]
}

// ParseGrowth resolves a case-insensitive growth rule name.
func ParseGrowth(s string) (Growth, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for g, name := range growthNames {
		if name == key {
			return Growth(g), nil
		}
	}

	return 0, basisErrorf(opParse, fmt.Errorf("%q: %w", s, ErrUnknownGrowth))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Growth) UnmarshalText(text []byte) error {
	v, err := ParseGrowth(string(text))
	if err != nil {
		return err
	}
	*g = v

	return nil
}

// Points returns the number of univariate points at level l ≥ 1.
func (g Growth) Points(level int) int {
	if g == Exponential {
		return 1<<level - 1
	}

	return 2*level - 1
}

// Defaults for Option values.
const (
	// DefaultQ is the hyperbolic-cross exponent.
	DefaultQ = 0.5
	// DefaultLevel is the Smolyak level of a SparseGrid basis.
	DefaultLevel = 1
	// DefaultGrowth is the sparse-grid growth rule.
	DefaultGrowth = Linear
)

type options struct {
	q      float64
	level  int
	growth Growth
}

// Option customizes New.
type Option func(*options)

// WithQ sets the hyperbolic-cross exponent q ∈ (0, 1].
func WithQ(q float64) Option { return func(o *options) { o.q = q } }

// WithLevel sets the Smolyak level L ≥ 0 of a SparseGrid basis.
func WithLevel(level int) Option { return func(o *options) { o.level = level } }

// WithGrowth sets the sparse-grid growth rule.
func WithGrowth(g Growth) Option { return func(o *options) { o.growth = g } }

func defaultOptions() options {
	return options{q: DefaultQ, level: DefaultLevel, growth: DefaultGrowth}
}

// SubGrid is one tensor rule of a Smolyak combination.
type SubGrid struct {
	Levels      []int   // per-dimension level, each ≥ 1
	Points      []int   // per-dimension number of points, Growth.Points(Levels[k])
	Coefficient float64 // combination coefficient (-1)^(q-|l|) C(d-1, q-|l|)
}
