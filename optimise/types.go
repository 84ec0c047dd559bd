// SPDX-License-Identifier: MIT

package optimise

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Sentinel errors.
var (
	// ErrNilObjective indicates a Problem without an objective.
	ErrNilObjective = errors.New("optimise: nil objective")

	// ErrDimensionMismatch indicates a start point, bound or constraint whose
	// size differs from the objective's dimension.
	ErrDimensionMismatch = errors.New("optimise: dimension mismatch")

	// ErrInvalidBounds indicates lower > upper somewhere, or an empty interval
	// in a constraint.
	ErrInvalidBounds = errors.New("optimise: invalid bounds")

	// ErrInvalidOption indicates an option value outside its documented range.
	ErrInvalidOption = errors.New("optimise: invalid option")

	// ErrUnknownMethod indicates an unsupported Method.
	ErrUnknownMethod = errors.New("optimise: unknown method")

	// ErrInfeasible indicates constraints still violated beyond Tolerance after
	// the last penalty round. The returned Result holds the best point found.
	ErrInfeasible = errors.New("optimise: constraints not satisfied")
)

// Function is a differentiable scalar function of a fixed number of inputs.
// *poly.Poly satisfies it.
type Function interface {
	Dimensions() int
	EvaluateAt(x []float64) (float64, error)
	GradientAt(x []float64) ([]float64, error)
}

// Method selects the inner unconstrained solver.
type Method int

const (
	// BFGS is quasi-Newton with analytic gradients (default).
	BFGS Method = iota
	// NelderMead is the derivative-free simplex method.
	NelderMead
)

var methodNames = [...]string{"bfgs", "nelder-mead"}

// String returns the method name used in config files.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}

	return methodNames[m]
}

// ParseMethod resolves a method name, case-insensitively.
func ParseMethod(name string) (Method, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for i, s := range methodNames {
		if s == n {
			return Method(i), nil
		}
	}

	return 0, fmt.Errorf("optimise: %q: %w", name, ErrUnknownMethod)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	v, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = v

	return nil
}

// Bounds are per-coordinate box limits; use ±Inf for a free side.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// LinearConstraint is Lower ≤ Coefficients·x ≤ Upper; use ±Inf for a free side.
type LinearConstraint struct {
	Coefficients []float64
	Lower        float64
	Upper        float64
}

// Constraint is Lower ≤ g(x) ≤ Upper for a differentiable g, typically a
// fitted surrogate; use ±Inf for a free side.
type Constraint struct {
	Function Function
	Lower    float64
	Upper    float64
}

// Problem is a constrained optimisation of a surrogate.
type Problem struct {
	Objective   Function
	Maximise    bool
	Bounds      *Bounds
	Linear      []LinearConstraint
	Constraints []Constraint
}

// Result is the outcome of Optimise.
type Result struct {
	X           []float64 // optimum, projected onto Bounds
	F           float64   // objective at X (not negated when maximising)
	Violation   float64   // largest constraint violation at X
	Rounds      int       // penalty rounds run
	Iterations  int       // inner major iterations, summed over rounds
	Evaluations int       // objective evaluations, summed over rounds
}

// Defaults.
const (
	DefaultPenalty       = 10.0
	DefaultPenaltyGrowth = 10.0
	DefaultRounds        = 8
	DefaultTolerance     = 1e-6
	DefaultIterations    = 1000
)

// Options configures Optimise.
//
// Method        – inner solver. Default BFGS.
// Penalty       – initial quadratic penalty weight μ (> 0). Default 10.
// PenaltyGrowth – factor applied to μ after each infeasible round (> 1). Default 10.
// Rounds        – maximum penalty rounds (≥ 1). Default 8.
// Tolerance     – acceptable constraint violation (> 0). Default 1e-6.
// Iterations    – inner major-iteration cap per round (≥ 1). Default 1000.
// Logger        – structured logger. Default slog.Default().
type Options struct {
	Method        Method
	Penalty       float64
	PenaltyGrowth float64
	Rounds        int
	Tolerance     float64
	Iterations    int
	Logger        *slog.Logger
}

// Option represents a functional option for Optimise.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	return Options{
		Method:        BFGS,
		Penalty:       DefaultPenalty,
		PenaltyGrowth: DefaultPenaltyGrowth,
		Rounds:        DefaultRounds,
		Tolerance:     DefaultTolerance,
		Iterations:    DefaultIterations,
		Logger:        slog.Default(),
	}
}

// WithMethod selects the inner solver.
func WithMethod(m Method) Option { return func(o *Options) { o.Method = m } }

// WithPenalty sets the initial penalty weight and its growth factor.
func WithPenalty(initial, growth float64) Option {
	return func(o *Options) { o.Penalty, o.PenaltyGrowth = initial, growth }
}

// WithRounds caps the number of penalty rounds.
func WithRounds(n int) Option { return func(o *Options) { o.Rounds = n } }

// WithTolerance sets the acceptable constraint violation.
func WithTolerance(tol float64) Option { return func(o *Options) { o.Tolerance = tol } }

// WithIterations caps inner major iterations per round.
func WithIterations(n int) Option { return func(o *Options) { o.Iterations = n } }

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	switch {
	case o.Method != BFGS && o.Method != NelderMead:
		return o, ErrUnknownMethod
	case !(o.Penalty > 0), !(o.PenaltyGrowth > 1):
		return o, fmt.Errorf("penalty %g growth %g: %w", o.Penalty, o.PenaltyGrowth, ErrInvalidOption)
	case o.Rounds < 1, o.Iterations < 1:
		return o, fmt.Errorf("rounds %d iterations %d: %w", o.Rounds, o.Iterations, ErrInvalidOption)
	case !(o.Tolerance > 0):
		return o, fmt.Errorf("tolerance %g: %w", o.Tolerance, ErrInvalidOption)
	}

	return o, nil
}
