// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
)

// Solver selects how FitRegression solves the least-squares system.
type Solver int

const (
	// SolverQR uses Householder QR on the design matrix (default).
	SolverQR Solver = iota
	// SolverNormal forms the Gram matrix AᵀA and inverts it through LU.
	SolverNormal
)

var solverNames = [...]string{"qr", "normal-equations"}

// String returns the solver name used in config files.
func (s Solver) String() string {
	if s < 0 || int(s) >= len(solverNames) {
		return fmt.Sprintf("Solver(%d)", int(s))
	}

	return solverNames[s]
}

// ParseSolver resolves a solver name; "normal" is accepted as an alias.
func ParseSolver(name string) (Solver, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "qr":
		return SolverQR, nil
	case "normal", "normal-equations", "normal_equations":
		return SolverNormal, nil
	}

	return 0, fmt.Errorf("poly: solver %q: %w", name, ErrInvalidOption)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Solver) UnmarshalText(text []byte) error {
	v, err := ParseSolver(string(text))
	if err != nil {
		return err
	}
	*s = v

	return nil
}

// Defaults.
const (
	// DefaultSamplingRatio is the rows-per-basis-term ratio used by FitLeastSquares.
	DefaultSamplingRatio = 1.5

	// DefaultEigenTolerance is the off-diagonal threshold for the Gram-matrix
	// eigen solve behind ConditionNumber.
	DefaultEigenTolerance = 1e-10

	// IllConditioned is the condition number above which fits log a warning.
	IllConditioned = 1e12
)

// Options configures fitting.
//
// Workers        – concurrent model evaluations (≥ 1). Default runtime.GOMAXPROCS(0).
// Logger         – structured logger. Default slog.Default().
// Solver         – regression solver. Default SolverQR.
// SamplingRatio  – rows per basis term for FitLeastSquares (≥ 1). Default 1.5.
// EigenTolerance – Jacobi convergence threshold for diagnostics (> 0). Default 1e-10.
type Options struct {
	Workers        int
	Logger         *slog.Logger
	Solver         Solver
	SamplingRatio  float64
	EigenTolerance float64
}

// Option represents a functional option for the Fit functions.
type Option func(*Options)

// DefaultOptions returns the defaults listed on Options.
func DefaultOptions() Options {
	return Options{
		Workers:        runtime.GOMAXPROCS(0),
		Logger:         slog.Default(),
		Solver:         SolverQR,
		SamplingRatio:  DefaultSamplingRatio,
		EigenTolerance: DefaultEigenTolerance,
	}
}

// WithWorkers bounds the number of model evaluations running at once.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithSolver selects the regression solver.
func WithSolver(s Solver) Option {
	return func(o *Options) { o.Solver = s }
}

// WithSamplingRatio sets how many rows per basis term FitLeastSquares selects.
func WithSamplingRatio(r float64) Option {
	return func(o *Options) { o.SamplingRatio = r }
}

// WithEigenTolerance sets the convergence threshold of the Gram-matrix eigen solve.
func WithEigenTolerance(tol float64) Option {
	return func(o *Options) { o.EigenTolerance = tol }
}

// resolve applies opts over the defaults and validates the result.
func resolve(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	switch {
	case o.Workers < 1:
		return o, fmt.Errorf("workers %d: %w", o.Workers, ErrInvalidOption)
	case !(o.SamplingRatio >= 1):
		return o, fmt.Errorf("sampling ratio %g: %w", o.SamplingRatio, ErrInvalidOption)
	case !(o.EigenTolerance > 0):
		return o, fmt.Errorf("eigen tolerance %g: %w", o.EigenTolerance, ErrInvalidOption)
	case o.Solver != SolverQR && o.Solver != SolverNormal:
		return o, fmt.Errorf("%s: %w", o.Solver, ErrInvalidOption)
	}

	return o, nil
}
