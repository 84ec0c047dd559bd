// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/optimise"
	"github.com/katalvlaran/equad/parameter"
	"github.com/katalvlaran/equad/poly"
	"github.com/katalvlaran/equad/quadrature"
)

func (s *Study) orders() []int {
	out := make([]int, len(s.Parameters))
	for i, p := range s.Parameters {
		out[i] = p.Order
	}

	return out
}

func (b BasisSpec) build(orders []int) (*basis.Basis, error) {
	opts := []basis.Option{basis.WithLevel(b.Level), basis.WithGrowth(b.Growth)}
	if b.Q != 0 {
		opts = append(opts, basis.WithQ(b.Q))
	}

	return basis.New(b.Kind, orders, opts...)
}

// BuildParameters constructs the inputs in file order.
func (s *Study) BuildParameters() ([]*parameter.Parameter, error) {
	out := make([]*parameter.Parameter, len(s.Parameters))
	for i, spec := range s.Parameters {
		p, err := parameter.New(spec.Config())
		if err != nil {
			return nil, fmt.Errorf("config: parameter %d (%s): %w", i, spec.Name, err)
		}
		out[i] = p
	}

	return out, nil
}

// BuildBasis constructs the basis over the parameter orders.
func (s *Study) BuildBasis() (*basis.Basis, error) {
	b, err := s.Basis.build(s.orders())
	if err != nil {
		return nil, fmt.Errorf("config: basis: %w", err)
	}

	return b, nil
}

// Logger returns a text logger writing to w at the study's level.
func (s *Study) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: s.LogLevel}))
}

// PolyOptions returns the fitting options described by the study.
func (s *Study) PolyOptions(logger *slog.Logger) []poly.Option {
	opts := []poly.Option{
		poly.WithSolver(s.Fit.Solver),
		poly.WithSamplingRatio(s.Fit.SamplingRatio),
		poly.WithLogger(logger),
	}
	if s.Fit.Workers > 0 {
		opts = append(opts, poly.WithWorkers(s.Fit.Workers))
	}

	return opts
}

// OptimiseOptions returns the optimiser options; nil when the study has no
// optimise section.
func (s *Study) OptimiseOptions(logger *slog.Logger) []optimise.Option {
	o := s.Optimise
	if o == nil {
		return nil
	}
	opts := []optimise.Option{optimise.WithMethod(o.Method), optimise.WithLogger(logger)}
	if o.Rounds > 0 {
		opts = append(opts, optimise.WithRounds(o.Rounds))
	}
	if o.Tolerance > 0 {
		opts = append(opts, optimise.WithTolerance(o.Tolerance))
	}
	if o.Iterations > 0 {
		opts = append(opts, optimise.WithIterations(o.Iterations))
	}

	return opts
}

// FitSurrogate builds the parameters and basis and fits model with the study's method.
// Regression draws Fit.Samples inputs from the parameter laws with Fit.Seed.
// Extra options are applied after the study's own.
func (s *Study) FitSurrogate(ctx context.Context, model poly.Model, logger *slog.Logger, extra ...poly.Option) (*poly.Poly, error) {
	params, err := s.BuildParameters()
	if err != nil {
		return nil, err
	}
	b, err := s.BuildBasis()
	if err != nil {
		return nil, err
	}
	opts := append(s.PolyOptions(logger), extra...)

	switch s.Fit.Method {
	case poly.Integration:
		return poly.FitIntegration(ctx, params, b, model, opts...)
	case poly.LeastSquares:
		return poly.FitLeastSquares(ctx, params, b, model, opts...)
	case poly.Regression:
		if model == nil {
			return nil, poly.ErrNoModel
		}
		n := s.Fit.Samples
		if n == 0 {
			n = 2 * b.Cardinality()
		}
		X, err := draw(params, n, s.Fit.Seed)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		y := make([]float64, n)
		for i := range y {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			y[i] = model(X.Row(i))
		}
		return poly.FitRegression(params, b, X, y, opts...)
	}

	return nil, fmt.Errorf("%w: fit.method %s", ErrInvalidStudy, s.Fit.Method)
}

// draw samples n input points column by column from one seeded stream.
func draw(params []*parameter.Parameter, n int, seed int64) (*matrix.Dense, error) {
	X, err := matrix.NewDense(n, len(params))
	if err != nil {
		return nil, err
	}
	rng := parameter.NewRNG(seed)
	for k, p := range params {
		for i, v := range p.Samples(n, rng) {
			if err := X.Set(i, k, v); err != nil {
				return nil, err
			}
		}
	}

	return X, nil
}

// OptimiseSurrogate optimises p over the parameter supports. Unbounded sides
// are left free. The optimiser runs from the parameter means, from the nodes
// of the two-point Gauss tensor rule when there are at most maxGaussStarts of
// them, and from Optimise.Starts points drawn with Fit.Seed; the best feasible
// result wins.
func (s *Study) OptimiseSurrogate(ctx context.Context, p *poly.Poly, logger *slog.Logger) (*optimise.Result, error) {
	spec := s.Optimise
	if spec == nil {
		spec = &OptimiseSpec{}
	}
	params := p.Parameters()
	bounds := &optimise.Bounds{Lower: make([]float64, len(params)), Upper: make([]float64, len(params))}
	for k, prm := range params {
		bounds.Lower[k], bounds.Upper[k] = prm.Support()
	}
	starts, err := startPoints(params, spec.Starts, s.Fit.Seed)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	opts := s.OptimiseOptions(logger)
	if opts == nil {
		opts = []optimise.Option{optimise.WithLogger(logger)}
	}
	logger.Debug("config: optimising surrogate", "starts", len(starts), "maximise", spec.Maximise)

	return optimise.MultiStart(ctx, optimise.Problem{
		Objective: p,
		Maximise:  spec.Maximise,
		Bounds:    bounds,
	}, starts, opts...)
}

// maxGaussStarts caps the two-point tensor starts at 2^6.
const maxGaussStarts = 64

// defaultRandomStarts replaces the tensor starts in higher dimensions.
const defaultRandomStarts = 16

// startPoints lists the means, the two-point Gauss tensor nodes and n draws.
func startPoints(params []*parameter.Parameter, n int, seed int64) ([][]float64, error) {
	d := len(params)
	mean := make([]float64, d)
	for k, prm := range params {
		mean[k] = prm.Mean()
	}
	out := [][]float64{mean}

	if d < 64 && 1<<d <= maxGaussStarts {
		two := make([]int, d)
		for k := range two {
			two[k] = 2
		}
		rule, err := quadrature.Tensor(params, two)
		if err != nil {
			return nil, err
		}
		for i := 0; i < rule.Len(); i++ {
			out = append(out, rule.Point(i))
		}
	} else if n == 0 {
		n = defaultRandomStarts
	}

	if n > 0 {
		X, err := draw(params, n, seed)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			out = append(out, X.Row(i))
		}
	}

	return out, nil
}
