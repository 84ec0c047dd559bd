// SPDX-License-Identifier: MIT

package optimise

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
)

// term is one two-sided constraint lo ≤ g(x) ≤ hi folded into the penalty.
// Bound terms see the raw iterate; all others see it projected onto Bounds.
type term struct {
	eval   func(x []float64) (float64, []float64, error) // value and gradient
	lo, hi float64
	bound  bool
}

// at evaluates t at the raw iterate x or at its projection xp.
func (t term) at(x, xp []float64) (float64, []float64, error) {
	if t.bound {
		return t.eval(x)
	}

	return t.eval(xp)
}

// violation returns how far g is outside [lo, hi] and the sign of ∂v/∂g.
func (t term) violation(g float64) (v, sign float64) {
	switch {
	case g < t.lo:
		return t.lo - g, -1
	case g > t.hi:
		return g - t.hi, 1
	}

	return 0, 0
}

// Optimise minimises (or, with Problem.Maximise, maximises) the objective
// subject to bounds, linear and nonlinear constraints.
//
// Constraints are handled by a quadratic exterior penalty
//
//	φ_μ(x) = ±f(x) + μ Σ_i v_i(x)²,
//
// minimised by the inner Method from the previous round's optimum, with μ
// multiplied by PenaltyGrowth until the largest violation is within Tolerance.
// f and the non-bound constraints are evaluated at the iterate projected onto
// Bounds, so a surrogate is never extrapolated outside its box; the bound
// terms alone pull the iterate back. The final point is projected onto Bounds.
//
// Errors:
//   - ErrNilObjective, ErrDimensionMismatch, ErrInvalidBounds, ErrUnknownMethod,
//     ErrInvalidOption, ctx.Err(), evaluation errors of the functions.
//   - ErrInfeasible together with the best Result when the violation stays
//     above Tolerance.
func Optimise(ctx context.Context, prob Problem, x0 []float64, opts ...Option) (*Result, error) {
	o, err := resolve(opts)
	if err != nil {
		return nil, fmt.Errorf("optimise: %w", err)
	}
	terms, err := prob.terms(len(x0))
	if err != nil {
		return nil, fmt.Errorf("optimise: %w", err)
	}

	sign := 1.0
	if prob.Maximise {
		sign = -1
	}
	obj := prob.Objective
	x := prob.project(append([]float64(nil), x0...))
	mu := o.Penalty
	res := &Result{}

	for round := 0; round < o.Rounds; round++ {
		var evalErr error
		fail := func(err error) {
			if evalErr == nil {
				evalErr = err
			}
		}
		p := optimize.Problem{
			Func: func(x []float64) float64 {
				xp := prob.clamped(x)
				f, err := obj.EvaluateAt(xp)
				if err != nil {
					fail(err)
					return math.NaN()
				}
				phi := sign * f
				for _, t := range terms {
					g, _, err := t.at(x, xp)
					if err != nil {
						fail(err)
						return math.NaN()
					}
					v, _ := t.violation(g)
					phi += mu * v * v
				}
				return phi
			},
			Status: func() (optimize.Status, error) {
				if err := ctx.Err(); err != nil {
					return optimize.Failure, err
				}
				if evalErr != nil {
					return optimize.Failure, evalErr
				}
				return optimize.NotTerminated, nil
			},
		}
		var method optimize.Method = &optimize.NelderMead{}
		if o.Method == BFGS {
			method = &optimize.BFGS{}
			p.Grad = func(grad, x []float64) {
				xp := prob.clamped(x)
				df, err := obj.GradientAt(xp)
				if err != nil {
					fail(err)
					floats.Scale(0, grad)
					return
				}
				// The projection is flat across a clamped coordinate.
				copy(grad, frozen(df, x, xp))
				floats.Scale(sign, grad)
				for _, t := range terms {
					g, dg, err := t.at(x, xp)
					if err != nil {
						fail(err)
						return
					}
					if v, s := t.violation(g); v > 0 {
						if !t.bound {
							dg = frozen(dg, x, xp)
						}
						floats.AddScaled(grad, 2*mu*v*s, dg)
					}
				}
			}
		}

		settings := &optimize.Settings{
			MajorIterations:   o.Iterations,
			GradientThreshold: 1e-10,
			Converger:         &optimize.FunctionConverge{Absolute: 1e-14, Relative: 1e-14, Iterations: 50},
		}
		out, err := optimize.Minimize(p, x, settings, method)
		if evalErr != nil {
			return nil, fmt.Errorf("optimise: %w", evalErr)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("optimise: %w", ctxErr)
		}
		if out == nil {
			return nil, fmt.Errorf("optimise: %w", err)
		}
		if err != nil {
			// Line searches stop with an error once no further decrease is
			// possible; the best location is still valid.
			o.Logger.Debug("optimise: inner solver stopped", "round", round, "err", err)
		}
		if !math.IsInf(out.F, 0) && len(out.X) == len(x) {
			copy(x, out.X)
		}

		res.Rounds = round + 1
		res.Iterations += out.MajorIterations
		res.Evaluations += out.FuncEvaluations

		viol, err := maxViolation(terms, x, prob.clamped(x))
		if err != nil {
			return nil, fmt.Errorf("optimise: %w", err)
		}
		o.Logger.Debug("optimise: penalty round",
			"round", round, "penalty", mu, "violation", viol, "status", out.Status.String())
		if viol <= o.Tolerance {
			break
		}
		mu *= o.PenaltyGrowth
	}

	res.X = prob.project(x)
	if res.F, err = obj.EvaluateAt(res.X); err != nil {
		return nil, fmt.Errorf("optimise: %w", err)
	}
	if res.Violation, err = maxViolation(terms, res.X, res.X); err != nil {
		return nil, fmt.Errorf("optimise: %w", err)
	}
	if res.Violation > o.Tolerance {
		o.Logger.Warn("optimise: infeasible result", "violation", res.Violation, "rounds", res.Rounds)
		return res, fmt.Errorf("optimise: violation %g: %w", res.Violation, ErrInfeasible)
	}

	return res, nil
}

// MultiStart runs Optimise from each start and returns the best result: the
// feasible one with the best objective, or, when none is feasible, the one
// with the smallest violation together with ErrInfeasible.
func MultiStart(ctx context.Context, prob Problem, starts [][]float64, opts ...Option) (*Result, error) {
	if len(starts) == 0 {
		return nil, fmt.Errorf("optimise: no start points: %w", ErrInvalidOption)
	}
	sign := 1.0
	if prob.Maximise {
		sign = -1
	}

	var (
		best    *Result
		bestErr error
	)
	for _, x0 := range starts {
		res, err := Optimise(ctx, prob, x0, opts...)
		if err != nil && !errors.Is(err, ErrInfeasible) {
			return nil, err
		}
		switch {
		case best == nil:
		case bestErr == nil && err != nil:
			continue
		case bestErr != nil && err == nil:
		case err == nil && sign*res.F >= sign*best.F:
			continue
		case err != nil && res.Violation >= best.Violation:
			continue
		}
		best, bestErr = res, err
	}

	return best, bestErr
}

// terms validates the problem and flattens bounds and constraints.
func (prob Problem) terms(d int) ([]term, error) {
	if prob.Objective == nil {
		return nil, ErrNilObjective
	}
	if d == 0 || prob.Objective.Dimensions() != d {
		return nil, ErrDimensionMismatch
	}
	interval := func(lo, hi float64) error {
		if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
			return ErrInvalidBounds
		}
		return nil
	}

	var out []term
	if b := prob.Bounds; b != nil {
		if len(b.Lower) != d || len(b.Upper) != d {
			return nil, ErrDimensionMismatch
		}
		for k := 0; k < d; k++ {
			if err := interval(b.Lower[k], b.Upper[k]); err != nil {
				return nil, fmt.Errorf("bound %d: %w", k, err)
			}
			e := make([]float64, d)
			e[k] = 1
			t := linearTerm(e, b.Lower[k], b.Upper[k])
			t.bound = true
			out = append(out, t)
		}
	}
	for i, c := range prob.Linear {
		if len(c.Coefficients) != d {
			return nil, fmt.Errorf("linear constraint %d: %w", i, ErrDimensionMismatch)
		}
		if err := interval(c.Lower, c.Upper); err != nil {
			return nil, fmt.Errorf("linear constraint %d: %w", i, err)
		}
		out = append(out, linearTerm(append([]float64(nil), c.Coefficients...), c.Lower, c.Upper))
	}
	for i, c := range prob.Constraints {
		if c.Function == nil || c.Function.Dimensions() != d {
			return nil, fmt.Errorf("constraint %d: %w", i, ErrDimensionMismatch)
		}
		if err := interval(c.Lower, c.Upper); err != nil {
			return nil, fmt.Errorf("constraint %d: %w", i, err)
		}
		fn := c.Function
		out = append(out, term{
			eval: func(x []float64) (float64, []float64, error) {
				g, err := fn.EvaluateAt(x)
				if err != nil {
					return 0, nil, err
				}
				dg, err := fn.GradientAt(x)
				return g, dg, err
			},
			lo: c.Lower, hi: c.Upper,
		})
	}

	return out, nil
}

func linearTerm(a []float64, lo, hi float64) term {
	return term{
		eval: func(x []float64) (float64, []float64, error) { return floats.Dot(a, x), a, nil },
		lo:   lo,
		hi:   hi,
	}
}

// project clamps x into Bounds in place.
func (prob Problem) project(x []float64) []float64 {
	if prob.Bounds == nil {
		return x
	}
	for k := range x {
		x[k] = math.Min(math.Max(x[k], prob.Bounds.Lower[k]), prob.Bounds.Upper[k])
	}

	return x
}

// clamped returns a projected copy of x.
func (prob Problem) clamped(x []float64) []float64 {
	return prob.project(append([]float64(nil), x...))
}

// frozen zeroes the components of dg along coordinates clamped in xp.
func frozen(dg, x, xp []float64) []float64 {
	var out []float64
	for k := range x {
		if x[k] == xp[k] {
			continue
		}
		if out == nil {
			out = append([]float64(nil), dg...)
		}
		out[k] = 0
	}
	if out == nil {
		return dg
	}

	return out
}

func maxViolation(terms []term, x, xp []float64) (float64, error) {
	worst := 0.0
	for _, t := range terms {
		g, _, err := t.at(x, xp)
		if err != nil {
			return 0, err
		}
		if v, _ := t.violation(g); v > worst {
			worst = v
		}
	}

	return worst, nil
}
