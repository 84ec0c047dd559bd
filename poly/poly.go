// SPDX-License-Identifier: MIT

package poly

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/matrix"
	"github.com/katalvlaran/equad/parameter"
)

// Method records how a Poly obtained its coefficients.
type Method int

const (
	// Manual coefficients were passed to New.
	Manual Method = iota
	// Integration is pseudospectral projection on a tensor or sparse grid.
	Integration
	// Regression is ordinary least squares on user data.
	Regression
	// LeastSquares is weighted least squares on a subsampled tensor grid.
	LeastSquares
)

var methodNames = [...]string{"manual", "integration", "regression", "least-squares"}

// String returns the method name.
func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}

	return methodNames[m]
}

// ParseMethod resolves a fitting method name; "lsq" and underscores are accepted.
func ParseMethod(name string) (Method, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if n == "lsq" {
		return LeastSquares, nil
	}
	for i, s := range methodNames {
		if s == n {
			return Method(i), nil
		}
	}

	return 0, fmt.Errorf("poly: method %q: %w", name, ErrInvalidOption)
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

// Diagnostics describes a fit.
type Diagnostics struct {
	Method          Method
	Evaluations     int     // model evaluations (Integration, LeastSquares)
	Samples         int     // rows of the solved system
	RSquared        float64 // coefficient of determination on the fitted rows
	Residual        float64 // ||A c - y||₂ of the solved system
	ConditionNumber float64 // of the Gram matrix AᵀA (Regression only; 0 otherwise)
}

// Poly is a polynomial surrogate f(x) ≈ Σ_n c_n ψ_n(x) over independent
// parameters. A Poly is immutable and safe for concurrent use.
type Poly struct {
	params []*parameter.Parameter
	basis  *basis.Basis
	coeffs []float64
	maxDeg []int
	diag   Diagnostics
}

// New wraps known coefficients in a Poly.
//
// Errors:
//   - ErrDimensionMismatch (len(params) != b.Dimensions()), ErrNotFitted
//     (len(coeffs) != b.Cardinality()).
func New(params []*parameter.Parameter, b *basis.Basis, coeffs []float64) (*Poly, error) {
	if err := checkSetup(params, b); err != nil {
		return nil, polyErrorf(opNew, err)
	}
	if len(coeffs) != b.Cardinality() {
		return nil, polyErrorf(opNew, ErrNotFitted)
	}

	return newPoly(params, b, append([]float64(nil), coeffs...), Diagnostics{Method: Manual}), nil
}

func newPoly(params []*parameter.Parameter, b *basis.Basis, coeffs []float64, d Diagnostics) *Poly {
	return &Poly{
		params: append([]*parameter.Parameter(nil), params...),
		basis:  b,
		coeffs: coeffs,
		maxDeg: b.MaxDegrees(),
		diag:   d,
	}
}

func checkSetup(params []*parameter.Parameter, b *basis.Basis) error {
	if b == nil || len(params) == 0 || len(params) != b.Dimensions() {
		return ErrDimensionMismatch
	}

	return nil
}

// Parameters returns the inputs, in order.
func (p *Poly) Parameters() []*parameter.Parameter {
	return append([]*parameter.Parameter(nil), p.params...)
}

// Basis returns the index set.
func (p *Poly) Basis() *basis.Basis { return p.basis }

// Dimensions is the number of inputs.
func (p *Poly) Dimensions() int { return len(p.params) }

// Coefficients returns a copy of c, aligned with Elements().
func (p *Poly) Coefficients() []float64 { return append([]float64(nil), p.coeffs...) }

// Elements returns the basis multi-indices, aligned with Coefficients().
func (p *Poly) Elements() [][]int { return p.basis.Elements() }

// Diagnostics reports how the coefficients were obtained.
func (p *Poly) Diagnostics() Diagnostics { return p.diag }

// EvaluateBasis returns the m×N matrix A[i,n] = ψ_n(X[i,:]) for m points
// stored as rows of X.
//
// Errors:
//   - ErrDimensionMismatch when X.Cols() != Dimensions().
func (p *Poly) EvaluateBasis(X *matrix.Dense) (*matrix.Dense, error) {
	A, _, err := designMatrix(p.params, p.basis, p.maxDeg, X, false)
	if err != nil {
		return nil, polyErrorf(opEvaluateBasis, err)
	}

	return A, nil
}

// EvaluateBasisGradient returns d matrices; the k-th holds ∂ψ_n/∂x_k at
// every row of X (m×N).
func (p *Poly) EvaluateBasisGradient(X *matrix.Dense) ([]*matrix.Dense, error) {
	_, dA, err := designMatrix(p.params, p.basis, p.maxDeg, X, true)
	if err != nil {
		return nil, polyErrorf(opBasisGradient, err)
	}

	return dA, nil
}

// Evaluate returns the surrogate at every row of X.
func (p *Poly) Evaluate(X *matrix.Dense) ([]float64, error) {
	A, _, err := designMatrix(p.params, p.basis, p.maxDeg, X, false)
	if err != nil {
		return nil, polyErrorf(opEvaluate, err)
	}
	y, err := matrix.MatVec(A, p.coeffs)
	if err != nil {
		return nil, polyErrorf(opEvaluate, err)
	}

	return y, nil
}

// Gradient returns the m×d matrix of surrogate gradients at the rows of X.
func (p *Poly) Gradient(X *matrix.Dense) (*matrix.Dense, error) {
	_, dA, err := designMatrix(p.params, p.basis, p.maxDeg, X, true)
	if err != nil {
		return nil, polyErrorf(opGradient, err)
	}
	G, err := matrix.NewDense(X.Rows(), len(p.params))
	if err != nil {
		return nil, polyErrorf(opGradient, err)
	}
	for k, dAk := range dA {
		g, err := matrix.MatVec(dAk, p.coeffs)
		if err != nil {
			return nil, polyErrorf(opGradient, err)
		}
		for i, v := range g {
			G.RawRow(i)[k] = v
		}
	}

	return G, nil
}

// EvaluateAt is Evaluate for a single point.
func (p *Poly) EvaluateAt(x []float64) (float64, error) {
	X, err := matrix.NewDenseFrom(1, len(x), x)
	if err != nil {
		return 0, polyErrorf(opEvaluate, err)
	}
	y, err := p.Evaluate(X)
	if err != nil {
		return 0, err
	}

	return y[0], nil
}

// GradientAt is Gradient for a single point.
func (p *Poly) GradientAt(x []float64) ([]float64, error) {
	X, err := matrix.NewDenseFrom(1, len(x), x)
	if err != nil {
		return nil, polyErrorf(opGradient, err)
	}
	G, err := p.Gradient(X)
	if err != nil {
		return nil, err
	}

	return G.Row(0), nil
}

// designMatrix evaluates every basis term (and optionally its partial
// derivatives) at the rows of X using per-dimension orthonormal polynomials
// up to maxDeg[k].
func designMatrix(params []*parameter.Parameter, b *basis.Basis, maxDeg []int, X *matrix.Dense, wantGrad bool) (*matrix.Dense, []*matrix.Dense, error) {
	if X == nil {
		return nil, nil, matrix.ErrNilMatrix
	}
	d := len(params)
	if X.Cols() != d {
		return nil, nil, ErrDimensionMismatch
	}
	m := X.Rows()

	P := make([]*matrix.Dense, d)
	dP := make([]*matrix.Dense, d)
	for k, prm := range params {
		var err error
		if P[k], dP[k], err = prm.OrthoPoly(X.Col(k), maxDeg[k]); err != nil {
			return nil, nil, fmt.Errorf("dimension %d: %w", k, err)
		}
	}

	elems := b.Elements()
	N := len(elems)
	A, err := matrix.NewDense(m, N)
	if err != nil {
		return nil, nil, err
	}
	var dA []*matrix.Dense
	if wantGrad {
		dA = make([]*matrix.Dense, d)
		for k := range dA {
			if dA[k], err = matrix.NewDense(m, N); err != nil {
				return nil, nil, err
			}
		}
	}

	var i, k, l int
	var prod, g float64
	for n, j := range elems {
		for i = 0; i < m; i++ {
			prod = 1
			for k = 0; k < d; k++ {
				prod *= P[k].RawRow(j[k])[i]
			}
			A.RawRow(i)[n] = prod
			if !wantGrad {
				continue
			}
			for k = 0; k < d; k++ {
				g = dP[k].RawRow(j[k])[i]
				for l = 0; l < d; l++ {
					if l != k {
						g *= P[l].RawRow(j[l])[i]
					}
				}
				dA[k].RawRow(i)[n] = g
			}
		}
	}

	return A, dA, nil
}
