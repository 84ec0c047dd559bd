// SPDX-License-Identifier: MIT

package parameter

import (
	"fmt"
	"math"
	"strings"
)

// Distribution identifies the probability law of one uncertain input.
type Distribution int

const (
	// Uniform on [Lower, Upper]; Legendre polynomials.
	Uniform Distribution = iota
	// Gaussian with mean ShapeA and variance ShapeB; Hermite polynomials.
	Gaussian
	// Beta with shapes ShapeA (α), ShapeB (β) mapped onto [Lower, Upper]; Jacobi polynomials.
	Beta
	// Chebyshev (arcsine) law on [Lower, Upper]; Chebyshev polynomials of the first kind.
	Chebyshev
	// Gamma with shape ShapeA and scale ShapeB on [0, ∞); generalized Laguerre polynomials.
	Gamma
	// Exponential with rate ShapeA on [0, ∞); Laguerre polynomials.
	Exponential
	// TruncatedGaussian: Gaussian(ShapeA, ShapeB) restricted to [Lower, Upper].
	TruncatedGaussian
	// Weibull with scale ShapeA and shape ShapeB on [0, ∞).
	Weibull
)

var distributionNames = [...]string{
	Uniform:           "uniform",
	Gaussian:          "gaussian",
	Beta:              "beta",
	Chebyshev:         "chebyshev",
	Gamma:             "gamma",
	Exponential:       "exponential",
	TruncatedGaussian: "truncated-gaussian",
	Weibull:           "weibull",
}

// aliases accepted by ParseDistribution in addition to the canonical names.
var distributionAliases = map[string]Distribution{
	"normal":             Gaussian,
	"arcsine":            Chebyshev,
	"truncated-normal":   TruncatedGaussian,
	"truncated_gaussian": TruncatedGaussian,
}

// String returns the canonical lower-case name, e.g. "truncated-gaussian".
func (d Distribution) String() string {
	if d < 0 || int(d) >= len(distributionNames) {
		return fmt.Sprintf("Distribution(%d)", int(d))
	}

	return distributionNames[d]
}

// ParseDistribution resolves a case-insensitive name or alias.
func ParseDistribution(s string) (Distribution, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d, name := range distributionNames {
		if name == key {
			return Distribution(d), nil
		}
	}
	if d, ok := distributionAliases[key]; ok {
		return d, nil
	}

	return 0, parameterErrorf(opParse, fmt.Errorf("%q: %w", s, ErrUnknownDistribution))
}

// MarshalText implements encoding.TextMarshaler.
func (d Distribution) MarshalText() ([]byte, error) {
	if d < 0 || int(d) >= len(distributionNames) {
		return nil, ErrUnknownDistribution
	}

	return []byte(distributionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so YAML documents and
// environment variables can name distributions directly.
func (d *Distribution) UnmarshalText(text []byte) error {
	v, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = v

	return nil
}

// Config describes one parameter. Which fields matter depends on Distribution:
//
//	Uniform, Chebyshev        Lower, Upper
//	Gaussian                  ShapeA = mean, ShapeB = variance
//	Beta                      ShapeA = α, ShapeB = β, Lower, Upper
//	Gamma                     ShapeA = shape k, ShapeB = scale θ
//	Exponential               ShapeA = rate λ
//	TruncatedGaussian         ShapeA = mean, ShapeB = variance, Lower, Upper
//	Weibull                   ShapeA = scale λ, ShapeB = shape k
//
// Order is the maximum polynomial degree used for this input.
type Config struct {
	Distribution Distribution
	Order        int
	Lower        float64
	Upper        float64
	ShapeA       float64
	ShapeB       float64
}

// Parameter is one independent uncertain input together with its family of
// orthonormal polynomials. A Parameter is immutable after New and safe for
// concurrent use.
type Parameter struct {
	cfg    Config
	law    measure
	lo, hi float64 // support; ±Inf when unbounded

	// disc is the discretised measure driving the Stieltjes procedure for
	// laws without closed-form recurrences; nil otherwise.
	disc *discreteMeasure
}

// New validates cfg and builds the Parameter.
//
// Errors:
//   - ErrInvalidOrder, ErrInvalidBounds, ErrInvalidShape, ErrUnknownDistribution.
func New(cfg Config) (*Parameter, error) {
	if cfg.Order < 0 {
		return nil, parameterErrorf(opNew, ErrInvalidOrder)
	}
	p := &Parameter{cfg: cfg}
	if err := p.init(); err != nil {
		return nil, parameterErrorf(opNew, fmt.Errorf("%s: %w", cfg.Distribution, err))
	}

	return p, nil
}

// MustNew is like New but panics on error. Intended for tests and fixed literals.
func MustNew(cfg Config) *Parameter {
	p, err := New(cfg)
	if err != nil {
		panic(err)
	}

	return p
}

// Distribution reports the parameter's law.
func (p *Parameter) Distribution() Distribution { return p.cfg.Distribution }

// Order reports the configured maximum polynomial degree.
func (p *Parameter) Order() int { return p.cfg.Order }

// Config returns a copy of the construction settings.
func (p *Parameter) Config() Config { return p.cfg }

// Support returns the interval carrying the probability mass (±Inf when unbounded).
func (p *Parameter) Support() (lo, hi float64) { return p.lo, p.hi }

// Bounded reports whether both ends of the support are finite.
func (p *Parameter) Bounded() bool {
	return !math.IsInf(p.lo, 0) && !math.IsInf(p.hi, 0)
}

// String renders e.g. "uniform[-1, 1] order=3".
func (p *Parameter) String() string {
	return fmt.Sprintf("%s[%g, %g] order=%d", p.cfg.Distribution, p.lo, p.hi, p.cfg.Order)
}

// Orders collects the configured orders of params, in order.
func Orders(params []*Parameter) []int {
	out := make([]int, len(params))
	for i, p := range params {
		out[i] = p.cfg.Order
	}

	return out
}
