// SPDX-License-Identifier: MIT
package parameter_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/equad/parameter"
)

// laws is a fixture covering every distribution family.
func laws() []struct {
	name string
	cfg  parameter.Config
	tol  float64
} {
	return []struct {
		name string
		cfg  parameter.Config
		tol  float64
	}{
		{"uniform", parameter.Config{Distribution: parameter.Uniform, Lower: -2, Upper: 3, Order: 4}, 1e-12},
		{"gaussian", parameter.Config{Distribution: parameter.Gaussian, ShapeA: 1.5, ShapeB: 0.25, Order: 4}, 1e-11},
		{"beta", parameter.Config{Distribution: parameter.Beta, ShapeA: 2, ShapeB: 3, Lower: 0, Upper: 2, Order: 4}, 1e-12},
		{"chebyshev", parameter.Config{Distribution: parameter.Chebyshev, Lower: -1, Upper: 1, Order: 4}, 1e-12},
		{"gamma", parameter.Config{Distribution: parameter.Gamma, ShapeA: 2.5, ShapeB: 0.5, Order: 4}, 1e-11},
		{"exponential", parameter.Config{Distribution: parameter.Exponential, ShapeA: 2, Order: 4}, 1e-11},
		{"truncated-gaussian", parameter.Config{Distribution: parameter.TruncatedGaussian, ShapeA: 0.2, ShapeB: 1, Lower: -1, Upper: 2, Order: 4}, 1e-8},
		{"weibull", parameter.Config{Distribution: parameter.Weibull, ShapeA: 1.5, ShapeB: 2, Order: 4}, 1e-8},
		// Shape below 1: the density is unbounded at 0 and the tail is heavy.
		{"weibull-heavy-tail", parameter.Config{Distribution: parameter.Weibull, ShapeA: 2, ShapeB: 0.7, Order: 4}, 1e-7},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  parameter.Config
		want error
	}{
		{"negative order", parameter.Config{Distribution: parameter.Uniform, Lower: 0, Upper: 1, Order: -1}, parameter.ErrInvalidOrder},
		{"reversed bounds", parameter.Config{Distribution: parameter.Uniform, Lower: 1, Upper: 0}, parameter.ErrInvalidBounds},
		{"infinite bound", parameter.Config{Distribution: parameter.Beta, ShapeA: 1, ShapeB: 1, Lower: 0, Upper: math.Inf(1)}, parameter.ErrInvalidBounds},
		{"zero variance", parameter.Config{Distribution: parameter.Gaussian, ShapeA: 0, ShapeB: 0}, parameter.ErrInvalidShape},
		{"nan mean", parameter.Config{Distribution: parameter.Gaussian, ShapeA: math.NaN(), ShapeB: 1}, parameter.ErrInvalidShape},
		{"beta shape", parameter.Config{Distribution: parameter.Beta, ShapeA: -1, ShapeB: 1, Lower: 0, Upper: 1}, parameter.ErrInvalidShape},
		{"gamma scale", parameter.Config{Distribution: parameter.Gamma, ShapeA: 1, ShapeB: 0}, parameter.ErrInvalidShape},
		{"exponential rate", parameter.Config{Distribution: parameter.Exponential}, parameter.ErrInvalidShape},
		{"weibull shape", parameter.Config{Distribution: parameter.Weibull, ShapeA: 1}, parameter.ErrInvalidShape},
		{"unknown", parameter.Config{Distribution: parameter.Distribution(42)}, parameter.ErrUnknownDistribution},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := parameter.New(tc.cfg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseDistribution(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"uniform", "gaussian", "beta", "chebyshev", "gamma", "exponential", "truncated-gaussian", "weibull"} {
		d, err := parameter.ParseDistribution(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, d.String())

		txt, err := d.MarshalText()
		require.NoError(t, err)
		var back parameter.Distribution
		require.NoError(t, back.UnmarshalText(txt))
		assert.Equal(t, d, back)
	}

	d, err := parameter.ParseDistribution(" Normal ")
	require.NoError(t, err)
	assert.Equal(t, parameter.Gaussian, d)

	_, err = parameter.ParseDistribution("cauchy")
	assert.ErrorIs(t, err, parameter.ErrUnknownDistribution)
	assert.Equal(t, "Distribution(42)", parameter.Distribution(42).String())
}

// A 5-point Gauss–Legendre rule integrates x^7-3x^6+x^5-10x^4+4 over [-1,1] to 22/7.
func TestQuadrature_GaussLegendreFivePoint(t *testing.T) {
	t.Parallel()

	p := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1})
	x, w, err := p.Quadrature(5)
	require.NoError(t, err)

	f := func(x float64) float64 {
		return math.Pow(x, 7) - 3*math.Pow(x, 6) + math.Pow(x, 5) - 10*math.Pow(x, 4) + 4
	}
	sum := 0.0
	for i := range x {
		sum += w[i] * f(x[i])
	}
	// weights integrate against the probability measure; the interval has length 2
	assert.InDelta(t, 22.0/7.0, 2*sum, 1e-13)
	assert.InDelta(t, 1.0, floats.Sum(w), 1e-14)
}

func TestQuadrature_MomentsAndRecurrence(t *testing.T) {
	t.Parallel()

	for _, tc := range laws() {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p, err := parameter.New(tc.cfg)
			require.NoError(t, err)

			x, w, err := p.Quadrature(6)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, floats.Sum(w), 1e-13)
			for i := 1; i < len(x); i++ {
				assert.Less(t, x[i-1], x[i], "nodes ascend")
			}

			mean := stat.Mean(x, w)
			mu := floats.Dot(x, w)
			v := 0.0
			for i := range x {
				v += w[i] * (x[i] - mu) * (x[i] - mu)
			}
			assert.InDelta(t, p.Mean(), mean, tc.tol*math.Max(1, math.Abs(p.Mean())))
			assert.InDelta(t, p.Mean(), mu, tc.tol*math.Max(1, math.Abs(p.Mean())))
			assert.InDelta(t, p.Variance(), v, tc.tol*math.Max(1, p.Variance()))

			a, b, err := p.Recurrence(3)
			require.NoError(t, err)
			assert.Equal(t, 1.0, b[0])
			assert.InDelta(t, p.Mean(), a[0], tc.tol*math.Max(1, math.Abs(p.Mean())))
			assert.InDelta(t, p.Variance(), b[1], tc.tol*math.Max(1, p.Variance()))
		})
	}
}

func TestQuadrature_WeibullShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		scale, shape float64
	}{
		{"shape 0.7", 2, 0.7},
		{"shape 0.8", 1, 0.8},
		{"shape 3", 1.5, 3},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := parameter.MustNew(parameter.Config{Distribution: parameter.Weibull, ShapeA: tc.scale, ShapeB: tc.shape, Order: 5})
			g1, g2 := math.Gamma(1+1/tc.shape), math.Gamma(1+2/tc.shape)
			mean, variance := tc.scale*g1, tc.scale*tc.scale*(g2-g1*g1)

			x, w, err := p.Quadrature(6)
			require.NoError(t, err)
			mu := floats.Dot(x, w)
			v := 0.0
			for i := range x {
				v += w[i] * (x[i] - mu) * (x[i] - mu)
			}
			assert.InDelta(t, mean, mu, 1e-7*mean)
			assert.InDelta(t, variance, v, 1e-7*variance)
			assert.Positive(t, x[0])
		})
	}
}

func TestOrthoPoly_Orthonormal(t *testing.T) {
	t.Parallel()

	const order = 4
	for _, tc := range laws() {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			p := parameter.MustNew(tc.cfg)
			x, w, err := p.Quadrature(order + 2)
			require.NoError(t, err)
			P, dP, err := p.OrthoPoly(x, order)
			require.NoError(t, err)
			require.Equal(t, order+1, P.Rows())
			require.Equal(t, len(x), dP.Cols())

			for j := 0; j <= order; j++ {
				for k := 0; k <= order; k++ {
					g := 0.0
					qj, qk := P.RawRow(j), P.RawRow(k)
					for i := range w {
						g += w[i] * qj[i] * qk[i]
					}
					want := 0.0
					if j == k {
						want = 1
					}
					assert.InDelta(t, want, g, 100*tc.tol, "<q_%d, q_%d>", j, k)
				}
			}
		})
	}
}

func TestOrthoPoly_LegendreClosedForm(t *testing.T) {
	t.Parallel()

	p := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1})
	x := []float64{-0.7, 0.3, 1}
	P, dP, err := p.OrthoPoly(x, 2)
	require.NoError(t, err)

	s3, s5 := math.Sqrt(3), math.Sqrt(5)
	for i, xi := range x {
		assert.InDelta(t, 1.0, P.RawRow(0)[i], 0)
		assert.InDelta(t, 0.0, dP.RawRow(0)[i], 0)
		assert.InDelta(t, s3*xi, P.RawRow(1)[i], 1e-14)
		assert.InDelta(t, s3, dP.RawRow(1)[i], 1e-14)
		assert.InDelta(t, s5*(3*xi*xi-1)/2, P.RawRow(2)[i], 1e-14)
		assert.InDelta(t, 3*s5*xi, dP.RawRow(2)[i], 1e-14)
	}

	_, _, err = p.OrthoPoly(nil, 2)
	assert.ErrorIs(t, err, parameter.ErrEmptyInput)
	_, _, err = p.OrthoPoly(x, -1)
	assert.ErrorIs(t, err, parameter.ErrInvalidOrder)
}

func TestOrthoPoly_DerivativeMatchesFiniteDifference(t *testing.T) {
	t.Parallel()

	p := parameter.MustNew(parameter.Config{Distribution: parameter.Gamma, ShapeA: 3, ShapeB: 0.7})
	const h = 1e-6
	x := []float64{0.4, 1.9, 3.3}
	xp := []float64{0.4 + h, 1.9 + h, 3.3 + h}
	xm := []float64{0.4 - h, 1.9 - h, 3.3 - h}

	_, dP, err := p.OrthoPoly(x, 5)
	require.NoError(t, err)
	Pp, _, err := p.OrthoPoly(xp, 5)
	require.NoError(t, err)
	Pm, _, err := p.OrthoPoly(xm, 5)
	require.NoError(t, err)

	for k := 0; k <= 5; k++ {
		for i := range x {
			fd := (Pp.RawRow(k)[i] - Pm.RawRow(k)[i]) / (2 * h)
			assert.InDelta(t, fd, dP.RawRow(k)[i], 1e-5*math.Max(1, math.Abs(fd)), "q_%d'(%g)", k, x[i])
		}
	}
}

func TestQuadrature_ChebyshevClosedForm(t *testing.T) {
	t.Parallel()

	p := parameter.MustNew(parameter.Config{Distribution: parameter.Chebyshev, Lower: -1, Upper: 1})
	const n = 7
	x, w, err := p.Quadrature(n)
	require.NoError(t, err)
	for j := 0; j < n; j++ {
		// ascending order of cos((2k-1)π/(2n)) runs k = n..1
		want := math.Cos(float64(2*(n-j)-1) * math.Pi / (2 * n))
		assert.InDelta(t, want, x[j], 1e-13)
		assert.InDelta(t, 1.0/n, w[j], 1e-13)
	}
}

func TestLobattoQuadrature(t *testing.T) {
	t.Parallel()

	p := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1})
	x, w, err := p.LobattoQuadrature(3)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{-1, 0, 1}, x, 1e-14)
	assert.InDeltaSlice(t, []float64{1.0 / 6, 2.0 / 3, 1.0 / 6}, w, 1e-14)

	// 4 Lobatto points integrate degree 2·4-3 = 5 exactly: E[X^5] on U[0,2] = 32/6.
	q := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: 0, Upper: 2})
	x, w, err = q.LobattoQuadrature(4)
	require.NoError(t, err)
	assert.Equal(t, 0.0, x[0])
	assert.Equal(t, 2.0, x[3])
	sum := 0.0
	for i := range x {
		sum += w[i] * math.Pow(x[i], 5)
	}
	assert.InDelta(t, 32.0/6.0, sum, 1e-12)

	g := parameter.MustNew(parameter.Config{Distribution: parameter.Gaussian, ShapeB: 1})
	_, _, err = g.LobattoQuadrature(3)
	assert.ErrorIs(t, err, parameter.ErrUnboundedSupport)
	_, _, err = p.LobattoQuadrature(1)
	assert.ErrorIs(t, err, parameter.ErrInvalidPoints)
	_, _, err = p.Quadrature(0)
	assert.ErrorIs(t, err, parameter.ErrInvalidPoints)
}

func TestDensityAndSupport(t *testing.T) {
	t.Parallel()

	u := parameter.MustNew(parameter.Config{Distribution: parameter.Uniform, Lower: -1, Upper: 1})
	assert.True(t, u.Bounded())
	assert.InDelta(t, 0.5, u.PDF(0.2), 1e-15)
	assert.Equal(t, 0.0, u.PDF(1.5))
	assert.InDelta(t, 0.5, u.CDF(0), 1e-15)
	assert.Equal(t, 1.0, u.CDF(3))
	assert.InDelta(t, 0.0, u.Quantile(0.5), 1e-15)
	assert.True(t, math.IsNaN(u.Quantile(1.5)))
	assert.Equal(t, "uniform[-1, 1] order=0", u.String())

	b := parameter.MustNew(parameter.Config{Distribution: parameter.Beta, ShapeA: 2, ShapeB: 3, Lower: 0, Upper: 2})
	assert.InDelta(t, 0.8, b.Mean(), 1e-14)
	// density of Beta(2,3) on [0,1] is 12u(1-u)², halved by the width-2 map
	assert.InDelta(t, 12*0.5*0.25/2, b.PDF(1), 1e-12)

	e := parameter.MustNew(parameter.Config{Distribution: parameter.Exponential, ShapeA: 2})
	lo, hi := e.Support()
	assert.Equal(t, 0.0, lo)
	assert.True(t, math.IsInf(hi, 1))
	assert.False(t, e.Bounded())
	assert.Equal(t, 0.0, e.PDF(-1))

	tg := parameter.MustNew(parameter.Config{Distribution: parameter.TruncatedGaussian, ShapeA: 0, ShapeB: 1, Lower: -1, Upper: 1})
	assert.InDelta(t, 0.0, tg.Mean(), 1e-15)
	assert.InDelta(t, 0.5, tg.CDF(0), 1e-14)
	assert.Less(t, tg.Variance(), 1.0)
}

func TestSamples(t *testing.T) {
	t.Parallel()

	g := parameter.MustNew(parameter.Config{Distribution: parameter.Gaussian, ShapeA: 1, ShapeB: 4})
	s1 := g.Samples(20000, parameter.NewRNG(7))
	s2 := g.Samples(20000, parameter.NewRNG(7))
	assert.Equal(t, s1, s2, "same seed, same stream")

	mean, std := stat.MeanStdDev(s1, nil)
	assert.InDelta(t, 1.0, mean, 0.05)
	assert.InDelta(t, 2.0, std, 0.05)

	w := parameter.MustNew(parameter.Config{Distribution: parameter.Weibull, ShapeA: 1, ShapeB: 1.5})
	for _, v := range w.Samples(1000, nil) {
		assert.GreaterOrEqual(t, v, 0.0)
	}
	assert.Nil(t, w.Samples(0, nil))
	assert.Equal(t, []int{0, 0}, parameter.Orders([]*parameter.Parameter{g, w}))
}
