package config_test

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/config"
	"github.com/katalvlaran/equad/optimise"
	"github.com/katalvlaran/equad/parameter"
	"github.com/katalvlaran/equad/poly"
)

const studyFile = "testdata/study.yaml"

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

const twoUniforms = `
parameters:
  - {name: x, distribution: uniform, lower: -1, upper: 1, order: 2}
  - {name: y, distribution: uniform, lower: -1, upper: 1, order: 2}
basis:
  kind: total-order
`

func TestLoad(t *testing.T) {
	s, err := config.Load(studyFile)
	require.NoError(t, err)

	require.Len(t, s.Parameters, 2)
	assert.Equal(t, "y", s.Parameters[1].Name)
	assert.Equal(t, parameter.Uniform, s.Parameters[0].Distribution)
	assert.Equal(t, basis.TotalOrder, s.Basis.Kind)
	assert.Equal(t, poly.Integration, s.Fit.Method)
	assert.Equal(t, poly.SolverQR, s.Fit.Solver)
	assert.Equal(t, poly.DefaultSamplingRatio, s.Fit.SamplingRatio)
	assert.Equal(t, 2, s.Fit.Workers)
	assert.Equal(t, slog.LevelDebug, s.LogLevel)
	require.NotNil(t, s.Optimise)
	assert.Equal(t, optimise.NelderMead, s.Optimise.Method)

	params, err := s.BuildParameters()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2}, parameter.Orders(params))

	b, err := s.BuildBasis()
	require.NoError(t, err)
	assert.Equal(t, 6, b.Cardinality())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EQUAD_WORKERS", "3")
	t.Setenv("EQUAD_LOG_LEVEL", "warn")
	t.Setenv("EQUAD_SAMPLING_RATIO", "2")

	s, err := config.Load(studyFile)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Fit.Workers)
	assert.Equal(t, slog.LevelWarn, s.LogLevel)
	assert.Equal(t, 2.0, s.Fit.SamplingRatio)
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("EQUAD_WORKERS", "many")

	_, err := config.Load(studyFile)
	assert.ErrorContains(t, err, "parse env")
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv("EQUAD_SAMPLING_RATIO", "0.5")

	_, err := config.Load(studyFile)
	assert.ErrorIs(t, err, config.ErrInvalidStudy)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("testdata/absent.yaml")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParse_Defaults(t *testing.T) {
	t.Parallel()

	s, err := config.Parse([]byte(`
parameters:
  - {distribution: gaussian, shape_a: 1, shape_b: 4, order: 3}
`))
	require.NoError(t, err)
	assert.Equal(t, basis.TensorGrid, s.Basis.Kind)
	assert.Equal(t, poly.Integration, s.Fit.Method)
	assert.Equal(t, slog.LevelInfo, s.LogLevel)
	assert.Nil(t, s.Optimise)
	assert.Nil(t, s.OptimiseOptions(quiet))
	assert.Equal(t, parameter.Config{Distribution: parameter.Gaussian, Order: 3, ShapeA: 1, ShapeB: 4},
		s.Parameters[0].Config())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"no parameters", "basis: {kind: tensor-grid}\n", config.ErrNoParameters},
		{"distribution", "parameters:\n  - {distribution: lognormal}\n", parameter.ErrUnknownDistribution},
		{"bounds", "parameters:\n  - {distribution: uniform, lower: 1, upper: -1}\n", parameter.ErrInvalidBounds},
		{"growth", twoUniforms + "  level: 1\n  growth: cubic\n", basis.ErrUnknownGrowth},
		{"level", "parameters:\n  - {distribution: uniform, lower: 0, upper: 1}\nbasis: {kind: sparse-grid, level: -1}\n", basis.ErrInvalidLevel},
		{"manual", twoUniforms + "fit: {method: manual}\n", config.ErrInvalidStudy},
		{"method", twoUniforms + "fit: {method: spam}\n", poly.ErrInvalidOption},
		{"solver", twoUniforms + "fit: {solver: svd}\n", poly.ErrInvalidOption},
		{"ratio", twoUniforms + "fit: {sampling_ratio: 0.5}\n", config.ErrInvalidStudy},
		{"samples", twoUniforms + "fit: {samples: -1}\n", config.ErrInvalidStudy},
		{"optimise", twoUniforms + "optimise: {method: slsqp}\n", optimise.ErrUnknownMethod},
		{"rounds", twoUniforms + "optimise: {rounds: -2}\n", config.ErrInvalidStudy},
		{"starts", twoUniforms + "optimise: {starts: -1}\n", config.ErrInvalidStudy},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Parse([]byte(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParse_UnknownField(t *testing.T) {
	t.Parallel()

	_, err := config.Parse([]byte(twoUniforms + "bogus: 1\n"))
	assert.ErrorContains(t, err, "bogus")
}

func TestStudy_FitSurrogate(t *testing.T) {
	t.Parallel()

	model := func(x []float64) float64 { return x[0] + x[0]*x[1] + x[1]*x[1] }
	tests := []struct {
		name string
		fit  string
		want poly.Method
	}{
		{"integration", "fit: {method: integration}\n", poly.Integration},
		{"least squares", "fit: {method: least-squares}\n", poly.LeastSquares},
		{"regression", "fit: {method: regression, samples: 30, seed: 5}\n", poly.Regression},
		{"regression default samples", "fit: {method: regression, solver: normal}\n", poly.Regression},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := config.Parse([]byte(twoUniforms + tc.fit))
			require.NoError(t, err)

			p, err := s.FitSurrogate(context.Background(), model, quiet)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Diagnostics().Method)
			assert.InDelta(t, 1.0/3, p.Mean(), 1e-8)
			assert.InDelta(t, 24.0/45, p.Variance(), 1e-8)
		})
	}
}

func TestStudy_OptimiseSurrogate(t *testing.T) {
	t.Parallel()

	s, err := config.Load(studyFile)
	require.NoError(t, err)

	bowl := func(x []float64) float64 { return (x[0]-0.3)*(x[0]-0.3) + (x[1]+0.2)*(x[1]+0.2) }
	p, err := s.FitSurrogate(context.Background(), bowl, quiet)
	require.NoError(t, err)

	res, err := s.OptimiseSurrogate(context.Background(), p, quiet)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.3, -0.2}, res.X, 1e-3)
	assert.Zero(t, res.Violation)
}

const ishigamiStudy = `
parameters:
  - {distribution: uniform, lower: -3.141592653589793, upper: 3.141592653589793, order: 14}
  - {distribution: uniform, lower: -3.141592653589793, upper: 3.141592653589793, order: 14}
  - {distribution: uniform, lower: -3.141592653589793, upper: 3.141592653589793, order: 14}
basis:
  kind: total-order
optimise:
  method: bfgs
  maximise: true
`

func ishigami(x []float64) float64 {
	s := math.Sin(x[1])
	return math.Sin(x[0]) + 7*s*s + 0.1*math.Pow(x[2], 4)*math.Sin(x[0])
}

// The means of the Ishigami inputs sit on a stationary point of the
// surrogate; the global maximum 1 + 7 + 0.1π⁴ lies at (π/2, ±π/2, ±π).
func TestStudy_OptimiseSurrogate_GlobalMaximum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"tensor starts", ishigamiStudy},
		{"with random starts", ishigamiStudy + "  starts: 4\nfit: {seed: 11}\n"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, err := config.Parse([]byte(tc.doc))
			require.NoError(t, err)
			p, err := s.FitSurrogate(context.Background(), ishigami, quiet)
			require.NoError(t, err)

			res, err := s.OptimiseSurrogate(context.Background(), p, quiet)
			require.NoError(t, err)
			assert.InDelta(t, 8+0.1*math.Pow(math.Pi, 4), res.F, 0.05)
			assert.InDelta(t, math.Pi/2, res.X[0], 0.02)
			assert.InDelta(t, math.Pi/2, math.Abs(res.X[1]), 0.02)
			assert.InDelta(t, math.Pi, math.Abs(res.X[2]), 0.02)
			assert.Zero(t, res.Violation)
		})
	}
}

func TestStudy_Logger(t *testing.T) {
	t.Parallel()

	s, err := config.Parse([]byte(twoUniforms + "log_level: warn\n"))
	require.NoError(t, err)

	var buf bytes.Buffer
	log := s.Logger(&buf)
	log.Info("hidden")
	log.Warn("shown", "k", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN msg=shown k=1")
}

func TestStudy_PolyOptions(t *testing.T) {
	t.Parallel()

	s, err := config.Parse([]byte(twoUniforms + "fit: {workers: 4, solver: normal-equations, sampling_ratio: 2}\n"))
	require.NoError(t, err)

	o := poly.DefaultOptions()
	for _, fn := range s.PolyOptions(quiet) {
		fn(&o)
	}
	assert.Equal(t, 4, o.Workers)
	assert.Equal(t, poly.SolverNormal, o.Solver)
	assert.Equal(t, 2.0, o.SamplingRatio)
	assert.Same(t, quiet, o.Logger)
}
