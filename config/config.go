// SPDX-License-Identifier: MIT

// Package config loads study files: a YAML description of the uncertain
// inputs, the polynomial basis, the fitting method and, optionally, a
// surrogate optimisation. Selected knobs can be overridden from the
// environment (EQUAD_WORKERS, EQUAD_LOG_LEVEL, EQUAD_SAMPLING_RATIO).
//
// A minimal study:
//
//	parameters:
//	  - name: x
//	    distribution: uniform
//	    lower: -1
//	    upper: 1
//	    order: 3
//	basis:
//	  kind: total-order
//	fit:
//	  method: integration
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/equad/basis"
	"github.com/katalvlaran/equad/optimise"
	"github.com/katalvlaran/equad/parameter"
	"github.com/katalvlaran/equad/poly"
)

var (
	// ErrNoParameters indicates a study without uncertain inputs.
	ErrNoParameters = errors.New("config: no parameters")

	// ErrInvalidStudy indicates a field outside its documented range.
	ErrInvalidStudy = errors.New("config: invalid study")
)

// ParameterSpec is one uncertain input. The meaning of the shape fields
// follows parameter.Config.
type ParameterSpec struct {
	Name         string                 `yaml:"name"`
	Distribution parameter.Distribution `yaml:"distribution"`
	Order        int                    `yaml:"order"`
	Lower        float64                `yaml:"lower"`
	Upper        float64                `yaml:"upper"`
	ShapeA       float64                `yaml:"shape_a"`
	ShapeB       float64                `yaml:"shape_b"`
}

// Config converts the spec into a parameter.Config.
func (p ParameterSpec) Config() parameter.Config {
	return parameter.Config{
		Distribution: p.Distribution,
		Order:        p.Order,
		Lower:        p.Lower,
		Upper:        p.Upper,
		ShapeA:       p.ShapeA,
		ShapeB:       p.ShapeB,
	}
}

// BasisSpec selects the index set; orders come from the parameters.
// Q = 0 keeps basis.DefaultQ.
type BasisSpec struct {
	Kind   basis.Kind   `yaml:"kind"`
	Level  int          `yaml:"level"`
	Growth basis.Growth `yaml:"growth"`
	Q      float64      `yaml:"q"`
}

// FitSpec selects how coefficients are computed.
//
// Samples and Seed drive the regression method, which fits on Samples
// Monte Carlo draws of the inputs (0 means twice the basis cardinality).
// Workers = 0 keeps poly's default.
type FitSpec struct {
	Method        poly.Method `yaml:"method"`
	Solver        poly.Solver `yaml:"solver"`
	SamplingRatio float64     `yaml:"sampling_ratio"`
	Samples       int         `yaml:"samples"`
	Seed          int64       `yaml:"seed"`
	Workers       int         `yaml:"workers"`
}

// OptimiseSpec configures an optimisation of the fitted surrogate over the
// parameter supports. Zero values keep the optimise defaults.
type OptimiseSpec struct {
	Method     optimise.Method `yaml:"method"`
	Maximise   bool            `yaml:"maximise"`
	Rounds     int             `yaml:"rounds"`
	Tolerance  float64         `yaml:"tolerance"`
	Iterations int             `yaml:"iterations"`
	Starts     int             `yaml:"starts"` // extra start points drawn from the laws
}

// Study is a decoded study file.
type Study struct {
	Parameters []ParameterSpec `yaml:"parameters"`
	Basis      BasisSpec       `yaml:"basis"`
	Fit        FitSpec         `yaml:"fit"`
	Optimise   *OptimiseSpec   `yaml:"optimise"`
	LogLevel   slog.Level      `yaml:"log_level"`
}

// defaults are applied before decoding so absent keys keep them.
func defaults() Study {
	return Study{
		Basis: BasisSpec{Kind: basis.TensorGrid, Level: basis.DefaultLevel, Growth: basis.DefaultGrowth},
		Fit: FitSpec{
			Method:        poly.Integration,
			Solver:        poly.SolverQR,
			SamplingRatio: poly.DefaultSamplingRatio,
		},
		LogLevel: slog.LevelInfo,
	}
}

// Load reads a study file, applies environment overrides and validates it.
func Load(path string) (*Study, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read study: %w", err)
	}
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	o, err := ParseEnv()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	s.Apply(o)
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Parse decodes and validates a study document. The environment is not consulted.
func Parse(data []byte) (*Study, error) {
	s, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

func decode(data []byte) (*Study, error) {
	s := defaults()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("config: parse YAML: %w", err)
	}

	return &s, nil
}

// Validate checks ranges and that the parameters and basis can be built.
func (s *Study) Validate() error {
	if len(s.Parameters) == 0 {
		return ErrNoParameters
	}
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidStudy, fmt.Sprintf(format, args...))
	}
	switch {
	case s.Fit.Method == poly.Manual:
		return invalid("fit.method %s", s.Fit.Method)
	case !(s.Fit.SamplingRatio >= 1):
		return invalid("fit.sampling_ratio %g < 1", s.Fit.SamplingRatio)
	case s.Fit.Samples < 0:
		return invalid("fit.samples %d", s.Fit.Samples)
	case s.Fit.Workers < 0:
		return invalid("fit.workers %d", s.Fit.Workers)
	}
	if o := s.Optimise; o != nil && (o.Rounds < 0 || o.Iterations < 0 || o.Tolerance < 0 || o.Starts < 0) {
		return invalid("optimise: negative limit")
	}
	if _, err := s.Basis.build(s.orders()); err != nil {
		return fmt.Errorf("config: basis: %w", err)
	}
	if _, err := s.BuildParameters(); err != nil {
		return err
	}

	return nil
}
