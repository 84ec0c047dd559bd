// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Overrides are environment settings that take precedence over the study
// file. Unset variables leave the field nil.
type Overrides struct {
	Workers       *int        `env:"EQUAD_WORKERS"`
	LogLevel      *slog.Level `env:"EQUAD_LOG_LEVEL"`
	SamplingRatio *float64    `env:"EQUAD_SAMPLING_RATIO"`
}

// ParseEnv reads Overrides from the process environment.
func ParseEnv() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return Overrides{}, fmt.Errorf("parse env: %w", err)
	}

	return o, nil
}

// Apply copies the set overrides into the study.
func (s *Study) Apply(o Overrides) {
	if o.Workers != nil {
		s.Fit.Workers = *o.Workers
	}
	if o.LogLevel != nil {
		s.LogLevel = *o.LogLevel
	}
	if o.SamplingRatio != nil {
		s.Fit.SamplingRatio = *o.SamplingRatio
	}
}
