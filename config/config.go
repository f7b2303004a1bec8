// Package config defines the bounded generation parameter set and its
// validation.
//
// Every field has a documented closed range. Validation happens at the
// boundary, before any grid is touched: omitted optional fields fall back to
// the documented defaults, while supplied out-of-range values always fail
// hard and are never clamped.
package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrConfigRange indicates a parameter outside its documented closed range.
// Wrapped errors name the offending field and its bounds.
var ErrConfigRange = errors.New("config: parameter out of range")

// Closed ranges for every interpreted parameter.
const (
	MinWidth  = 50
	MaxWidth  = 200
	MinHeight = 30
	MaxHeight = 120

	MinInitialWallRatio = 0.4
	MaxInitialWallRatio = 0.55

	MinSimulationSteps = 3
	MaxSimulationSteps = 6

	MinBirthThreshold = 4
	MaxBirthThreshold = 6

	MinSurvivalThreshold = 2
	MaxSurvivalThreshold = 4

	MinSmoothingPasses = 0
	MaxSmoothingPasses = 4
)

// Config is the validated record of generation parameters.
//
// CoinCount and EnemyCount are carried for downstream placement logic; the
// generation core does not interpret them.
type Config struct {
	Width             int     `yaml:"width"`
	Height            int     `yaml:"height"`
	InitialWallRatio  float64 `yaml:"initialWallRatio"`
	SimulationSteps   int     `yaml:"simulationSteps"`
	BirthThreshold    int     `yaml:"birthThreshold"`
	SurvivalThreshold int     `yaml:"survivalThreshold"`
	SmoothingPasses   int     `yaml:"smoothingPasses"`

	CoinCount  int `yaml:"coinCount"`
	EnemyCount int `yaml:"enemyCount"`
}

// Default returns the documented default parameter set.
func Default() Config {
	return Config{
		Width:             100,
		Height:            60,
		InitialWallRatio:  0.45,
		SimulationSteps:   4,
		BirthThreshold:    5,
		SurvivalThreshold: 4,
		SmoothingPasses:   2,
	}
}

// Validate reports the first parameter outside its closed range.
// All returned errors satisfy errors.Is(err, ErrConfigRange).
func (c Config) Validate() error {
	if c.Width < MinWidth || c.Width > MaxWidth {
		return rangeError("width", c.Width, MinWidth, MaxWidth)
	}
	if c.Height < MinHeight || c.Height > MaxHeight {
		return rangeError("height", c.Height, MinHeight, MaxHeight)
	}
	if c.InitialWallRatio < MinInitialWallRatio || c.InitialWallRatio > MaxInitialWallRatio {
		return fmt.Errorf("%w: initialWallRatio %g outside [%g,%g]",
			ErrConfigRange, c.InitialWallRatio, MinInitialWallRatio, MaxInitialWallRatio)
	}
	if c.SimulationSteps < MinSimulationSteps || c.SimulationSteps > MaxSimulationSteps {
		return rangeError("simulationSteps", c.SimulationSteps, MinSimulationSteps, MaxSimulationSteps)
	}
	if c.BirthThreshold < MinBirthThreshold || c.BirthThreshold > MaxBirthThreshold {
		return rangeError("birthThreshold", c.BirthThreshold, MinBirthThreshold, MaxBirthThreshold)
	}
	if c.SurvivalThreshold < MinSurvivalThreshold || c.SurvivalThreshold > MaxSurvivalThreshold {
		return rangeError("survivalThreshold", c.SurvivalThreshold, MinSurvivalThreshold, MaxSurvivalThreshold)
	}
	if c.SmoothingPasses < MinSmoothingPasses || c.SmoothingPasses > MaxSmoothingPasses {
		return rangeError("smoothingPasses", c.SmoothingPasses, MinSmoothingPasses, MaxSmoothingPasses)
	}
	return nil
}

// FromYAML decodes a YAML document over the defaults, then validates.
// Omitted fields keep their default values; supplied out-of-range values
// fail with ErrConfigRange.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decoding yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func rangeError(field string, value, min, max int) error {
	return fmt.Errorf("%w: %s %d outside [%d,%d]", ErrConfigRange, field, value, min, max)
}
