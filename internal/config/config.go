// Package config holds all run settings, populated from SPILL_-prefixed
// environment variables with defaults matching the published 2019-2022
// Connecticut study. Paths may additionally be overridden by flags in
// cmd/analyze.
package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all settings for one analysis run.
type Config struct {
	// InputPath is the raw CT DEEP extract.
	InputPath string `envconfig:"INPUT_PATH" default:"data/raw/spill_incidents.csv"`
	// OutputDir receives charts, reports, and the metrics textfile.
	OutputDir string `envconfig:"OUTPUT_DIR" default:"reports"`
	// CleanedDBPath, when non-empty, persists the cleaned dataset to SQLite.
	CleanedDBPath string `envconfig:"CLEANED_DB_PATH" default:""`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Study window, inclusive years.
	StartYear int `envconfig:"START_YEAR" default:"2019"`
	EndYear   int `envconfig:"END_YEAR" default:"2022"`

	// MinRecords is the smallest cleaned dataset validation may judge.
	MinRecords int `envconfig:"MIN_RECORDS" default:"50"`
	// PercentTolerance is the acceptance band half-width in percentage points.
	PercentTolerance float64 `envconfig:"PERCENT_TOLERANCE" default:"1.0"`
	// TopTownsWindow is the observed top-M list the expected towns must fall in.
	TopTownsWindow int `envconfig:"TOP_TOWNS_WINDOW" default:"10"`

	// Expected findings from the published research.
	ExpectedTopTowns     []string `envconfig:"EXPECTED_TOP_TOWNS" default:"GROTON,SOUTHINGTON,HARTFORD,NEW BRITAIN,ENFIELD"`
	ExpectedSubstance    string   `envconfig:"EXPECTED_SUBSTANCE" default:"Petroleum Products"`
	ExpectedSubstancePct float64  `envconfig:"EXPECTED_SUBSTANCE_PCT" default:"63.4"`
	ExpectedCause        string   `envconfig:"EXPECTED_CAUSE" default:"Motor Vehicle Accident"`
	ExpectedCausePct     float64  `envconfig:"EXPECTED_CAUSE_PCT" default:"28.6"`
	ExpectedTownCoverage int      `envconfig:"EXPECTED_TOWN_COVERAGE" default:"169"`
}

// Load reads configuration from the environment, applying defaults where
// unset, and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("SPILL", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("SPILL_INPUT_PATH is required")
	}
	if c.OutputDir == "" {
		return errors.New("SPILL_OUTPUT_DIR is required")
	}
	if c.StartYear > c.EndYear {
		return fmt.Errorf("study window inverted: %d > %d", c.StartYear, c.EndYear)
	}
	if c.MinRecords < 1 {
		return errors.New("SPILL_MIN_RECORDS must be positive")
	}
	if c.PercentTolerance < 0 {
		return errors.New("SPILL_PERCENT_TOLERANCE must not be negative")
	}
	if len(c.ExpectedTopTowns) == 0 {
		return errors.New("SPILL_EXPECTED_TOP_TOWNS must not be empty")
	}
	if c.TopTownsWindow < len(c.ExpectedTopTowns) {
		return fmt.Errorf("SPILL_TOP_TOWNS_WINDOW %d is smaller than the expected town list (%d)",
			c.TopTownsWindow, len(c.ExpectedTopTowns))
	}
	return nil
}
