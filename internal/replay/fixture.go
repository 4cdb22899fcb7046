package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description string          `json:"description"`
	Sample      FixtureSample   `json:"sample"`
	Axes        []axis.Axis     `json:"axes,omitempty"`
	Language    string          `json:"language,omitempty"`
	Metrics     FixtureMetrics  `json:"metrics"`
	Expected    FixtureExpected `json:"expected"`
}

// FixtureSample configures the Halton draw.
type FixtureSample struct {
	Count      int `json:"count"`
	Dimensions int `json:"dimensions"`
	Offset     int `json:"offset"`
}

// FixtureMetrics mirrors the Monte Carlo parts of eval.Config with JSON tags.
// Zero values select the defaults.
type FixtureMetrics struct {
	Seed            *uint64 `json:"seed,omitempty"`
	CoverageTests   int     `json:"coverage_tests,omitempty"`
	HullTests       int     `json:"hull_tests,omitempty"`
	DispersionTests int     `json:"dispersion_tests,omitempty"`
}

// FixtureExpected lists the outcomes a replay must reproduce.
type FixtureExpected struct {
	Overall   *float64        `json:"overall,omitempty"`
	Tolerance float64         `json:"tolerance,omitempty"`
	Labels    []ExpectedLabel `json:"labels,omitempty"`
}

// ExpectedLabel pins the mapped label of one persona on one axis.
type ExpectedLabel struct {
	Persona int    `json:"persona"`
	AxisID  string `json:"axis_id"`
	Label   string `json:"label"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ResolvedAxes returns the fixture's axes, or the first Dimensions default
// axes when none are given. It returns nil when the defaults are too few.
func (f *Fixture) ResolvedAxes() []axis.Axis {
	if len(f.Axes) > 0 {
		return f.Axes
	}
	defaults := axis.DefaultAxes()
	if f.Sample.Dimensions > len(defaults) {
		return nil
	}
	return defaults[:f.Sample.Dimensions]
}

// EvalConfig converts the fixture's metric settings to an eval.Config.
func (fm FixtureMetrics) EvalConfig() eval.Config {
	cfg := eval.DefaultConfig()
	if fm.Seed != nil {
		cfg.Seed = *fm.Seed
	}
	if fm.CoverageTests > 0 {
		cfg.CoverageTests = fm.CoverageTests
	}
	if fm.HullTests > 0 {
		cfg.HullTests = fm.HullTests
	}
	if fm.DispersionTests > 0 {
		cfg.DispersionTests = fm.DispersionTests
	}
	return cfg
}

// #endregion fixture-loader
