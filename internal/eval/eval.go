package eval

import (
	"fmt"
	"log/slog"
	"time"
)

// #region harness

// Harness evaluates point sets with a fixed Config. It is safe for
// concurrent use; every Run starts from a fresh generator seeded by
// Config.Seed.
type Harness struct {
	config   Config
	observer Observer
	logger   *slog.Logger
}

// HarnessOption configures a Harness.
type HarnessOption func(*Harness)

// WithObserver reports each evaluation to o.
func WithObserver(o Observer) HarnessOption {
	return func(h *Harness) { h.observer = o }
}

// WithLogger sets the harness logger.
func WithLogger(l *slog.Logger) HarnessOption {
	return func(h *Harness) { h.logger = l }
}

// NewHarness creates a harness. Zero or negative budgets in config fall back
// to the defaults.
func NewHarness(config Config, opts ...HarnessOption) *Harness {
	def := DefaultConfig()
	if config.CoverageTests <= 0 {
		config.CoverageTests = def.CoverageTests
	}
	if config.HullTests <= 0 {
		config.HullTests = def.HullTests
	}
	if config.DispersionTests <= 0 {
		config.DispersionTests = def.DispersionTests
	}
	if config.KLBins <= 0 {
		config.KLBins = def.KLBins
	}
	if config.ReferenceEpsilon <= 0 {
		config.ReferenceEpsilon = def.ReferenceEpsilon
	}
	if config.HullMaxIter <= 0 {
		config.HullMaxIter = def.HullMaxIter
	}
	if config.HullTolerance <= 0 {
		config.HullTolerance = def.HullTolerance
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	h := &Harness{config: config, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Config returns the effective configuration.
func (h *Harness) Config() Config {
	return h.config
}

// Run computes every metric and the composite score for points.
// Test points are drawn serially (coverage, hull, dispersion) before any
// parallel work, so the result is identical for every Workers value.
func (h *Harness) Run(points [][]float64) (Result, error) {
	start := time.Now()
	if len(points) == 0 {
		r := EmptyResult()
		h.observe(start, r)
		return r, nil
	}
	dims, err := Dimension(points)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate points: %w", err)
	}

	cfg := h.config
	rng := NewRand(cfg.Seed)
	coverageTests := drawPoints(rng, cfg.CoverageTests, dims)
	hullTests := drawPoints(rng, cfg.HullTests, dims)
	dispersionTests := drawPoints(rng, cfg.DispersionTests, dims)

	epsilon := cfg.Epsilon
	if epsilon <= 0 {
		epsilon = AdaptiveEpsilon(dims, cfg.ReferenceEpsilon)
	}

	var r Result
	r.Coverage = coverageOf(points, coverageTests, epsilon, cfg.Workers)
	r.ConvexHullVolume = hullVolumeOf(points, hullTests, cfg.HullMaxIter, cfg.HullTolerance, cfg.Workers)
	r.MeanPairwiseDistance, r.MinPairwiseDistance = pairwiseStats(points, cfg.Workers)
	r.Dispersion = dispersionOf(points, dispersionTests, cfg.Workers)
	r.KLDivergence = klDivergenceOf(points, dims, cfg.KLBins)
	r.Overall = Score(r, dims)

	h.logger.Debug("evaluated point set",
		"points", len(points),
		"dims", dims,
		"epsilon", epsilon,
		"overall", r.Overall,
		"elapsed", time.Since(start),
	)
	h.observe(start, r)
	return r, nil
}

func (h *Harness) observe(start time.Time, r Result) {
	if h.observer != nil {
		h.observer.ObserveEvaluation(time.Since(start), r)
	}
}

// ComputeAll evaluates points with DefaultConfig.
func ComputeAll(points [][]float64) (Result, error) {
	return NewHarness(DefaultConfig()).Run(points)
}

// #endregion harness
