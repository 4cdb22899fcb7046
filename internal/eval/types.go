package eval

import (
	"errors"
	"runtime"
	"time"
)

// #region errors

var (
	// ErrInconsistentDimension is returned when points in a set differ in length.
	ErrInconsistentDimension = errors.New("inconsistent dimension")

	// ErrZeroDimension is returned for points with no coordinates.
	ErrZeroDimension = errors.New("zero-dimensional points")
)

// #endregion errors

// #region defaults

const (
	DefaultCoverageTests    = 1000
	DefaultHullTests        = 5000
	DefaultDispersionTests  = 1000
	DefaultKLBins           = 10
	DefaultReferenceEpsilon = 0.2
	DefaultHullMaxIter      = 100
	DefaultHullTolerance    = 1e-10
	DefaultSeed             = 42
)

// #endregion defaults

// #region config

// Config holds Monte Carlo budgets and seeding for a Harness.
type Config struct {
	CoverageTests   int     // test points for coverage
	HullTests       int     // test points for hull volume
	DispersionTests int     // test points for dispersion
	KLBins          int     // histogram bins per dimension
	// Epsilon fixes the coverage radius; <= 0 selects AdaptiveEpsilon(d, ReferenceEpsilon).
	Epsilon          float64
	ReferenceEpsilon float64
	HullMaxIter      int
	HullTolerance    float64
	Seed             uint64
	Workers          int // goroutines for test-point evaluation; results do not depend on it
}

// DefaultConfig returns the standard budgets with one worker per CPU.
func DefaultConfig() Config {
	return Config{
		CoverageTests:    DefaultCoverageTests,
		HullTests:        DefaultHullTests,
		DispersionTests:  DefaultDispersionTests,
		KLBins:           DefaultKLBins,
		ReferenceEpsilon: DefaultReferenceEpsilon,
		HullMaxIter:      DefaultHullMaxIter,
		HullTolerance:    DefaultHullTolerance,
		Seed:             DefaultSeed,
		Workers:          runtime.GOMAXPROCS(0),
	}
}

// #endregion config

// #region result

// Result holds every diversity metric for one point set. Coverage, hull volume
// and Overall lie in [0,1]; distances, dispersion and KL divergence are raw.
type Result struct {
	Coverage             float64 `json:"coverage"`
	ConvexHullVolume     float64 `json:"convexHullVolume"`
	MeanPairwiseDistance float64 `json:"meanPairwiseDistance"`
	MinPairwiseDistance  float64 `json:"minPairwiseDistance"`
	Dispersion           float64 `json:"dispersion"`
	KLDivergence         float64 `json:"klDivergence"`
	Overall              float64 `json:"overall"`
}

// EmptyResult is the result for a point set with no points.
func EmptyResult() Result {
	return Result{Dispersion: 1}
}

// Metric is a single named value, used for reporting.
type Metric struct {
	Name  string
	Value float64
}

// Metrics lists the result fields in display order.
func (r Result) Metrics() []Metric {
	return []Metric{
		{"coverage", r.Coverage},
		{"convex_hull_volume", r.ConvexHullVolume},
		{"mean_pairwise_distance", r.MeanPairwiseDistance},
		{"min_pairwise_distance", r.MinPairwiseDistance},
		{"dispersion", r.Dispersion},
		{"kl_divergence", r.KLDivergence},
		{"overall", r.Overall},
	}
}

// #endregion result

// #region observer

// Observer is notified after each harness evaluation.
type Observer interface {
	ObserveEvaluation(elapsed time.Duration, r Result)
}

// #endregion observer
