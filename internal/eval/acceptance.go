package eval

import (
	"fmt"
	"math"
)

// #region acceptance

// Acceptance holds the thresholds a population must meet before a
// regeneration loop stops early.
type Acceptance struct {
	MinOverall                float64 `yaml:"min_overall" validate:"gte=0,lte=1"`
	MinHullVolume             float64 `yaml:"min_hull_volume" validate:"gte=0,lte=1"`
	MinNormalizedMeanPairwise float64 `yaml:"min_normalized_mean_pairwise" validate:"gte=0,lte=1"`
}

// DefaultAcceptance returns the standard thresholds.
func DefaultAcceptance() Acceptance {
	return Acceptance{
		MinOverall:                0.5,
		MinHullVolume:             0.5,
		MinNormalizedMeanPairwise: 0.5,
	}
}

// Check is one threshold comparison.
type Check struct {
	Name      string
	Value     float64
	Threshold float64
	Pass      bool
}

// Verdict is the outcome of an acceptance check.
type Verdict struct {
	Passed bool
	Checks []Check
	Reason string
}

// Check compares r against the thresholds. The mean pairwise distance is
// normalized by √dims before comparison.
func (a Acceptance) Check(r Result, dims int) Verdict {
	normMean := r.MeanPairwiseDistance / math.Sqrt(float64(max(dims, 1)))
	checks := []Check{
		{Name: "overall", Value: r.Overall, Threshold: a.MinOverall},
		{Name: "convex_hull_volume", Value: r.ConvexHullVolume, Threshold: a.MinHullVolume},
		{Name: "normalized_mean_pairwise", Value: normMean, Threshold: a.MinNormalizedMeanPairwise},
	}

	passed := true
	var failReasons []string
	for i := range checks {
		c := &checks[i]
		c.Pass = c.Value >= c.Threshold
		if !c.Pass {
			passed = false
			failReasons = append(failReasons, fmt.Sprintf("%s %.4f below %.4f", c.Name, c.Value, c.Threshold))
		}
	}

	reason := "all checks passed"
	if !passed {
		reason = fmt.Sprintf("not accepted: %s", failReasons[0])
		if len(failReasons) > 1 {
			reason = fmt.Sprintf("not accepted: %d checks: %s", len(failReasons), failReasons[0])
		}
	}
	return Verdict{Passed: passed, Checks: checks, Reason: reason}
}

// #endregion acceptance
