package eval

import "math"

// Composite weights. The six weights sum to 1.
const (
	weightCoverage   = 0.20
	weightHull       = 0.20
	weightPairwise   = 0.15
	weightMinimum    = 0.15
	weightDispersion = 0.15
	weightUniformity = 0.15

	// klCap is the divergence at which the uniformity term reaches zero.
	klCap = 3.0
)

// Score combines the metric fields of r (Overall is ignored) into a single
// value in [0,1]. Distances are normalized by the unit hypercube diagonal √d.
func Score(r Result, dims int) float64 {
	diag := math.Sqrt(float64(max(dims, 1)))
	s := weightCoverage*r.Coverage +
		weightHull*r.ConvexHullVolume +
		weightPairwise*r.MeanPairwiseDistance/diag +
		weightMinimum*r.MinPairwiseDistance/diag +
		weightDispersion*(1-min(r.Dispersion/diag, 1)) +
		weightUniformity*(1-min(r.KLDivergence/klCap, 1))
	return min(max(s, 0), 1)
}

// Rating buckets an overall score for display.
func Rating(overall float64) string {
	switch {
	case overall > 0.6:
		return "good"
	case overall > 0.4:
		return "moderate"
	default:
		return "low"
	}
}
