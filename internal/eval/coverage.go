package eval

import (
	"fmt"
	"math/rand/v2"
)

// Coverage is the fraction of numTests uniform test points that lie strictly
// within epsilon of some point. epsilon <= 0 selects the adaptive radius.
// A nil rng uses a generator seeded with DefaultSeed. Ragged points return
// ErrInconsistentDimension.
func Coverage(points [][]float64, epsilon float64, numTests int, rng *rand.Rand) (float64, error) {
	dims, err := Dimension(points)
	if err != nil {
		return 0, fmt.Errorf("coverage: %w", err)
	}
	if len(points) == 0 || numTests <= 0 {
		return 0, nil
	}
	if epsilon <= 0 {
		epsilon = AdaptiveEpsilon(dims, DefaultReferenceEpsilon)
	}
	tests := drawPoints(orDefaultRand(rng), numTests, dims)
	return coverageOf(points, tests, epsilon, 1), nil
}

func coverageOf(points, tests [][]float64, epsilon float64, workers int) float64 {
	if len(points) == 0 || len(tests) == 0 {
		return 0
	}
	limit := epsilon * epsilon
	covered := make([]bool, len(tests))
	forEachChunk(len(tests), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for _, p := range points {
				if sqDist(tests[i], p) < limit {
					covered[i] = true
					break
				}
			}
		}
	})
	hits := 0
	for _, c := range covered {
		if c {
			hits++
		}
	}
	return float64(hits) / float64(len(tests))
}
