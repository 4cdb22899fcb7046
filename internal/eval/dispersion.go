package eval

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Dispersion is the largest distance from any of numTests uniform test points
// to its nearest point. Lower is better. An empty set has dispersion 1.
func Dispersion(points [][]float64, numTests int, rng *rand.Rand) (float64, error) {
	dims, err := Dimension(points)
	if err != nil {
		return 0, fmt.Errorf("dispersion: %w", err)
	}
	if len(points) == 0 {
		return 1, nil
	}
	tests := drawPoints(orDefaultRand(rng), numTests, dims)
	return dispersionOf(points, tests, 1), nil
}

func dispersionOf(points, tests [][]float64, workers int) float64 {
	if len(points) == 0 {
		return 1
	}
	nearest := make([]float64, len(tests))
	forEachChunk(len(tests), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			best := math.Inf(1)
			for _, p := range points {
				if sq := sqDist(tests[i], p); sq < best {
					best = sq
				}
			}
			nearest[i] = best
		}
	})
	var worst float64
	for _, sq := range nearest {
		worst = max(worst, sq)
	}
	return math.Sqrt(worst)
}
