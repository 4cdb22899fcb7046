package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// KLDivergence is the per-dimension KL divergence of the points' histogram
// (bins equal-width bins over [0,1]) from the uniform distribution, averaged
// over dimensions. Empty bins contribute nothing. bins < 1 selects
// DefaultKLBins.
func KLDivergence(points [][]float64, bins int) (float64, error) {
	dims, err := Dimension(points)
	if err != nil {
		return 0, fmt.Errorf("kl divergence: %w", err)
	}
	return klDivergenceOf(points, dims, bins), nil
}

func klDivergenceOf(points [][]float64, dims, bins int) float64 {
	if len(points) == 0 || dims == 0 {
		return 0
	}
	if bins < 1 {
		bins = DefaultKLBins
	}
	n := float64(len(points))

	uniform := make([]float64, bins)
	for i := range uniform {
		uniform[i] = 1 / float64(bins)
	}
	counts := make([]float64, bins)
	var total float64
	for d := 0; d < dims; d++ {
		clear(counts)
		for _, p := range points {
			b := int(math.Floor(p[d] * float64(bins)))
			counts[min(max(b, 0), bins-1)]++
		}
		for i := range counts {
			counts[i] /= n
		}
		total += stat.KullbackLeibler(counts, uniform)
	}
	return total / float64(dims)
}
