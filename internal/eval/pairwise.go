package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// MeanPairwiseDistance is the mean Euclidean distance over all unordered
// pairs. Fewer than two points give 0.
func MeanPairwiseDistance(points [][]float64) (float64, error) {
	if _, err := Dimension(points); err != nil {
		return 0, fmt.Errorf("mean pairwise distance: %w", err)
	}
	mean, _ := pairwiseStats(points, 1)
	return mean, nil
}

// MinPairwiseDistance is the smallest Euclidean distance over all unordered
// pairs. Fewer than two points give 0.
func MinPairwiseDistance(points [][]float64) (float64, error) {
	if _, err := Dimension(points); err != nil {
		return 0, fmt.Errorf("min pairwise distance: %w", err)
	}
	_, least := pairwiseStats(points, 1)
	return least, nil
}

// pairwiseStats computes both pairwise statistics in one pass. Row partials
// are summed in row order, so the result does not depend on workers.
func pairwiseStats(points [][]float64, workers int) (mean, least float64) {
	n := len(points)
	if n < 2 {
		return 0, 0
	}
	rowSum := make([]float64, n)
	rowMin := make([]float64, n)
	forEachChunk(n, workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			sum, best := 0.0, math.Inf(1)
			for j := i + 1; j < n; j++ {
				d := floats.Distance(points[i], points[j], 2)
				sum += d
				best = min(best, d)
			}
			rowSum[i], rowMin[i] = sum, best
		}
	})
	total, least := 0.0, math.Inf(1)
	for i := range rowSum {
		total += rowSum[i]
		least = min(least, rowMin[i])
	}
	pairs := n * (n - 1) / 2
	return total / float64(pairs), least
}
