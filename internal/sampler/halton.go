package sampler

import "fmt"

// #region primes

// Primes holds the bases for the first 30 dimensions.
var Primes = [...]uint64{
	2, 3, 5, 7, 11, 13, 17, 19, 23, 29,
	31, 37, 41, 43, 47, 53, 59, 61, 67, 71,
	73, 79, 83, 89, 97, 101, 103, 107, 109, 113,
}

// MaxDimensions is the largest dimensionality Halton supports.
const MaxDimensions = len(Primes)

// #endregion primes

// #region halton

// Halton is a deterministic low-discrepancy sampler. Two samplers with the same
// offset produce identical sequences.
type Halton struct {
	offset int
}

// NewHalton returns a Halton sampler that skips the first offset indices.
func NewHalton(offset int) *Halton {
	return &Halton{offset: offset}
}

// Offset returns the index offset the sampler was built with.
func (h *Halton) Offset() int {
	return h.offset
}

// Generate returns numSamples points of numDimensions coordinates, each in (0,1).
func (h *Halton) Generate(numSamples, numDimensions int) ([][]float64, error) {
	if numSamples < 0 {
		return nil, fmt.Errorf("%w: negative sample count %d", ErrInvalidArgument, numSamples)
	}
	if numSamples == 0 {
		return [][]float64{}, nil
	}
	if numDimensions < 1 || numDimensions > MaxDimensions {
		return nil, fmt.Errorf("%w: maximum %d dimensions supported, got %d",
			ErrUnsupportedDimensionality, MaxDimensions, numDimensions)
	}
	if h.offset < 0 {
		return nil, fmt.Errorf("%w: negative offset %d", ErrInvalidArgument, h.offset)
	}

	samples := make([][]float64, numSamples)
	for i := range samples {
		// 1-indexed: the radical inverse of 0 is 0, which is not in (0,1).
		index := uint64(i + 1 + h.offset)
		point := make([]float64, numDimensions)
		for d := range point {
			point[d] = RadicalInverse(index, Primes[d])
		}
		samples[i] = point
	}
	return samples, nil
}

// RadicalInverse mirrors the base-b digits of n around the radix point.
func RadicalInverse(n, base uint64) float64 {
	var result float64
	b := float64(base)
	f := 1 / b
	for n > 0 {
		result += f * float64(n%base)
		n /= base
		f /= b
	}
	return result
}

// #endregion halton
