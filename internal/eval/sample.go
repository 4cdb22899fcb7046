package eval

import (
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/errgroup"
)

// streamSalt separates the PCG stream from the seed so seed 0 is usable.
const streamSalt = 0x9e3779b97f4a7c15

// NewRand returns a PCG-backed generator for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}

func orDefaultRand(rng *rand.Rand) *rand.Rand {
	if rng == nil {
		return NewRand(DefaultSeed)
	}
	return rng
}

// drawPoints draws count uniform points in [0,1)^dims.
func drawPoints(rng *rand.Rand, count, dims int) [][]float64 {
	if count <= 0 {
		return nil
	}
	flat := make([]float64, count*dims)
	for i := range flat {
		flat[i] = rng.Float64()
	}
	out := make([][]float64, count)
	for i := range out {
		out[i] = flat[i*dims : (i+1)*dims : (i+1)*dims]
	}
	return out
}

// Dimension returns the shared length of points, or an error for ragged or
// zero-dimensional input. An empty set has dimension 0 and no error.
func Dimension(points [][]float64) (int, error) {
	if len(points) == 0 {
		return 0, nil
	}
	d := len(points[0])
	if d == 0 {
		return 0, ErrZeroDimension
	}
	for i, p := range points {
		if len(p) != d {
			return 0, fmt.Errorf("point %d has %d coordinates, want %d: %w", i, len(p), d, ErrInconsistentDimension)
		}
	}
	return d, nil
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}
	return s
}

// minChunk keeps tiny workloads on the calling goroutine.
const minChunk = 64

// forEachChunk calls fn over [0,n) split into contiguous ranges, running at
// most workers ranges at once. fn must only write to indices in its range.
func forEachChunk(n, workers int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if workers <= 1 || n < 2*minChunk {
		fn(0, n)
		return
	}
	chunk := max((n+workers-1)/workers, minChunk)
	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	_ = g.Wait()
}
