package eval

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// activeWeight is the smallest barycentric weight still counted as active.
	activeWeight = 1e-14
	// stepFloor ends the iteration when the line search stalls.
	stepFloor = 1e-15
)

// #region hull-volume

// ConvexHullVolume estimates the fraction of the unit hypercube inside the
// convex hull of points by Monte Carlo membership tests. Points are
// deduplicated at 1e-6 precision first; fewer than two distinct points give 0.
func ConvexHullVolume(points [][]float64, numTests int, rng *rand.Rand) (float64, error) {
	dims, err := Dimension(points)
	if err != nil {
		return 0, fmt.Errorf("convex hull volume: %w", err)
	}
	if len(points) < 2 || numTests <= 0 {
		return 0, nil
	}
	unique := uniquePoints(points)
	if len(unique) < 2 {
		return 0, nil
	}
	tests := drawPoints(orDefaultRand(rng), numTests, dims)
	return hullFraction(unique, tests, DefaultHullMaxIter, DefaultHullTolerance, 1), nil
}

func hullVolumeOf(points, tests [][]float64, maxIter int, tol float64, workers int) float64 {
	if len(points) < 2 || len(tests) == 0 {
		return 0
	}
	unique := uniquePoints(points)
	if len(unique) < 2 {
		return 0
	}
	return hullFraction(unique, tests, maxIter, tol, workers)
}

func hullFraction(hull, tests [][]float64, maxIter int, tol float64, workers int) float64 {
	inside := make([]bool, len(tests))
	forEachChunk(len(tests), workers, func(lo, hi int) {
		s := newHullSolver(hull, maxIter, tol)
		for i := lo; i < hi; i++ {
			inside[i] = s.contains(tests[i])
		}
	})
	hits := 0
	for _, in := range inside {
		if in {
			hits++
		}
	}
	return float64(hits) / float64(len(tests))
}

// uniquePoints drops points whose coordinates agree to six decimals,
// keeping the first occurrence.
func uniquePoints(points [][]float64) [][]float64 {
	seen := make(map[string]struct{}, len(points))
	out := make([][]float64, 0, len(points))
	var b strings.Builder
	for _, p := range points {
		b.Reset()
		for j, v := range p {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(v, 'f', 6, 64))
		}
		key := b.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// #endregion hull-volume

// #region frank-wolfe

// InConvexHull reports whether q lies in the convex hull of hull, within
// squared distance tol, using Away-Step Frank-Wolfe on min ||Σ αᵢ hᵢ − q||²
// over the simplex.
func InConvexHull(q []float64, hull [][]float64, maxIter int, tol float64) bool {
	if len(hull) == 0 {
		return false
	}
	return newHullSolver(hull, maxIter, tol).contains(q)
}

// hullSolver holds the hull vertices in one row-major slice plus scratch
// buffers, so a worker can reuse it across test points.
type hullSolver struct {
	verts   []float64
	n, d    int
	alpha   []float64
	current []float64
	maxIter int
	tol     float64
}

func newHullSolver(hull [][]float64, maxIter int, tol float64) *hullSolver {
	n, d := len(hull), len(hull[0])
	verts := make([]float64, n*d)
	for i, p := range hull {
		copy(verts[i*d:], p)
	}
	return &hullSolver{
		verts:   verts,
		n:       n,
		d:       d,
		alpha:   make([]float64, n),
		current: make([]float64, d),
		maxIter: maxIter,
		tol:     tol,
	}
}

func (s *hullSolver) vertex(i int) []float64 {
	return s.verts[i*s.d : (i+1)*s.d]
}

func (s *hullSolver) contains(q []float64) bool {
	best, bestSq := 0, math.Inf(1)
	for i := 0; i < s.n; i++ {
		if sq := sqDist(s.vertex(i), q); sq < bestSq {
			best, bestSq = i, sq
		}
	}
	if bestSq < s.tol {
		return true
	}

	clear(s.alpha)
	s.alpha[best] = 1
	cur := s.current
	copy(cur, s.vertex(best))

	for iter := 0; iter < s.maxIter; iter++ {
		// Gradient of the objective is g = cur - q.
		var gCur float64
		for j, c := range cur {
			gCur += (c - q[j]) * c
		}

		fw, fwDot := 0, math.Inf(1)
		aw, awDot := -1, math.Inf(-1)
		for i := 0; i < s.n; i++ {
			v := s.vertex(i)
			var dot float64
			for j, c := range cur {
				dot += (c - q[j]) * v[j]
			}
			if dot < fwDot {
				fw, fwDot = i, dot
			}
			if s.alpha[i] >= activeWeight && dot > awDot {
				aw, awDot = i, dot
			}
		}

		fwGap := gCur - fwDot
		if fwGap < s.tol {
			break
		}
		forward := aw < 0 || fwGap >= awDot-gCur

		var num, den, maxStep float64
		if forward {
			v := s.vertex(fw)
			for j, c := range cur {
				dj := v[j] - c
				num += (c - q[j]) * dj
				den += dj * dj
			}
			maxStep = 1
		} else {
			v := s.vertex(aw)
			for j, c := range cur {
				dj := c - v[j]
				num += (c - q[j]) * dj
				den += dj * dj
			}
			maxStep = s.alpha[aw] / (1 - s.alpha[aw])
		}
		if den < stepFloor {
			break
		}
		step := min(max(-num/den, 0), maxStep)
		if step < stepFloor {
			break
		}

		if forward {
			v := s.vertex(fw)
			for i := range s.alpha {
				s.alpha[i] *= 1 - step
			}
			s.alpha[fw] += step
			for j := range cur {
				cur[j] += step * (v[j] - cur[j])
			}
		} else {
			v := s.vertex(aw)
			for i := range s.alpha {
				s.alpha[i] *= 1 + step
			}
			s.alpha[aw] = max(s.alpha[aw]-step, 0)
			for j := range cur {
				cur[j] += step * (cur[j] - v[j])
			}
		}

		if sqDist(cur, q) < s.tol {
			return true
		}
	}
	return sqDist(cur, q) < s.tol
}

// #endregion frank-wolfe
