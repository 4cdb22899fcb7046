package projection

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// #region constants

const (
	// eigenvalueFloor marks an eigenpair as degenerate.
	eigenvalueFloor = 1e-10
	// powerMaxIter and powerTol bound each power iteration run.
	powerMaxIter = 200
	powerTol     = 1e-8
	// zeroNorm is the norm below which a vector is treated as zero.
	zeroNorm = 1e-15
	// Degenerate is the coordinate used when no direction is defined.
	Degenerate = 0.5
)

// ErrInconsistentDimension is returned when input vectors differ in length.
var ErrInconsistentDimension = errors.New("inconsistent dimension")

// #endregion constants

// #region reduce

// Reduce projects n vectors onto their top targetDims principal components.
//
// It works on the n×n Gram matrix of the centered vectors rather than the D×D
// covariance matrix, so the cost is driven by n when n ≪ D. Component k of
// point i is sqrt(λ_k)·v_k[i]. Components that cannot be resolved (beyond
// min(targetDims, n-1, D), or with a near-zero eigenvalue) are filled with 0.5.
func Reduce(points [][]float64, targetDims int) ([][]float64, error) {
	n := len(points)
	if n == 0 {
		return [][]float64{}, nil
	}
	if targetDims < 0 {
		targetDims = 0
	}
	d, err := dimension(points)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, n)
	for i := range out {
		out[i] = filled(targetDims, Degenerate)
	}
	if n == 1 {
		return out, nil
	}

	effective := min(targetDims, n-1, d)
	work := gramMatrix(center(points, d))

	for k := 0; k < effective; k++ {
		value, vec := powerIteration(work)
		if value < eigenvalueFloor {
			// Remaining eigenvalues are smaller still.
			break
		}
		scale := math.Sqrt(value)
		for i := range out {
			out[i][k] = scale * vec.AtVec(i)
		}
		work.SymRankOne(work, -value, vec)
	}
	return out, nil
}

// ReduceNormalized reduces points to targetDims and min-max normalizes the result.
func ReduceNormalized(points [][]float64, targetDims int) ([][]float64, error) {
	reduced, err := Reduce(points, targetDims)
	if err != nil {
		return nil, err
	}
	return Normalize(reduced), nil
}

// #endregion reduce

// #region linear-algebra

func dimension(points [][]float64) (int, error) {
	d := len(points[0])
	for i, p := range points[1:] {
		if len(p) != d {
			return 0, fmt.Errorf("%w: point %d has %d values, expected %d", ErrInconsistentDimension, i+1, len(p), d)
		}
	}
	return d, nil
}

func center(points [][]float64, d int) [][]float64 {
	mean := make([]float64, d)
	for _, p := range points {
		floats.Add(mean, p)
	}
	floats.Scale(1/float64(len(points)), mean)

	centered := make([][]float64, len(points))
	for i, p := range points {
		centered[i] = floats.SubTo(make([]float64, d), p, mean)
	}
	return centered
}

func gramMatrix(centered [][]float64) *mat.SymDense {
	n := len(centered)
	g := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			g.SetSym(i, j, floats.Dot(centered[i], centered[j]))
		}
	}
	return g
}

// powerIteration returns the dominant eigenpair of a symmetric matrix. The
// start vector is fixed so results are reproducible.
func powerIteration(m *mat.SymDense) (float64, *mat.VecDense) {
	n := m.SymmetricDim()

	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, math.Sin(float64(i+1))+0.1)
	}
	if norm := mat.Norm(v, 2); norm < zeroNorm {
		for i := 0; i < n; i++ {
			v.SetVec(i, 1/math.Sqrt(float64(n)))
		}
	} else {
		v.ScaleVec(1/norm, v)
	}

	av := mat.NewVecDense(n, nil)
	var eigenvalue float64
	for iter := 0; iter < powerMaxIter; iter++ {
		av.MulVec(m, v)
		estimate := mat.Dot(v, av)

		norm := mat.Norm(av, 2)
		if norm < zeroNorm {
			return 0, mat.NewVecDense(n, nil)
		}
		next := mat.NewVecDense(n, nil)
		next.ScaleVec(1/norm, av)

		if math.Abs(estimate-eigenvalue) < powerTol*math.Max(1, math.Abs(estimate)) {
			return estimate, next
		}
		eigenvalue = estimate
		v = next
	}
	return eigenvalue, v
}

func filled(n int, value float64) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = value
	}
	return s
}

// #endregion linear-algebra
