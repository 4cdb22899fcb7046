package sampler

import "errors"

// #region errors

var (
	// ErrUnsupportedDimensionality is returned when more dimensions are requested
	// than the prime table can supply.
	ErrUnsupportedDimensionality = errors.New("unsupported dimensionality")

	// ErrInvalidArgument is returned for negative sample counts or offsets.
	ErrInvalidArgument = errors.New("invalid argument")
)

// #endregion errors

// #region sampler-interface

// Sampler produces points in the open unit hypercube (0,1)^d.
type Sampler interface {
	Generate(numSamples, numDimensions int) ([][]float64, error)
}

// #endregion sampler-interface
