package axis

import "errors"

// #region errors

var (
	// ErrDimensionMismatch is returned when a raw vector and the axis list differ in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrInvalidAxisDefinition is returned when an axis fails validation.
	ErrInvalidAxisDefinition = errors.New("invalid axis definition")
)

// #endregion errors

// #region kind

// Kind tags which variant an Axis holds.
type Kind string

const (
	Continuous  Kind = "continuous"
	Categorical Kind = "categorical"
)

// #endregion kind

// #region axis

// Anchor is a labeled position on a continuous axis.
type Anchor struct {
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
}

// Axis is one diversity dimension. Continuous axes use Anchors, categorical
// axes use Categories; the other field is ignored.
type Axis struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Kind        Kind     `json:"type" yaml:"type"`
	Anchors     []Anchor `json:"anchors,omitempty" yaml:"anchors,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
}

// #endregion axis

// #region coordinate

// Coordinate is a raw value on one axis together with its semantic label.
type Coordinate struct {
	AxisID      string  `json:"axisId"`
	RawValue    float64 `json:"rawValue"`
	MappedValue string  `json:"mappedValue"`
}

// #endregion coordinate
