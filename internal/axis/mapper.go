package axis

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// #region constants

const (
	// ExactMatchTolerance is how close a value must be to an anchor to take its label.
	ExactMatchTolerance = 1e-3
	// BlendLowerBound and BlendUpperBound delimit the interpolation ratios that
	// produce a blended label instead of a verbatim anchor label.
	BlendLowerBound = 0.25
	BlendUpperBound = 0.75
)

// #endregion constants

// #region qualifiers

// Qualifiers controls how blended labels are built for a language.
type Qualifiers struct {
	// Prefixes are stripped from the start of an anchor label, in order.
	Prefixes []string
	// Lower and Upper are appended to lower- and upper-leaning blends.
	Lower string
	Upper string
	// Neutral replaces a label that is empty once prefixes are stripped.
	Neutral string
}

// EnglishQualifiers is the default qualifier set.
var EnglishQualifiers = Qualifiers{
	Prefixes: []string{"very ", "extremely ", "highly ", "quite ", "somewhat ", "slightly "},
	Lower:    "(leaning low)",
	Upper:    "(leaning high)",
	Neutral:  "Medium",
}

// KoreanQualifiers strips 매우/약간/상당히 and appends 낮음/높음.
var KoreanQualifiers = Qualifiers{
	Prefixes: []string{"매우", "약간", "상당히"},
	Lower:    "(낮음)",
	Upper:    "(높음)",
	Neutral:  "Medium",
}

// QualifiersFor returns the qualifier set for a language code, defaulting to English.
func QualifiersFor(language string) Qualifiers {
	switch strings.ToLower(language) {
	case "ko", "kr", "korean":
		return KoreanQualifiers
	default:
		return EnglishQualifiers
	}
}

// #endregion qualifiers

// #region map-value

// MapValue maps a raw value to a label on the given axis using English qualifiers.
func MapValue(raw float64, a Axis) string {
	return mapValue(raw, a, EnglishQualifiers)
}

func mapValue(raw float64, a Axis, q Qualifiers) string {
	v := clamp01(raw)
	switch a.Kind {
	case Categorical:
		return mapCategorical(v, a.Categories)
	default:
		return mapContinuous(v, a.Anchors, q)
	}
}

func mapCategorical(v float64, categories []string) string {
	switch len(categories) {
	case 0:
		return fmt.Sprintf("Category %.2f", v)
	case 1:
		return categories[0]
	}
	idx := int(math.Floor(v * float64(len(categories))))
	if idx > len(categories)-1 {
		idx = len(categories) - 1
	}
	return categories[idx]
}

func mapContinuous(v float64, anchors []Anchor, q Qualifiers) string {
	if len(anchors) == 0 {
		return fmt.Sprintf("Value %.2f", v)
	}

	sorted := make([]Anchor, len(anchors))
	copy(sorted, anchors)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value < sorted[j].Value })

	for _, a := range sorted {
		if math.Abs(v-a.Value) < ExactMatchTolerance {
			return a.Label
		}
	}

	lower, upper := sorted[0], sorted[len(sorted)-1]
	for i := 0; i < len(sorted)-1; i++ {
		if v >= sorted[i].Value && v <= sorted[i+1].Value {
			lower, upper = sorted[i], sorted[i+1]
			break
		}
	}

	ratio := 0.5
	if span := upper.Value - lower.Value; span > 0 {
		ratio = (v - lower.Value) / span
	}
	return blendLabel(lower.Label, upper.Label, ratio, q)
}

func blendLabel(lowerLabel, upperLabel string, ratio float64, q Qualifiers) string {
	if ratio < BlendLowerBound {
		return lowerLabel
	}
	if ratio > BlendUpperBound {
		return upperLabel
	}
	if ratio < 0.5 {
		return keyDescriptor(lowerLabel, q) + " " + q.Lower
	}
	return keyDescriptor(upperLabel, q) + " " + q.Upper
}

// keyDescriptor strips intensity prefixes such as "very" from a label.
func keyDescriptor(label string, q Qualifiers) string {
	s := strings.TrimSpace(label)
	for _, p := range q.Prefixes {
		if strings.HasPrefix(strings.ToLower(s), p) {
			s = strings.TrimSpace(s[len(p):])
		}
	}
	if s == "" {
		return q.Neutral
	}
	return s
}

// clamp01 clamps v to [0,1]; NaN maps to 0.
func clamp01(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion map-value

// #region mapper

// Mapper maps raw coordinate vectors onto a fixed, ordered list of axes.
type Mapper struct {
	axes       []Axis
	qualifiers Qualifiers
}

// MapperOption configures a Mapper.
type MapperOption func(*Mapper)

// WithQualifiers sets the qualifier set used for blended labels.
func WithQualifiers(q Qualifiers) MapperOption {
	return func(m *Mapper) { m.qualifiers = q }
}

// NewMapper creates a Mapper for the given axes.
func NewMapper(axes []Axis, opts ...MapperOption) *Mapper {
	m := &Mapper{axes: axes, qualifiers: EnglishQualifiers}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Axes returns the axes the mapper was built with.
func (m *Mapper) Axes() []Axis {
	return m.axes
}

// Map converts one raw vector into coordinates, one per axis.
func (m *Mapper) Map(raw []float64) ([]Coordinate, error) {
	if len(raw) != len(m.axes) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrDimensionMismatch, len(m.axes), len(raw))
	}
	coords := make([]Coordinate, len(raw))
	for i, v := range raw {
		coords[i] = Coordinate{
			AxisID:      m.axes[i].ID,
			RawValue:    v,
			MappedValue: mapValue(v, m.axes[i], m.qualifiers),
		}
	}
	return coords, nil
}

// MapSamples maps every sample; it stops at the first mismatched sample.
func (m *Mapper) MapSamples(samples [][]float64) ([][]Coordinate, error) {
	out := make([][]Coordinate, len(samples))
	for i, s := range samples {
		coords, err := m.Map(s)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		out[i] = coords
	}
	return out, nil
}

// MapAll maps one raw vector onto axes with English qualifiers.
func MapAll(raw []float64, axes []Axis) ([]Coordinate, error) {
	return NewMapper(axes).Map(raw)
}

// #endregion mapper
