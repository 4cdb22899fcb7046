package axis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// #region helpers

func lowHigh() Axis {
	return Axis{
		ID:   "level",
		Name: "Level",
		Kind: Continuous,
		Anchors: []Anchor{
			{Value: 0, Label: "Low"},
			{Value: 1, Label: "High"},
		},
	}
}

func fiveCategories() Axis {
	return Axis{
		ID:         "bucket",
		Name:       "Bucket",
		Kind:       Categorical,
		Categories: []string{"A", "B", "C", "D", "E"},
	}
}

// #endregion helpers

// #region continuous-tests

func TestMapValue_Continuous(t *testing.T) {
	a := lowHigh()
	cases := []struct {
		raw  float64
		want string
	}{
		{0.0, "Low"},
		{1.0, "High"},
		{0.0005, "Low"},
		{0.1, "Low"},
		{0.9, "High"},
		{0.4, "Low (leaning low)"},
		{0.5, "High (leaning high)"},
		{0.6, "High (leaning high)"},
		{-0.5, "Low"},
		{1.5, "High"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MapValue(tc.raw, a), "raw=%v", tc.raw)
	}
}

func TestMapValue_StripsQualifierPrefixes(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 0, Label: "Very low"},
		{Value: 1, Label: "Very high"},
	}}
	assert.Equal(t, "low (leaning low)", MapValue(0.4, a))
	assert.Equal(t, "high (leaning high)", MapValue(0.6, a))
}

func TestMapper_KoreanQualifiers(t *testing.T) {
	a := Axis{ID: "k", Kind: Continuous, Anchors: []Anchor{
		{Value: 0, Label: "매우 낮은"},
		{Value: 1, Label: "상당히 높은"},
	}}
	m := NewMapper([]Axis{a}, WithQualifiers(QualifiersFor("ko")))

	coords, err := m.Map([]float64{0.4})
	require.NoError(t, err)
	assert.Equal(t, "낮은 (낮음)", coords[0].MappedValue)

	coords, err = m.Map([]float64{0.6})
	require.NoError(t, err)
	assert.Equal(t, "높은 (높음)", coords[0].MappedValue)
}

func TestMapValue_EmptyLabelBecomesNeutral(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 0, Label: ""},
		{Value: 1, Label: "High"},
	}}
	assert.Equal(t, "Medium (leaning low)", MapValue(0.4, a))
}

func TestMapValue_UnsortedAnchors(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 1, Label: "High"},
		{Value: 0.5, Label: "Mid"},
		{Value: 0, Label: "Low"},
	}}
	assert.Equal(t, "Low", MapValue(0, a))
	assert.Equal(t, "Mid", MapValue(0.5, a))
	assert.Equal(t, "Mid", MapValue(0.55, a))
	assert.Equal(t, "High", MapValue(0.95, a))
}

func TestMapValue_DuplicateAnchorFirstWins(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 0.5, Label: "First"},
		{Value: 0.5, Label: "Second"},
		{Value: 1, Label: "Top"},
	}}
	assert.Equal(t, "First", MapValue(0.5, a))
}

func TestMapValue_SharedAnchorValueUsesMidpoint(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 0.5, Label: "A"},
		{Value: 0.5, Label: "B"},
	}}
	assert.Equal(t, "B (leaning high)", MapValue(0.2, a))
}

func TestMapValue_OutsideAnchorRange(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{
		{Value: 0.2, Label: "Low"},
		{Value: 0.8, Label: "High"},
	}}
	assert.Equal(t, "Low", MapValue(0.05, a))
	assert.Equal(t, "High", MapValue(0.95, a))
}

func TestMapValue_NoAnchors(t *testing.T) {
	assert.Equal(t, "Value 0.25", MapValue(0.25, Axis{Kind: Continuous}))
}

// #endregion continuous-tests

// #region categorical-tests

func TestMapValue_Categorical(t *testing.T) {
	a := fiveCategories()
	assert.Equal(t, "A", MapValue(0, a))
	assert.Equal(t, "A", MapValue(0.19, a))
	assert.Equal(t, "B", MapValue(0.2, a))
	assert.Equal(t, "C", MapValue(0.5, a))
	assert.Equal(t, "E", MapValue(0.99, a))
	assert.Equal(t, "E", MapValue(1, a))
	assert.Equal(t, "E", MapValue(3, a))
	assert.Equal(t, "A", MapValue(math.NaN(), a))
	assert.Equal(t, "E", MapValue(math.Inf(1), a))
	assert.Equal(t, "A", MapValue(math.Inf(-1), a))
}

func TestMapValue_NaNContinuous(t *testing.T) {
	a := Axis{Kind: Continuous, Anchors: []Anchor{{Value: 0, Label: "Low"}, {Value: 1, Label: "High"}}}
	assert.Equal(t, "Low", MapValue(math.NaN(), a))
}

func TestMapValue_SingleCategory(t *testing.T) {
	a := Axis{Kind: Categorical, Categories: []string{"Only"}}
	for _, v := range []float64{0, 0.3, 0.99, 1} {
		assert.Equal(t, "Only", MapValue(v, a))
	}
}

func TestMapValue_NoCategories(t *testing.T) {
	assert.Equal(t, "Category 0.75", MapValue(0.75, Axis{Kind: Categorical}))
}

// #endregion categorical-tests

// #region mapper-tests

func TestMapper_Map(t *testing.T) {
	m := NewMapper([]Axis{lowHigh(), fiveCategories()})
	coords, err := m.Map([]float64{1, 0.5})
	require.NoError(t, err)
	assert.Equal(t, []Coordinate{
		{AxisID: "level", RawValue: 1, MappedValue: "High"},
		{AxisID: "bucket", RawValue: 0.5, MappedValue: "C"},
	}, coords)
}

func TestMapper_DimensionMismatch(t *testing.T) {
	m := NewMapper([]Axis{lowHigh()})
	_, err := m.Map([]float64{0.1, 0.2})
	require.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = MapAll(nil, []Axis{lowHigh()})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMapper_MapSamples(t *testing.T) {
	m := NewMapper([]Axis{lowHigh(), fiveCategories()})
	out, err := m.MapSamples([][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Low", out[0][0].MappedValue)
	assert.Equal(t, "E", out[1][1].MappedValue)

	_, err = m.MapSamples([][]float64{{0, 0}, {1}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "sample 1")
}

func TestQualifiersFor_DefaultsToEnglish(t *testing.T) {
	assert.Equal(t, EnglishQualifiers, QualifiersFor("en"))
	assert.Equal(t, EnglishQualifiers, QualifiersFor("fr"))
	assert.Equal(t, KoreanQualifiers, QualifiersFor("KO"))
}

// #endregion mapper-tests
