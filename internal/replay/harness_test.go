package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/sampler"
)

// #region fixture-tests

func TestFixture_Halton40x6(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "halton_40x6.json"))
	require.NoError(t, err)

	res, err := Run(f)
	require.NoError(t, err)
	assert.Empty(t, res.Mismatches)
	assert.True(t, res.Passed())

	require.Len(t, res.Points, 40)
	require.Len(t, res.Coordinates, 40)
	assert.Equal(t, []float64{0.5, 1.0 / 3, 0.2, 1.0 / 7, 1.0 / 11, 1.0 / 13}, res.Points[0])
	assert.Greater(t, res.Metrics.Overall, 0.0)
	assert.LessOrEqual(t, res.Metrics.Overall, 1.0)
}

func TestFixture_EndToEndDeterminism(t *testing.T) {
	f, err := LoadFixture(filepath.Join("testdata", "halton_40x6.json"))
	require.NoError(t, err)

	ok, err := Verify(f, 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun_ReportsMismatches(t *testing.T) {
	wrong := 2.0
	f := &Fixture{
		Sample: FixtureSample{Count: 10, Dimensions: 2},
		Expected: FixtureExpected{
			Overall: &wrong,
			Labels: []ExpectedLabel{
				{Persona: 0, AxisID: "age_stage", Label: "Senior"},
				{Persona: 99, AxisID: "age_stage", Label: "Senior"},
			},
		},
	}
	res, err := Run(f)
	require.NoError(t, err)
	require.Len(t, res.Mismatches, 3)
	assert.Contains(t, res.Mismatches[0], "overall")
	assert.Contains(t, res.Mismatches[1], `expected label="Senior", got "Middle-aged"`)
	assert.Contains(t, res.Mismatches[2], "no coordinate")
}

func TestRun_PinnedOverall(t *testing.T) {
	seed := uint64(7)
	f := &Fixture{
		Sample:  FixtureSample{Count: 12, Dimensions: 3, Offset: 5},
		Metrics: FixtureMetrics{Seed: &seed, CoverageTests: 300, HullTests: 300, DispersionTests: 300},
	}
	first, err := Run(f)
	require.NoError(t, err)

	f.Expected.Overall = &first.Metrics.Overall
	again, err := Run(f, RunWorkers(4))
	require.NoError(t, err)
	assert.Empty(t, again.Mismatches)
}

func TestRun_NoAxesForHighDimensions(t *testing.T) {
	f := &Fixture{Sample: FixtureSample{Count: 5, Dimensions: 9}}
	res, err := Run(f)
	require.NoError(t, err)
	assert.Nil(t, res.Coordinates)
	assert.Len(t, res.Points[0], 9)
}

func TestRun_SamplerError(t *testing.T) {
	f := &Fixture{Sample: FixtureSample{Count: 5, Dimensions: 31}}
	_, err := Run(f)
	require.ErrorIs(t, err, sampler.ErrUnsupportedDimensionality)
}

type observerFunc func(time.Duration, eval.Result)

func (f observerFunc) ObserveEvaluation(d time.Duration, r eval.Result) { f(d, r) }

func TestRun_PassesHarnessOptions(t *testing.T) {
	calls := 0
	obs := observerFunc(func(time.Duration, eval.Result) { calls++ })
	f := &Fixture{Sample: FixtureSample{Count: 4, Dimensions: 2}}

	_, err := Run(f, WithHarnessOptions(eval.WithObserver(obs)))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestLoadFixture_Errors(t *testing.T) {
	_, err := LoadFixture(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadFixture(bad)
	require.ErrorContains(t, err, "parse fixture")
}

// #endregion fixture-tests
