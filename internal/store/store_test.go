package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

func tempDB(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func record(source string, overall float64, at time.Time) RunRecord {
	return RunRecord{
		Source:     source,
		Mode:       "coordinate",
		Dimensions: 2,
		Seed:       42,
		Result:     eval.Result{Coverage: 0.3, Dispersion: 0.4, Overall: overall},
		Points:     [][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}},
		CreatedAt:  at,
	}
}

// #region save-get

func TestSaveAndGetRun(t *testing.T) {
	s := tempDB(t)
	at := time.Date(2025, 1, 2, 3, 4, 5, 6, time.UTC)

	saved, err := s.SaveRun(record("pop.json", 0.55, at))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.RunID)
	assert.Equal(t, 3, saved.NumPoints)

	got, err := s.GetRun(saved.RunID)
	require.NoError(t, err)
	assert.Equal(t, saved.RunID, got.RunID)
	assert.Equal(t, "pop.json", got.Source)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, saved.Result, got.Result)
	assert.Equal(t, saved.Points, got.Points)
	assert.True(t, at.Equal(got.CreatedAt))
}

func TestSaveRunLargeSeed(t *testing.T) {
	s := tempDB(t)
	rec := record("x", 0.1, time.Now().UTC())
	rec.Seed = 1<<64 - 1

	saved, err := s.SaveRun(rec)
	require.NoError(t, err)
	got, err := s.GetRun(saved.RunID)
	require.NoError(t, err)
	assert.Equal(t, rec.Seed, got.Seed)
}

func TestSaveRunDuplicateID(t *testing.T) {
	s := tempDB(t)
	rec := record("x", 0.1, time.Now().UTC())
	rec.RunID = "fixed"
	_, err := s.SaveRun(rec)
	require.NoError(t, err)
	_, err = s.SaveRun(rec)
	require.Error(t, err)
}

func TestGetRunNotFound(t *testing.T) {
	_, err := tempDB(t).GetRun("nope")
	require.ErrorIs(t, err, ErrRunNotFound)
}

// #endregion save-get

// #region queries

func TestListRunsNewestFirst(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := s.SaveRun(record("a", 0.1*float64(i), base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		ids = append(ids, rec.RunID)
	}

	runs, err := s.ListRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[2], runs[0].RunID)
	assert.Equal(t, ids[1], runs[1].RunID)
}

func TestBestRun(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := s.SaveRun(record("a", 0.4, base))
	require.NoError(t, err)
	best, err := s.SaveRun(record("a", 0.7, base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = s.SaveRun(record("a", 0.7, base.Add(2*time.Minute)))
	require.NoError(t, err)
	_, err = s.SaveRun(record("b", 0.9, base))
	require.NoError(t, err)

	got, err := s.BestRun("a")
	require.NoError(t, err)
	assert.Equal(t, best.RunID, got.RunID)

	_, err = s.BestRun("missing")
	require.ErrorIs(t, err, ErrRunNotFound)
}

func TestMetricHistory(t *testing.T) {
	s := tempDB(t)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range []float64{0.2, 0.5, 0.3} {
		_, err := s.SaveRun(record("a", v, base.Add(time.Duration(i)*time.Second)))
		require.NoError(t, err)
	}

	got, err := s.MetricHistory("a", "overall")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.2, 0.5, 0.3}, got)
}

func TestDeleteRunCascades(t *testing.T) {
	s := tempDB(t)
	rec, err := s.SaveRun(record("a", 0.5, time.Now().UTC()))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(rec.RunID))
	history, err := s.MetricHistory("a", "overall")
	require.NoError(t, err)
	assert.Empty(t, history)

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM run_metrics`).Scan(&n))
	assert.Zero(t, n)

	require.ErrorIs(t, s.DeleteRun(rec.RunID), ErrRunNotFound)
}

// #endregion queries

// #region point-encoding

func TestPointEncodingRoundTrip(t *testing.T) {
	pts := [][]float64{{0, 1, -2.5}, {1e-300, 3.14159, 42}}
	assert.Equal(t, pts, decodePoints(encodePoints(pts), 3))
	assert.Nil(t, decodePoints(nil, 3))
	assert.Nil(t, decodePoints(encodePoints(pts), 0))
}

// #endregion point-encoding
