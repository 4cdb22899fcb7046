package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

func TestRecorderObservesEvaluations(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)

	obs := rec.Observer("coordinate")
	obs.ObserveEvaluation(20*time.Millisecond, eval.Result{Coverage: 0.4, Overall: 0.55})
	obs.ObserveEvaluation(10*time.Millisecond, eval.Result{Coverage: 0.5, Overall: 0.6})
	rec.Observer("api").ObserveEvaluation(time.Second, eval.Result{Overall: 0.3})

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.evaluations.WithLabelValues("coordinate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.evaluations.WithLabelValues("api")))
	assert.Equal(t, 0.3, testutil.ToFloat64(rec.score.WithLabelValues("overall")))
	assert.Equal(t, 1, testutil.CollectAndCount(rec.duration))
}

func TestRecorderWithHarness(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	h := eval.NewHarness(eval.DefaultConfig(), eval.WithObserver(rec.Observer("coordinate")))

	_, err := h.Run([][]float64{{0, 0}, {1, 1}, {0, 1}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.evaluations.WithLabelValues("coordinate")))
}

func TestObserveReplay(t *testing.T) {
	rec := NewRecorder(prometheus.NewRegistry())
	rec.ObserveReplay(true)
	rec.ObserveReplay(false)
	rec.ObserveReplay(true)

	expected := `
# HELP persona_replay_runs_total Replay fixture runs, by outcome
# TYPE persona_replay_runs_total counter
persona_replay_runs_total{result="fail"} 1
persona_replay_runs_total{result="pass"} 2
`
	require.NoError(t, testutil.CollectAndCompare(rec.runs, strings.NewReader(expected)))
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewRecorder(reg)
	rec.Observer("coordinate").ObserveEvaluation(time.Millisecond, eval.Result{Overall: 0.5})

	path := filepath.Join(t.TempDir(), "personas.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `persona_evaluation_score{metric="overall"} 0.5`)
	assert.Contains(t, string(data), `persona_evaluations_total{mode="coordinate"} 1`)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
