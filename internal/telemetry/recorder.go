package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
)

// #region recorder

// Recorder exports evaluation metrics to a Prometheus registry.
type Recorder struct {
	evaluations *prometheus.CounterVec
	duration    prometheus.Histogram
	score       *prometheus.GaugeVec
	runs        *prometheus.CounterVec
}

// NewRecorder registers the evaluation collectors on reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_evaluations_total",
			Help: "Point sets evaluated, by point source",
		}, []string{"mode"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "persona_evaluation_duration_seconds",
			Help:    "Wall time of one full metric evaluation",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
		score: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "persona_evaluation_score",
			Help: "Most recent value of each diversity metric",
		}, []string{"metric"}),
		runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "persona_replay_runs_total",
			Help: "Replay fixture runs, by outcome",
		}, []string{"result"}),
	}
}

// Observer returns an eval.Observer that labels evaluations with mode.
func (r *Recorder) Observer(mode string) eval.Observer {
	return modeObserver{r: r, mode: mode}
}

// ObserveReplay counts one fixture replay.
func (r *Recorder) ObserveReplay(passed bool) {
	result := "pass"
	if !passed {
		result = "fail"
	}
	r.runs.WithLabelValues(result).Inc()
}

type modeObserver struct {
	r    *Recorder
	mode string
}

func (o modeObserver) ObserveEvaluation(elapsed time.Duration, res eval.Result) {
	o.r.evaluations.WithLabelValues(o.mode).Inc()
	o.r.duration.Observe(elapsed.Seconds())
	for _, m := range res.Metrics() {
		o.r.score.WithLabelValues(m.Name).Set(m.Value)
	}
}

// #endregion recorder

// #region textfile

// WriteTextfile writes everything in g to path in the text exposition
// format, for node_exporter's textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// #endregion textfile
