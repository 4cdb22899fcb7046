package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/codec"
	"github.com/danielpatrickdp/persona-diversity/internal/embedding"
	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/population"
	"github.com/danielpatrickdp/persona-diversity/internal/store"
	"github.com/danielpatrickdp/persona-diversity/internal/telemetry"
)

// #region evaluate

type evaluateOptions struct {
	mode            string
	provider        string
	save            bool
	write           bool
	jsonOut         bool
	metricsTextfile string
}

func newEvaluateCmd(a *app) *cobra.Command {
	var o evaluateOptions
	cmd := &cobra.Command{
		Use:   "evaluate <population.json>",
		Short: "Score the diversity of a population",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.mode == "" {
				o.mode = a.cfg.Embedding.Mode
			}
			if o.provider == "" {
				o.provider = a.cfg.Embedding.Provider
			}
			return a.runEvaluate(cmd.Context(), cmd.OutOrStdout(), args[0], o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.mode, "mode", "", "point source: coordinate or api")
	f.StringVar(&o.provider, "provider", "", "embedding provider for api mode: grpc or openai")
	f.BoolVar(&o.save, "save", false, "record the run in the history database")
	f.BoolVar(&o.write, "write", false, "write the metrics back into the population file")
	f.BoolVar(&o.jsonOut, "json", false, "output as JSON instead of a table")
	f.StringVar(&o.metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	return cmd
}

type evaluateOutput struct {
	Source     string      `json:"source"`
	Mode       string      `json:"mode"`
	Dimensions int         `json:"dimensions"`
	Points     int         `json:"points"`
	Metrics    eval.Result `json:"metrics"`
	Rating     string      `json:"rating"`
	Accepted   bool        `json:"accepted"`
	Reason     string      `json:"reason"`
	RunID      string      `json:"run_id,omitempty"`
}

func (a *app) runEvaluate(ctx context.Context, w io.Writer, path string, o evaluateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mode, err := embedding.ParseMode(o.mode)
	if err != nil {
		return err
	}
	pop, err := population.Load(path)
	if err != nil {
		return err
	}
	if len(pop.Personas) == 0 {
		return fmt.Errorf("evaluate %s: %w", path, population.ErrEmptyPopulation)
	}

	var embedder embedding.Embedder
	if mode == embedding.API {
		e, closeFn, err := a.newEmbedder(o.provider)
		if err != nil {
			return err
		}
		defer closeFn()
		embedder = e
	}
	dims := len(pop.Axes)
	points, err := embedding.NewExtractor(embedder, embedding.WithLogger(a.logger)).
		Points(ctx, pop.Personas, mode, dims)
	if err != nil {
		return err
	}
	if len(points) > 0 {
		dims = len(points[0])
	}

	reg := prometheus.NewRegistry()
	rec := telemetry.NewRecorder(reg)
	h := eval.NewHarness(a.cfg.EvalConfig(),
		eval.WithLogger(a.logger),
		eval.WithObserver(rec.Observer(string(mode))),
	)
	res, err := h.Run(points)
	if err != nil {
		return err
	}
	verdict := a.cfg.Acceptance.Check(res, dims)

	out := evaluateOutput{
		Source:     path,
		Mode:       string(mode),
		Dimensions: dims,
		Points:     len(points),
		Metrics:    res,
		Rating:     eval.Rating(res.Overall),
		Accepted:   verdict.Passed,
		Reason:     verdict.Reason,
	}

	if o.save {
		runID, err := a.saveRun(path, string(mode), dims, h.Config().Seed, res, points)
		if err != nil {
			return err
		}
		out.RunID = runID
	}
	if o.write {
		pop.Metrics = &res
		if err := population.Save(path, pop, false); err != nil {
			return err
		}
	}
	if o.metricsTextfile != "" {
		if err := telemetry.WriteTextfile(o.metricsTextfile, reg); err != nil {
			return err
		}
	}

	a.logger.Info("evaluated population",
		slog.String("source", path),
		slog.String("mode", string(mode)),
		slog.Int("points", len(points)),
		slog.Float64("overall", res.Overall),
	)

	if o.jsonOut {
		return printJSON(w, out)
	}
	printEvaluation(w, out)
	return nil
}

func (a *app) saveRun(source, mode string, dims int, seed uint64, res eval.Result, points [][]float64) (string, error) {
	s, err := store.NewStore(a.cfg.Store.Path)
	if err != nil {
		return "", err
	}
	defer s.Close()

	saved, err := s.SaveRun(store.RunRecord{
		Source:     source,
		Mode:       mode,
		Dimensions: dims,
		Seed:       seed,
		Result:     res,
		Points:     points,
	})
	if err != nil {
		return "", err
	}
	return saved.RunID, nil
}

// newEmbedder builds the configured embedding client and its cleanup func.
func (a *app) newEmbedder(provider string) (embedding.Embedder, func() error, error) {
	ec := a.cfg.Embedding
	switch provider {
	case "grpc":
		if ec.Addr == "" {
			return nil, nil, errors.New("grpc provider needs embedding.addr or $PERSONAS_EMBED_ADDR")
		}
		c, err := codec.NewClient(ec.Addr)
		if err != nil {
			return nil, nil, err
		}
		return codec.NewRetrying(c, codec.WithRetryLogger(a.logger)), c.Close, nil
	case "openai":
		if ec.APIKey == "" {
			return nil, nil, errors.New("openai provider needs $OPENAI_API_KEY")
		}
		var opts []codec.OpenAIOption
		if ec.BaseURL != "" {
			opts = append(opts, codec.WithBaseURL(ec.BaseURL))
		}
		if ec.Model != "" {
			opts = append(opts, codec.WithModel(ec.Model))
		}
		e := codec.NewOpenAIEmbedder(ec.APIKey, opts...)
		return codec.NewRetrying(e, codec.WithRetryLogger(a.logger)), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown embedding provider %q", provider)
	}
}

func printEvaluation(w io.Writer, out evaluateOutput) {
	fprintf(w, "Source:     %s\n", out.Source)
	fprintf(w, "Mode:       %s (%d points, %d dims)\n", out.Mode, out.Points, out.Dimensions)
	if out.RunID != "" {
		fprintf(w, "Run:        %s\n", out.RunID)
	}
	fprintf(w, "\n%-24s  %8s  %s\n", "Metric", "Value", "Note")
	fprintf(w, "%-24s+-%8s+-%s\n", "------------------------", "--------", "--------------------")
	diag := math.Sqrt(float64(max(out.Dimensions, 1)))
	m := out.Metrics
	rows := []struct {
		name  string
		value float64
		note  string
	}{
		{"Coverage", m.Coverage, interpretCoverage(m.Coverage)},
		{"Convex hull volume", m.ConvexHullVolume, interpretHullVolume(m.ConvexHullVolume)},
		{"Mean pairwise distance", m.MeanPairwiseDistance, interpretMeanDistance(m.MeanPairwiseDistance / diag)},
		{"Min pairwise distance", m.MinPairwiseDistance, interpretMinDistance(m.MinPairwiseDistance)},
		{"Dispersion", m.Dispersion, interpretDispersion(m.Dispersion)},
		{"KL divergence", m.KLDivergence, interpretKL(m.KLDivergence)},
	}
	for _, r := range rows {
		fprintf(w, "%-24s  %8.4f  %s\n", r.name, r.value, r.note)
	}
	fprintf(w, "%-24s  %8.4f  %s\n", "Overall", m.Overall, out.Rating)
	fprintf(w, "\nAcceptance: %s\n", out.Reason)
}

func interpretCoverage(v float64) string {
	switch {
	case v > 0.8:
		return "excellent coverage"
	case v > 0.6:
		return "good coverage"
	case v > 0.4:
		return "moderate coverage"
	default:
		return "low coverage"
	}
}

func interpretHullVolume(v float64) string {
	switch {
	case v > 0.6:
		return "wide spread"
	case v > 0.3:
		return "moderate spread"
	default:
		return "narrow spread"
	}
}

// interpretMeanDistance takes the distance normalized by √d.
func interpretMeanDistance(v float64) string {
	switch {
	case v > 0.5:
		return "well separated"
	case v > 0.3:
		return "moderately separated"
	default:
		return "closely clustered"
	}
}

func interpretMinDistance(v float64) string {
	switch {
	case v > 0.1:
		return "no near-duplicates"
	case v > 0.05:
		return "some similar personas"
	default:
		return "near-duplicates present"
	}
}

func interpretDispersion(v float64) string {
	switch {
	case v < 0.2:
		return "even distribution"
	case v < 0.4:
		return "some gaps"
	default:
		return "large empty regions"
	}
}

func interpretKL(v float64) string {
	switch {
	case v < 0.1:
		return "nearly uniform"
	case v < 0.5:
		return "slight bias"
	default:
		return "significant bias"
	}
}

// #endregion evaluate
