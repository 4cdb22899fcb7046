package replay

import (
	"fmt"
	"math"
	"reflect"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/sampler"
)

// DefaultTolerance applies when a fixture pins an overall score without a tolerance.
const DefaultTolerance = 1e-9

// #region types

// Result captures one replay of a fixture through sample, map and evaluate.
type Result struct {
	Points      [][]float64
	Coordinates [][]axis.Coordinate // nil when the fixture has no usable axes
	Metrics     eval.Result
	Mismatches  []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool {
	return len(r.Mismatches) == 0
}

// #endregion types

// #region run

// Run replays f. Harness options such as an observer or logger are passed
// through; the worker count comes from the fixture config unless overridden
// with RunWorkers.
func Run(f *Fixture, opts ...Option) (*Result, error) {
	o := runOptions{workers: -1}
	for _, opt := range opts {
		opt(&o)
	}

	points, err := sampler.NewHalton(f.Sample.Offset).Generate(f.Sample.Count, f.Sample.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("sample: %w", err)
	}
	res := &Result{Points: points}

	if axes := f.ResolvedAxes(); axes != nil {
		mapper := axis.NewMapper(axes, axis.WithQualifiers(axis.QualifiersFor(f.Language)))
		res.Coordinates, err = mapper.MapSamples(points)
		if err != nil {
			return nil, fmt.Errorf("map samples: %w", err)
		}
	}

	cfg := f.Metrics.EvalConfig()
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	res.Metrics, err = eval.NewHarness(cfg, o.harness...).Run(points)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	res.Mismatches = compare(f, res)
	return res, nil
}

func compare(f *Fixture, res *Result) []string {
	var out []string
	exp := f.Expected
	if exp.Overall != nil {
		tol := exp.Tolerance
		if tol <= 0 {
			tol = DefaultTolerance
		}
		if math.Abs(res.Metrics.Overall-*exp.Overall) > tol {
			out = append(out, fmt.Sprintf("overall: expected %.6f±%g, got %.6f", *exp.Overall, tol, res.Metrics.Overall))
		}
	}
	for _, l := range exp.Labels {
		got, ok := labelOf(res.Coordinates, l.Persona, l.AxisID)
		switch {
		case !ok:
			out = append(out, fmt.Sprintf("persona %d axis %s: no coordinate", l.Persona, l.AxisID))
		case got != l.Label:
			out = append(out, fmt.Sprintf("persona %d axis %s: expected label=%q, got %q", l.Persona, l.AxisID, l.Label, got))
		}
	}
	return out
}

func labelOf(coords [][]axis.Coordinate, persona int, axisID string) (string, bool) {
	if persona < 0 || persona >= len(coords) {
		return "", false
	}
	for _, c := range coords[persona] {
		if c.AxisID == axisID {
			return c.MappedValue, true
		}
	}
	return "", false
}

// #endregion run

// #region verify

// Verify replays f runs times with worker counts 1, 2, 4, ... and reports
// whether every run produced identical points, labels and metrics.
func Verify(f *Fixture, runs int, opts ...Option) (bool, error) {
	if runs < 1 {
		runs = 1
	}
	var first *Result
	for i := 0; i < runs; i++ {
		res, err := Run(f, append(opts[:len(opts):len(opts)], RunWorkers(1<<min(i, 4)))...)
		if err != nil {
			return false, fmt.Errorf("run %d: %w", i+1, err)
		}
		if first == nil {
			first = res
			continue
		}
		if !reflect.DeepEqual(first.Points, res.Points) ||
			!reflect.DeepEqual(first.Coordinates, res.Coordinates) ||
			first.Metrics != res.Metrics {
			return false, nil
		}
	}
	return true, nil
}

// #endregion verify

// #region options

type runOptions struct {
	workers int
	harness []eval.HarnessOption
}

// Option configures Run and Verify.
type Option func(*runOptions)

// RunWorkers overrides the harness worker count.
func RunWorkers(n int) Option {
	return func(o *runOptions) { o.workers = n }
}

// WithHarnessOptions passes options to the metrics harness.
func WithHarnessOptions(opts ...eval.HarnessOption) Option {
	return func(o *runOptions) { o.harness = append(o.harness, opts...) }
}

// #endregion options
