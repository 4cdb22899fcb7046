package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/population"
	"github.com/danielpatrickdp/persona-diversity/internal/sampler"
)

// #region sample

type sampleOptions struct {
	count       int
	offset      int
	axesFile    string
	language    string
	description string
	output      string
	compact     bool
	evaluate    bool
}

func newSampleCmd(a *app) *cobra.Command {
	var o sampleOptions
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Draw Halton coordinates, map them to axis labels and emit a population skeleton",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("count") {
				o.count = a.cfg.Sample.Count
			}
			if !cmd.Flags().Changed("offset") {
				o.offset = a.cfg.Sample.Offset
			}
			if o.axesFile == "" {
				o.axesFile = a.cfg.Sample.AxesFile
			}
			if o.language == "" {
				o.language = a.cfg.Sample.Language
			}
			return a.runSample(cmd, o)
		},
	}
	f := cmd.Flags()
	f.IntVarP(&o.count, "count", "n", 20, "number of personas")
	f.IntVar(&o.offset, "offset", 0, "Halton sequence offset")
	f.StringVar(&o.axesFile, "axes", "", "axis document (JSON or YAML); defaults to the built-in axes")
	f.StringVar(&o.language, "language", "", "label language (en, ko)")
	f.StringVar(&o.description, "context", "", "what the population is for")
	f.StringVarP(&o.output, "output", "o", "", "write the population to this file instead of stdout")
	f.BoolVar(&o.compact, "compact", false, "emit compact JSON")
	f.BoolVar(&o.evaluate, "evaluate", false, "attach diversity metrics of the sampled coordinates")
	return cmd
}

func (a *app) runSample(cmd *cobra.Command, o sampleOptions) error {
	axes := axis.DefaultAxes()
	if o.axesFile != "" {
		loaded, err := axis.LoadDocument(o.axesFile)
		if err != nil {
			return err
		}
		axes = loaded
	}

	halton := sampler.NewHalton(o.offset)
	points, err := halton.Generate(o.count, len(axes))
	if err != nil {
		return err
	}
	mapper := axis.NewMapper(axes, axis.WithQualifiers(axis.QualifiersFor(o.language)))
	coords, err := mapper.MapSamples(points)
	if err != nil {
		return err
	}

	pop := population.Skeleton(population.Context{Description: o.description}, axes, coords, time.Now())
	if o.evaluate {
		res, err := eval.NewHarness(a.cfg.EvalConfig(), eval.WithLogger(a.logger)).Run(points)
		if err != nil {
			return err
		}
		pop.Metrics = &res
	}
	a.logger.Info("sampled population",
		slog.Int("personas", len(pop.Personas)),
		slog.Int("axes", len(axes)),
		slog.Int("offset", halton.Offset()),
	)

	if o.output == "" {
		return population.Encode(cmd.OutOrStdout(), pop, o.compact)
	}
	return population.Save(o.output, pop, o.compact)
}

// #endregion sample
