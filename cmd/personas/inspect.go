package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/population"
)

// #region inspect

func newInspectCmd(a *app) *cobra.Command {
	var limit int
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "inspect <population.json>",
		Short: "Summarize a population file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pop, err := population.Load(args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), summarize(pop))
			}
			printInspect(cmd.OutOrStdout(), pop, limit)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "personas", 10, "show at most N personas (0 for none)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output a JSON summary")
	return cmd
}

type inspectSummary struct {
	Context     string       `json:"context"`
	GeneratedAt string       `json:"generated_at"`
	Axes        []string     `json:"axes"`
	Personas    int          `json:"personas"`
	Metrics     *eval.Result `json:"metrics,omitempty"`
	Rating      string       `json:"rating,omitempty"`
}

func summarize(pop *population.Population) inspectSummary {
	s := inspectSummary{
		Context:     pop.Context.Description,
		GeneratedAt: pop.GeneratedAt.Format("2006-01-02T15:04:05Z"),
		Personas:    len(pop.Personas),
		Metrics:     pop.Metrics,
	}
	for _, ax := range pop.Axes {
		s.Axes = append(s.Axes, ax.ID)
	}
	if pop.Metrics != nil {
		s.Rating = eval.Rating(pop.Metrics.Overall)
	}
	return s
}

func printInspect(w io.Writer, pop *population.Population, limit int) {
	s := summarize(pop)
	fprintf(w, "Context:    %s\n", s.Context)
	fprintf(w, "Generated:  %s\n", s.GeneratedAt)
	fprintf(w, "Axes:       %s\n", strings.Join(s.Axes, ", "))
	fprintf(w, "Personas:   %d\n", s.Personas)
	if s.Metrics != nil {
		fprintf(w, "Overall:    %.2f (%s)\n", s.Metrics.Overall, s.Rating)
	}

	n := min(limit, len(pop.Personas))
	if n <= 0 {
		return
	}
	fprintf(w, "\n")
	for _, p := range pop.Personas[:n] {
		title := p.ID
		if p.Name != "" {
			title += "  " + p.Name
		}
		fprintf(w, "%s\n", title)
		for _, c := range p.Coordinates {
			fprintf(w, "  %-20s  %6.3f  %s\n", c.AxisID, c.RawValue, c.MappedValue)
		}
	}
	if n < len(pop.Personas) {
		fprintf(w, "... %d more\n", len(pop.Personas)-n)
	}
}

// #endregion inspect
