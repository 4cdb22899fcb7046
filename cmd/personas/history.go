package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/store"
)

// #region history

type historyRow struct {
	RunID      string  `json:"run_id"`
	Source     string  `json:"source"`
	Mode       string  `json:"mode"`
	Dimensions int     `json:"dimensions"`
	Points     int     `json:"points"`
	Overall    float64 `json:"overall"`
	Rating     string  `json:"rating"`
	CreatedAt  string  `json:"created_at"`
}

func newHistoryCmd(a *app) *cobra.Command {
	var last int
	var best string
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded evaluation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := store.NewStore(a.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer s.Close()

			var runs []store.RunRecord
			if best != "" {
				rec, err := s.BestRun(best)
				if err != nil {
					return err
				}
				runs = []store.RunRecord{rec}
			} else {
				runs, err = s.ListRuns(last)
				if err != nil {
					return err
				}
			}

			rows := make([]historyRow, len(runs))
			for i, r := range runs {
				rows[i] = historyRow{
					RunID:      r.RunID,
					Source:     r.Source,
					Mode:       r.Mode,
					Dimensions: r.Dimensions,
					Points:     r.NumPoints,
					Overall:    r.Result.Overall,
					Rating:     eval.Rating(r.Result.Overall),
					CreatedAt:  r.CreatedAt.Format("2006-01-02T15:04:05Z"),
				}
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), rows)
			}
			printHistory(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent runs")
	cmd.Flags().StringVar(&best, "best", "", "show only the best run for this source")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of a table")
	return cmd
}

func printHistory(w io.Writer, rows []historyRow) {
	if len(rows) == 0 {
		fprintf(w, "no runs found\n")
		return
	}
	fprintf(w, "%-12s  %-10s  %5s  %6s  %7s  %-8s  %-20s  %s\n",
		"Run", "Mode", "Dims", "Points", "Overall", "Rating", "Time", "Source")
	fprintf(w, "%-12s+-%-10s+-%5s+-%6s+-%7s+-%-8s+-%-20s+-%s\n",
		"------------", "----------", "-----", "------", "-------", "--------", "--------------------", "----------")
	for _, r := range rows {
		fprintf(w, "%-12s  %-10s  %5d  %6d  %7.4f  %-8s  %-20s  %s\n",
			shortID(r.RunID), r.Mode, r.Dimensions, r.Points, r.Overall, r.Rating, r.CreatedAt, r.Source)
	}
}

// #endregion history
