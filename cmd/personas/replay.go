package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/eval"
	"github.com/danielpatrickdp/persona-diversity/internal/replay"
	"github.com/danielpatrickdp/persona-diversity/internal/telemetry"
)

// #region replay

func newReplayCmd(a *app) *cobra.Command {
	var verify int
	var metricsTextfile string
	cmd := &cobra.Command{
		Use:   "replay <fixture.json>...",
		Short: "Re-run fixtures through sample, map and evaluate and check expectations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			reg := prometheus.NewRegistry()
			rec := telemetry.NewRecorder(reg)
			opts := []replay.Option{replay.WithHarnessOptions(
				eval.WithLogger(a.logger),
				eval.WithObserver(rec.Observer("replay")),
			)}

			failed := 0
			for _, path := range args {
				f, err := replay.LoadFixture(path)
				if err != nil {
					return err
				}
				res, err := replay.Run(f, opts...)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				passed := res.Passed()
				if passed && verify > 1 {
					passed, err = replay.Verify(f, verify, opts...)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					if !passed {
						res.Mismatches = append(res.Mismatches, fmt.Sprintf("results differ across %d runs", verify))
					}
				}
				rec.ObserveReplay(passed)

				status := "PASS"
				if !passed {
					status = "FAIL"
					failed++
				}
				fprintf(w, "%-4s  %s  overall=%.4f\n", status, path, res.Metrics.Overall)
				for _, m := range res.Mismatches {
					fprintf(w, "      %s\n", m)
				}
				a.logger.Debug("replayed fixture", slog.String("path", path), slog.Bool("passed", passed))
			}

			if metricsTextfile != "" {
				if err := telemetry.WriteTextfile(metricsTextfile, reg); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&verify, "verify", 0, "also re-run each fixture N times and require identical results")
	cmd.Flags().StringVar(&metricsTextfile, "metrics-textfile", "", "write Prometheus metrics to this file")
	return cmd
}

// #endregion replay
