package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/persona-diversity/internal/axis"
)

// #region axes

func newAxesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "axes",
		Short: "Work with axis documents",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "validate <file>",
			Short: "Check an axis document",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				axes, err := axis.LoadDocument(args[0])
				if err != nil {
					return err
				}
				fprintf(cmd.OutOrStdout(), "%s: %d axes OK\n", args[0], len(axes))
				return nil
			},
		},
		&cobra.Command{
			Use:   "list [file]",
			Short: "List the axes of a document, or the built-in axes",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				axes := axis.DefaultAxes()
				if len(args) == 1 {
					loaded, err := axis.LoadDocument(args[0])
					if err != nil {
						return err
					}
					axes = loaded
				}
				printAxes(cmd.OutOrStdout(), axes)
				return nil
			},
		},
	)
	return cmd
}

func printAxes(w io.Writer, axes []axis.Axis) {
	fprintf(w, "%-20s  %-12s  %s\n", "ID", "Type", "Values")
	fprintf(w, "%-20s+-%-12s+-%s\n", "--------------------", "------------", "--------------------")
	for _, ax := range axes {
		switch ax.Kind {
		case axis.Categorical:
			fprintf(w, "%-20s  %-12s  %d categories\n", ax.ID, ax.Kind, len(ax.Categories))
		default:
			fprintf(w, "%-20s  %-12s  %d anchors\n", ax.ID, ax.Kind, len(ax.Anchors))
		}
	}
}

// #endregion axes
