// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/analyze"
	"github.com/tomtom215/reviewlake/internal/docstore"
	"github.com/tomtom215/reviewlake/internal/visualize"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var noCharts bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the exploratory analysis and render charts",
		Long: `Analyze runs every exploratory analysis over the store - descriptive
statistics, satisfaction levels, category and group comparisons, product,
reviewer, temporal, and content analyses - and writes the comprehensive
JSON report plus an HTML chart page into the output directory.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			store, err := opts.openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			explorer := analyze.NewExplorer(store, cfg.Analysis)
			report := explorer.ComprehensiveReport()

			reportPath, err := report.WriteJSON(cfg.Data.OutputDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report: %s (%d reviews)\n", reportPath, report.Basic.TotalReviews)

			if !noCharts {
				ranks := docstore.NewQueryEngine(store).TopProducts("", cfg.Analysis.TopLimit)
				chartsPath, err := visualize.RenderCharts(report, ranks, cfg.Data.OutputDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Charts: %s\n", chartsPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "skip the HTML chart page")
	return cmd
}
