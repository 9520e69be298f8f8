// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/docstore"
	"github.com/tomtom215/reviewlake/internal/models"
)

func newStatsCommand(opts *rootOptions) *cobra.Command {
	var (
		category string
		top      int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Per-category aggregation and top products",
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

			if top <= 0 {
				top = cfg.Analysis.TopLimit
			}

			queries := docstore.NewQueryEngine(store)
			out := cmd.OutOrStdout()

			storeStats := store.Stats()
			fmt.Fprintf(out, "Store: %s (%s, %s)\n", storeStats.Path, storeStats.Engine,
				humanize.Bytes(uint64(storeStats.SizeBytes)))
			fmt.Fprintf(out, "Total reviews: %d\n\n", storeStats.TotalReviews)

			renderAggregates(out, queries.AggregateByCategory())
			renderTopProducts(out, queries.TopProducts(category, top))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "restrict top products to one category")
	cmd.Flags().IntVar(&top, "top", 0, "top products ranking size (default from config)")
	return cmd
}

func renderAggregates(out io.Writer, aggs map[string]models.CategoryAggregate) {
	if len(aggs) == 0 {
		fmt.Fprintln(out, "No category data loaded.")
		return
	}

	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Category", "Reviews", "Avg", "Min", "Max", "Reviewers", "Products"})
	for _, name := range names {
		agg := aggs[name]
		tbl.AppendRow(table.Row{name, agg.Count, agg.AvgRating, agg.MinRating, agg.MaxRating,
			agg.UniqueReviewers, agg.UniqueProducts})
	}
	tbl.Render()
}

func renderTopProducts(out io.Writer, ranks []models.ProductRank) {
	if len(ranks) == 0 {
		fmt.Fprintln(out, "No products with enough reviews to rank.")
		return
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(out)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Product", "Avg", "Reviews"})
	for i, rank := range ranks {
		tbl.AppendRow(table.Row{i + 1, rank.ProductID, rank.AvgRating, rank.ReviewCount})
	}
	tbl.Render()
}
