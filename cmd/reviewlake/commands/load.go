// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/docstore"
)

func newLoadCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load processed samples into the document store",
		Long: `Load reads every processed category sample, normalizes and validates each
record, and inserts the surviving batches into the store. Records failing
quality validation are dropped and counted; field-level noise is replaced
with documented defaults instead.`,
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

			summary, err := docstore.NewLoader(store).LoadAllCategories(cfg.Data.ProcessedDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			tbl := table.NewWriter()
			tbl.SetOutputMirror(out)
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Category", "Inserted", "Rejected"})
			for category, result := range summary.Categories {
				tbl.AppendRow(table.Row{category, result.Inserted, result.Rejected})
			}
			tbl.SortBy([]table.SortBy{{Name: "Category", Mode: table.Asc}})
			tbl.AppendFooter(table.Row{"Total", summary.TotalInserted, summary.TotalRejected})
			tbl.Render()

			if summary.DuplicateKeys > 0 {
				fmt.Fprintf(out, "Duplicate record keys: %d\n", summary.DuplicateKeys)
			}
			fmt.Fprintf(out, "Loaded %d records (%d rejected)\n", summary.TotalInserted, summary.TotalRejected)
			return nil
		},
	}
}
