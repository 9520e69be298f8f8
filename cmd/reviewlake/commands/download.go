// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/acquire"
)

func newDownloadCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download category archives and extract samples",
		Long: `Download fetches the six category review archives from the dataset host,
extracts a bounded sample per category, and writes the processed sample
files. Categories whose sample already exists are skipped unless --force
is given.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			d := acquire.NewDownloader(cfg.Download)
			d.Force = force

			summary, err := d.DownloadAll(cmd.Context(), cfg.Data.RawDir, cfg.Data.ProcessedDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, outcome := range summary.Categories {
				switch outcome.Status {
				case acquire.StatusOK:
					fmt.Fprintf(out, "%-30s %d records\n", outcome.Category, outcome.Records)
				case acquire.StatusSkipped:
					fmt.Fprintf(out, "%-30s skipped (sample exists)\n", outcome.Category)
				default:
					fmt.Fprintf(out, "%-30s FAILED: %s\n", outcome.Category, outcome.Error)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "re-download categories with existing samples")
	return cmd
}
