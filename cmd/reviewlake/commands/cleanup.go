// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/acquire"
)

func newCleanupCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Remove downloaded raw archives to reclaim disk space",
		Long: `Cleanup deletes the raw .json.gz archives left behind by download.
Processed samples and the store itself are never touched.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			removed, reclaimed, err := acquire.CleanupRaw(cfg.Data.RawDir)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d archives, reclaimed %s\n",
				removed, humanize.Bytes(uint64(reclaimed)))
			return nil
		},
	}
}
