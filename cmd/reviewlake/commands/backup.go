// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/backup"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a compressed, checksummed backup of the store",
		Long: `Backup compresses the store file into the backup directory alongside a
checksum sidecar, then prunes backups beyond the retention limit. The
list and restore subcommands inspect and recover existing backups.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			info, err := backup.NewManager(cfg.Backup).Create(cfg.Store.Path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backup: %s\n", info.Filename)
			fmt.Fprintf(out, "Store %s compressed to %s, sha256 %s\n",
				humanize.Bytes(uint64(info.StoreBytes)),
				humanize.Bytes(uint64(info.ArchiveBytes)), info.SHA256)
			fmt.Fprintf(out, "Retained backups: %d\n", info.RetentionCount)
			return nil
		},
	}

	cmd.AddCommand(newBackupListCommand(opts), newBackupRestoreCommand(opts))
	return cmd
}

func newBackupListCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing backups, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			infos, err := backup.NewManager(cfg.Backup).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(infos) == 0 {
				fmt.Fprintln(out, "No backups found.")
				return nil
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(out)
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"Backup", "Created", "Store", "Archive", "SHA-256"})
			for _, info := range infos {
				digest := info.SHA256
				if len(digest) > 12 {
					digest = digest[:12]
				}
				tbl.AppendRow(table.Row{info.Filename, info.CreatedAt,
					humanize.Bytes(uint64(info.StoreBytes)),
					humanize.Bytes(uint64(info.ArchiveBytes)), digest})
			}
			tbl.Render()
			return nil
		},
	}
}

func newBackupRestoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <archive>",
		Short: "Restore the store from a backup archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			if err := backup.NewManager(cfg.Backup).Restore(args[0], cfg.Store.Path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s\n", cfg.Store.Path, args[0])
			return nil
		},
	}
}
