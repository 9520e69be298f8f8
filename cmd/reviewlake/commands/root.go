// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package commands implements the reviewlake CLI command handlers.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tomtom215/reviewlake/internal/config"
	"github.com/tomtom215/reviewlake/internal/docstore"
	"github.com/tomtom215/reviewlake/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// rootOptions carries the global flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the reviewlake command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "reviewlake",
		Short: "Amazon review warehouse and exploratory analytics",
		Long: `Reviewlake acquires Amazon product-review datasets, loads them into a
category-partitioned document store, and runs exploratory analyses over it.

Typical pipeline:
  reviewlake download    fetch category archives and extract samples
  reviewlake load        clean, validate, and store the samples
  reviewlake stats       per-category aggregation and top products
  reviewlake analyze     comprehensive report and charts
  reviewlake backup      compressed store backups with retention`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newDownloadCommand(opts),
		newLoadCommand(opts),
		newStatsCommand(opts),
		newAnalyzeCommand(opts),
		newBackupCommand(opts),
		newCleanupCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// loadConfig resolves the configuration and initializes logging. Every
// subcommand calls this first.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Timestamp: true,
	})
	return cfg, nil
}

// openStore opens the configured store file.
func (o *rootOptions) openStore(cfg *config.Config) (*docstore.Store, error) {
	store, err := docstore.Open(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return store, nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reviewlake %s\n", version)
		},
	}
}
