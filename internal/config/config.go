// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package config defines the pipeline configuration and loads it with a
// layered koanf setup: struct defaults, optional YAML file, environment
// variables. Precedence: ENV > file > defaults.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the pipeline.
type Config struct {
	Logging  LoggingConfig  `koanf:"logging"`
	Data     DataConfig     `koanf:"data"`
	Store    StoreConfig    `koanf:"store"`
	Download DownloadConfig `koanf:"download"`
	Analysis AnalysisConfig `koanf:"analysis"`
	Backup   BackupConfig   `koanf:"backup"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn warning error fatal disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// DataConfig holds the data directory layout. The sub-directories default to
// children of Dir when left empty.
type DataConfig struct {
	Dir          string `koanf:"dir" validate:"required"`
	RawDir       string `koanf:"raw_dir"`
	ProcessedDir string `koanf:"processed_dir"`
	SamplesDir   string `koanf:"samples_dir"`
	OutputDir    string `koanf:"output_dir"`
}

// StoreConfig locates the document store file.
type StoreConfig struct {
	// Path is the single JSON file backing the store. Defaults to
	// amazon_reviews.json inside the data directory.
	Path string `koanf:"path"`
}

// DownloadConfig tunes the dataset downloader.
type DownloadConfig struct {
	// BaseURL is the directory URL holding the category archives.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// SamplePerCategory caps how many records are extracted per category.
	SamplePerCategory int `koanf:"sample_per_category" validate:"min=1"`

	// Timeout bounds a single archive download.
	Timeout time.Duration `koanf:"timeout"`

	// Pause is the minimum spacing between category downloads, enforced by
	// a rate limiter to stay polite to the dataset host.
	Pause time.Duration `koanf:"pause"`

	// BreakerFailures opens the circuit breaker after this many consecutive
	// download failures.
	BreakerFailures int `koanf:"breaker_failures" validate:"min=1"`
}

// AnalysisConfig tunes the exploratory analysis.
type AnalysisConfig struct {
	// MinReviewsPerProduct is the statistical-significance floor for the
	// top-products ranking.
	MinReviewsPerProduct int `koanf:"min_reviews_per_product" validate:"min=1"`

	// TopLimit is the default top-products ranking size.
	TopLimit int `koanf:"top_limit" validate:"min=1"`

	// TemporalMinRecords filters out years with fewer records than this
	// from the temporal analysis.
	TemporalMinRecords int `koanf:"temporal_min_records" validate:"min=1"`
}

// BackupConfig tunes store backups.
type BackupConfig struct {
	// Dir holds backup archives. Defaults to backups inside the data
	// directory.
	Dir string `koanf:"dir"`

	// MaxBackups is the retention count; older backups are pruned.
	MaxBackups int `koanf:"max_backups" validate:"min=1"`
}

// defaultConfig returns the configuration defaults, applied before the file
// and environment layers.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Data: DataConfig{
			Dir: "data",
		},
		Download: DownloadConfig{
			BaseURL:           "http://snap.stanford.edu/data/amazon/productGraph/categoryFiles/",
			SamplePerCategory: 200,
			Timeout:           10 * time.Minute,
			Pause:             3 * time.Second,
			BreakerFailures:   3,
		},
		Analysis: AnalysisConfig{
			MinReviewsPerProduct: 2,
			TopLimit:             10,
			TemporalMinRecords:   10,
		},
		Backup: BackupConfig{
			MaxBackups: 7,
		},
	}
}

// applyDerivedDefaults fills path fields that default relative to the data
// directory.
func (c *Config) applyDerivedDefaults() {
	if c.Data.RawDir == "" {
		c.Data.RawDir = filepath.Join(c.Data.Dir, "raw")
	}
	if c.Data.ProcessedDir == "" {
		c.Data.ProcessedDir = filepath.Join(c.Data.Dir, "processed")
	}
	if c.Data.SamplesDir == "" {
		c.Data.SamplesDir = filepath.Join(c.Data.Dir, "samples")
	}
	if c.Data.OutputDir == "" {
		c.Data.OutputDir = "output"
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.Data.Dir, "amazon_reviews.json")
	}
	if c.Backup.Dir == "" {
		c.Backup.Dir = filepath.Join(c.Data.Dir, "backups")
	}
}

// Validate checks the configuration after all layers are applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid configuration: field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
