// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Download.SamplePerCategory != 200 {
		t.Errorf("default sample size = %d, want 200", cfg.Download.SamplePerCategory)
	}
	if cfg.Download.Pause != 3*time.Second {
		t.Errorf("default pause = %v, want 3s", cfg.Download.Pause)
	}
	if cfg.Analysis.MinReviewsPerProduct != 2 {
		t.Errorf("default min reviews per product = %d, want 2", cfg.Analysis.MinReviewsPerProduct)
	}
	if cfg.Backup.MaxBackups != 7 {
		t.Errorf("default max backups = %d, want 7", cfg.Backup.MaxBackups)
	}
}

func TestLoadDerivedPaths(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Data.ProcessedDir != filepath.Join("data", "processed") {
		t.Errorf("processed dir = %q", cfg.Data.ProcessedDir)
	}
	if cfg.Store.Path != filepath.Join("data", "amazon_reviews.json") {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
	if cfg.Backup.Dir != filepath.Join("data", "backups") {
		t.Errorf("backup dir = %q", cfg.Backup.Dir)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviewlake.yaml")
	content := []byte("data:\n  dir: /var/lib/reviewlake\ndownload:\n  sample_per_category: 50\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s) error: %v", path, err)
	}

	if cfg.Data.Dir != "/var/lib/reviewlake" {
		t.Errorf("data dir = %q, want /var/lib/reviewlake", cfg.Data.Dir)
	}
	if cfg.Download.SamplePerCategory != 50 {
		t.Errorf("sample size = %d, want 50", cfg.Download.SamplePerCategory)
	}
	// File layer must not disturb untouched defaults.
	if cfg.Download.SamplePerCategory == 50 && cfg.Analysis.TopLimit != 10 {
		t.Errorf("top limit = %d, want default 10", cfg.Analysis.TopLimit)
	}
	// Derived paths follow the overridden data dir.
	if cfg.Store.Path != filepath.Join("/var/lib/reviewlake", "amazon_reviews.json") {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("REVIEWLAKE_LOGGING__LEVEL", "debug")
	t.Setenv("REVIEWLAKE_DOWNLOAD__SAMPLE_PER_CATEGORY", "25")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug (env override)", cfg.Logging.Level)
	}
	if cfg.Download.SamplePerCategory != 25 {
		t.Errorf("sample size = %d, want 25 (env override)", cfg.Download.SamplePerCategory)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("REVIEWLAKE_LOGGING__LEVEL", "loud")

	if _, err := Load(""); err == nil {
		t.Fatal("expected validation error for invalid log level")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(path, []byte("data: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}
