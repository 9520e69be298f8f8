// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package acquire downloads the category dataset archives and extracts
// bounded per-category samples from them.
//
// The downloader is deliberately polite to the dataset host: category
// downloads are spaced by a rate limiter, a single HTTP client with a
// bounded timeout is reused, and a circuit breaker stops hammering the host
// after consecutive failures. Categories whose processed sample already
// exists are skipped entirely, so re-running the acquisition is cheap and
// idempotent.
package acquire

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/config"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/metrics"
)

// Download outcome statuses recorded per category.
const (
	StatusOK      = "ok"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

// SummaryFilename is written to the processed directory after every run.
const SummaryFilename = "download_summary.json"

// CategoryOutcome is the per-category result of one acquisition run.
type CategoryOutcome struct {
	Category string `json:"category"`
	Status   string `json:"status"`
	Records  int    `json:"records"`
	Bytes    int64  `json:"bytes"`
	Error    string `json:"error,omitempty"`
}

// Summary describes one acquisition run over all categories.
type Summary struct {
	Timestamp  string            `json:"timestamp"`
	BaseURL    string            `json:"base_url"`
	SampleSize int               `json:"sample_size"`
	Categories []CategoryOutcome `json:"categories"`
}

// Downloader fetches category archives and produces processed sample files.
type Downloader struct {
	// Force re-acquires categories whose processed sample already exists.
	Force bool

	cfg     config.DownloadConfig
	client  *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[int64]
	log     zerolog.Logger
}

// NewDownloader creates a downloader from the download configuration.
func NewDownloader(cfg config.DownloadConfig) *Downloader {
	log := logging.With().Str("component", "downloader").Logger()

	cb := gobreaker.NewCircuitBreaker[int64](gobreaker.Settings{
		Name:    "dataset-host",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
		},
	})

	return &Downloader{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Every(cfg.Pause), 1),
		cb:      cb,
		log:     log,
	}
}

// DownloadAll acquires every catalog category in priority order: download
// the archive into rawDir, extract a bounded sample, and write it to
// processedDir. Categories with an existing sample file are skipped, and a
// failed category does not stop the rest of the run. The run summary is
// returned and also written to processedDir.
func (d *Downloader) DownloadAll(ctx context.Context, rawDir, processedDir string) (*Summary, error) {
	for _, dir := range []string{rawDir, processedDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	summary := &Summary{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		BaseURL:    d.cfg.BaseURL,
		SampleSize: d.cfg.SamplePerCategory,
	}

	for _, cat := range catalog.Categories {
		outcome := d.acquireCategory(ctx, cat, rawDir, processedDir)
		summary.Categories = append(summary.Categories, outcome)
		metrics.RecordDownload(cat.Name, outcome.Status, outcome.Bytes)

		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
	}

	if err := writeSummary(processedDir, summary); err != nil {
		return summary, err
	}
	return summary, nil
}

// acquireCategory handles one category end to end.
func (d *Downloader) acquireCategory(ctx context.Context, cat catalog.Category, rawDir, processedDir string) CategoryOutcome {
	outcome := CategoryOutcome{Category: cat.Name, Status: StatusOK}

	samplePath := filepath.Join(processedDir, catalog.SampleFilename(cat.Name))
	if _, err := os.Stat(samplePath); err == nil && !d.Force {
		d.log.Info().Str("category", cat.Name).Str("path", samplePath).Msg("Sample exists, skipping download")
		outcome.Status = StatusSkipped
		return outcome
	}

	// Spacing between category downloads keeps the host happy.
	if err := d.limiter.Wait(ctx); err != nil {
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}

	archivePath := filepath.Join(rawDir, cat.Archive)
	written, err := d.cb.Execute(func() (int64, error) {
		return d.fetchArchive(ctx, cat, archivePath)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			d.log.Warn().Str("category", cat.Name).Msg("Download rejected, circuit open")
		} else {
			d.log.Error().Err(err).Str("category", cat.Name).Msg("Download failed")
		}
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Bytes = written

	records, err := ExtractSample(archivePath, d.cfg.SamplePerCategory)
	if err != nil {
		d.log.Error().Err(err).Str("category", cat.Name).Msg("Archive extraction failed")
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}
	if err := WriteSample(processedDir, cat.Name, records); err != nil {
		d.log.Error().Err(err).Str("category", cat.Name).Msg("Sample write failed")
		outcome.Status = StatusError
		outcome.Error = err.Error()
		return outcome
	}
	outcome.Records = len(records)

	d.log.Info().
		Str("category", cat.Name).
		Str("size", humanize.Bytes(uint64(written))).
		Int("records", len(records)).
		Msg("Category acquired")
	return outcome
}

// fetchArchive streams one archive to disk and returns the bytes written.
func (d *Downloader) fetchArchive(ctx context.Context, cat catalog.Category, dest string) (int64, error) {
	url := d.cfg.BaseURL + cat.Archive

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", url, err)
	}

	d.log.Info().Str("category", cat.Name).Str("url", url).Msg("Downloading archive")
	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	f, err := os.Create(dest)
	if err != nil {
		return 0, fmt.Errorf("create archive file %s: %w", dest, err)
	}

	written, err := io.Copy(f, resp.Body)
	if cerr := f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dest)
		return 0, fmt.Errorf("write archive file %s: %w", dest, err)
	}
	return written, nil
}
