// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package acquire

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/config"
)

func testDownloadConfig(baseURL string) config.DownloadConfig {
	return config.DownloadConfig{
		BaseURL:           baseURL,
		SamplePerCategory: 5,
		Timeout:           5 * time.Second,
		Pause:             time.Millisecond,
		BreakerFailures:   3,
	}
}

// gzipNDJSON compresses count minimal raw records as one NDJSON archive.
func gzipNDJSON(t *testing.T, count int) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	for i := 0; i < count; i++ {
		line := fmt.Sprintf(`{"reviewerID":"R%d","asin":"P%d","overall":%d,"reviewTime":"01 1, 2013","reviewText":"ok"}`, i, i, i%5+1)
		if _, err := gz.Write(append([]byte(line), '\n')); err != nil {
			t.Fatal(err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDownloadAll(t *testing.T) {
	archive := gzipNDJSON(t, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	rawDir := filepath.Join(t.TempDir(), "raw")
	processedDir := filepath.Join(t.TempDir(), "processed")

	d := NewDownloader(testDownloadConfig(srv.URL + "/"))
	summary, err := d.DownloadAll(context.Background(), rawDir, processedDir)
	if err != nil {
		t.Fatalf("DownloadAll() = %v", err)
	}

	if len(summary.Categories) != len(catalog.Categories) {
		t.Fatalf("summary covers %d categories, want %d", len(summary.Categories), len(catalog.Categories))
	}
	for _, outcome := range summary.Categories {
		if outcome.Status != StatusOK {
			t.Errorf("%s status = %q, want ok (%s)", outcome.Category, outcome.Status, outcome.Error)
		}
		// The sample cap applies even though the archive holds more.
		if outcome.Records != 5 {
			t.Errorf("%s records = %d, want 5", outcome.Category, outcome.Records)
		}
	}

	for _, cat := range catalog.Categories {
		if _, err := os.Stat(filepath.Join(processedDir, catalog.SampleFilename(cat.Name))); err != nil {
			t.Errorf("sample for %s not written: %v", cat.Name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(processedDir, SummaryFilename))
	if err != nil {
		t.Fatalf("summary file not written: %v", err)
	}
	var onDisk Summary
	if err := json.Unmarshal(data, &onDisk); err != nil {
		t.Fatalf("summary file undecodable: %v", err)
	}
	if len(onDisk.Categories) != len(catalog.Categories) {
		t.Errorf("on-disk summary covers %d categories", len(onDisk.Categories))
	}
}

func TestDownloadSkipsExistingSamples(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write(gzipNDJSON(t, 3))
	}))
	defer srv.Close()

	rawDir := t.TempDir()
	processedDir := t.TempDir()

	// Pre-existing samples for all but one category.
	for _, cat := range catalog.Categories[1:] {
		if err := os.WriteFile(filepath.Join(processedDir, catalog.SampleFilename(cat.Name)), []byte("[]"), 0o640); err != nil {
			t.Fatal(err)
		}
	}

	d := NewDownloader(testDownloadConfig(srv.URL + "/"))
	summary, err := d.DownloadAll(context.Background(), rawDir, processedDir)
	if err != nil {
		t.Fatal(err)
	}

	if requests != 1 {
		t.Errorf("host saw %d requests, want 1", requests)
	}
	if summary.Categories[0].Status != StatusOK {
		t.Errorf("first category status = %q", summary.Categories[0].Status)
	}
	for _, outcome := range summary.Categories[1:] {
		if outcome.Status != StatusSkipped {
			t.Errorf("%s status = %q, want skipped", outcome.Category, outcome.Status)
		}
	}
}

func TestDownloadFailuresDoNotAbortRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	d := NewDownloader(testDownloadConfig(srv.URL + "/"))
	summary, err := d.DownloadAll(context.Background(), t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("DownloadAll() = %v, want per-category failures only", err)
	}

	// Every category fails; after enough consecutive failures the breaker
	// rejects the rest without touching the host. Either way the run
	// completes with per-category error outcomes.
	for _, outcome := range summary.Categories {
		if outcome.Status != StatusError {
			t.Errorf("%s status = %q, want error", outcome.Category, outcome.Status)
		}
		if outcome.Error == "" {
			t.Errorf("%s has no error detail", outcome.Category)
		}
	}
}

func TestExtractSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "reviews_Books_5.json.gz")

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	lines := []string{
		`{"reviewerID":"R1","asin":"P1","overall":5,"reviewTime":"01 1, 2013"}`,
		`not json at all`,
		`{"asin":"P2","overall":4}`, // missing reviewerID and reviewTime
		``,
		`{"reviewerID":"R2","asin":"P2","overall":4,"reviewTime":"02 1, 2013"}`,
		`{"reviewerID":"R3","asin":"P3","overall":3,"reviewTime":"03 1, 2013"}`,
	}
	for _, l := range lines {
		if _, err := gz.Write(append([]byte(l), '\n')); err != nil {
			t.Fatal(err)
		}
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o640); err != nil {
		t.Fatal(err)
	}

	records, err := ExtractSample(path, 2)
	if err != nil {
		t.Fatalf("ExtractSample() = %v", err)
	}
	// Unusable lines are skipped; the limit bounds the usable ones.
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["reviewerID"] != "R1" || records[1]["reviewerID"] != "R2" {
		t.Errorf("records out of order: %v", records)
	}
}

func TestExtractSampleNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json.gz")
	if err := os.WriteFile(path, []byte("plain text"), 0o640); err != nil {
		t.Fatal(err)
	}

	if _, err := ExtractSample(path, 10); err == nil {
		t.Fatal("ExtractSample() on non-gzip file succeeded, want error")
	}
}

func TestCleanupRaw(t *testing.T) {
	rawDir := t.TempDir()
	for _, name := range []string{"reviews_Books_5.json.gz", "reviews_Video_Games_5.json.gz"} {
		if err := os.WriteFile(filepath.Join(rawDir, name), []byte("archive bytes"), 0o640); err != nil {
			t.Fatal(err)
		}
	}
	keep := filepath.Join(rawDir, "notes.txt")
	if err := os.WriteFile(keep, []byte("keep me"), 0o640); err != nil {
		t.Fatal(err)
	}

	removed, reclaimed, err := CleanupRaw(rawDir)
	if err != nil {
		t.Fatalf("CleanupRaw() = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if reclaimed != 2*int64(len("archive bytes")) {
		t.Errorf("reclaimed = %d bytes", reclaimed)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("non-archive file removed: %v", err)
	}
}

func TestCleanupRawMissingDir(t *testing.T) {
	removed, _, err := CleanupRaw(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("CleanupRaw() on missing dir = %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
