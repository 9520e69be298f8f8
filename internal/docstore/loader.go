// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/metrics"
	"github.com/tomtom215/reviewlake/internal/models"
	"github.com/tomtom215/reviewlake/internal/preprocess"
)

// Loader bulk-loads processed category samples into the store. For each
// category it reads "{category}_sample.json" from the processed directory,
// normalizes and validates every record, enriches it with category
// metadata, and inserts the surviving batch into both the umbrella and the
// category partition. One load event is recorded per bulk load.
type Loader struct {
	store    *Store
	recorder *Recorder
	log      zerolog.Logger
}

// NewLoader creates a bulk loader over an open store.
func NewLoader(store *Store) *Loader {
	return &Loader{
		store:    store,
		recorder: NewRecorder(store),
		log:      logging.With().Str("component", "loader").Logger(),
	}
}

// LoadAllCategories loads every catalog category from processedDir. Missing
// sample files and undecodable files are warnings, not failures; rejected
// records are dropped while the rest of their batch proceeds. Only a store
// I/O failure aborts the load.
func (l *Loader) LoadAllCategories(processedDir string) (*models.LoadSummary, error) {
	start := time.Now()
	summary := &models.LoadSummary{
		Categories: make(map[string]models.CategoryLoadResult),
	}
	keysSeen := make(map[string]int)

	l.log.Info().Str("dir", processedDir).Msg("Loading all categories")

	for _, cat := range catalog.Categories {
		path := filepath.Join(processedDir, catalog.SampleFilename(cat.Name))

		records, err := readSampleFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				l.log.Warn().Str("category", cat.Name).Str("path", path).Msg("Sample file not found")
			} else {
				l.log.Error().Err(err).Str("category", cat.Name).Msg("Failed to read sample file")
			}
			continue
		}

		docs, rejected := l.prepareBatch(records, cat.Name, keysSeen)
		if len(docs) > 0 {
			if _, err := l.store.InsertReviews(docs, cat.Name); err != nil {
				return summary, fmt.Errorf("insert %s batch: %w", cat.Name, err)
			}
		}

		summary.Categories[cat.Name] = models.CategoryLoadResult{
			Inserted: len(docs),
			Rejected: rejected,
		}
		summary.TotalInserted += len(docs)
		summary.TotalRejected += rejected

		l.log.Info().
			Str("category", cat.Name).
			Int("inserted", len(docs)).
			Int("rejected", rejected).
			Msg("Category loaded")
	}

	for _, n := range keysSeen {
		if n > 1 {
			summary.DuplicateKeys += n - 1
		}
	}
	if summary.DuplicateKeys > 0 {
		// Duplicates are accepted silently by design; the count only makes
		// re-ingestion visible.
		l.log.Info().Int("duplicates", summary.DuplicateKeys).Msg("Duplicate record keys in load")
	}

	if err := l.recorder.RecordLoad(summary.TotalInserted, len(catalog.Categories)); err != nil {
		return summary, err
	}

	metrics.LoadDuration.Observe(time.Since(start).Seconds())
	metrics.LoadRecords.WithLabelValues("inserted").Add(float64(summary.TotalInserted))
	metrics.LoadRecords.WithLabelValues("rejected").Add(float64(summary.TotalRejected))

	l.log.Info().
		Int("inserted", summary.TotalInserted).
		Int("rejected", summary.TotalRejected).
		Dur("took", time.Since(start)).
		Msg("Bulk load complete")
	return summary, nil
}

// prepareBatch normalizes, enriches, and validates raw records for one
// category. Returns the insertable documents and the rejection count.
func (l *Loader) prepareBatch(records []map[string]any, category string, keysSeen map[string]int) ([]Document, int) {
	docs := make([]Document, 0, len(records))
	rejected := 0

	for _, raw := range records {
		review := preprocess.Normalize(raw)
		preprocess.Enrich(&review, category)

		if err := preprocess.CheckQuality(&review); err != nil {
			rejected++
			metrics.DocumentsRejected.Inc()
			l.log.Debug().Err(err).Str("category", category).Msg("Record rejected")
			continue
		}

		keysSeen[review.ReviewerID+"_"+review.ProductID]++

		doc, err := ToDocument(review)
		if err != nil {
			rejected++
			l.log.Debug().Err(err).Str("category", category).Msg("Record not encodable")
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rejected
}

// readSampleFile reads one processed sample file: a JSON array of raw
// record objects.
func readSampleFile(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode sample file %s: %w", path, err)
	}
	return records, nil
}
