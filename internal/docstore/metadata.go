// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package docstore

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/models"
)

// Recorder appends load-event records to the metadata partition. Records
// are append-only: never mutated, never deleted, and not read back here.
// Read-back is a reporting concern.
type Recorder struct {
	store *Store
}

// NewRecorder creates a metadata recorder over an open store.
func NewRecorder(store *Store) *Recorder {
	return &Recorder{store: store}
}

// RecordLoad appends one load event with the current timestamp. The only
// failure path is the underlying store's insert failure.
func (r *Recorder) RecordLoad(totalRecords, categoryCount int) error {
	event := models.LoadEvent{
		ID:               uuid.NewString(),
		LoadTimestamp:    time.Now().UTC().Format(time.RFC3339),
		TotalRecords:     totalRecords,
		CategoriesLoaded: categoryCount,
		Engine:           EngineName,
		StorePath:        r.store.Path(),
	}

	doc, err := ToDocument(event)
	if err != nil {
		return fmt.Errorf("encode load event: %w", err)
	}
	if _, err := r.store.Append(catalog.TableMetadata, []Document{doc}); err != nil {
		return fmt.Errorf("record load event: %w", err)
	}
	return nil
}
