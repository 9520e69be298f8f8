// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package docstore

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewlake/internal/models"
)

// ErrClosed is returned for write operations on a closed store.
var ErrClosed = errors.New("docstore: store is closed")

// ToDocument converts any JSON-marshalable value into a schema-free
// Document by round-tripping it through JSON. This is how typed records
// enter the store.
func ToDocument(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// DecodeReview converts a stored document back into the typed review
// record. Documents that do not describe a review fail to decode; the query
// engine skips them instead of erroring, since the store enforces no schema.
func DecodeReview(doc Document) (models.ReviewDocument, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return models.ReviewDocument{}, fmt.Errorf("encode document: %w", err)
	}
	var review models.ReviewDocument
	if err := json.Unmarshal(data, &review); err != nil {
		return models.ReviewDocument{}, fmt.Errorf("decode review: %w", err)
	}
	// Unknown fields are ignored by decoding, so a foreign document (a load
	// event, say) would otherwise decode as an all-zero review.
	if review.ReviewerID == "" && review.ProductID == "" {
		return models.ReviewDocument{}, errors.New("document is not a review")
	}
	return review, nil
}
