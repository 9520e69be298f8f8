// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package models defines the data types shared across the pipeline: the
// normalized review document, the load-event record, and the result types
// returned by the query engine and the explorer.
//
// ReviewDocument is the explicit, typed schema for one review. The raw
// Amazon records arrive as untyped JSON objects; preprocess.Normalize is the
// single place where dynamic field access happens, and it always produces a
// ReviewDocument. Everything downstream works with named fields.
package models

// Sentinel values substituted during normalization.
const (
	UnknownID     = "UNKNOWN"
	AnonymousName = "Anonymous"

	// DefaultRating replaces ratings that fail coercion or fall outside [1, 5].
	DefaultRating = 3.0

	// MaxReviewTextLen and MaxSummaryLen cap text fields during normalization.
	MaxReviewTextLen = 1000
	MaxSummaryLen    = 200
)

// Rating domain bounds. No document with a rating outside this range passes
// quality validation.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// ReviewDocument is one normalized user review of one product.
//
// RecordKey is derived at insertion time as "reviewer_id_product_id" and is
// not unique: a repeat review of the same product by the same reviewer
// produces a second document. IngestedAt is likewise stamped by the store,
// not by the normalizer.
type ReviewDocument struct {
	ReviewerID   string `json:"reviewer_id" validate:"required"`
	ProductID    string `json:"product_id" validate:"required"`
	ReviewerName string `json:"reviewer_name"`

	// HelpfulVotes is (helpful count, total votes), truncated or padded to
	// exactly two elements during normalization.
	HelpfulVotes [2]int `json:"helpful_votes"`

	ReviewText     string  `json:"review_text" validate:"max=1000,required_without=Summary"`
	Rating         float64 `json:"rating" validate:"gte=1,lte=5"`
	Summary        string  `json:"summary" validate:"max=200"`
	ReviewUnixTime int64   `json:"review_unix_time"`
	ReviewTimeText string  `json:"review_time_text"`

	// Enrichment fields, set by the transformer from the original category.
	CategoryGroup    string `json:"category_group"`
	AnalysisType     string `json:"analysis_type"`
	OriginalCategory string `json:"original_category" validate:"required"`

	// Stamped by the store at insertion time.
	IngestedAt string `json:"ingested_at,omitempty"`
	RecordKey  string `json:"record_key,omitempty"`
}

// HasContent reports whether the document carries any review content.
// Documents with neither text nor summary fail quality validation.
func (d *ReviewDocument) HasContent() bool {
	return d.ReviewText != "" || d.Summary != ""
}

// LoadEvent is one append-only metadata record describing a bulk load.
type LoadEvent struct {
	ID               string `json:"id"`
	LoadTimestamp    string `json:"load_timestamp"`
	TotalRecords     int    `json:"total_records"`
	CategoriesLoaded int    `json:"categories_loaded"`
	Engine           string `json:"engine"`
	StorePath        string `json:"store_path"`
}
