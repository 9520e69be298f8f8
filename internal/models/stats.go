// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package models

// CategoryAggregate holds the per-category statistics computed by
// QueryEngine.AggregateByCategory. Categories with zero documents are
// omitted from the aggregation result entirely, so a CategoryAggregate
// always describes at least one document.
type CategoryAggregate struct {
	Count           int     `json:"count"`
	AvgRating       float64 `json:"avg_rating"`
	MinRating       float64 `json:"min_rating"`
	MaxRating       float64 `json:"max_rating"`
	UniqueReviewers int     `json:"unique_reviewers"`
	UniqueProducts  int     `json:"unique_products"`

	// RatingHistogram maps a rating value formatted with one decimal
	// ("4.0", "4.5") to its occurrence count.
	RatingHistogram map[string]int `json:"rating_histogram"`
}

// ProductRank is one entry of the top-products ranking: a product with at
// least two reviews, its mean rating rounded to two decimals, and a sample
// review text for context.
type ProductRank struct {
	ProductID    string  `json:"product_id"`
	AvgRating    float64 `json:"avg_rating"`
	ReviewCount  int     `json:"review_count"`
	SampleReview string  `json:"sample_review,omitempty"`
}

// StoreStats summarizes the physical store for reporting.
type StoreStats struct {
	Engine       string         `json:"engine"`
	Path         string         `json:"path"`
	SizeBytes    int64          `json:"size_bytes"`
	TotalReviews int            `json:"total_reviews"`
	Partitions   map[string]int `json:"partitions"`
}

// CategoryLoadResult is the per-category outcome of a bulk load.
type CategoryLoadResult struct {
	Inserted int `json:"inserted"`
	Rejected int `json:"rejected"`
}

// LoadSummary is the user-visible outcome of one bulk load: succeeded vs
// rejected counts per batch, plus duplicate record keys observed (re-runs
// insert silently, the count makes them visible).
type LoadSummary struct {
	TotalInserted int                           `json:"total_inserted"`
	TotalRejected int                           `json:"total_rejected"`
	DuplicateKeys int                           `json:"duplicate_keys"`
	Categories    map[string]CategoryLoadResult `json:"categories"`
}
