// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package docstore

import (
	"math"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/metrics"
	"github.com/tomtom215/reviewlake/internal/models"
)

// DefaultTopLimit truncates the top-products ranking when the caller passes
// a non-positive limit.
const DefaultTopLimit = 10

// minReviewsForRanking is the statistical-significance floor: products with
// fewer reviews never appear in the ranking.
const minReviewsForRanking = 2

// QueryEngine provides the typed read-only operations over the store. It is
// stateless beyond the store reference; every call re-scans its partition,
// so results are point-in-time snapshots.
type QueryEngine struct {
	store *Store
	log   zerolog.Logger
}

// NewQueryEngine creates a query engine over an open store.
func NewQueryEngine(store *Store) *QueryEngine {
	return &QueryEngine{
		store: store,
		log:   logging.With().Str("component", "query").Logger(),
	}
}

// FilterByRating returns the reviews with minRating <= rating <= maxRating.
// The selector may be a category name or a partition name; empty selects
// the umbrella partition.
func (q *QueryEngine) FilterByRating(minRating, maxRating float64, selector string) []models.ReviewDocument {
	metrics.RecordQuery("filter_rating")

	partition := q.resolvePartition(selector)
	docs := q.store.Search(partition, func(d Document) bool {
		rating, ok := numericField(d, "rating")
		return ok && rating >= minRating && rating <= maxRating
	})

	results := q.decodeAll(docs)
	q.log.Debug().
		Str("partition", partition).
		Float64("min", minRating).
		Float64("max", maxRating).
		Int("results", len(results)).
		Msg("Rating filter executed")
	return results
}

// FilterByCategory returns the umbrella-partition reviews whose original
// category matches exactly.
func (q *QueryEngine) FilterByCategory(category string) []models.ReviewDocument {
	metrics.RecordQuery("filter_category")

	docs := q.store.Search(catalog.TableReviews, func(d Document) bool {
		return stringField(d, "original_category", "") == category
	})
	return q.decodeAll(docs)
}

// AggregateByCategory computes per-category statistics, keyed by display
// name. Each category partition is aggregated independently; partitions with
// zero documents are omitted rather than reported with zero or NaN stats.
func (q *QueryEngine) AggregateByCategory() map[string]models.CategoryAggregate {
	metrics.RecordQuery("aggregate")

	out := make(map[string]models.CategoryAggregate)
	for _, cat := range catalog.Categories {
		reviews := q.decodeAll(q.store.All(cat.Table))
		if len(reviews) == 0 {
			continue
		}
		out[cat.Display] = aggregate(reviews)
	}

	q.log.Debug().Int("categories", len(out)).Msg("Category aggregation executed")
	return out
}

// aggregate computes the statistics for one non-empty review set.
func aggregate(reviews []models.ReviewDocument) models.CategoryAggregate {
	agg := models.CategoryAggregate{
		Count:           len(reviews),
		MinRating:       math.Inf(1),
		MaxRating:       math.Inf(-1),
		RatingHistogram: make(map[string]int),
	}

	reviewers := make(map[string]struct{})
	products := make(map[string]struct{})
	sum := 0.0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating < agg.MinRating {
			agg.MinRating = r.Rating
		}
		if r.Rating > agg.MaxRating {
			agg.MaxRating = r.Rating
		}
		reviewers[r.ReviewerID] = struct{}{}
		products[r.ProductID] = struct{}{}
		agg.RatingHistogram[strconv.FormatFloat(r.Rating, 'f', 1, 64)]++
	}

	agg.AvgRating = round2(sum / float64(len(reviews)))
	agg.UniqueReviewers = len(reviewers)
	agg.UniqueProducts = len(products)
	return agg
}

// TopProducts ranks products by mean rating within the selected partition
// (umbrella when selector is empty). Products with fewer than two reviews
// are excluded. Ties keep the original encounter order; the ranking is
// truncated to limit.
func (q *QueryEngine) TopProducts(selector string, limit int) []models.ProductRank {
	metrics.RecordQuery("top_products")

	if limit <= 0 {
		limit = DefaultTopLimit
	}

	reviews := q.decodeAll(q.store.All(q.resolvePartition(selector)))
	if len(reviews) == 0 {
		return nil
	}

	// Group by product, preserving first-encounter order for stable ties.
	type productAcc struct {
		sum    float64
		count  int
		sample string
	}
	order := make([]string, 0)
	byProduct := make(map[string]*productAcc)
	for _, r := range reviews {
		acc, ok := byProduct[r.ProductID]
		if !ok {
			acc = &productAcc{sample: r.ReviewText}
			byProduct[r.ProductID] = acc
			order = append(order, r.ProductID)
		}
		acc.sum += r.Rating
		acc.count++
	}

	ranks := make([]models.ProductRank, 0, len(order))
	for _, id := range order {
		acc := byProduct[id]
		if acc.count < minReviewsForRanking {
			continue
		}
		ranks = append(ranks, models.ProductRank{
			ProductID:    id,
			AvgRating:    round2(acc.sum / float64(acc.count)),
			ReviewCount:  acc.count,
			SampleReview: acc.sample,
		})
	}

	sort.SliceStable(ranks, func(i, j int) bool {
		return ranks[i].AvgRating > ranks[j].AvgRating
	})

	if len(ranks) > limit {
		ranks = ranks[:limit]
	}
	return ranks
}

// resolvePartition maps a selector to a partition: empty selects the
// umbrella partition, category names go through the router, and canonical
// partition names pass through. Anything else falls back to the umbrella
// partition.
func (q *QueryEngine) resolvePartition(selector string) string {
	switch {
	case selector == "":
		return catalog.TableReviews
	case catalog.IsPartition(selector):
		return selector
	default:
		return catalog.Route(selector)
	}
}

// decodeAll converts stored documents to typed reviews, skipping documents
// that do not decode. The store enforces no schema, so foreign documents
// are an expected, common case rather than an error.
func (q *QueryEngine) decodeAll(docs []Document) []models.ReviewDocument {
	out := make([]models.ReviewDocument, 0, len(docs))
	for _, d := range docs {
		review, err := DecodeReview(d)
		if err != nil {
			q.log.Debug().Err(err).Msg("Skipping undecodable document")
			continue
		}
		out = append(out, review)
	}
	return out
}

// round2 rounds to two decimals, matching the reported precision of the
// aggregation results.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
