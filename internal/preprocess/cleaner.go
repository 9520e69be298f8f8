// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package preprocess turns raw Amazon review records into validated,
// enriched ReviewDocuments. It works in two sequential stages:
//
//  1. Normalize: lenient defaulting. Coercion failures substitute
//     documented defaults instead of rejecting the record; missing
//     identity fields fall back to sentinels. Pure function, idempotent.
//  2. CheckQuality: rejection. The normalized document must carry real
//     identity and some content; failures drop the record from its batch.
//
// Normalization runs first and validation judges its output, which is why
// an unparseable rating ends up stored as the 3.0 default rather than
// rejected: lenient normalization is the deliberate policy for field-level
// noise, rejection is reserved for records without identity or content.
package preprocess

import (
	"strconv"
	"strings"

	"github.com/tomtom215/reviewlake/internal/models"
)

// Normalize produces a normalized ReviewDocument from one raw record. This
// is the single place where dynamic field access happens; everything
// downstream uses the typed document.
//
// Raw records may carry the original Amazon field names (reviewerID, asin,
// overall, ...) or the normalized names of an already-processed sample;
// both map to the same fields, so Normalize is a fixpoint on its own
// output.
func Normalize(raw map[string]any) models.ReviewDocument {
	doc := models.ReviewDocument{
		ReviewerID:     fallback(strings.TrimSpace(pickString(raw, "reviewer_id", "reviewerID")), models.UnknownID),
		ProductID:      fallback(pickString(raw, "product_id", "asin"), models.UnknownID),
		ReviewerName:   fallback(strings.TrimSpace(pickString(raw, "reviewer_name", "reviewerName")), models.AnonymousName),
		HelpfulVotes:   coerceHelpful(pick(raw, "helpful_votes", "helpful")),
		ReviewText:     truncate(strings.TrimSpace(pickString(raw, "review_text", "reviewText")), models.MaxReviewTextLen),
		Rating:         coerceRating(pick(raw, "rating", "overall")),
		Summary:        truncate(strings.TrimSpace(pickString(raw, "summary")), models.MaxSummaryLen),
		ReviewUnixTime: coerceInt64(pick(raw, "review_unix_time", "unixReviewTime")),
		ReviewTimeText: strings.TrimSpace(pickString(raw, "review_time_text", "reviewTime")),
	}

	// Enrichment fields survive re-normalization of processed samples; the
	// transformer overwrites them from the catalog either way.
	doc.CategoryGroup = pickString(raw, "category_group")
	doc.AnalysisType = pickString(raw, "analysis_type")
	doc.OriginalCategory = pickString(raw, "original_category")

	return doc
}

// pick returns the first present key's value.
func pick(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v
		}
	}
	return nil
}

// pickString returns the first present key's value as a string, or "".
func pickString(raw map[string]any, keys ...string) string {
	s, _ := pick(raw, keys...).(string)
	return s
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}

// coerceRating coerces a raw rating to float64. Unparseable or
// out-of-domain values fall back to the documented default; nothing outside
// [1, 5] survives normalization.
func coerceRating(v any) float64 {
	rating, ok := coerceFloat(v)
	if !ok || rating < models.MinRating || rating > models.MaxRating {
		return models.DefaultRating
	}
	return rating
}

// coerceFloat accepts the numeric shapes JSON decoding produces, plus
// numeric strings.
func coerceFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// coerceInt64 coerces a raw timestamp, defaulting to 0 on parse failure.
func coerceInt64(v any) int64 {
	f, ok := coerceFloat(v)
	if !ok {
		return 0
	}
	return int64(f)
}

// coerceHelpful normalizes the helpful-votes pair to exactly two elements,
// truncating longer arrays and defaulting anything else to (0, 0).
func coerceHelpful(v any) [2]int {
	arr, ok := v.([]any)
	if !ok {
		// Round-tripped documents decode as []any; direct construction
		// hands us the typed pair.
		if pair, isPair := v.([2]int); isPair {
			return pair
		}
		return [2]int{}
	}
	if len(arr) < 2 {
		return [2]int{}
	}

	var out [2]int
	for i := 0; i < 2; i++ {
		f, isNum := coerceFloat(arr[i])
		if !isNum {
			return [2]int{}
		}
		out[i] = int(f)
	}
	return out
}
