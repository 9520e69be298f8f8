// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package analyze implements the exploratory statistics over the review
// store: descriptive statistics, satisfaction levels, category and group
// comparisons, product and reviewer breakdowns, temporal trends, and
// content analysis, composed into one comprehensive report.
//
// Every analysis is total: an empty or insufficient dataset produces an
// empty result, never an error. Statistical primitives are computed in
// package-local helpers (stats.go).
package analyze

import (
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/config"
	"github.com/tomtom215/reviewlake/internal/docstore"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/models"
)

// Satisfaction level boundaries on the rating scale.
const (
	satLowMax        = 2.5
	satAverageMax    = 3.5
	satGoodMax       = 4.5
	starThreshold    = 4.5
	problemThreshold = 2.5
)

// significanceAlpha is the p-value threshold for the group comparison.
const significanceAlpha = 0.05

// Explorer runs the exploratory analyses over an open store.
type Explorer struct {
	store   *docstore.Store
	queries *docstore.QueryEngine
	cfg     config.AnalysisConfig
	log     zerolog.Logger
}

// NewExplorer creates an explorer over an open store.
func NewExplorer(store *docstore.Store, cfg config.AnalysisConfig) *Explorer {
	return &Explorer{
		store:   store,
		queries: docstore.NewQueryEngine(store),
		cfg:     cfg,
		log:     logging.With().Str("component", "explorer").Logger(),
	}
}

// reviews fetches the full umbrella partition as typed documents.
func (e *Explorer) reviews() []models.ReviewDocument {
	return e.queries.FilterByRating(models.MinRating, models.MaxRating, "")
}

// RatingDescribe summarizes a rating sample.
type RatingDescribe struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// BasicStatistics is the dataset-level overview.
type BasicStatistics struct {
	TotalReviews    int            `json:"total_reviews"`
	Rating          RatingDescribe `json:"rating"`
	UniqueProducts  int            `json:"unique_products"`
	UniqueReviewers int            `json:"unique_reviewers"`
	CategoryCounts  map[string]int `json:"category_counts"`

	// RatingHistogram counts reviews per rating value, keyed like "4.0".
	RatingHistogram map[string]int `json:"rating_histogram"`
}

// BasicStatistics computes the dataset overview. An empty store yields the
// zero value.
func (e *Explorer) BasicStatistics() BasicStatistics {
	reviews := e.reviews()
	out := BasicStatistics{
		TotalReviews:    len(reviews),
		CategoryCounts:  make(map[string]int),
		RatingHistogram: make(map[string]int),
	}
	if len(reviews) == 0 {
		return out
	}

	ratings := make([]float64, len(reviews))
	products := make(map[string]struct{})
	reviewers := make(map[string]struct{})
	for i, r := range reviews {
		ratings[i] = r.Rating
		products[r.ProductID] = struct{}{}
		reviewers[r.ReviewerID] = struct{}{}
		out.CategoryCounts[r.OriginalCategory]++
		out.RatingHistogram[strconv.FormatFloat(r.Rating, 'f', 1, 64)]++
	}

	out.UniqueProducts = len(products)
	out.UniqueReviewers = len(reviewers)
	out.Rating = describe(ratings)
	return out
}

func describe(xs []float64) RatingDescribe {
	return RatingDescribe{
		Count:  len(xs),
		Mean:   round2(mean(xs)),
		Std:    round2(stdDev(xs)),
		Min:    quantile(xs, 0),
		Q25:    round2(quantile(xs, 0.25)),
		Median: round2(median(xs)),
		Q75:    round2(quantile(xs, 0.75)),
		Max:    quantile(xs, 1),
	}
}

// SatisfactionLevel is one satisfaction band.
type SatisfactionLevel struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// SatisfactionAnalysis buckets ratings into satisfaction levels.
type SatisfactionAnalysis struct {
	Total  int                          `json:"total"`
	Levels map[string]SatisfactionLevel `json:"levels"`
}

// SatisfactionAnalysis buckets every review into Low (< 2.5),
// Average (< 3.5), Good (< 4.5), and Excellent bands.
func (e *Explorer) SatisfactionAnalysis() SatisfactionAnalysis {
	reviews := e.reviews()
	counts := map[string]int{"Low": 0, "Average": 0, "Good": 0, "Excellent": 0}

	for _, r := range reviews {
		switch {
		case r.Rating < satLowMax:
			counts["Low"]++
		case r.Rating < satAverageMax:
			counts["Average"]++
		case r.Rating < satGoodMax:
			counts["Good"]++
		default:
			counts["Excellent"]++
		}
	}

	out := SatisfactionAnalysis{
		Total:  len(reviews),
		Levels: make(map[string]SatisfactionLevel, len(counts)),
	}
	for level, n := range counts {
		pct := 0.0
		if len(reviews) > 0 {
			pct = round2(100 * float64(n) / float64(len(reviews)))
		}
		out.Levels[level] = SatisfactionLevel{Count: n, Percent: pct}
	}
	return out
}

// CategoryStats describes one category's ratings.
type CategoryStats struct {
	Category        string  `json:"category"`
	Count           int     `json:"count"`
	Mean            float64 `json:"mean"`
	Std             float64 `json:"std"`
	Min             float64 `json:"min"`
	Max             float64 `json:"max"`
	Median          float64 `json:"median"`
	ExcellenceRatio float64 `json:"excellence_ratio"`
}

// CategoryAnalysis ranks the categories by mean rating.
type CategoryAnalysis struct {
	Categories []CategoryStats `json:"categories"`
	Best       string          `json:"best,omitempty"`
	Worst      string          `json:"worst,omitempty"`
}

// CategoryAnalysis computes per-category descriptive statistics and
// excellence ratios (share of ratings at or above 4.5), ranked by mean.
// Empty categories are omitted.
func (e *Explorer) CategoryAnalysis() CategoryAnalysis {
	var out CategoryAnalysis
	for _, cat := range catalog.Categories {
		ratings := ratingsOf(e.queries.FilterByCategory(cat.Name))
		if len(ratings) == 0 {
			continue
		}

		excellent := 0
		for _, r := range ratings {
			if r >= starThreshold {
				excellent++
			}
		}

		out.Categories = append(out.Categories, CategoryStats{
			Category:        cat.Display,
			Count:           len(ratings),
			Mean:            round2(mean(ratings)),
			Std:             round2(stdDev(ratings)),
			Min:             quantile(ratings, 0),
			Max:             quantile(ratings, 1),
			Median:          round2(median(ratings)),
			ExcellenceRatio: round2(float64(excellent) / float64(len(ratings))),
		})
	}

	sort.SliceStable(out.Categories, func(i, j int) bool {
		return out.Categories[i].Mean > out.Categories[j].Mean
	})
	if len(out.Categories) > 0 {
		out.Best = out.Categories[0].Category
		out.Worst = out.Categories[len(out.Categories)-1].Category
	}
	return out
}

// GroupStats describes one category group's ratings.
type GroupStats struct {
	Group string  `json:"group"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// GroupComparison compares Entertainment and Home ratings with a Welch
// t-test.
type GroupComparison struct {
	Entertainment GroupStats `json:"entertainment"`
	Home          GroupStats `json:"home"`
	TStatistic    float64    `json:"t_statistic"`
	DegreesOfFree float64    `json:"degrees_of_freedom"`
	PValue        float64    `json:"p_value"`
	Significant   bool       `json:"significant"`
}

// GroupComparison runs the Entertainment-vs-Home comparison. With fewer
// than two observations in either group the test degenerates to p = 1.
func (e *Explorer) GroupComparison() GroupComparison {
	var entertainment, home []float64
	for _, r := range e.reviews() {
		switch r.CategoryGroup {
		case catalog.GroupEntertainment:
			entertainment = append(entertainment, r.Rating)
		case catalog.GroupHome:
			home = append(home, r.Rating)
		}
	}

	t, df, p := welchTTest(entertainment, home)
	return GroupComparison{
		Entertainment: groupStats(catalog.GroupEntertainment, entertainment),
		Home:          groupStats(catalog.GroupHome, home),
		TStatistic:    round4(t),
		DegreesOfFree: round2(df),
		PValue:        round4(p),
		Significant:   p < significanceAlpha,
	}
}

func groupStats(name string, ratings []float64) GroupStats {
	return GroupStats{
		Group: name,
		Count: len(ratings),
		Mean:  round2(mean(ratings)),
		Std:   round2(stdDev(ratings)),
	}
}

// ProductSummary is one product in the star or problematic list.
type ProductSummary struct {
	ProductID   string  `json:"product_id"`
	Mean        float64 `json:"mean"`
	ReviewCount int     `json:"review_count"`
}

// ProductAnalysis splits ranked products into star and problematic sets.
type ProductAnalysis struct {
	RankedProducts int              `json:"ranked_products"`
	Star           []ProductSummary `json:"star"`
	Problematic    []ProductSummary `json:"problematic"`
}

// ProductAnalysis ranks products with at least the configured review floor
// and splits out star products (mean >= 4.5) and problematic ones
// (mean <= 2.5).
func (e *Explorer) ProductAnalysis() ProductAnalysis {
	type acc struct {
		sum   float64
		count int
	}
	order := make([]string, 0)
	byProduct := make(map[string]*acc)
	for _, r := range e.reviews() {
		a, ok := byProduct[r.ProductID]
		if !ok {
			a = &acc{}
			byProduct[r.ProductID] = a
			order = append(order, r.ProductID)
		}
		a.sum += r.Rating
		a.count++
	}

	var out ProductAnalysis
	for _, id := range order {
		a := byProduct[id]
		if a.count < e.cfg.MinReviewsPerProduct {
			continue
		}
		out.RankedProducts++

		summary := ProductSummary{
			ProductID:   id,
			Mean:        round2(a.sum / float64(a.count)),
			ReviewCount: a.count,
		}
		switch {
		case summary.Mean >= starThreshold:
			out.Star = append(out.Star, summary)
		case summary.Mean <= problemThreshold:
			out.Problematic = append(out.Problematic, summary)
		}
	}

	sort.SliceStable(out.Star, func(i, j int) bool { return out.Star[i].Mean > out.Star[j].Mean })
	sort.SliceStable(out.Problematic, func(i, j int) bool { return out.Problematic[i].Mean < out.Problematic[j].Mean })
	return out
}

// ReviewerAnalysis buckets reviewers by activity.
type ReviewerAnalysis struct {
	UniqueReviewers int            `json:"unique_reviewers"`
	ActivityLevels  map[string]int `json:"activity_levels"`
}

// ReviewerAnalysis counts reviewers per activity band: single review, 2-3,
// 4-5, and more than 5 reviews.
func (e *Explorer) ReviewerAnalysis() ReviewerAnalysis {
	counts := make(map[string]int)
	for _, r := range e.reviews() {
		counts[r.ReviewerID]++
	}

	out := ReviewerAnalysis{
		UniqueReviewers: len(counts),
		ActivityLevels:  map[string]int{"1": 0, "2-3": 0, "4-5": 0, ">5": 0},
	}
	for _, n := range counts {
		switch {
		case n == 1:
			out.ActivityLevels["1"]++
		case n <= 3:
			out.ActivityLevels["2-3"]++
		case n <= 5:
			out.ActivityLevels["4-5"]++
		default:
			out.ActivityLevels[">5"]++
		}
	}
	return out
}

// YearStats is one year's review volume and mean rating.
type YearStats struct {
	Year  int     `json:"year"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
}

// TemporalAnalysis is the yearly trend of review volume and ratings.
type TemporalAnalysis struct {
	Years            []YearStats `json:"years"`
	TrendCorrelation float64     `json:"trend_correlation"`
}

// TemporalAnalysis groups reviews by year of review_unix_time. Documents
// with a zero timestamp (the normalization default) are excluded, as are
// years below the configured record floor. The trend correlation is the
// Pearson correlation between year and yearly mean rating.
func (e *Explorer) TemporalAnalysis() TemporalAnalysis {
	type acc struct {
		sum   float64
		count int
	}
	byYear := make(map[int]*acc)
	for _, r := range e.reviews() {
		if r.ReviewUnixTime == 0 {
			continue
		}
		year := time.Unix(r.ReviewUnixTime, 0).UTC().Year()
		a, ok := byYear[year]
		if !ok {
			a = &acc{}
			byYear[year] = a
		}
		a.sum += r.Rating
		a.count++
	}

	var out TemporalAnalysis
	years := make([]int, 0, len(byYear))
	for year, a := range byYear {
		if a.count < e.cfg.TemporalMinRecords {
			continue
		}
		years = append(years, year)
	}
	sort.Ints(years)

	xs := make([]float64, 0, len(years))
	ys := make([]float64, 0, len(years))
	for _, year := range years {
		a := byYear[year]
		yearMean := a.sum / float64(a.count)
		out.Years = append(out.Years, YearStats{
			Year:  year,
			Count: a.count,
			Mean:  round2(yearMean),
		})
		xs = append(xs, float64(year))
		ys = append(ys, yearMean)
	}

	out.TrendCorrelation = round4(pearson(xs, ys))
	return out
}

// LengthStats summarizes text lengths.
type LengthStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// ContentAnalysis covers review text and summary lengths.
type ContentAnalysis struct {
	TextLength              LengthStats    `json:"text_length"`
	SummaryLength           LengthStats    `json:"summary_length"`
	LengthBands             map[string]int `json:"length_bands"`
	LengthRatingCorrelation float64        `json:"length_rating_correlation"`
}

// ContentAnalysis measures review text and summary lengths, buckets texts
// into short/medium/long bands, and correlates text length with rating.
func (e *Explorer) ContentAnalysis() ContentAnalysis {
	reviews := e.reviews()

	textLens := make([]float64, len(reviews))
	summaryLens := make([]float64, len(reviews))
	ratings := make([]float64, len(reviews))
	bands := map[string]int{"short": 0, "medium": 0, "long": 0}
	for i, r := range reviews {
		textLens[i] = float64(len(r.ReviewText))
		summaryLens[i] = float64(len(r.Summary))
		ratings[i] = r.Rating

		switch {
		case len(r.ReviewText) < 100:
			bands["short"]++
		case len(r.ReviewText) < 500:
			bands["medium"]++
		default:
			bands["long"]++
		}
	}

	return ContentAnalysis{
		TextLength:              lengthStats(textLens),
		SummaryLength:           lengthStats(summaryLens),
		LengthBands:             bands,
		LengthRatingCorrelation: round4(pearson(textLens, ratings)),
	}
}

func lengthStats(lens []float64) LengthStats {
	return LengthStats{
		Mean:   round2(mean(lens)),
		Median: round2(median(lens)),
		Max:    quantile(lens, 1),
	}
}

func ratingsOf(reviews []models.ReviewDocument) []float64 {
	out := make([]float64, len(reviews))
	for i, r := range reviews {
		out[i] = r.Rating
	}
	return out
}
