// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package docstore

import (
	"testing"

	"github.com/tomtom215/reviewlake/internal/catalog"
)

// seedStore inserts a small mixed corpus: three Books reviews, two Video
// Games reviews, and one metadata record.
func seedStore(t *testing.T) *Store {
	t.Helper()
	s := newTestStore(t)

	if _, err := s.InsertReviews([]Document{
		testReview("R1", "BOOK1", 5.0, "Books"),
		testReview("R2", "BOOK1", 4.0, "Books"),
		testReview("R3", "BOOK2", 2.0, "Books"),
	}, "Books"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.InsertReviews([]Document{
		testReview("R1", "GAME1", 3.0, "Video_Games"),
		testReview("R4", "GAME1", 1.0, "Video_Games"),
	}, "Video_Games"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(catalog.TableMetadata, []Document{{"event": "load"}}); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestFilterByRating(t *testing.T) {
	q := NewQueryEngine(seedStore(t))

	// Bounds are inclusive on both ends.
	got := q.FilterByRating(4.0, 5.0, "")
	if len(got) != 2 {
		t.Fatalf("FilterByRating(4,5) = %d reviews, want 2", len(got))
	}
	for _, r := range got {
		if r.Rating < 4.0 || r.Rating > 5.0 {
			t.Errorf("rating %v outside [4,5]", r.Rating)
		}
	}

	// A category selector narrows the scan to that partition.
	if got := q.FilterByRating(1.0, 5.0, "Video_Games"); len(got) != 2 {
		t.Errorf("FilterByRating over Video_Games = %d reviews, want 2", len(got))
	}
	// So does the raw partition name.
	if got := q.FilterByRating(1.0, 5.0, "video_games"); len(got) != 2 {
		t.Errorf("FilterByRating over video_games = %d reviews, want 2", len(got))
	}

	if got := q.FilterByRating(4.5, 4.9, ""); len(got) != 0 {
		t.Errorf("empty band returned %d reviews", len(got))
	}
}

func TestFilterByCategory(t *testing.T) {
	q := NewQueryEngine(seedStore(t))

	got := q.FilterByCategory("Books")
	if len(got) != 3 {
		t.Fatalf("FilterByCategory(Books) = %d reviews, want 3", len(got))
	}
	for _, r := range got {
		if r.OriginalCategory != "Books" {
			t.Errorf("OriginalCategory = %q", r.OriginalCategory)
		}
	}

	if got := q.FilterByCategory("Electronics"); len(got) != 0 {
		t.Errorf("FilterByCategory(Electronics) = %d reviews, want 0", len(got))
	}
}

func TestAggregateByCategory(t *testing.T) {
	q := NewQueryEngine(seedStore(t))

	aggs := q.AggregateByCategory()

	// Only populated categories appear, keyed by display name.
	if len(aggs) != 2 {
		t.Fatalf("aggregation covers %d categories, want 2: %v", len(aggs), aggs)
	}
	if _, ok := aggs["Movies & TV"]; ok {
		t.Error("empty category present in aggregation")
	}

	books, ok := aggs["Books"]
	if !ok {
		t.Fatal("Books aggregate missing")
	}
	if books.Count != 3 {
		t.Errorf("Books.Count = %d, want 3", books.Count)
	}
	if books.AvgRating != 3.67 {
		t.Errorf("Books.AvgRating = %v, want 3.67", books.AvgRating)
	}
	if books.MinRating != 2.0 || books.MaxRating != 5.0 {
		t.Errorf("Books min/max = %v/%v, want 2/5", books.MinRating, books.MaxRating)
	}
	if books.UniqueReviewers != 3 || books.UniqueProducts != 2 {
		t.Errorf("Books unique reviewers/products = %d/%d, want 3/2", books.UniqueReviewers, books.UniqueProducts)
	}
	if books.RatingHistogram["5.0"] != 1 || books.RatingHistogram["4.0"] != 1 || books.RatingHistogram["2.0"] != 1 {
		t.Errorf("Books histogram = %v", books.RatingHistogram)
	}

	games := aggs["Video Games"]
	if games.Count != 2 || games.AvgRating != 2.0 {
		t.Errorf("Video Games = %+v", games)
	}
}

func TestTopProducts(t *testing.T) {
	q := NewQueryEngine(seedStore(t))

	ranks := q.TopProducts("", 0)

	// BOOK2 has a single review and stays out of the ranking.
	if len(ranks) != 2 {
		t.Fatalf("TopProducts() = %d products, want 2: %+v", len(ranks), ranks)
	}
	if ranks[0].ProductID != "BOOK1" || ranks[0].AvgRating != 4.5 || ranks[0].ReviewCount != 2 {
		t.Errorf("rank[0] = %+v, want BOOK1 at 4.5 over 2 reviews", ranks[0])
	}
	if ranks[1].ProductID != "GAME1" || ranks[1].AvgRating != 2.0 {
		t.Errorf("rank[1] = %+v, want GAME1 at 2.0", ranks[1])
	}
	if ranks[0].SampleReview == "" {
		t.Error("SampleReview empty")
	}

	// The ranking truncates to the requested limit.
	if got := q.TopProducts("", 1); len(got) != 1 || got[0].ProductID != "BOOK1" {
		t.Errorf("TopProducts(limit=1) = %+v", got)
	}

	// A category selector restricts the ranking to that partition.
	games := q.TopProducts("Video_Games", 0)
	if len(games) != 1 || games[0].ProductID != "GAME1" {
		t.Errorf("TopProducts(Video_Games) = %+v", games)
	}
}

func TestTopProductsEmptyStore(t *testing.T) {
	q := NewQueryEngine(newTestStore(t))
	if ranks := q.TopProducts("", 0); len(ranks) != 0 {
		t.Errorf("TopProducts() on empty store = %+v", ranks)
	}
}

func TestQueriesSkipForeignDocuments(t *testing.T) {
	// The metadata record in the umbrella scan path must not decode as a
	// review. FilterByRating over the full [1,5] band sees reviews only.
	s := seedStore(t)
	if _, err := s.Append(catalog.TableReviews, []Document{{"event": "stray"}}); err != nil {
		t.Fatal(err)
	}

	q := NewQueryEngine(s)
	if got := q.FilterByRating(1.0, 5.0, ""); len(got) != 5 {
		t.Errorf("FilterByRating = %d reviews, want 5", len(got))
	}
}
