// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package catalog owns the canonical category table: the six source
// categories, their store partitions, display names, category groups, and
// dataset archives. Every other component resolves category metadata
// through this package and never redefines the mapping.
package catalog

// Partition names that exist independently of the six categories.
const (
	// TableReviews is the umbrella partition holding every document
	// regardless of category. It doubles as the fallback partition for
	// unknown category names.
	TableReviews = "reviews"

	// TableMetadata holds append-only load-event records.
	TableMetadata = "metadata"
)

// Category groups and the analysis types derived from them.
const (
	GroupEntertainment = "Entertainment"
	GroupHome          = "Home"
	GroupOther         = "Other"

	AnalysisLeisure   = "Leisure/Personal"
	AnalysisPractical = "Practical/Utility"
	AnalysisGeneral   = "General"
)

// Category describes one source category.
type Category struct {
	// Name is the category identifier used in dataset and sample filenames,
	// e.g. "Tools_and_Home_Improvement".
	Name string

	// Table is the store partition for this category.
	Table string

	// Display is the human-readable name used in aggregation results.
	Display string

	// Group is the coarse category group: Entertainment or Home.
	Group string

	// Archive is the dataset archive filename on the download host.
	Archive string

	// Priority orders downloads; lower downloads first.
	Priority int
}

// Categories lists the six source categories in download priority order.
var Categories = []Category{
	{Name: "Books", Table: "books", Display: "Books", Group: GroupEntertainment, Archive: "reviews_Books_5.json.gz", Priority: 1},
	{Name: "Video_Games", Table: "video_games", Display: "Video Games", Group: GroupEntertainment, Archive: "reviews_Video_Games_5.json.gz", Priority: 2},
	{Name: "Movies_and_TV", Table: "movies_tv", Display: "Movies & TV", Group: GroupEntertainment, Archive: "reviews_Movies_and_TV_5.json.gz", Priority: 3},
	{Name: "Home_and_Kitchen", Table: "home_kitchen", Display: "Home & Kitchen", Group: GroupHome, Archive: "reviews_Home_and_Kitchen_5.json.gz", Priority: 4},
	{Name: "Tools_and_Home_Improvement", Table: "tools", Display: "Tools & Home Improvement", Group: GroupHome, Archive: "reviews_Tools_and_Home_Improvement_5.json.gz", Priority: 5},
	{Name: "Patio_Lawn_and_Garden", Table: "patio_garden", Display: "Patio, Lawn & Garden", Group: GroupHome, Archive: "reviews_Patio_Lawn_and_Garden_5.json.gz", Priority: 6},
}

var (
	byName  = make(map[string]Category, len(Categories))
	byTable = make(map[string]Category, len(Categories))
)

//nolint:gochecknoinits // builds lookup indexes over the static table
func init() {
	for _, c := range Categories {
		byName[c.Name] = c
		byTable[c.Table] = c
	}
}

// Route maps a category name to its store partition. Unknown category names
// route to the umbrella partition; routing never fails.
func Route(category string) string {
	if c, ok := byName[category]; ok {
		return c.Table
	}
	return TableReviews
}

// ByName looks up a category by its identifier.
func ByName(name string) (Category, bool) {
	c, ok := byName[name]
	return c, ok
}

// ByTable looks up a category by its partition name.
func ByTable(table string) (Category, bool) {
	c, ok := byTable[table]
	return c, ok
}

// Group returns the category group for a category name, or GroupOther for
// unknown categories.
func Group(category string) string {
	if c, ok := byName[category]; ok {
		return c.Group
	}
	return GroupOther
}

// AnalysisTypeFor derives the analysis type from a category group.
func AnalysisTypeFor(group string) string {
	switch group {
	case GroupEntertainment:
		return AnalysisLeisure
	case GroupHome:
		return AnalysisPractical
	default:
		return AnalysisGeneral
	}
}

// Partitions returns every canonical partition name: the umbrella partition,
// the six category partitions, and the metadata partition.
func Partitions() []string {
	names := make([]string, 0, len(Categories)+2)
	names = append(names, TableReviews)
	for _, c := range Categories {
		names = append(names, c.Table)
	}
	names = append(names, TableMetadata)
	return names
}

// IsPartition reports whether name is a canonical partition.
func IsPartition(name string) bool {
	if name == TableReviews || name == TableMetadata {
		return true
	}
	_, ok := byTable[name]
	return ok
}

// SampleFilename returns the processed sample filename convention for a
// category name: "{category}_sample.json".
func SampleFilename(category string) string {
	return category + "_sample.json"
}
