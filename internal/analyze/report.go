// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package analyze

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewlake/internal/docstore"
)

// ReportFilename is the default comprehensive report file name.
const ReportFilename = "analysis_report.json"

// Report is the comprehensive analysis output: every analysis plus run
// metadata.
type Report struct {
	GeneratedAt string `json:"generated_at"`
	Engine      string `json:"engine"`
	StorePath   string `json:"store_path"`

	Basic        BasicStatistics      `json:"basic_statistics"`
	Satisfaction SatisfactionAnalysis `json:"satisfaction"`
	Categories   CategoryAnalysis     `json:"categories"`
	Groups       GroupComparison      `json:"group_comparison"`
	Products     ProductAnalysis      `json:"products"`
	Reviewers    ReviewerAnalysis     `json:"reviewers"`
	Temporal     TemporalAnalysis     `json:"temporal"`
	Content      ContentAnalysis      `json:"content"`
}

// ComprehensiveReport runs every analysis over the current store contents.
func (e *Explorer) ComprehensiveReport() *Report {
	start := time.Now()

	report := &Report{
		GeneratedAt:  start.UTC().Format(time.RFC3339),
		Engine:       docstore.EngineName,
		StorePath:    e.store.Path(),
		Basic:        e.BasicStatistics(),
		Satisfaction: e.SatisfactionAnalysis(),
		Categories:   e.CategoryAnalysis(),
		Groups:       e.GroupComparison(),
		Products:     e.ProductAnalysis(),
		Reviewers:    e.ReviewerAnalysis(),
		Temporal:     e.TemporalAnalysis(),
		Content:      e.ContentAnalysis(),
	}

	e.log.Info().
		Int("reviews", report.Basic.TotalReviews).
		Dur("took", time.Since(start)).
		Msg("Comprehensive report generated")
	return report
}

// WriteJSON serializes the report into outputDir, creating it when absent.
// Returns the written file path.
func (r *Report) WriteJSON(outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode analysis report: %w", err)
	}

	path := filepath.Join(outputDir, ReportFilename)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("write analysis report %s: %w", path, err)
	}
	return path, nil
}
