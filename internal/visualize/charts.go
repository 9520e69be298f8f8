// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package visualize renders the analysis report as a single HTML page of
// go-echarts charts: rating distribution, category averages, satisfaction
// levels, the group comparison, the yearly trend, and the top products.
// Charts for analyses with no data are simply omitted from the page.
package visualize

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/tomtom215/reviewlake/internal/analyze"
	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/models"
)

// ChartsFilename is the rendered HTML page name.
const ChartsFilename = "analysis_charts.html"

// satisfactionOrder fixes the pie slice order.
var satisfactionOrder = []string{"Low", "Average", "Good", "Excellent"}

// RenderCharts renders the report and the top-products ranking into one
// HTML page under outputDir and returns the written file path.
func RenderCharts(report *analyze.Report, ranks []models.ProductRank, outputDir string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o750); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	page := components.NewPage()
	page.PageTitle = "Amazon Review Analysis"

	if chart := ratingDistributionChart(report.Basic); chart != nil {
		page.AddCharts(chart)
	}
	if chart := categoryAveragesChart(report.Categories); chart != nil {
		page.AddCharts(chart)
	}
	if chart := satisfactionChart(report.Satisfaction); chart != nil {
		page.AddCharts(chart)
	}
	if chart := groupComparisonChart(report.Groups); chart != nil {
		page.AddCharts(chart)
	}
	if chart := yearlyTrendChart(report.Temporal); chart != nil {
		page.AddCharts(chart)
	}
	if chart := topProductsChart(ranks); chart != nil {
		page.AddCharts(chart)
	}

	path := filepath.Join(outputDir, ChartsFilename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create charts file %s: %w", path, err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return "", fmt.Errorf("render charts: %w", err)
	}

	logging.Info().Str("path", path).Msg("Charts rendered")
	return path, nil
}

// ratingDistributionChart is the review count per rating value.
func ratingDistributionChart(basic analyze.BasicStatistics) *charts.Bar {
	if len(basic.RatingHistogram) == 0 {
		return nil
	}

	labels := make([]string, 0, len(basic.RatingHistogram))
	for rating := range basic.RatingHistogram {
		labels = append(labels, rating)
	}
	sort.Strings(labels)

	data := make([]opts.BarData, len(labels))
	for i, rating := range labels {
		data[i] = opts.BarData{Value: basic.RatingHistogram[rating]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Rating Distribution",
			Subtitle: fmt.Sprintf("%d reviews", basic.TotalReviews),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Reviews", data)
	return bar
}

// categoryAveragesChart compares mean ratings across categories.
func categoryAveragesChart(cats analyze.CategoryAnalysis) *charts.Bar {
	if len(cats.Categories) == 0 {
		return nil
	}

	labels := make([]string, len(cats.Categories))
	data := make([]opts.BarData, len(cats.Categories))
	for i, c := range cats.Categories {
		labels[i] = c.Category
		data[i] = opts.BarData{Value: c.Mean}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Average Rating by Category",
			Subtitle: fmt.Sprintf("best: %s, worst: %s", cats.Best, cats.Worst),
		}),
		charts.WithYAxisOpts(opts.YAxis{Max: models.MaxRating}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Mean rating", data)
	return bar
}

// satisfactionChart is the satisfaction-level pie.
func satisfactionChart(sat analyze.SatisfactionAnalysis) *charts.Pie {
	if sat.Total == 0 {
		return nil
	}

	data := make([]opts.PieData, 0, len(satisfactionOrder))
	for _, level := range satisfactionOrder {
		data = append(data, opts.PieData{Name: level, Value: sat.Levels[level].Count})
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Customer Satisfaction Levels"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	pie.AddSeries("Satisfaction", data).SetSeriesOptions(
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
	)
	return pie
}

// groupComparisonChart shows the Entertainment-vs-Home means.
func groupComparisonChart(groups analyze.GroupComparison) *charts.Bar {
	if groups.Entertainment.Count == 0 && groups.Home.Count == 0 {
		return nil
	}

	subtitle := fmt.Sprintf("t = %.4f, p = %.4f", groups.TStatistic, groups.PValue)
	if groups.Significant {
		subtitle += " (significant)"
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Entertainment vs Home", Subtitle: subtitle}),
		charts.WithYAxisOpts(opts.YAxis{Max: models.MaxRating}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis([]string{catalog.GroupEntertainment, catalog.GroupHome})
	bar.AddSeries("Mean rating", []opts.BarData{
		{Value: groups.Entertainment.Mean},
		{Value: groups.Home.Mean},
	})
	return bar
}

// yearlyTrendChart is the review volume and mean rating per year.
func yearlyTrendChart(temporal analyze.TemporalAnalysis) *charts.Line {
	if len(temporal.Years) == 0 {
		return nil
	}

	labels := make([]string, len(temporal.Years))
	counts := make([]opts.LineData, len(temporal.Years))
	means := make([]opts.LineData, len(temporal.Years))
	for i, year := range temporal.Years {
		labels[i] = fmt.Sprintf("%d", year.Year)
		counts[i] = opts.LineData{Value: year.Count}
		means[i] = opts.LineData{Value: year.Mean}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Reviews over Time",
			Subtitle: fmt.Sprintf("trend correlation %.4f", temporal.TrendCorrelation),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	line.SetXAxis(labels)
	line.AddSeries("Reviews", counts, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	line.AddSeries("Mean rating", means, charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return line
}

// topProductsChart ranks products by mean rating.
func topProductsChart(ranks []models.ProductRank) *charts.Bar {
	if len(ranks) == 0 {
		return nil
	}

	labels := make([]string, len(ranks))
	data := make([]opts.BarData, len(ranks))
	for i, rank := range ranks {
		labels[i] = rank.ProductID
		data[i] = opts.BarData{Value: rank.AvgRating}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Top Products by Average Rating"}),
		charts.WithYAxisOpts(opts.YAxis{Max: models.MaxRating}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"}}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Mean rating", data)
	return bar
}
