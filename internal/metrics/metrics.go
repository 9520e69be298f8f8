// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package metrics provides Prometheus instrumentation for the pipeline.
//
// Counters and histograms cover the document store (inserts, rejections,
// flushes, queries), the dataset downloader, and bulk loads. The collectors
// are registered with the default registry via promauto; a caller that wants
// to expose them serves promhttp.Handler(); the pipeline itself only
// records.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Document store metrics.

	DocumentsInserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_documents_inserted_total",
			Help: "Total number of documents appended to the store",
		},
		[]string{"partition"},
	)

	DocumentsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docstore_documents_rejected_total",
			Help: "Total number of records dropped by quality validation",
		},
	)

	StoreFlushes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "docstore_flushes_total",
			Help: "Total number of store file flushes",
		},
	)

	StoreFlushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "docstore_flush_duration_seconds",
			Help:    "Store file flush duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docstore_queries_total",
			Help: "Total number of query engine operations",
		},
		[]string{"operation"}, // "filter_rating", "filter_category", "aggregate", "top_products"
	)

	// Downloader metrics.

	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acquire_downloads_total",
			Help: "Total number of category dataset downloads",
		},
		[]string{"category", "status"}, // status: "ok", "skipped", "error"
	)

	DownloadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "acquire_download_bytes_total",
			Help: "Total bytes downloaded from the dataset host",
		},
	)

	// Bulk load metrics.

	LoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "load_duration_seconds",
			Help:    "Bulk load duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
	)

	LoadRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "load_records_total",
			Help: "Records processed per bulk load",
		},
		[]string{"result"}, // "inserted", "rejected"
	)
)

// ObserveFlush records one store flush with its duration.
func ObserveFlush(d time.Duration) {
	StoreFlushes.Inc()
	StoreFlushDuration.Observe(d.Seconds())
}

// RecordQuery records one query engine operation.
func RecordQuery(operation string) {
	QueriesTotal.WithLabelValues(operation).Inc()
}

// RecordDownload records the outcome of one category download.
func RecordDownload(category, status string, bytes int64) {
	DownloadsTotal.WithLabelValues(category, status).Inc()
	if bytes > 0 {
		DownloadBytes.Add(float64(bytes))
	}
}
