// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package docstore implements the category-partitioned document store and
// the typed query engine on top of it.
//
// The store persists JSON documents in named partitions, all backed by one
// physical file: a JSON object mapping partition name to an array of
// documents, each carrying an internally assigned sequence index. Writes go
// through an in-memory cache and are flushed to disk as one atomic
// temp-file-and-rename operation per batch. The file grows monotonically;
// compaction is the backup layer's concern.
//
// The store itself is schema-free. Partition membership is decided by the
// table router at insertion time; unknown partition names are treated as
// empty on read and routed to the umbrella partition on write; neither is
// an error. Only I/O failures surface to the caller.
//
// Concurrency: the pipeline is a single sequential writer. The cache is
// still guarded by a mutex so read-only callers are safe, but no
// cross-process file locking is attempted; two processes opening the same
// store file produce undefined results.
package docstore

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reviewlake/internal/catalog"
	"github.com/tomtom215/reviewlake/internal/logging"
	"github.com/tomtom215/reviewlake/internal/metrics"
	"github.com/tomtom215/reviewlake/internal/models"
)

// EngineName identifies the store engine in load metadata.
const EngineName = "jsonfile"

// seqField is the internally assigned sequence index stamped on every
// stored document, scoped per partition.
const seqField = "seq"

// Document is one schema-free JSON document as held by the store.
type Document = map[string]any

// Store is a single-file, partition-named JSON document store with a
// write-through in-memory cache.
type Store struct {
	path string
	log  zerolog.Logger

	mu         sync.RWMutex
	partitions map[string][]Document
	nextSeq    map[string]int
	closed     bool
}

// Open opens the store file at path, creating parent directories and the
// file itself when absent. A file that exists but does not decode as a
// store fails fast; this system does no store repair.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create store directory %s: %w", dir, err)
		}
	}

	s := &Store{
		path:       path,
		log:        logging.With().Str("component", "docstore").Logger(),
		partitions: make(map[string][]Document),
		nextSeq:    make(map[string]int),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First open: materialize an empty store so an unwritable path
		// fails here rather than on the first insert.
		if err := s.flushLocked(); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("read store file %s: %w", path, err)
	case len(data) > 0:
		if err := json.Unmarshal(data, &s.partitions); err != nil {
			return nil, fmt.Errorf("decode store file %s: %w", path, err)
		}
		for name, docs := range s.partitions {
			s.nextSeq[name] = maxSeq(docs) + 1
		}
	}

	s.log.Info().Str("path", path).Int("partitions", len(s.partitions)).Msg("Store opened")
	return s, nil
}

// maxSeq returns the highest sequence index present in docs, or 0.
func maxSeq(docs []Document) int {
	highest := 0
	for _, d := range docs {
		if v, ok := numericField(d, seqField); ok && int(v) > highest {
			highest = int(v)
		}
	}
	return highest
}

// Path returns the store file location.
func (s *Store) Path() string {
	return s.path
}

// InsertMany stamps and appends documents to one partition, flushing the
// store once. Each document receives an ingested_at timestamp and a derived
// record_key at insertion time. Duplicate record keys are accepted silently;
// there are no upsert semantics. Unknown partition names route to the
// umbrella partition. Returns the number of documents written.
func (s *Store) InsertMany(partition string, docs []Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if len(docs) == 0 {
		return 0, nil
	}

	stamped := stampBatch(docs)
	s.appendLocked(s.routePartition(partition), stamped)

	if err := s.flushLocked(); err != nil {
		return 0, err
	}
	return len(stamped), nil
}

// InsertReviews stamps a batch once and appends it to both the umbrella
// partition and the partition routed from category, preserving the
// invariant that every category-partition document also exists in the
// umbrella partition. An empty category inserts into the umbrella partition
// only. The batch is flushed to disk as one operation.
func (s *Store) InsertReviews(docs []Document, category string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if len(docs) == 0 {
		return 0, nil
	}

	stamped := stampBatch(docs)
	s.appendLocked(catalog.TableReviews, stamped)
	if category != "" {
		if table := catalog.Route(category); table != catalog.TableReviews {
			s.appendLocked(table, stamped)
		}
	}

	if err := s.flushLocked(); err != nil {
		return 0, err
	}
	return len(stamped), nil
}

// Append appends documents to a partition without review stamping. Used for
// metadata records, which carry their own timestamps.
func (s *Store) Append(partition string, docs []Document) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if len(docs) == 0 {
		return 0, nil
	}

	s.appendLocked(s.routePartition(partition), docs)

	if err := s.flushLocked(); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// All returns every document of a partition in insertion order. Unknown or
// empty partitions yield an empty slice, never an error. The returned
// documents are shallow copies; callers must treat nested values as
// read-only.
func (s *Store) All(partition string) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.partitions[partition]
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = maps.Clone(d)
	}
	return out
}

// Search returns the documents of a partition satisfying the predicate, in
// insertion order. Unknown partitions yield an empty slice.
func (s *Store) Search(partition string, pred func(Document) bool) []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Document
	for _, d := range s.partitions[partition] {
		if pred(d) {
			out = append(out, maps.Clone(d))
		}
	}
	return out
}

// Count returns the number of documents in a partition.
func (s *Store) Count(partition string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.partitions[partition])
}

// Stats summarizes the store: umbrella total, per-partition counts, and the
// on-disk file size.
func (s *Store) Stats() models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := models.StoreStats{
		Engine:       EngineName,
		Path:         s.path,
		TotalReviews: len(s.partitions[catalog.TableReviews]),
		Partitions:   make(map[string]int, len(s.partitions)),
	}
	for name, docs := range s.partitions {
		stats.Partitions[name] = len(docs)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats
}

// Flush writes the cache to disk.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.flushLocked()
}

// Close flushes buffered writes and releases the store. Safe to call more
// than once; subsequent calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if err := s.flushLocked(); err != nil {
		return err
	}
	s.closed = true
	s.log.Info().Str("path", s.path).Msg("Store closed")
	return nil
}

// routePartition maps unknown partition names to the umbrella partition.
func (s *Store) routePartition(partition string) string {
	if catalog.IsPartition(partition) {
		return partition
	}
	s.log.Warn().Str("partition", partition).Str("fallback", catalog.TableReviews).Msg("Unknown partition, routing to fallback")
	return catalog.TableReviews
}

// appendLocked adds stamped documents to a partition, assigning sequence
// indexes. Must be called with mu held for writing.
func (s *Store) appendLocked(partition string, docs []Document) {
	if s.nextSeq[partition] == 0 {
		s.nextSeq[partition] = 1
	}
	for _, d := range docs {
		clone := maps.Clone(d)
		clone[seqField] = s.nextSeq[partition]
		s.nextSeq[partition]++
		s.partitions[partition] = append(s.partitions[partition], clone)
	}
	metrics.DocumentsInserted.WithLabelValues(partition).Add(float64(len(docs)))
}

// flushLocked writes the whole cache to the store file atomically: marshal,
// write a temp file in the same directory, rename over the target. Must be
// called with mu held for writing.
func (s *Store) flushLocked() error {
	start := time.Now()

	data, err := json.MarshalIndent(s.partitions, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return fmt.Errorf("write store file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace store file %s: %w", s.path, err)
	}

	metrics.ObserveFlush(time.Since(start))
	return nil
}

// stampBatch copies each document and stamps the insertion metadata: the
// ingested_at timestamp and the derived record_key. Stamping happens at
// insertion time, not at normalization time.
func stampBatch(docs []Document) []Document {
	now := time.Now().UTC().Format(time.RFC3339)
	out := make([]Document, len(docs))
	for i, d := range docs {
		clone := maps.Clone(d)
		clone["ingested_at"] = now
		clone["record_key"] = recordKey(clone)
		out[i] = clone
	}
	return out
}

// recordKey derives "reviewer_id_product_id" from a document, falling back
// to "unknown" for absent fields. Keys are not unique across documents.
func recordKey(d Document) string {
	return stringField(d, "reviewer_id", "unknown") + "_" + stringField(d, "product_id", "unknown")
}

// stringField extracts a string field with a default.
func stringField(d Document, key, fallback string) string {
	if v, ok := d[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

// numericField extracts a numeric field, accepting the types JSON decoding
// and direct insertion produce.
func numericField(d Document, key string) (float64, bool) {
	switch v := d[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
