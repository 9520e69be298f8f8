// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package acquire

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/reviewlake/internal/catalog"
)

// maxLineBytes bounds one NDJSON line. Review text is capped downstream at
// normalization, but the raw archives occasionally carry much longer lines.
const maxLineBytes = 1 << 20

// ExtractSample reads a gzip-compressed NDJSON archive and returns up to
// limit usable raw records. A record is usable when it carries the minimal
// raw fields; lines that do not parse or lack them are skipped, not errors.
// Extraction stops as soon as the limit is reached, so only the head of the
// archive is ever decompressed.
func ExtractSample(archivePath string, limit int) ([]map[string]any, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("decompress archive %s: %w", archivePath, err)
	}
	defer gz.Close()

	records := make([]map[string]any, 0, limit)
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() && len(records) < limit {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record map[string]any
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		if !usableRawRecord(record) {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan archive %s: %w", archivePath, err)
	}
	return records, nil
}

// usableRawRecord checks the minimal raw-record shape before any
// normalization: reviewer, product, rating, and review date present.
func usableRawRecord(record map[string]any) bool {
	for _, key := range []string{"reviewerID", "asin", "overall", "reviewTime"} {
		if _, ok := record[key]; !ok {
			return false
		}
	}
	return true
}

// WriteSample writes the processed sample file for one category.
func WriteSample(processedDir, category string, records []map[string]any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s sample: %w", category, err)
	}

	path := filepath.Join(processedDir, catalog.SampleFilename(category))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write sample file %s: %w", path, err)
	}
	return nil
}

// writeSummary writes the acquisition run summary next to the samples.
func writeSummary(processedDir string, summary *Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode download summary: %w", err)
	}

	path := filepath.Join(processedDir, SummaryFilename)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write download summary %s: %w", path, err)
	}
	return nil
}
