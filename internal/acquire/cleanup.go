// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package acquire

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/reviewlake/internal/logging"
)

// CleanupRaw deletes the downloaded archives from rawDir and returns how
// many were removed and the bytes reclaimed. Processed samples are the
// durable artifact; the raw archives are only an extraction intermediate.
// A missing raw directory is a no-op, not an error.
func CleanupRaw(rawDir string) (int, int64, error) {
	archives, err := filepath.Glob(filepath.Join(rawDir, "*.json.gz"))
	if err != nil {
		return 0, 0, fmt.Errorf("list archives in %s: %w", rawDir, err)
	}

	log := logging.With().Str("component", "cleanup").Logger()

	removed := 0
	var reclaimed int64
	for _, path := range archives {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, reclaimed, fmt.Errorf("remove archive %s: %w", path, err)
		}
		removed++
		reclaimed += info.Size()
		log.Debug().Str("path", path).Msg("Archive removed")
	}

	if removed > 0 {
		log.Info().
			Int("archives", removed).
			Str("reclaimed", humanize.Bytes(uint64(reclaimed))).
			Msg("Raw archives cleaned up")
	}
	return removed, reclaimed, nil
}
