// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// prune removes the oldest backups beyond the retention count, each with
// its metadata sidecar.
func (m *Manager) prune() error {
	archives, err := filepath.Glob(filepath.Join(m.cfg.Dir, backupPrefix+"*"+backupSuffix))
	if err != nil {
		return fmt.Errorf("list backups in %s: %w", m.cfg.Dir, err)
	}
	if len(archives) <= m.cfg.MaxBackups {
		return nil
	}

	// Timestamped names sort oldest first.
	sort.Strings(archives)

	for _, archive := range archives[:len(archives)-m.cfg.MaxBackups] {
		if err := os.Remove(archive); err != nil {
			return fmt.Errorf("prune backup %s: %w", archive, err)
		}
		_ = os.Remove(sidecarPath(archive))
		m.log.Info().Str("backup", filepath.Base(archive)).Msg("Backup pruned")
	}
	return nil
}
