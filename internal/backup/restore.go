// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package backup

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Restore decompresses a backup archive over destPath. When the archive's
// metadata sidecar is present, the decompressed bytes are verified against
// the recorded SHA-256 before the destination is replaced; a checksum
// mismatch aborts the restore with the destination untouched. The store
// must not be open while restoring.
func (m *Manager) Restore(archivePath, destPath string) error {
	src, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open backup %s: %w", archivePath, err)
	}
	defer src.Close()

	gz, err := gzip.NewReader(src)
	if err != nil {
		return fmt.Errorf("decompress backup %s: %w", archivePath, err)
	}
	defer gz.Close()

	// Decompress next to the destination, verify, then rename into place.
	tmp := destPath + ".restore"
	dst, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("create restore file %s: %w", tmp, err)
	}

	hasher := sha256.New()
	_, err = io.Copy(io.MultiWriter(dst, hasher), gz)
	if cerr := dst.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("decompress backup %s: %w", archivePath, err)
	}

	if info, sidecarErr := readSidecar(archivePath); sidecarErr == nil && info.SHA256 != "" {
		if got := hex.EncodeToString(hasher.Sum(nil)); got != info.SHA256 {
			_ = os.Remove(tmp)
			return fmt.Errorf("backup %s checksum mismatch: got %s, recorded %s",
				filepath.Base(archivePath), got, info.SHA256)
		}
	} else {
		m.log.Warn().Str("backup", filepath.Base(archivePath)).Msg("No backup metadata, restoring unverified")
	}

	if err := os.Rename(tmp, destPath); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace store file %s: %w", destPath, err)
	}

	m.log.Info().Str("backup", filepath.Base(archivePath)).Str("dest", destPath).Msg("Backup restored")
	return nil
}
