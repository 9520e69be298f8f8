// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

// Package backup manages compressed copies of the store file.
//
// A backup is one gzip copy of the store file named
// amazon_reviews_backup_YYYYMMDD_HHMMSS.json.gz, with its SHA-256 checksum
// and sizes recorded in a metadata sidecar (same name, .meta.json suffix).
// The checksum covers the uncompressed store bytes, so restore can verify
// integrity after decompression. Retention prunes the oldest backups beyond
// the configured count.
package backup

import (
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/reviewlake/internal/config"
	"github.com/tomtom215/reviewlake/internal/logging"
)

const (
	backupPrefix  = "amazon_reviews_backup_"
	backupSuffix  = ".json.gz"
	sidecarSuffix = ".meta.json"

	// timestampLayout formats the backup creation time in the filename.
	timestampLayout = "20060102_150405"
)

// Info is the metadata sidecar for one backup.
type Info struct {
	Filename       string `json:"filename"`
	CreatedAt      string `json:"created_at"`
	StorePath      string `json:"store_path"`
	StoreBytes     int64  `json:"store_bytes"`
	ArchiveBytes   int64  `json:"archive_bytes"`
	SHA256         string `json:"sha256"`
	RetentionCount int    `json:"retention_count"`
}

// Manager creates, lists, restores, and prunes store backups.
type Manager struct {
	cfg config.BackupConfig
	log zerolog.Logger
}

// NewManager creates a backup manager.
func NewManager(cfg config.BackupConfig) *Manager {
	return &Manager{
		cfg: cfg,
		log: logging.With().Str("component", "backup").Logger(),
	}
}

// Create backs up the store file at storePath: gzip copy plus metadata
// sidecar, then retention pruning. Returns the backup info.
func (m *Manager) Create(storePath string) (*Info, error) {
	if err := os.MkdirAll(m.cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create backup directory %s: %w", m.cfg.Dir, err)
	}

	now := time.Now()
	filename := backupPrefix + now.Format(timestampLayout) + backupSuffix
	archivePath := filepath.Join(m.cfg.Dir, filename)

	storeBytes, checksum, err := compressStore(storePath, archivePath)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Filename:       filename,
		CreatedAt:      now.UTC().Format(time.RFC3339),
		StorePath:      storePath,
		StoreBytes:     storeBytes,
		SHA256:         checksum,
		RetentionCount: m.cfg.MaxBackups,
	}
	if stat, err := os.Stat(archivePath); err == nil {
		info.ArchiveBytes = stat.Size()
	}

	if err := writeSidecar(archivePath, info); err != nil {
		// A backup without its sidecar is not trustworthy.
		_ = os.Remove(archivePath)
		return nil, err
	}

	m.log.Info().
		Str("backup", filename).
		Str("store_size", humanize.Bytes(uint64(storeBytes))).
		Str("archive_size", humanize.Bytes(uint64(info.ArchiveBytes))).
		Msg("Backup created")

	if err := m.prune(); err != nil {
		return info, err
	}
	return info, nil
}

// List returns the existing backups, newest first. Backups whose sidecar is
// missing or undecodable are listed from the filename alone.
func (m *Manager) List() ([]Info, error) {
	archives, err := filepath.Glob(filepath.Join(m.cfg.Dir, backupPrefix+"*"+backupSuffix))
	if err != nil {
		return nil, fmt.Errorf("list backups in %s: %w", m.cfg.Dir, err)
	}

	infos := make([]Info, 0, len(archives))
	for _, archive := range archives {
		info, err := readSidecar(archive)
		if err != nil {
			info = Info{Filename: filepath.Base(archive)}
			if stat, statErr := os.Stat(archive); statErr == nil {
				info.ArchiveBytes = stat.Size()
			}
		}
		infos = append(infos, info)
	}

	// Filenames embed the creation timestamp, so name order is time order.
	sort.Slice(infos, func(i, j int) bool { return infos[i].Filename > infos[j].Filename })
	return infos, nil
}

// compressStore gzips the store file into archivePath, returning the
// uncompressed size and the SHA-256 of the uncompressed bytes.
func compressStore(storePath, archivePath string) (int64, string, error) {
	src, err := os.Open(storePath)
	if err != nil {
		return 0, "", fmt.Errorf("open store file %s: %w", storePath, err)
	}
	defer src.Close()

	dst, err := os.Create(archivePath)
	if err != nil {
		return 0, "", fmt.Errorf("create backup file %s: %w", archivePath, err)
	}

	gz := gzip.NewWriter(dst)
	hasher := sha256.New()

	written, err := io.Copy(io.MultiWriter(gz, hasher), src)
	if cerr := gz.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if cerr := dst.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(archivePath)
		return 0, "", fmt.Errorf("compress store file: %w", err)
	}

	return written, hex.EncodeToString(hasher.Sum(nil)), nil
}

// sidecarPath derives the metadata sidecar path for an archive.
func sidecarPath(archivePath string) string {
	return strings.TrimSuffix(archivePath, backupSuffix) + sidecarSuffix
}

func writeSidecar(archivePath string, info *Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup metadata: %w", err)
	}
	path := sidecarPath(archivePath)
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("write backup metadata %s: %w", path, err)
	}
	return nil
}

func readSidecar(archivePath string) (Info, error) {
	data, err := os.ReadFile(sidecarPath(archivePath))
	if err != nil {
		return Info{}, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, fmt.Errorf("decode backup metadata: %w", err)
	}
	return info, nil
}
