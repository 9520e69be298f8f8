// Reviewlake - Amazon Review Warehouse and Exploratory Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reviewlake

package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tomtom215/reviewlake/internal/config"
)

func newTestManager(t *testing.T, maxBackups int) (*Manager, string) {
	t.Helper()
	storeDir := t.TempDir()
	m := NewManager(config.BackupConfig{
		Dir:        filepath.Join(storeDir, "backups"),
		MaxBackups: maxBackups,
	})

	storePath := filepath.Join(storeDir, "amazon_reviews.json")
	if err := os.WriteFile(storePath, []byte(`{"reviews": [{"seq": 1}]}`), 0o640); err != nil {
		t.Fatal(err)
	}
	return m, storePath
}

func TestCreateBackup(t *testing.T) {
	m, storePath := newTestManager(t, 7)

	info, err := m.Create(storePath)
	if err != nil {
		t.Fatalf("Create() = %v", err)
	}

	if !strings.HasPrefix(info.Filename, backupPrefix) || !strings.HasSuffix(info.Filename, backupSuffix) {
		t.Errorf("Filename = %q", info.Filename)
	}
	if info.SHA256 == "" {
		t.Error("SHA256 not recorded")
	}
	if info.StoreBytes == 0 || info.ArchiveBytes == 0 {
		t.Errorf("sizes = %d store / %d archive, want non-zero", info.StoreBytes, info.ArchiveBytes)
	}

	archivePath := filepath.Join(m.cfg.Dir, info.Filename)
	if _, err := os.Stat(archivePath); err != nil {
		t.Errorf("archive not written: %v", err)
	}
	if _, err := os.Stat(sidecarPath(archivePath)); err != nil {
		t.Errorf("sidecar not written: %v", err)
	}
}

func TestCreateBackupMissingStore(t *testing.T) {
	m, _ := newTestManager(t, 7)
	if _, err := m.Create(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("Create() on missing store succeeded, want error")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	m, storePath := newTestManager(t, 7)
	original, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatal(err)
	}

	info, err := m.Create(storePath)
	if err != nil {
		t.Fatal(err)
	}

	// Corrupt the live store, then restore over it.
	if err := os.WriteFile(storePath, []byte("{broken"), 0o640); err != nil {
		t.Fatal(err)
	}
	if err := m.Restore(filepath.Join(m.cfg.Dir, info.Filename), storePath); err != nil {
		t.Fatalf("Restore() = %v", err)
	}

	restored, err := os.ReadFile(storePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(restored) != string(original) {
		t.Errorf("restored content differs:\n%s\nwant:\n%s", restored, original)
	}
}

func TestRestoreChecksumMismatch(t *testing.T) {
	m, storePath := newTestManager(t, 7)
	info, err := m.Create(storePath)
	if err != nil {
		t.Fatal(err)
	}

	// Tamper with the recorded checksum.
	archivePath := filepath.Join(m.cfg.Dir, info.Filename)
	sidecar, err := os.ReadFile(sidecarPath(archivePath))
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(sidecar), info.SHA256, strings.Repeat("0", 64), 1)
	if err := os.WriteFile(sidecarPath(archivePath), []byte(tampered), 0o640); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(t.TempDir(), "restored.json")
	if err := m.Restore(archivePath, dest); err == nil {
		t.Fatal("Restore() with bad checksum succeeded, want error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination written despite checksum mismatch: %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	m, storePath := newTestManager(t, 7)

	// Distinct filenames need distinct timestamps at second resolution, so
	// fake the archives directly instead of sleeping through Create.
	if err := os.MkdirAll(m.cfg.Dir, 0o750); err != nil {
		t.Fatal(err)
	}
	for _, stamp := range []string{"20260101_000000", "20260301_000000", "20260201_000000"} {
		name := backupPrefix + stamp + backupSuffix
		if err := os.WriteFile(filepath.Join(m.cfg.Dir, name), []byte("x"), 0o640); err != nil {
			t.Fatal(err)
		}
	}
	_ = storePath

	infos, err := m.List()
	if err != nil {
		t.Fatalf("List() = %v", err)
	}
	if len(infos) != 3 {
		t.Fatalf("List() = %d backups, want 3", len(infos))
	}
	if !strings.Contains(infos[0].Filename, "20260301") || !strings.Contains(infos[2].Filename, "20260101") {
		t.Errorf("not newest-first: %v", infos)
	}
	// Sidecarless archives still list with their size.
	if infos[0].ArchiveBytes != 1 {
		t.Errorf("sidecarless archive bytes = %d, want 1", infos[0].ArchiveBytes)
	}
}

func TestRetentionPrunesOldest(t *testing.T) {
	m, storePath := newTestManager(t, 2)

	if err := os.MkdirAll(m.cfg.Dir, 0o750); err != nil {
		t.Fatal(err)
	}
	for _, stamp := range []string{"20200101_000000", "20200102_000000"} {
		name := backupPrefix + stamp + backupSuffix
		if err := os.WriteFile(filepath.Join(m.cfg.Dir, name), []byte("old"), 0o640); err != nil {
			t.Fatal(err)
		}
	}

	// Creating a third backup with retention 2 prunes the oldest.
	if _, err := m.Create(storePath); err != nil {
		t.Fatal(err)
	}

	infos, err := m.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 2 {
		t.Fatalf("List() = %d backups after prune, want 2", len(infos))
	}
	for _, info := range infos {
		if strings.Contains(info.Filename, "20200101") {
			t.Errorf("oldest backup survived pruning: %v", info.Filename)
		}
	}
}
