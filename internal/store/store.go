// Package store owns the embedded SQLite image that holds all entity state.
// It resolves the image at startup (cloud snapshot, persisted local image,
// bundled seed, or a fresh bootstrap), exposes the live GORM handle, and
// provides the persist/export/import lifecycle around the image file.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shelving/internal/apperr"

	_ "modernc.org/sqlite" // read-only validation opens, no cgo
)

// Config tells Open where the image lives and where it may come from.
type Config struct {
	// Path is the persisted image file. Created on first run.
	Path string
	// SeedPath is an optional bundled default image copied to Path when no
	// persisted image exists yet.
	SeedPath string
	// SyncID is an optional cloud snapshot id. When set, the snapshot is
	// fetched and substitutes for the local image.
	SyncID string
}

// SnapshotFetcher retrieves a remotely hosted image copy. A (nil, nil)
// return means the snapshot does not exist or the service is unreachable;
// the store then falls back to local loading.
type SnapshotFetcher interface {
	Download(ctx context.Context, id string) ([]byte, error)
}

// Store is the sole owner of the database image. All entity mutations go
// through repositories holding a *Store, and every mutation is followed by
// Persist before the API reports success.
type Store struct {
	cfg Config

	mu sync.RWMutex
	db *gorm.DB
}

// Open resolves the image per the load order (snapshot, local, seed, fresh),
// opens it, and applies the schema migration.
func Open(cfg Config, snapshots SnapshotFetcher) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("store: image path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if cfg.SyncID != "" && snapshots != nil {
		loadSnapshot(cfg, snapshots)
	}

	if _, err := os.Stat(cfg.Path); errors.Is(err, os.ErrNotExist) {
		if cfg.SeedPath != "" {
			if data, seedErr := os.ReadFile(cfg.SeedPath); seedErr == nil {
				if writeErr := os.WriteFile(cfg.Path, data, 0o644); writeErr != nil {
					return nil, fmt.Errorf("failed to copy seed image: %w", writeErr)
				}
				log.Printf("Seed image %s copied to %s", cfg.SeedPath, cfg.Path)
			}
		}
	}

	db, err := openImage(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}

	s := &Store{cfg: cfg, db: db}
	if err := s.Persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// loadSnapshot fetches a cloud snapshot and, if it is a valid image,
// installs it as the local image. Failures are non-fatal: the store falls
// back to whatever is on disk.
func loadSnapshot(cfg Config, snapshots SnapshotFetcher) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	data, err := snapshots.Download(ctx, cfg.SyncID)
	if err != nil {
		log.Printf("Cloud snapshot %s failed: %v; falling back to local image", cfg.SyncID, err)
		return
	}
	if data == nil {
		log.Printf("Cloud snapshot %s expired or invalid; falling back to local image", cfg.SyncID)
		return
	}
	if err := ValidateImage(data); err != nil {
		log.Printf("Cloud snapshot %s is not a valid image: %v", cfg.SyncID, err)
		return
	}
	if err := os.WriteFile(cfg.Path, data, 0o644); err != nil {
		log.Printf("Failed to install cloud snapshot: %v", err)
		return
	}
	log.Printf("Cloud snapshot %s loaded", cfg.SyncID)
}

func openImage(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database image %s: %w", path, err)
	}
	return db, nil
}

// DB returns the live GORM handle. Repositories must call this per
// operation rather than caching the handle, because Import swaps it.
func (s *Store) DB() *gorm.DB {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db
}

// Persist forces the image file on disk into a complete, self-contained
// state. Mutating services call it after every repository write; a failure
// means the operation is reported as failed to the caller.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		return fmt.Errorf("failed to persist database image: %w", err)
	}
	return nil
}

// Export returns the serialized image bytes.
func (s *Store) Export() ([]byte, error) {
	if err := s.Persist(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read database image: %w", err)
	}
	return data, nil
}

// Import replaces the live image with data after validating that it is a
// well-formed database image. The existing store is untouched on rejection.
func (s *Store) Import(data []byte) error {
	if err := ValidateImage(data); err != nil {
		return apperr.Invalid("invalid database file")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := closeHandle(s.db); err != nil {
		return fmt.Errorf("failed to detach current image: %w", err)
	}

	tmp := s.cfg.Path + ".restore"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.db, _ = openImage(s.cfg.Path) // reattach what we had
		return fmt.Errorf("failed to write restored image: %w", err)
	}
	if err := os.Rename(tmp, s.cfg.Path); err != nil {
		s.db, _ = openImage(s.cfg.Path)
		return fmt.Errorf("failed to replace image: %w", err)
	}
	// A WAL file from the previous image must not shadow the restored data.
	os.Remove(s.cfg.Path + "-wal")
	os.Remove(s.cfg.Path + "-shm")

	db, err := openImage(s.cfg.Path)
	if err != nil {
		return err
	}
	if err := Migrate(db); err != nil {
		return err
	}
	s.db = db
	return nil
}

// Close releases the image handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return closeHandle(s.db)
}

func closeHandle(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ValidateImage confirms that data is a readable database image by opening
// it read-only from a scratch file and querying the catalog.
func ValidateImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty image")
	}

	scratch, err := os.CreateTemp("", "shelving-validate-*.db")
	if err != nil {
		return fmt.Errorf("failed to stage image for validation: %w", err)
	}
	defer os.Remove(scratch.Name())
	if _, err := scratch.Write(data); err != nil {
		scratch.Close()
		return fmt.Errorf("failed to stage image for validation: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", scratch.Name()))
	if err != nil {
		return fmt.Errorf("not a database image: %w", err)
	}
	defer db.Close()

	var tables int
	if err := db.QueryRow("SELECT count(*) FROM sqlite_master").Scan(&tables); err != nil {
		return fmt.Errorf("not a database image: %w", err)
	}
	return nil
}
