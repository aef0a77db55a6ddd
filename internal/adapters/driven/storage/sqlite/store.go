// Package sqlite persists pipeline state (fingerprints, run history)
// in a SQLite database under the docs output tree.
//
// The database is a disposable cache: when it cannot be opened or
// migrated, it is rebuilt empty and the run proceeds with full
// reprocessing instead of failing.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docfold/docfold-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docfold/docfold-cli/internal/core/domain"
	"github.com/docfold/docfold-cli/internal/core/ports/driven"
	"github.com/docfold/docfold-cli/internal/logger"
)

// DefaultFileName is the database file name inside the state directory.
const DefaultFileName = "state.db"

// Store is a SQLite-based storage that provides access to the
// fingerprint and run store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified state directory.
// A corrupt database file is removed and recreated empty; corruption is
// recovered, never fatal.
func NewStore(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating state directory: %w", domain.ErrStorageFailure, err)
	}

	dbPath := filepath.Join(stateDir, DefaultFileName)

	s, err := open(dbPath)
	if err == nil {
		return s, nil
	}

	// Treat an unreadable cache as empty: drop the file and start over.
	logger.Warn("fingerprint cache unreadable, rebuilding empty: %v",
		fmt.Errorf("%w: %w", domain.ErrCacheCorruption, err))
	if rmErr := os.Remove(dbPath); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("%w: removing corrupt database: %w", domain.ErrStorageFailure, rmErr)
	}

	s, err = open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reopening database: %w", domain.ErrStorageFailure, err)
	}
	return s, nil
}

func open(dbPath string) (*Store, error) {
	// WAL mode for better concurrency between pool workers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// FingerprintStore returns a FingerprintStore interface backed by this store.
func (s *Store) FingerprintStore() driven.FingerprintStore {
	return &fingerprintStore{store: s}
}

// RunStore returns a RunStore interface backed by this store.
func (s *Store) RunStore() driven.RunStore {
	return &runStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Fingerprint Store ====================

// fingerprintStore implements driven.FingerprintStore.
type fingerprintStore struct {
	store *Store
}

var _ driven.FingerprintStore = (*fingerprintStore)(nil)

// Get retrieves the stored fingerprint for a path.
func (f *fingerprintStore) Get(ctx context.Context, path string) (string, error) {
	var fingerprint string
	err := f.store.db.QueryRowContext(ctx,
		"SELECT fingerprint FROM fingerprints WHERE path = ?", path,
	).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting fingerprint: %w", err)
	}
	return fingerprint, nil
}

// Save stores or updates the fingerprint for a path. The upsert is a
// single statement, so the record is never partially written.
func (f *fingerprintStore) Save(ctx context.Context, path, fingerprint string) error {
	_, err := f.store.db.ExecContext(ctx, `
		INSERT INTO fingerprints (path, fingerprint, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			updated_at = excluded.updated_at
	`, path, fingerprint, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving fingerprint: %w", err)
	}
	return nil
}

// Delete removes the record for a path.
func (f *fingerprintStore) Delete(ctx context.Context, path string) error {
	_, err := f.store.db.ExecContext(ctx, "DELETE FROM fingerprints WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("deleting fingerprint: %w", err)
	}
	return nil
}

// Paths lists all recorded paths.
func (f *fingerprintStore) Paths(ctx context.Context) ([]string, error) {
	rows, err := f.store.db.QueryContext(ctx, "SELECT path FROM fingerprints ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("listing fingerprints: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scanning fingerprint row: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// ==================== Run Store ====================

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save records a completed run.
func (r *runStore) Save(ctx context.Context, record domain.RunRecord) error {
	warningsJSON, err := json.Marshal(record.Warnings)
	if err != nil {
		return fmt.Errorf("marshalling warnings: %w", err)
	}

	_, err = r.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, root, started_at, finished_at,
			files_total, files_unchanged, files_generated, files_warned, files_failed, warnings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.Root, record.StartedAt.UTC(), record.FinishedAt.UTC(),
		record.FilesTotal, record.FilesUnchanged, record.FilesGenerated,
		record.FilesWarned, record.FilesFailed, string(warningsJSON))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Recent returns the most recent runs, newest first.
func (r *runStore) Recent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.store.db.QueryContext(ctx, `
		SELECT id, root, started_at, finished_at,
			files_total, files_unchanged, files_generated, files_warned, files_failed, warnings
		FROM runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var records []domain.RunRecord
	for rows.Next() {
		var rec domain.RunRecord
		var warningsJSON string
		if err := rows.Scan(&rec.ID, &rec.Root, &rec.StartedAt, &rec.FinishedAt,
			&rec.FilesTotal, &rec.FilesUnchanged, &rec.FilesGenerated,
			&rec.FilesWarned, &rec.FilesFailed, &warningsJSON); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		if err := json.Unmarshal([]byte(warningsJSON), &rec.Warnings); err != nil {
			return nil, fmt.Errorf("unmarshalling warnings: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
