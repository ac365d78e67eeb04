// Package store writes a SQLite snapshot of a built index for inspection
// with ordinary SQL tools. The resolver never reads it back: the index is
// always rebuilt from the source files.
package store

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// migration is one schema step, applied once and recorded in schema_version.
type migration struct {
	version int
	ddl     string
}

var migrations = []migration{
	{1, schemaV1},
	{2, schemaV2},
}

var currentSchemaVersion = migrations[len(migrations)-1].version

// snapshotTables are cleared and refilled by every export, children first.
var snapshotTables = []string{"attachments", "corpus", "titles", "songs", "books", "sources"}

// Store wraps one snapshot database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the snapshot at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer; the export runs in a single transaction anyway
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SQLiteVersion reports the version of the embedded SQLite, or "" if the
// driver cannot be opened.
func SQLiteVersion() string {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return ""
	}
	defer db.Close()

	var version string
	if err := db.QueryRow("SELECT sqlite_version()").Scan(&version); err != nil {
		return ""
	}
	return version
}

// CheckIntegrity runs PRAGMA integrity_check on the snapshot.
func (s *Store) CheckIntegrity() error {
	var result string
	if err := s.db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("integrity check query failed: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

func (s *Store) migrate() error {
	version, err := s.schemaVersion()
	if err != nil {
		return err
	}
	if version >= currentSchemaVersion {
		return nil
	}

	return s.inTx(func(tx *sql.Tx) error {
		for _, m := range migrations {
			if m.version <= version {
				continue
			}
			if _, err := tx.Exec(m.ddl); err != nil {
				return fmt.Errorf("failed to apply schema v%d: %w", m.version, err)
			}
			if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
				return fmt.Errorf("failed to record schema v%d: %w", m.version, err)
			}
		}
		return nil
	})
}

// schemaVersion returns 0 for a fresh database.
func (s *Store) schemaVersion() (int, error) {
	var exists int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil || exists == 0 {
		return 0, err
	}

	var version int
	if err := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version); err != nil {
		return 0, err
	}
	return version, nil
}

// inTx runs fn in a transaction, rolling back on any error.
func (s *Store) inTx(fn func(*sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CountRows returns the number of rows in one of the snapshot tables.
func (s *Store) CountRows(table string) (int, error) {
	known := false
	for _, t := range snapshotTables {
		known = known || t == table
	}
	if !known {
		return 0, fmt.Errorf("unknown table %q", table)
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
