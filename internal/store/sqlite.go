package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"fortio.org/log"
)

// SchemaVersion is the current schema version.
const SchemaVersion = "1"

// SQLite is a SQLite-backed store.
type SQLite struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLite opens or creates a store at the given path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS metadata (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create metadata: %w", err)
	}

	s := &SQLite{db: db}

	version, err := s.getMetadataUnlocked("schema_version")
	if err != nil {
		db.Close()
		return nil, err
	}

	switch version {
	case "":
		log.Infof("store: creating schema v%s in %s", SchemaVersion, path)
		if err := s.createSchema(); err != nil {
			db.Close()
			return nil, err
		}
		if err := s.setMetadataUnlocked("schema_version", SchemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	case SchemaVersion:
		log.Debugf("store: opened %s (schema v%s)", path, version)
	default:
		db.Close()
		return nil, fmt.Errorf("store: unsupported schema version: %s (expected %s)", version, SchemaVersion)
	}

	return s, nil
}

func (s *SQLite) createSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS bindings (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE TABLE IF NOT EXISTS binding_versions (
			name TEXT NOT NULL,
			version INTEGER NOT NULL,
			value TEXT NOT NULL,
			ts TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (name, version)
		);
	`)
	if err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Get retrieves the text stored under name.
func (s *SQLite) Get(name string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var text string
	err := s.db.QueryRow("SELECT value FROM bindings WHERE name = ?", name).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// Put stores text under name. A changed value appends a version row.
func (s *SQLite) Put(name, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	var old string
	err = tx.QueryRow("SELECT value FROM bindings WHERE name = ?", name).Scan(&old)
	switch {
	case err == nil && old == text:
		return nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO bindings (name, value, updated) VALUES (?, ?, datetime('now'))
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated = excluded.updated
	`, name, text)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO binding_versions (name, version, value)
		SELECT ?, COALESCE(MAX(version), 0) + 1, ? FROM binding_versions WHERE name = ?
	`, name, text, name)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a name and its history.
func (s *SQLite) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM bindings WHERE name = ?", name); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM binding_versions WHERE name = ?", name)
	return err
}

// Names returns every stored name in sorted order.
func (s *SQLite) Names() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query("SELECT name FROM bindings ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// GetHistory returns up to limit versions of name, newest first.
func (s *SQLite) GetHistory(name string, limit int) ([]VersionEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit < 1 {
		limit = -1 // no limit
	}
	rows, err := s.db.Query(`
		SELECT version, value, ts FROM binding_versions
		WHERE name = ? ORDER BY version DESC LIMIT ?
	`, name, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []VersionEntry
	for rows.Next() {
		var v VersionEntry
		if err := rows.Scan(&v.Version, &v.Value, &v.Ts); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetMetadata retrieves a metadata value by key.
func (s *SQLite) GetMetadata(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMetadataUnlocked(key)
}

// getMetadataUnlocked retrieves metadata without locking (caller must hold lock).
func (s *SQLite) getMetadataUnlocked(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// setMetadataUnlocked stores metadata without locking (caller must hold lock).
func (s *SQLite) setMetadataUnlocked(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
