// Package store persists plugin credentials and settings in SQLite.
//
// It backs the two narrow storage contracts the scrobbler core consumes:
// a string key/value credential store scoped per plugin name, and a table
// of JSON-serialized settings records keyed by name.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Credentials is async-capable key/value persistence for secrets.
type Credentials interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Settings persists named JSON-serializable records.
type Settings interface {
	// GetOrCreate loads the record named name into v. If no record exists,
	// v is left at its zero value and a fresh record is written.
	GetOrCreate(ctx context.Context, name string, v any) error
	Set(ctx context.Context, name string, v any) error
}

// Store implements Credentials and Settings on a single SQLite database.
type Store struct {
	db    *sql.DB
	scope string
}

var _ Credentials = (*Store)(nil)
var _ Settings = (*Store)(nil)

// Open opens (creating if needed) the store database at dbPath.
// Credentials are scoped by the given plugin name so multiple plugin
// instances can share one database file.
func Open(dbPath, scope string) (*Store, error) {
	if scope == "" {
		return nil, fmt.Errorf("store: scope is required")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single connection keeps in-memory databases consistent and is
	// plenty for this access pattern.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA journal_mode = WAL",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS credentials (
			scope TEXT NOT NULL,
			key   TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (scope, key)
		);

		CREATE TABLE IF NOT EXISTS settings (
			name TEXT PRIMARY KEY,
			data TEXT NOT NULL
		);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &Store{db: db, scope: scope}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the credential stored under key. The boolean reports whether
// a value was present; absence is not an error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM credentials WHERE scope = ? AND key = ?",
		s.scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read credential %q: %w", key, err)
	}
	return value, true, nil
}

// Save stores value under key, replacing any previous value.
func (s *Store) Save(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO credentials (scope, key, value) VALUES (?, ?, ?) ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value",
		s.scope, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to save credential %q: %w", key, err)
	}
	return nil
}

// Remove deletes the credential stored under key. Removing an absent key
// is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM credentials WHERE scope = ? AND key = ?",
		s.scope, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove credential %q: %w", key, err)
	}
	return nil
}

// GetOrCreate loads the settings record named name into v, creating it
// from v's current (zero) value when missing.
func (s *Store) GetOrCreate(ctx context.Context, name string, v any) error {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM settings WHERE name = ?", name,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return s.Set(ctx, name, v)
	}
	if err != nil {
		return fmt.Errorf("failed to read settings %q: %w", name, err)
	}

	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("failed to decode settings %q: %w", name, err)
	}
	return nil
}

// Set stores v as the settings record named name.
func (s *Store) Set(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode settings %q: %w", name, err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO settings (name, data) VALUES (?, ?) ON CONFLICT (name) DO UPDATE SET data = excluded.data",
		name, string(data),
	)
	if err != nil {
		return fmt.Errorf("failed to save settings %q: %w", name, err)
	}
	return nil
}
