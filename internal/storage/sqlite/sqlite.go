// Package sqlite is a Store backed by a single-table sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/and161185/signup-wizard/internal/errs"
	"github.com/and161185/signup-wizard/internal/migrate"
)

// Store keeps values in the kv table.
type Store struct {
	db *sql.DB
}

// Open creates the parent directory, opens the database and runs migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := migrate.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Get selects the value for key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	const q = `SELECT value FROM kv WHERE key = ?`
	var v string
	err := s.db.QueryRowContext(ctx, q, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	const q = `
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err := s.db.ExecContext(ctx, q, key, value)
	return err
}

// Remove deletes the row for key.
func (s *Store) Remove(ctx context.Context, key string) error {
	const q = `DELETE FROM kv WHERE key = ?`
	_, err := s.db.ExecContext(ctx, q, key)
	return err
}
