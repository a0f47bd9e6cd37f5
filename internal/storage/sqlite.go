package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteFile is the database file name inside the data directory.
const SQLiteFile = "headache.db"

// SQLiteBackend keeps records in a single key-value table.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (and migrates) <dir>/headache.db.
func NewSQLiteBackend(ctx context.Context, dir string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dir, SQLiteFile))
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	b := &SQLiteBackend{db: db}
	if err := b.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return b, nil
}

func (b *SQLiteBackend) migrate(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			expires_at INTEGER NOT NULL DEFAULT 0,
			path       TEXT NOT NULL DEFAULT '/'
		)`)
	return err
}

// Get loads the record for key.
func (b *SQLiteBackend) Get(ctx context.Context, key string) (Record, error) {
	var (
		rec     Record
		expires int64
	)
	err := b.db.QueryRowContext(ctx,
		`SELECT value, expires_at, path FROM kv WHERE key = ?`, key,
	).Scan(&rec.Value, &expires, &rec.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("storage: query %s: %w", key, err)
	}
	if expires > 0 {
		rec.Expires = time.Unix(expires, 0)
	}
	return rec, nil
}

// Put upserts the record for key.
func (b *SQLiteBackend) Put(ctx context.Context, key string, rec Record) error {
	var expires int64
	if !rec.Expires.IsZero() {
		expires = rec.Expires.Unix()
	}
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, expires_at, path) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			path = excluded.path`,
		key, rec.Value, expires, rec.Path)
	if err != nil {
		return fmt.Errorf("storage: upsert %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
