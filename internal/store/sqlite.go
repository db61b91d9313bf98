package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
    bucket TEXT NOT NULL,
    id TEXT NOT NULL,
    payload BLOB NOT NULL,
    updated_at INTEGER NOT NULL,
    PRIMARY KEY (bucket, id)
);
`

// DB is a SQLite database holding JSON records in named buckets.
type DB struct {
	sqlDB *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (db *DB) Close() error {
	if db == nil || db.sqlDB == nil {
		return nil
	}
	return db.sqlDB.Close()
}

// SQLiteStore is a Store backed by one bucket of a DB.
type SQLiteStore[T any] struct {
	db     *DB
	bucket string
}

// Bucket returns a store for values of type T kept under name.
func Bucket[T any](db *DB, name string) *SQLiteStore[T] {
	return &SQLiteStore[T]{db: db, bucket: name}
}

func (s *SQLiteStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	var payload []byte
	err := s.db.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM records WHERE bucket = ? AND id = ?`,
		s.bucket, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("get %s/%s: %w", s.bucket, id, err)
	}
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return zero, false, fmt.Errorf("decode %s/%s: %w", s.bucket, id, err)
	}
	return v, true, nil
}

func (s *SQLiteStore[T]) Put(ctx context.Context, id string, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", s.bucket, id, err)
	}
	_, err = s.db.sqlDB.ExecContext(ctx,
		`INSERT INTO records (bucket, id, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (bucket, id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.bucket, id, payload, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.bucket, id, err)
	}
	return nil
}

func (s *SQLiteStore[T]) NewID() string {
	return newID()
}
