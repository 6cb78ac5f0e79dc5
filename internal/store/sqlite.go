package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"
)

// SQLiteMedium implements Medium using a single SQLite table.
type SQLiteMedium struct {
	db   *sql.DB
	opts Options
}

// BlobInfo describes a stored value.
type BlobInfo struct {
	Key       string    `json:"key"`
	SizeBytes int       `json:"size_bytes"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSQLiteMedium opens or creates a SQLite database at the given path.
func NewSQLiteMedium(dbPath string, opts Options) (*SQLiteMedium, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "create db dir", goerr.V("dir", dir))
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, goerr.Wrap(err, "open db", goerr.V("path", dbPath))
	}

	m := &SQLiteMedium{db: db, opts: opts}
	if err := m.migrate(); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "migrate", goerr.V("path", dbPath))
	}

	return m, nil
}

func (m *SQLiteMedium) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blobs (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := m.db.Exec(schema)
	return err
}

func (m *SQLiteMedium) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := m.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "select blob", goerr.V("key", key))
	}
	return value, true, nil
}

func (m *SQLiteMedium) Set(ctx context.Context, key string, value []byte) error {
	if err := checkQuota(m.opts, key, value); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := m.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now)
	if err != nil {
		return goerr.Wrap(err, "upsert blob", goerr.V("key", key))
	}
	return nil
}

func (m *SQLiteMedium) Delete(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return goerr.Wrap(err, "delete blob", goerr.V("key", key))
	}
	return nil
}

// Stat reports the size and update time of the value at key. ok is false if
// the key is absent.
func (m *SQLiteMedium) Stat(ctx context.Context, key string) (*BlobInfo, bool, error) {
	var size int
	var updatedAt string
	err := m.db.QueryRowContext(ctx,
		`SELECT length(value), updated_at FROM blobs WHERE key = ?`, key).Scan(&size, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "stat blob", goerr.V("key", key))
	}

	ts, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, false, goerr.Wrap(err, "parse blob updated_at",
			goerr.V("key", key), goerr.V("updated_at", updatedAt))
	}
	return &BlobInfo{Key: key, SizeBytes: size, UpdatedAt: ts}, true, nil
}

func (m *SQLiteMedium) Close() error {
	return m.db.Close()
}
