// Package sqlite provides a SQLite-backed localstore.Backend.
//
// WAL mode is enabled on Open so reads never block the write-through that
// follows every cart mutation.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps Docker (Alpine) builds simple.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    -- Well-known document name ("cart", "orders", "profile").
    key        TEXT PRIMARY KEY,

    -- JSON envelope: {"version": N, "data": ...}.
    value      TEXT NOT NULL,

    -- RFC3339 wall-clock time of the last write (TEXT, SQLite idiom).
    updated_at TEXT NOT NULL
);
`

// Backend is the SQLite implementation of localstore.Backend.
type Backend struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
//
//	backend, err := sqlite.Open("./data/storefront.db")
func Open(path string) (*Backend, error) {
	// The pure-Go driver takes _pragma query parameters. WAL enables
	// concurrent readers; busy_timeout waits for locks instead of failing.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Backend{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (b *Backend) Close() error {
	return b.db.Close()
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	const q = `SELECT value FROM kv_store WHERE key = ?`

	var value string
	err := b.db.QueryRowContext(ctx, q, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (b *Backend) Put(ctx context.Context, key string, value []byte) error {
	const q = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	_, err := b.db.ExecContext(ctx, q, key, string(value), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: put %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE key = ?`

	if _, err := b.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("sqlite: delete %q: %w", key, err)
	}
	return nil
}
