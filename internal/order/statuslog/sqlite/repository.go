// Package sqlite provides a SQLite-backed implementation of
// statuslog.Repository.
//
// WAL mode is enabled on Open so timeline reads never block the writes the
// order service makes on every transition.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crumbsugar/storefront/internal/order/statuslog"

	// Register the pure-Go SQLite driver (no CGO, Alpine-friendly).
	_ "modernc.org/sqlite"
)

// schema is the DDL executed once on startup. The table is append-only:
// each row is one immutable transition in an order's lifecycle.
const schema = `
CREATE TABLE IF NOT EXISTS order_status_log (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Business identifier: the CS-prefixed order ID. Not UNIQUE because
    -- multiple rows exist per order (one per transition).
    order_id  TEXT NOT NULL,

    -- Lifecycle state the order entered.
    status    TEXT NOT NULL,

    -- Transition context (cancellation reason, acting role).
    note      TEXT NOT NULL DEFAULT '',

    -- W3C trace_id / span_id of the request that caused the transition.
    trace_id  TEXT NOT NULL DEFAULT '',
    span_id   TEXT NOT NULL DEFAULT '',

    -- Wall-clock timestamp (RFC3339 stored as TEXT, SQLite idiom).
    at        TEXT NOT NULL
);

-- Index for the timeline query: "all transitions for order X in order".
CREATE INDEX IF NOT EXISTS idx_order_status_log_order_id ON order_status_log(order_id, at);
`

// Repository is the SQLite implementation of statuslog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("statuslog: open %q: %w", path, err)
	}

	// Single writer connection; readers come from the pool.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("statuslog: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Append inserts a new transition row. Safe to call concurrently.
func (r *Repository) Append(ctx context.Context, entry *statuslog.Entry) error {
	const q = `
		INSERT INTO order_status_log (order_id, status, note, trace_id, span_id, at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.Status,
		entry.Note,
		entry.TraceID,
		entry.SpanID,
		entry.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("statuslog: append for %q: %w", entry.OrderID, err)
	}
	return nil
}

// Timeline returns every transition for one order, oldest first.
func (r *Repository) Timeline(ctx context.Context, orderID string) ([]statuslog.Entry, error) {
	const q = `
		SELECT order_id, status, note, trace_id, span_id, at
		FROM   order_status_log
		WHERE  order_id = ?
		ORDER  BY at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("statuslog: timeline for %q: %w", orderID, err)
	}
	defer rows.Close()

	var entries []statuslog.Entry
	for rows.Next() {
		var e statuslog.Entry
		var at string
		if err := rows.Scan(&e.OrderID, &e.Status, &e.Note, &e.TraceID, &e.SpanID, &at); err != nil {
			return nil, fmt.Errorf("statuslog: scan for %q: %w", orderID, err)
		}
		e.At, err = time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("statuslog: parse timestamp %q: %w", at, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
