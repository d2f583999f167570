// Package localstore is the client-session persistence layer: a small
// key-value store holding JSON documents under a handful of well-known keys
// (cart, order history, profile). Values are wrapped in a versioned envelope
// so a schema change can be migrated explicitly instead of silently
// reinterpreting old data.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Well-known keys. Each is an independent JSON document; there is no
// transaction spanning more than one key.
const (
	KeyCart    = "cart"
	KeyOrders  = "orders"
	KeyProfile = "profile"
)

// CurrentVersion is the schema version written into every envelope.
const CurrentVersion = 1

// Backend is the raw byte-level storage an Adapter sits on top of.
type Backend interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// envelope wraps every persisted value with its schema version.
type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// MigrateFunc rewrites a payload from one schema version to the next.
type MigrateFunc func(data json.RawMessage) (json.RawMessage, error)

// Adapter gives typed JSON access over a Backend.
//
// Read never fails the caller: an absent key, corrupt payload, or failed
// migration leaves the destination untouched, logs the problem, and reports
// false so the caller falls back to its default value.
type Adapter struct {
	backend    Backend
	log        *slog.Logger
	loaded     atomic.Bool
	migrations map[migrationKey]MigrateFunc
}

type migrationKey struct {
	key  string
	from int
}

func NewAdapter(backend Backend, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		backend:    backend,
		log:        log,
		migrations: make(map[migrationKey]MigrateFunc),
	}
}

// RegisterMigration installs the rewrite applied to values of the given key
// stored at version from, lifting them to from+1. Chains are applied until
// CurrentVersion is reached.
func (a *Adapter) RegisterMigration(key string, from int, fn MigrateFunc) {
	a.migrations[migrationKey{key: key, from: from}] = fn
}

// Hydrate performs the initial load pass. Once it returns, Loaded reports
// true and readers can trust the store over their in-memory defaults.
func (a *Adapter) Hydrate(ctx context.Context) error {
	for _, key := range []string{KeyCart, KeyOrders, KeyProfile} {
		if _, _, err := a.backend.Get(ctx, key); err != nil {
			return fmt.Errorf("localstore: hydrate %q: %w", key, err)
		}
	}
	a.loaded.Store(true)
	return nil
}

// Loaded reports whether the hydration pass has completed.
func (a *Adapter) Loaded() bool {
	return a.loaded.Load()
}

// Read unmarshals the value stored under key into out. It returns false when
// the key is absent or the stored payload is unusable; out is left untouched
// in that case so the caller's default survives.
func (a *Adapter) Read(ctx context.Context, key string, out any) bool {
	raw, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		a.log.WarnContext(ctx, "localstore read failed, using default", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		a.log.WarnContext(ctx, "localstore payload corrupt, using default", "key", key, "error", err)
		return false
	}

	data := env.Data
	for v := env.Version; v < CurrentVersion; v++ {
		fn, ok := a.migrations[migrationKey{key: key, from: v}]
		if !ok {
			a.log.WarnContext(ctx, "localstore has no migration path, using default",
				"key", key, "stored_version", env.Version, "missing_from", v)
			return false
		}
		data, err = fn(data)
		if err != nil {
			a.log.WarnContext(ctx, "localstore migration failed, using default",
				"key", key, "from", v, "error", err)
			return false
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		a.log.WarnContext(ctx, "localstore value corrupt, using default", "key", key, "error", err)
		return false
	}
	return true
}

// Write persists the value under key at the current schema version.
func (a *Adapter) Write(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: marshal %q: %w", key, err)
	}
	raw, err := json.Marshal(envelope{Version: CurrentVersion, Data: data})
	if err != nil {
		return fmt.Errorf("localstore: marshal envelope %q: %w", key, err)
	}
	if err := a.backend.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("localstore: write %q: %w", key, err)
	}
	return nil
}

// Remove deletes the value stored under key, if any.
func (a *Adapter) Remove(ctx context.Context, key string) error {
	if err := a.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("localstore: remove %q: %w", key, err)
	}
	return nil
}
