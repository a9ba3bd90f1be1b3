package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"versekeep/internal/telemetry"
)

// SQLiteStore is a durable key-value store of JSON documents. Reads never
// fail: a missing, corrupt, or literal "undefined"/"null" value degrades to
// the key's type-appropriate default so a bad entry can never take the app
// down or leak into callers as an error.
type SQLiteStore struct {
	db     *sql.DB
	logger *telemetry.JSONLogger
}

func NewSQLite(path string, logger *telemetry.JSONLogger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_ts TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Get returns the stored JSON for key, or the key's default when the entry
// is absent or unreadable. Corruption is logged, never surfaced.
func (s *SQLiteStore) Get(ctx context.Context, key string) json.RawMessage {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		return DefaultValue(key)
	case err != nil:
		s.logger.Error("store.get_failed", map[string]any{"key": key, "error": err.Error()})
		return DefaultValue(key)
	}
	if raw == "" || raw == "undefined" || raw == "null" || !json.Valid([]byte(raw)) {
		s.logger.Warn("store.value_corrupt", map[string]any{"key": key})
		return DefaultValue(key)
	}
	return json.RawMessage(raw)
}

// Set marshals v and upserts it under key. A nil value is refused with a
// warning so a transient nil can never overwrite good data.
func (s *SQLiteStore) Set(ctx context.Context, key string, v any) error {
	if v == nil {
		s.logger.Warn("store.set_refused", map[string]any{"key": key})
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value, updated_ts) VALUES(?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_ts = excluded.updated_ts`,
		key, string(b),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
