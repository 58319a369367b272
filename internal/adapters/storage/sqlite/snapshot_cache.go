// Package sqlite guarda localmente el último snapshot que la CLI bajó de la API,
// para poder calcular vistas sin red.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"medremind/internal/engine"
)

var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotCache guarda un snapshot por clave (p.ej. API_URL + usuario).
type SnapshotCache struct {
	db *sql.DB
}

// Open abre o crea la base en path.
func Open(path string) (*SnapshotCache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	c := &SnapshotCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache: %w", err)
	}
	return c, nil
}

func (c *SnapshotCache) migrate() error {
	_, err := c.db.Exec(`
	CREATE TABLE IF NOT EXISTS snapshots (
		cache_key   TEXT PRIMARY KEY,
		payload     TEXT NOT NULL,
		fetched_at  TEXT NOT NULL,
		saved_at    TEXT NOT NULL
	);
	`)
	return err
}

func (c *SnapshotCache) Close() error {
	return c.db.Close()
}

// Save reemplaza el snapshot de key.
func (c *SnapshotCache) Save(ctx context.Context, key string, s engine.Snapshot) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("cache key required")
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO snapshots (cache_key, payload, fetched_at, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at,
			saved_at = excluded.saved_at
	`, key, string(payload), s.FetchedAt.UTC().Format(time.RFC3339Nano), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// Load devuelve el snapshot de key o ErrNoSnapshot.
func (c *SnapshotCache) Load(ctx context.Context, key string) (engine.Snapshot, error) {
	var payload string
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE cache_key = ?`, strings.TrimSpace(key)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return engine.Snapshot{}, ErrNoSnapshot
	}
	if err != nil {
		return engine.Snapshot{}, err
	}

	var s engine.Snapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		return engine.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

// Delete borra el snapshot de key; no falla si no existe.
func (c *SnapshotCache) Delete(ctx context.Context, key string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM snapshots WHERE cache_key = ?`, strings.TrimSpace(key))
	return err
}
