package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS medications (
		id                TEXT PRIMARY KEY,
		owner_user_id     TEXT NOT NULL,
		name              TEXT NOT NULL,
		dosage            TEXT NOT NULL,
		times             JSONB NOT NULL DEFAULT '[]',
		start_date        DATE NOT NULL,
		duration          TEXT NOT NULL,
		current_supply    INTEGER,
		total_supply      INTEGER,
		refill_at         INTEGER NOT NULL DEFAULT 0,
		refill_reminder   BOOLEAN NOT NULL DEFAULT FALSE,
		reminder_enabled  BOOLEAN NOT NULL DEFAULT TRUE,
		color             TEXT NOT NULL DEFAULT '',
		last_refill_date  DATE,
		notes             TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL,
		updated_at        TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS medications_owner_idx ON medications (owner_user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS dose_history (
		id             TEXT PRIMARY KEY,
		owner_user_id  TEXT NOT NULL,
		medication_id  TEXT NOT NULL,
		taken          BOOLEAN NOT NULL,
		taken_at       TIMESTAMPTZ NOT NULL,
		recorded_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS dose_history_owner_idx ON dose_history (owner_user_id, taken_at DESC)`,
	`CREATE INDEX IF NOT EXISTS dose_history_medication_idx ON dose_history (owner_user_id, medication_id)`,
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
