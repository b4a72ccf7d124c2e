package storage

import (
	"context"
	"fmt"
)

// schemaStatements are applied in order on startup. Statements are
// idempotent so restarts are safe without a separate migration tool.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cvs (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		summary     TEXT NOT NULL DEFAULT '',
		skills      JSONB NOT NULL DEFAULT '[]',
		experience  JSONB NOT NULL DEFAULT '[]',
		education   JSONB NOT NULL DEFAULT '[]',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_cvs_user_id ON cvs (user_id)`,

	`CREATE TABLE IF NOT EXISTS schedule_events (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'pending',
		title        TEXT NOT NULL,
		location     TEXT NOT NULL DEFAULT '',
		notes        TEXT NOT NULL DEFAULT '',
		participants JSONB NOT NULL DEFAULT '[]',
		starts_at    TIMESTAMPTZ NOT NULL,
		ends_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_schedule_events_starts_at ON schedule_events (starts_at)`,

	`CREATE TABLE IF NOT EXISTS schedule_recurrences (
		id               TEXT PRIMARY KEY,
		type             TEXT NOT NULL,
		title            TEXT NOT NULL,
		location         TEXT NOT NULL DEFAULT '',
		rrule            TEXT NOT NULL,
		dtstart          TIMESTAMPTZ NOT NULL,
		duration_minutes INT NOT NULL
	)`,
}

// EnsureSchema creates the tables and indexes the service needs.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	s.logger.Info("Database schema ensured")
	return nil
}
