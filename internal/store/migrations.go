package store

import (
	"context"
	"fmt"
)

// schema is the bootstrap DDL for a fresh database. Statements are
// idempotent so Migrate can run on every startup.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		notification_email TEXT NOT NULL DEFAULT '',
		search_api_key TEXT NOT NULL DEFAULT '',
		search_engine_id TEXT NOT NULL DEFAULT '',
		mail_configured BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS search_configs (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		keywords JSONB NOT NULL,
		search_logic TEXT NOT NULL DEFAULT 'AND',
		custom_logic TEXT NOT NULL DEFAULT '',
		cadence JSONB NOT NULL,
		location_filter TEXT NOT NULL DEFAULT '',
		job_sites JSONB NOT NULL DEFAULT '[]',
		max_job_age INTEGER NOT NULL DEFAULT 24,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_run TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS job_results (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		search_config_id TEXT,
		title TEXT NOT NULL,
		link TEXT NOT NULL,
		snippet TEXT NOT NULL DEFAULT '',
		job_site TEXT NOT NULL DEFAULT '',
		keyword TEXT NOT NULL DEFAULT '',
		found_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_search_configs_active ON search_configs (is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_job_results_user ON job_results (user_id, found_at DESC)`,
}

// Migrate applies the bootstrap schema.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
