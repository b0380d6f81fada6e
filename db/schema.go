// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables, the settings seed row, and the change
// notification triggers. Safe to call multiple times.
func CreateSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := db.Exec(triggers); err != nil {
		return fmt.Errorf("failed to create notify triggers: %w", err)
	}
	return nil
}

const schema = `
-- Candidates
CREATE TABLE IF NOT EXISTS candidates (
    id UUID PRIMARY KEY,
    name TEXT NOT NULL,
    photo_url TEXT,
    category TEXT NOT NULL CHECK (category IN ('king', 'queen')),
    group_name TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidates_category ON candidates(category);

-- Votes
-- category is denormalized from the candidate at insert time so the
-- one-vote-per-voter-per-category invariant lives in a unique index
-- instead of an application-level check.
CREATE TABLE IF NOT EXISTS votes (
    id UUID PRIMARY KEY,
    voter_id TEXT NOT NULL,
    candidate_id UUID NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
    category TEXT NOT NULL CHECK (category IN ('king', 'queen')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (voter_id, category)
);

CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);
CREATE INDEX IF NOT EXISTS idx_votes_voter_id ON votes(voter_id);

-- Settings (singleton row)
CREATE TABLE IF NOT EXISTS settings (
    id UUID PRIMARY KEY,
    timer_seconds INTEGER NOT NULL DEFAULT 300,
    timer_end_at TIMESTAMPTZ,
    voting_active BOOLEAN NOT NULL DEFAULT FALSE,
    winners_revealed BOOLEAN NOT NULL DEFAULT FALSE,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

INSERT INTO settings (id) VALUES ('00000000-0000-0000-0000-000000000001')
ON CONFLICT (id) DO NOTHING;
`

// Statement-level triggers broadcast the table name on a single NOTIFY
// channel so every server instance can invalidate its caches.
const triggers = `
CREATE OR REPLACE FUNCTION crownvote_notify_change() RETURNS trigger AS $fn$
BEGIN
    PERFORM pg_notify('crownvote_change', TG_TABLE_NAME);
    RETURN NULL;
END;
$fn$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS votes_notify ON votes;
CREATE TRIGGER votes_notify
    AFTER INSERT OR UPDATE OR DELETE ON votes
    FOR EACH STATEMENT EXECUTE FUNCTION crownvote_notify_change();

DROP TRIGGER IF EXISTS candidates_notify ON candidates;
CREATE TRIGGER candidates_notify
    AFTER INSERT OR UPDATE OR DELETE ON candidates
    FOR EACH STATEMENT EXECUTE FUNCTION crownvote_notify_change();

DROP TRIGGER IF EXISTS settings_notify ON settings;
CREATE TRIGGER settings_notify
    AFTER INSERT OR UPDATE OR DELETE ON settings
    FOR EACH STATEMENT EXECUTE FUNCTION crownvote_notify_change();
`
