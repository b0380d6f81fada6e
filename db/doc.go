// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db creates the PostgreSQL schema.

# Tables

  - candidates: the king/queen candidate pool
  - votes: append-only vote rows, one per (voter_id, category)
  - settings: a single row with a well-known id that controls the session

# Invariants in the schema

  - votes.category is copied from the candidate at insert time; the
    UNIQUE (voter_id, category) index makes double voting impossible even
    when two devices race the same token.
  - settings is seeded with its fixed id so readers can assume the row
    always exists.

# Change feed

Statement-level triggers on all three tables call pg_notify on the
'crownvote_change' channel with the table name as payload. The notify
package listens on that channel and fans the signal out to in-process
subscribers.
*/
package db
