// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/f21events/crownvote/models"
)

// Resolution is the authoritative answer for one voter. Degraded means
// the ledger was unreachable and the Status came from local hints only.
type Resolution struct {
	Status
	Degraded bool
}

// Resolver reconciles device hints against the vote ledger.
type Resolver struct {
	DB    *sql.DB
	Hints HintStore
}

func NewResolver(db *sql.DB) *Resolver {
	return &Resolver{DB: db, Hints: NopHints{}}
}

// Resolve returns the per-category vote status for voterID.
//
// Ledger rows always win: if the voter has no rows, any stale hints are
// cleared; if rows exist, hints are overwritten with what the ledger
// says. Only when the ledger cannot be read does Resolve fall back to
// hints, flagged Degraded, rather than blocking the caller.
func (r *Resolver) Resolve(ctx context.Context, voterID string) Resolution {
	hints := r.Hints
	if hints == nil {
		hints = NopHints{}
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT candidate_id, category FROM votes WHERE voter_id = $1
	`, voterID)
	if err != nil {
		slog.Warn("ledger unreachable, falling back to local hints", "error", err)
		return Resolution{Status: hints.Load(), Degraded: true}
	}
	defer rows.Close()

	var status Status
	found := false
	for rows.Next() {
		var candidateID, category string
		if err := rows.Scan(&candidateID, &category); err != nil {
			slog.Warn("failed to scan vote row, falling back to local hints", "error", err)
			return Resolution{Status: hints.Load(), Degraded: true}
		}
		found = true
		id := candidateID
		switch category {
		case models.CategoryKing:
			status.KingVoted = &id
		case models.CategoryQueen:
			status.QueenVoted = &id
		}
	}
	if err := rows.Err(); err != nil {
		slog.Warn("ledger read failed, falling back to local hints", "error", err)
		return Resolution{Status: hints.Load(), Degraded: true}
	}

	if !found {
		if err := hints.Clear(); err != nil {
			slog.Warn("failed to clear stale vote hints", "error", err)
		}
		return Resolution{}
	}

	if err := hints.Save(status); err != nil {
		slog.Warn("failed to cache vote hints", "error", err)
	}
	return Resolution{Status: status}
}
