// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
)

// Aggregator maintains live per-candidate vote counts.
//
// Counts are recomputed in full on every vote or candidate change signal.
// No incremental patching: at this data scale a rescan is cheap and can
// never drift from the ledger.
type Aggregator struct {
	db  *sql.DB
	hub *notify.Hub

	mu     sync.RWMutex
	counts []models.VoteCount
	total  int
}

func New(db *sql.DB, hub *notify.Hub) *Aggregator {
	return &Aggregator{db: db, hub: hub}
}

// Recompute rebuilds the count set from the ledger. Candidates are kept
// in (created_at, id) order, which doubles as the deterministic tie-break
// order for winner selection.
func (a *Aggregator) Recompute(ctx context.Context) error {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, name, photo_url, category, group_name
		FROM candidates
		ORDER BY created_at, id
	`)
	if err != nil {
		return fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	counts := []models.VoteCount{}
	index := make(map[string]int)
	for rows.Next() {
		var vc models.VoteCount
		if err := rows.Scan(&vc.CandidateID, &vc.Name, &vc.PhotoURL, &vc.Category, &vc.GroupName); err != nil {
			return fmt.Errorf("failed to scan candidate: %w", err)
		}
		index[vc.CandidateID] = len(counts)
		counts = append(counts, vc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read candidates: %w", err)
	}

	voteRows, err := a.db.QueryContext(ctx, `SELECT candidate_id FROM votes`)
	if err != nil {
		return fmt.Errorf("failed to query votes: %w", err)
	}
	defer voteRows.Close()

	total := 0
	for voteRows.Next() {
		var candidateID string
		if err := voteRows.Scan(&candidateID); err != nil {
			return fmt.Errorf("failed to scan vote: %w", err)
		}
		total++
		if i, ok := index[candidateID]; ok {
			counts[i].VoteCount++
		}
	}
	if err := voteRows.Err(); err != nil {
		return fmt.Errorf("failed to read votes: %w", err)
	}

	a.mu.Lock()
	a.counts = counts
	a.total = total
	a.mu.Unlock()
	return nil
}

// Run computes the initial counts and then recomputes whenever the votes
// or candidates table changes, until ctx is cancelled.
func (a *Aggregator) Run(ctx context.Context) {
	votes, cancelVotes := a.hub.Subscribe(notify.TableVotes)
	defer cancelVotes()
	cands, cancelCands := a.hub.Subscribe(notify.TableCandidates)
	defer cancelCands()

	if err := a.Recompute(ctx); err != nil {
		slog.Error("initial tally failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-votes:
		case <-cands:
		}
		if err := a.Recompute(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("tally recompute failed", "error", err)
		}
	}
}

// Counts returns a copy of the current count set, in candidate
// (created_at, id) order.
func (a *Aggregator) Counts() []models.VoteCount {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.VoteCount, len(a.counts))
	copy(out, a.counts)
	return out
}

// TotalVotes returns the number of vote rows seen at the last recompute.
func (a *Aggregator) TotalVotes() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.total
}

// Winners returns the top candidate per category. Ties go to the earliest
// created candidate (then lowest id), since Counts holds candidates in
// that order and only a strictly higher count displaces the leader.
func (a *Aggregator) Winners() models.Winners {
	a.mu.RLock()
	defer a.mu.RUnlock()

	var w models.Winners
	for i := range a.counts {
		vc := a.counts[i]
		switch vc.Category {
		case models.CategoryKing:
			if w.King == nil || vc.VoteCount > w.King.VoteCount {
				c := vc
				w.King = &c
			}
		case models.CategoryQueen:
			if w.Queen == nil || vc.VoteCount > w.Queen.VoteCount {
				c := vc
				w.Queen = &c
			}
		}
	}
	return w
}
