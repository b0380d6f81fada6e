// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/testutil"
)

func TestResolveNoVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	r := NewResolver(conn)
	res := r.Resolve(context.Background(), testutil.NewTestVoter())

	if res.Degraded {
		t.Error("Expected non-degraded resolution")
	}
	if res.KingVoted != nil || res.QueenVoted != nil {
		t.Errorf("Expected empty status, got %+v", res.Status)
	}
}

func TestResolveLedgerWins(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	kingID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	voterID := testutil.NewTestVoter()
	testutil.CreateTestVote(t, conn, voterID, kingID, models.CategoryKing)

	// Hints claim a different king and a queen vote; the ledger overrides both.
	staleKing := "someone-else"
	staleQueen := "someone-else-again"
	hints := NewDeviceFile(filepath.Join(t.TempDir(), "device.json"))
	if err := hints.Save(Status{KingVoted: &staleKing, QueenVoted: &staleQueen}); err != nil {
		t.Fatalf("Failed to seed hints: %v", err)
	}

	r := &Resolver{DB: conn, Hints: hints}
	res := r.Resolve(context.Background(), voterID)

	if res.Degraded {
		t.Error("Expected non-degraded resolution")
	}
	if res.KingVoted == nil || *res.KingVoted != kingID {
		t.Errorf("Expected king vote %q, got %+v", kingID, res.Status)
	}
	if res.QueenVoted != nil {
		t.Errorf("Expected stale queen hint discarded, got %+v", res.Status)
	}

	// Hints now mirror the ledger
	cached := hints.Load()
	if cached.KingVoted == nil || *cached.KingVoted != kingID || cached.QueenVoted != nil {
		t.Errorf("Expected hints overwritten with ledger state, got %+v", cached)
	}
}

func TestResolveClearsStaleHints(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	stale := "gone"
	hints := NewDeviceFile(filepath.Join(t.TempDir(), "device.json"))
	if err := hints.Save(Status{KingVoted: &stale}); err != nil {
		t.Fatalf("Failed to seed hints: %v", err)
	}

	r := &Resolver{DB: conn, Hints: hints}
	res := r.Resolve(context.Background(), testutil.NewTestVoter())

	if res.KingVoted != nil || res.QueenVoted != nil || res.Degraded {
		t.Errorf("Expected empty resolution, got %+v", res)
	}
	if cached := hints.Load(); cached.KingVoted != nil {
		t.Errorf("Expected stale hints cleared, got %+v", cached)
	}
}

func TestResolveDegradedFallback(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	conn.Close() // ledger unreachable

	king := "cand-1"
	hints := NewDeviceFile(filepath.Join(t.TempDir(), "device.json"))
	if err := hints.Save(Status{KingVoted: &king}); err != nil {
		t.Fatalf("Failed to seed hints: %v", err)
	}

	r := &Resolver{DB: conn, Hints: hints}
	res := r.Resolve(context.Background(), testutil.NewTestVoter())

	if !res.Degraded {
		t.Error("Expected degraded resolution when the ledger is unreachable")
	}
	if res.KingVoted == nil || *res.KingVoted != king {
		t.Errorf("Expected hint fallback %q, got %+v", king, res.Status)
	}
}

func TestResolveBothCategories(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	kingID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	queenID := testutil.CreateTestCandidate(t, conn, "Guinevere", models.CategoryQueen)
	voterID := testutil.NewTestVoter()
	testutil.CreateTestVote(t, conn, voterID, kingID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, voterID, queenID, models.CategoryQueen)

	r := NewResolver(conn)
	res := r.Resolve(context.Background(), voterID)

	if res.KingVoted == nil || *res.KingVoted != kingID {
		t.Errorf("Expected king vote %q, got %+v", kingID, res.Status)
	}
	if res.QueenVoted == nil || *res.QueenVoted != queenID {
		t.Errorf("Expected queen vote %q, got %+v", queenID, res.Status)
	}
}
