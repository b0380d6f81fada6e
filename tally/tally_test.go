// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"testing"
	"time"

	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
	"github.com/f21events/crownvote/session"
	"github.com/f21events/crownvote/testutil"
)

func TestRecomputeCounts(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	arthurID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	lancelotID := testutil.CreateTestCandidate(t, conn, "Lancelot", models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), arthurID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), arthurID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), lancelotID, models.CategoryKing)

	agg := New(conn, notify.NewHub())
	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	counts := agg.Counts()
	if len(counts) != 2 {
		t.Fatalf("Expected 2 count entries, got %d", len(counts))
	}

	byID := map[string]int{}
	for _, vc := range counts {
		byID[vc.CandidateID] = vc.VoteCount
	}
	if byID[arthurID] != 2 || byID[lancelotID] != 1 {
		t.Errorf("Unexpected counts: %+v", byID)
	}
	if agg.TotalVotes() != 3 {
		t.Errorf("Expected 3 total votes, got %d", agg.TotalVotes())
	}
}

func TestWinners(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	arthurID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	testutil.CreateTestCandidate(t, conn, "Lancelot", models.CategoryKing)
	guinevereID := testutil.CreateTestCandidate(t, conn, "Guinevere", models.CategoryQueen)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), arthurID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), guinevereID, models.CategoryQueen)

	agg := New(conn, notify.NewHub())
	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	w := agg.Winners()
	if w.King == nil || w.King.CandidateID != arthurID {
		t.Errorf("Expected king winner %q, got %+v", arthurID, w.King)
	}
	if w.Queen == nil || w.Queen.CandidateID != guinevereID {
		t.Errorf("Expected queen winner %q, got %+v", guinevereID, w.Queen)
	}
}

func TestWinnersTieGoesToEarliest(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	firstID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	secondID := testutil.CreateTestCandidate(t, conn, "Lancelot", models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), firstID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), secondID, models.CategoryKing)

	agg := New(conn, notify.NewHub())
	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	w := agg.Winners()
	if w.King == nil || w.King.CandidateID != firstID {
		t.Errorf("Expected tie to go to the earliest created candidate %q, got %+v", firstID, w.King)
	}
}

func TestWinnersNoCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	agg := New(conn, notify.NewHub())
	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	w := agg.Winners()
	if w.King != nil || w.Queen != nil {
		t.Errorf("Expected no winners, got %+v", w)
	}
}

func TestRecomputeAfterReset(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	arthurID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	guinevereID := testutil.CreateTestCandidate(t, conn, "Guinevere", models.CategoryQueen)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), arthurID, models.CategoryKing)
	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), guinevereID, models.CategoryQueen)

	hub := notify.NewHub()
	agg := New(conn, hub)
	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if agg.TotalVotes() != 2 {
		t.Fatalf("Expected 2 votes before reset, got %d", agg.TotalVotes())
	}

	ctrl := session.NewController(conn, hub)
	if err := ctrl.Reset(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := agg.Recompute(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Candidates survive the reset with all counts back at zero
	counts := agg.Counts()
	if len(counts) != 2 {
		t.Fatalf("Expected 2 count entries after reset, got %d", len(counts))
	}
	for _, vc := range counts {
		if vc.VoteCount != 0 {
			t.Errorf("Expected zero count for %s after reset, got %d", vc.Name, vc.VoteCount)
		}
	}
	if agg.TotalVotes() != 0 {
		t.Errorf("Expected 0 total votes after reset, got %d", agg.TotalVotes())
	}
}

func TestRunRecomputesOnNotify(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	arthurID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)

	hub := notify.NewHub()
	agg := New(conn, hub)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		agg.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitFor(t, func() bool { return len(agg.Counts()) == 1 })

	testutil.CreateTestVote(t, conn, testutil.NewTestVoter(), arthurID, models.CategoryKing)
	hub.Notify(notify.TableVotes)

	waitFor(t, func() bool { return agg.TotalVotes() == 1 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before deadline")
}
