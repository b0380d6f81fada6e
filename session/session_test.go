// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
	"github.com/f21events/crownvote/testutil"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    int
	}{
		{"zero takes default", 0, DefaultTimerSeconds},
		{"negative takes default", -10, DefaultTimerSeconds},
		{"below minimum", 30, MinTimerSeconds},
		{"at minimum", 60, 60},
		{"in range", 300, 300},
		{"at maximum", 3600, 3600},
		{"above maximum", 7200, MaxTimerSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.seconds); got != tt.want {
				t.Errorf("Clamp(%d) = %d, want %d", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestStateAndRemaining(t *testing.T) {
	now := time.Now()
	future := now.Add(90 * time.Second)
	past := now.Add(-5 * time.Second)

	tests := []struct {
		name          string
		settings      models.Settings
		wantState     string
		wantRemaining int
	}{
		{
			name:          "idle",
			settings:      models.Settings{TimerSeconds: 300},
			wantState:     models.StateIdle,
			wantRemaining: 0,
		},
		{
			name:          "running",
			settings:      models.Settings{TimerSeconds: 300, VotingActive: true, TimerEndAt: &future},
			wantState:     models.StateRunning,
			wantRemaining: 90,
		},
		{
			name:          "expired",
			settings:      models.Settings{TimerSeconds: 300, VotingActive: true, TimerEndAt: &past},
			wantState:     models.StateExpired,
			wantRemaining: 0,
		},
		{
			name:          "active without deadline",
			settings:      models.Settings{TimerSeconds: 300, VotingActive: true},
			wantState:     models.StateRunning,
			wantRemaining: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := State(tt.settings, now); got != tt.wantState {
				t.Errorf("State() = %q, want %q", got, tt.wantState)
			}
			if got := Remaining(tt.settings, now); got != tt.wantRemaining {
				t.Errorf("Remaining() = %d, want %d", got, tt.wantRemaining)
			}
		})
	}
}

func TestLoadSeedRow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctrl := NewController(conn, notify.NewHub())
	s, err := ctrl.Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if s.ID != models.SettingsID {
		t.Errorf("Expected singleton id, got %q", s.ID)
	}
	if s.VotingActive || s.WinnersRevealed || s.TimerEndAt != nil {
		t.Errorf("Expected pristine seed row, got %+v", s)
	}
	if s.TimerSeconds != DefaultTimerSeconds {
		t.Errorf("Expected default timer seconds, got %d", s.TimerSeconds)
	}
}

func TestStart(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctrl := NewController(conn, notify.NewHub())
	if err := ctrl.Start(context.Background(), 90); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	s, err := ctrl.Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !s.VotingActive || s.WinnersRevealed {
		t.Errorf("Expected active unrevealed session, got %+v", s)
	}
	if s.TimerSeconds != 90 {
		t.Errorf("Expected 90 timer seconds, got %d", s.TimerSeconds)
	}

	now := time.Now()
	if State(s, now) != models.StateRunning {
		t.Errorf("Expected running state, got %q", State(s, now))
	}
	if rem := Remaining(s, now); rem <= 0 || rem > 90 {
		t.Errorf("Expected remaining in (0, 90], got %d", rem)
	}
}

func TestStartWhileRunning(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctrl := NewController(conn, notify.NewHub())
	if err := ctrl.Start(context.Background(), 120); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err := ctrl.Start(context.Background(), 120)
	if !errors.Is(err, ErrTimerRunning) {
		t.Errorf("Expected ErrTimerRunning, got %v", err)
	}
}

func TestStartAfterExpiry(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	// Active session whose deadline has already passed
	endAt := time.Now().Add(-time.Minute)
	_, err := conn.Exec(`
		UPDATE settings
		SET voting_active = TRUE, timer_end_at = $1, updated_at = $2
		WHERE id = $3
	`, endAt, time.Now(), models.SettingsID)
	if err != nil {
		t.Fatalf("Failed to seed expired session: %v", err)
	}

	ctrl := NewController(conn, notify.NewHub())
	if err := ctrl.Start(context.Background(), 0); err != nil {
		t.Fatalf("Expected restart from expired state, got %v", err)
	}

	s, err := ctrl.Load(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.TimerSeconds != DefaultTimerSeconds {
		t.Errorf("Expected default timer seconds on zero request, got %d", s.TimerSeconds)
	}
}

func TestStopKeepsWinnersRevealed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctrl := NewController(conn, notify.NewHub())
	ctx := context.Background()

	if err := ctrl.Stop(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := ctrl.Reveal(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := ctrl.Stop(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	s, err := ctrl.Load(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.VotingActive || s.TimerEndAt != nil {
		t.Errorf("Expected stopped session, got %+v", s)
	}
	if !s.WinnersRevealed {
		t.Error("Expected stop to leave winners_revealed alone")
	}
}

func TestRevealWhileActive(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	ctrl := NewController(conn, notify.NewHub())
	ctx := context.Background()

	if err := ctrl.Start(ctx, 300); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	err := ctrl.Reveal(ctx)
	if !errors.Is(err, ErrVotingActive) {
		t.Errorf("Expected ErrVotingActive, got %v", err)
	}
}

func TestReset(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	candidateID := testutil.CreateTestCandidate(t, conn, "Arthur", models.CategoryKing)
	// Enough votes to force multiple delete batches
	for i := 0; i < 250; i++ {
		voterID := fmt.Sprintf("voter_%08d-0000-0000-0000-000000000000", i)
		testutil.CreateTestVote(t, conn, voterID, candidateID, models.CategoryKing)
	}

	hub := notify.NewHub()
	votesCh, cancel := hub.Subscribe(notify.TableVotes)
	defer cancel()

	ctrl := NewController(conn, hub)
	ctx := context.Background()

	if err := ctrl.Stop(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := ctrl.Reveal(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := ctrl.Reset(ctx); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var remaining int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes`).Scan(&remaining); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected 0 votes after reset, got %d", remaining)
	}

	s, err := ctrl.Load(ctx)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if s.WinnersRevealed {
		t.Error("Expected reset to clear winners_revealed")
	}

	select {
	case <-votesCh:
	default:
		t.Error("Expected a votes change signal after reset")
	}
}
