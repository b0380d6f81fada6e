// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
)

var (
	// ErrTimerRunning rejects start while a timer is already counting down.
	ErrTimerRunning = errors.New("timer already running")
	// ErrVotingActive rejects reveal while voting is still open.
	ErrVotingActive = errors.New("voting is still active")
)

const (
	MinTimerSeconds     = 60
	MaxTimerSeconds     = 3600
	DefaultTimerSeconds = 300

	// resetBatchSize keeps bulk vote deletion under backend batch limits.
	resetBatchSize = 100
)

// Controller owns every mutation of the singleton settings row and the
// bulk vote reset. Its transition set is closed: start, stop, reveal,
// reset — no free-form field writes.
type Controller struct {
	db  *sql.DB
	hub *notify.Hub
	now func() time.Time
}

func NewController(db *sql.DB, hub *notify.Hub) *Controller {
	return &Controller{db: db, hub: hub, now: time.Now}
}

// Load reads the settings row.
func (c *Controller) Load(ctx context.Context) (models.Settings, error) {
	var s models.Settings
	var endAt sql.NullTime
	err := c.db.QueryRowContext(ctx, `
		SELECT id, timer_seconds, timer_end_at, voting_active, winners_revealed, updated_at
		FROM settings WHERE id = $1
	`, models.SettingsID).Scan(
		&s.ID, &s.TimerSeconds, &endAt, &s.VotingActive, &s.WinnersRevealed, &s.UpdatedAt,
	)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if endAt.Valid {
		t := endAt.Time
		s.TimerEndAt = &t
	}
	return s, nil
}

// Start opens voting with a countdown of seconds (clamped to
// [MinTimerSeconds, MaxTimerSeconds], defaulting when zero). Valid from
// Idle or Expired; returns ErrTimerRunning while a countdown is live.
func (c *Controller) Start(ctx context.Context, seconds int) error {
	s, err := c.Load(ctx)
	if err != nil {
		return err
	}
	now := c.now()
	if State(s, now) == models.StateRunning {
		return ErrTimerRunning
	}

	secs := Clamp(seconds)
	endAt := now.Add(time.Duration(secs) * time.Second)
	_, err = c.db.ExecContext(ctx, `
		UPDATE settings
		SET timer_seconds = $1, timer_end_at = $2, voting_active = TRUE,
		    winners_revealed = FALSE, updated_at = $3
		WHERE id = $4
	`, secs, endAt, now, models.SettingsID)
	if err != nil {
		return fmt.Errorf("failed to start timer: %w", err)
	}

	c.hub.Notify(notify.TableSettings)
	return nil
}

// Stop closes voting and clears the countdown. Valid from any state.
// Does not touch winners_revealed.
func (c *Controller) Stop(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		UPDATE settings
		SET voting_active = FALSE, timer_end_at = NULL, updated_at = $1
		WHERE id = $2
	`, c.now(), models.SettingsID)
	if err != nil {
		return fmt.Errorf("failed to stop timer: %w", err)
	}

	c.hub.Notify(notify.TableSettings)
	return nil
}

// Reveal marks the winners as revealed. Only valid once voting is closed.
func (c *Controller) Reveal(ctx context.Context) error {
	s, err := c.Load(ctx)
	if err != nil {
		return err
	}
	if s.VotingActive {
		return ErrVotingActive
	}

	_, err = c.db.ExecContext(ctx, `
		UPDATE settings
		SET winners_revealed = TRUE, updated_at = $1
		WHERE id = $2
	`, c.now(), models.SettingsID)
	if err != nil {
		return fmt.Errorf("failed to set winners revealed: %w", err)
	}

	c.hub.Notify(notify.TableSettings)
	return nil
}

// Reset deletes every vote in batches and clears winners_revealed,
// returning the admin view to the live leaderboard.
func (c *Controller) Reset(ctx context.Context) error {
	for {
		rows, err := c.db.QueryContext(ctx, `SELECT id FROM votes LIMIT $1`, resetBatchSize)
		if err != nil {
			return fmt.Errorf("failed to fetch votes for reset: %w", err)
		}
		ids := []string{}
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan vote id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("failed to read vote ids: %w", err)
		}
		rows.Close()

		if len(ids) == 0 {
			break
		}
		if _, err := c.db.ExecContext(ctx, `DELETE FROM votes WHERE id = ANY($1)`, pq.Array(ids)); err != nil {
			return fmt.Errorf("failed to delete votes: %w", err)
		}
	}

	_, err := c.db.ExecContext(ctx, `
		UPDATE settings
		SET winners_revealed = FALSE, updated_at = $1
		WHERE id = $2
	`, c.now(), models.SettingsID)
	if err != nil {
		return fmt.Errorf("failed to clear winners revealed: %w", err)
	}

	c.hub.Notify(notify.TableVotes)
	c.hub.Notify(notify.TableSettings)
	return nil
}

// Clamp bounds a requested timer duration, substituting the default when
// the request is zero or negative.
func Clamp(seconds int) int {
	if seconds <= 0 {
		seconds = DefaultTimerSeconds
	}
	if seconds < MinTimerSeconds {
		return MinTimerSeconds
	}
	if seconds > MaxTimerSeconds {
		return MaxTimerSeconds
	}
	return seconds
}

// State derives the session state machine position from the settings row.
func State(s models.Settings, now time.Time) string {
	if !s.VotingActive {
		return models.StateIdle
	}
	if s.TimerEndAt != nil && !s.TimerEndAt.After(now) {
		return models.StateExpired
	}
	return models.StateRunning
}

// Remaining computes the countdown seconds left as observed at now.
func Remaining(s models.Settings, now time.Time) int {
	if !s.VotingActive {
		return 0
	}
	if s.TimerEndAt == nil {
		return s.TimerSeconds
	}
	secs := int(s.TimerEndAt.Sub(now) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}
