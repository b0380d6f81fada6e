// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// Channel is the pg_notify channel the schema triggers broadcast on.
const Channel = "crownvote_change"

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener bridges Postgres LISTEN/NOTIFY into a Hub so that writes made
// by other server instances (or directly in the database) invalidate this
// instance's subscribers too.
type Listener struct {
	hub *Hub
	pl  *pq.Listener
}

func NewListener(databaseURL string, hub *Hub) *Listener {
	pl := pq.NewListener(databaseURL, minReconnectInterval, maxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				slog.Warn("change feed listener event", "event", ev, "error", err)
			}
		})
	return &Listener{hub: hub, pl: pl}
}

// Run listens until ctx is cancelled. A nil notification marks a
// reconnect, after which anything may have changed, so all tables are
// re-notified.
func (l *Listener) Run(ctx context.Context) error {
	if err := l.pl.Listen(Channel); err != nil {
		return fmt.Errorf("failed to LISTEN on %s: %w", Channel, err)
	}
	defer l.pl.Close()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-l.pl.Notify:
			if n == nil {
				slog.Info("change feed reconnected, re-notifying all tables")
				l.hub.NotifyAll()
				continue
			}
			l.hub.Notify(n.Extra)
		case <-ping.C:
			if err := l.pl.Ping(); err != nil {
				slog.Warn("change feed ping failed", "error", err)
			}
		}
	}
}
