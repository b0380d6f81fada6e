// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"
)

// Countdown re-evaluates the remaining time once per second and fires the
// time-up callback exactly once when it first reaches zero. Expiry is
// observed against the local clock, so a skewed client may fire a little
// early or late relative to others; that tradeoff is accepted for this
// use case.
type Countdown struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCountdown starts a countdown toward endAt. onTimeUp may be nil.
func NewCountdown(endAt time.Time, onTimeUp func()) *Countdown {
	return newCountdown(endAt, time.Second, onTimeUp)
}

func newCountdown(endAt time.Time, interval time.Duration, onTimeUp func()) *Countdown {
	c := &Countdown{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			if !time.Now().Before(endAt) {
				if onTimeUp != nil {
					onTimeUp()
				}
				return
			}
			select {
			case <-c.stop:
				return
			case <-ticker.C:
			}
		}
	}()

	return c
}

// Stop halts the countdown without firing time-up. Safe to call more than
// once and after expiry.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
	<-c.done
}
