// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import "sync"

// Table names broadcast over the hub.
const (
	TableVotes      = "votes"
	TableCandidates = "candidates"
	TableSettings   = "settings"
)

// AllTables lists every table the hub carries signals for.
var AllTables = []string{TableVotes, TableCandidates, TableSettings}

// Hub fans out "something changed, re-fetch" signals per table.
//
// Delivery is at-least-once and coalescing: each subscriber channel is
// buffered with capacity one, so rapid notifications collapse into a
// single pending signal. No ordering across tables is promised.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe registers interest in changes to table. The returned cancel
// func must be called when the subscriber goes away.
func (h *Hub) Subscribe(table string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan struct{}, 1)
	if h.subs[table] == nil {
		h.subs[table] = make(map[int]chan struct{})
	}
	id := h.next
	h.next++
	h.subs[table][id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[table], id)
	}
	return ch, cancel
}

// Notify signals every subscriber of table. Never blocks: a subscriber
// that already has a signal pending simply keeps the one it has.
func (h *Hub) Notify(table string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[table] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// NotifyAll signals subscribers of every known table. Used after a
// listener reconnect, when changes may have been missed.
func (h *Hub) NotifyAll() {
	for _, t := range AllTables {
		h.Notify(t)
	}
}
