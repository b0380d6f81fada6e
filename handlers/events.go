// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/notify"
)

const heartbeatInterval = 15 * time.Second

type EventsHandler struct {
	hub *notify.Hub
}

func NewEventsHandler(hub *notify.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Stream handles GET /api/events
//
// A server-sent events feed of table-change signals. Each event names
// the table that changed ("votes", "candidates", "settings") and carries
// no payload: the client is expected to re-fetch. Signals may coalesce,
// so a client must treat each event as "anything in that table may have
// changed".
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	votes, cancelVotes := h.hub.Subscribe(notify.TableVotes)
	defer cancelVotes()
	cands, cancelCands := h.hub.Subscribe(notify.TableCandidates)
	defer cancelCands()
	settings, cancelSettings := h.hub.Subscribe(notify.TableSettings)
	defer cancelSettings()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	emit := func(table string) {
		fmt.Fprintf(w, "event: %s\ndata: changed\n\n", table)
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-votes:
			emit(notify.TableVotes)
		case <-cands:
			emit(notify.TableCandidates)
		case <-settings:
			emit(notify.TableSettings)
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}
