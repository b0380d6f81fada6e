// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/session"
	"github.com/f21events/crownvote/tally"
)

type PublicHandler struct {
	db      *sql.DB
	cfg     cliparse.Config
	tally   *tally.Aggregator
	session *session.Controller
}

func NewPublicHandler(db *sql.DB, cfg cliparse.Config, agg *tally.Aggregator, ctrl *session.Controller) *PublicHandler {
	return &PublicHandler{db: db, cfg: cfg, tally: agg, session: ctrl}
}

// Candidates handles GET /api/candidates
// Ordered by name, the voter page ordering.
func (h *PublicHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, photo_url, category, group_name, created_at
		FROM candidates
		ORDER BY name
	`)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.PhotoURL, &c.Category, &c.GroupName, &c.CreatedAt); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, models.CandidateListResponse{Candidates: candidates})
}

// Session handles GET /api/session
// Settings plus the derived state and remaining seconds, computed from
// the server clock so clients converge despite their own skew.
func (h *PublicHandler) Session(w http.ResponseWriter, r *http.Request) {
	settings, err := h.session.Load(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now()
	middleware.JSONResponse(w, http.StatusOK, models.SessionResponse{
		Settings:         settings,
		State:            session.State(settings, now),
		RemainingSeconds: session.Remaining(settings, now),
	})
}

// Tally handles GET /api/tally
func (h *PublicHandler) Tally(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Counts:     h.tally.Counts(),
		Winners:    h.tally.Winners(),
		TotalVotes: h.tally.TotalVotes(),
	})
}
