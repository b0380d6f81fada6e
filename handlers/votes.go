// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
	"github.com/f21events/crownvote/session"
	"github.com/f21events/crownvote/voter"
)

// uniqueViolation is the Postgres error code raised when the
// (voter_id, category) unique index rejects a duplicate vote.
const uniqueViolation = "23505"

type VoteHandler struct {
	db       *sql.DB
	cfg      cliparse.Config
	hub      *notify.Hub
	session  *session.Controller
	resolver *voter.Resolver
}

func NewVoteHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub, ctrl *session.Controller) *VoteHandler {
	return &VoteHandler{
		db:       db,
		cfg:      cfg,
		hub:      hub,
		session:  ctrl,
		resolver: voter.NewResolver(db),
	}
}

// Submit handles POST /api/vote
//
// Registers one vote for one voter in one category. Duplicates are a
// silent no-op: the voter is told they already voted and the client
// reconciles to the existing vote on its next status fetch. A race
// between two devices holding the same token is settled by the unique
// index, not by the pre-check.
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_id is required")
		return
	}
	if req.CandidateID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidate_id is required")
		return
	}

	settings, err := h.session.Load(r.Context())
	if err != nil {
		slog.Error("failed to load settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !settings.VotingActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Voting is not open")
		return
	}

	var name, category string
	err = h.db.QueryRowContext(r.Context(), `
		SELECT name, category FROM candidates WHERE id = $1
	`, req.CandidateID).Scan(&name, &category)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Re-check before inserting: the common already-voted case should not
	// have to bounce off the unique index.
	var existingID string
	err = h.db.QueryRowContext(r.Context(), `
		SELECT id FROM votes WHERE voter_id = $1 AND category = $2
	`, req.VoterID, category).Scan(&existingID)
	if err == nil {
		middleware.JSONResponse(w, http.StatusOK, alreadyVotedResponse(category))
		return
	}
	if err != sql.ErrNoRows {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	voteID := uuid.NewString()
	_, err = h.db.ExecContext(r.Context(), `
		INSERT INTO votes (id, voter_id, candidate_id, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, voteID, req.VoterID, req.CandidateID, category, time.Now())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			// Lost a race against another device with the same token.
			middleware.JSONResponse(w, http.StatusOK, alreadyVotedResponse(category))
			return
		}
		slog.Error("failed to insert vote", "error", err, "candidate_id", req.CandidateID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		return
	}

	h.hub.Notify(notify.TableVotes)
	slog.Info("vote recorded", "vote_id", voteID, "category", category)

	title := "King"
	followUp := "Tap Continue to vote for Queen."
	if category == models.CategoryQueen {
		title = "Queen"
		followUp = "Thank you for voting!"
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Success:       true,
		CandidateName: name,
		Category:      category,
		NextCategory:  models.NextCategory(category),
		Message:       fmt.Sprintf("You voted for %s as %s. %s", name, title, followUp),
	})
}

func alreadyVotedResponse(category string) models.SubmitVoteResponse {
	return models.SubmitVoteResponse{
		Success:      true,
		AlreadyVoted: true,
		Category:     category,
		NextCategory: models.NextCategory(category),
	}
}

// Status handles GET /api/voter/status
// Resolves the authoritative per-category vote state for the voter token
// in the X-Voter-ID header.
func (h *VoteHandler) Status(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-Voter-ID")
	if voterID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "X-Voter-ID header required")
		return
	}

	res := h.resolver.Resolve(r.Context(), voterID)

	middleware.JSONResponse(w, http.StatusOK, models.VoterStatusResponse{
		VoterID:    voterID,
		KingVoted:  res.KingVoted,
		QueenVoted: res.QueenVoted,
		Degraded:   res.Degraded,
	})
}
