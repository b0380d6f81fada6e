// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/notify"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
	hub *notify.Hub
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config, hub *notify.Hub) *CandidateHandler {
	return &CandidateHandler{db: db, cfg: cfg, hub: hub}
}

// List handles GET /api/admin/candidates
// Newest first, the admin management ordering.
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, photo_url, category, group_name, created_at
		FROM candidates
		ORDER BY created_at DESC
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

// Create handles POST /api/admin/candidates
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" || req.Category == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Name and category (king/queen) are required")
		return
	}
	if !models.ValidCategory(req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category must be 'king' or 'queen'")
		return
	}

	c := models.Candidate{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Category:  req.Category,
		GroupName: req.GroupName,
		CreatedAt: time.Now(),
	}
	if req.PhotoURL != "" {
		c.PhotoURL = &req.PhotoURL
	}

	_, err := h.db.Exec(`
		INSERT INTO candidates (id, name, photo_url, category, group_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.ID, c.Name, c.PhotoURL, c.Category, c.GroupName, c.CreatedAt)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	h.hub.Notify(notify.TableCandidates)
	slog.Info("candidate created", "candidate_id", c.ID, "category", c.Category)

	middleware.JSONResponse(w, http.StatusCreated, models.CandidateResponse{Candidate: c})
}

// Update handles PUT /api/admin/candidates
// Patches only the provided fields.
func (h *CandidateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate ID is required")
		return
	}
	if req.Category != nil && !models.ValidCategory(*req.Category) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category must be 'king' or 'queen'")
		return
	}

	var c models.Candidate
	err := h.db.QueryRow(`
		SELECT id, name, photo_url, category, group_name, created_at
		FROM candidates WHERE id = $1
	`, req.ID).Scan(&c.ID, &c.Name, &c.PhotoURL, &c.Category, &c.GroupName, &c.CreatedAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	if err != nil {
		slog.Error("failed to query candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.PhotoURL != nil {
		if *req.PhotoURL == "" {
			c.PhotoURL = nil
		} else {
			c.PhotoURL = req.PhotoURL
		}
	}
	if req.Category != nil {
		c.Category = *req.Category
	}
	if req.GroupName != nil {
		c.GroupName = *req.GroupName
	}

	_, err = h.db.Exec(`
		UPDATE candidates
		SET name = $1, photo_url = $2, category = $3, group_name = $4
		WHERE id = $5
	`, c.Name, c.PhotoURL, c.Category, c.GroupName, c.ID)
	if err != nil {
		slog.Error("failed to update candidate", "error", err, "candidate_id", c.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update candidate")
		return
	}

	h.hub.Notify(notify.TableCandidates)
	middleware.JSONResponse(w, http.StatusOK, models.CandidateResponse{Candidate: c})
}

// Delete handles DELETE /api/admin/candidates?id=...
// Cascades to the candidate's votes.
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Candidate ID is required")
		return
	}

	res, err := h.db.Exec(`DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete candidate", "error", err, "candidate_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	h.hub.Notify(notify.TableCandidates)
	h.hub.Notify(notify.TableVotes)
	slog.Info("candidate deleted", "candidate_id", id)

	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
