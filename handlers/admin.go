// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lib/pq"

	"github.com/f21events/crownvote/auth"
	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/models"
	"github.com/f21events/crownvote/session"
)

type AdminHandler struct {
	cfg     cliparse.Config
	session *session.Controller
}

func NewAdminHandler(cfg cliparse.Config, ctrl *session.Controller) *AdminHandler {
	return &AdminHandler{cfg: cfg, session: ctrl}
}

// Login handles POST /api/admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.JSONResponse(w, http.StatusUnauthorized, models.LoginResponse{
			Success: false,
			Error:   "Invalid passcode",
		})
		return
	}

	if !auth.CheckPassword(req.Password, h.cfg.AdminPassword) {
		middleware.JSONResponse(w, http.StatusUnauthorized, models.LoginResponse{
			Success: false,
			Error:   "Invalid passcode",
		})
		return
	}

	auth.SetAdminCookie(w)
	slog.Info("admin logged in", "remote", r.RemoteAddr)
	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{Success: true})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearAdminCookie(w)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// Settings handles POST /api/admin/settings
// Dispatches the named session actions: start, stop, reveal, reset.
func (h *AdminHandler) Settings(w http.ResponseWriter, r *http.Request) {
	var req models.SettingsActionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var err error
	switch req.Action {
	case models.ActionStart:
		err = h.session.Start(r.Context(), req.TimerSeconds)
	case models.ActionStop:
		err = h.session.Stop(r.Context())
	case models.ActionReveal:
		err = h.session.Reveal(r.Context())
	case models.ActionReset:
		err = h.session.Reset(r.Context())
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid action")
		return
	}

	if errors.Is(err, session.ErrTimerRunning) || errors.Is(err, session.ErrVotingActive) {
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("settings action failed", "action", req.Action, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	slog.Info("settings action applied", "action", req.Action)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}

// ResetVotes handles POST /api/admin/reset-votes
// Bulk-deletes every vote and clears the reveal flag. Failures surface
// the backend error code so the admin console can show it.
func (h *AdminHandler) ResetVotes(w http.ResponseWriter, r *http.Request) {
	if err := h.session.Reset(r.Context()); err != nil {
		slog.Error("vote reset failed", "error", err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			middleware.ErrorResponseCode(w, http.StatusInternalServerError, err.Error(), string(pqErr.Code))
			return
		}
		middleware.ErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	slog.Info("all votes reset")
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{Success: true})
}
