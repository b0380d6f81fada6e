// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/handlers"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/notify"
	"github.com/f21events/crownvote/session"
	"github.com/f21events/crownvote/tally"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, hub *notify.Hub, agg *tally.Aggregator, ctrl *session.Controller) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	adminHandler := handlers.NewAdminHandler(cfg, ctrl)
	candidateHandler := handlers.NewCandidateHandler(db, cfg, hub)
	uploadHandler := handlers.NewUploadHandler(cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg, hub, ctrl)
	publicHandler := handlers.NewPublicHandler(db, cfg, agg, ctrl)
	eventsHandler := handlers.NewEventsHandler(hub)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Admin session (not gated: this is how the cookie is obtained)
	mux.HandleFunc("POST /api/admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("POST /api/admin/logout", middleware.WithLogging(adminHandler.Logout))

	// Admin management (cookie gated)
	mux.HandleFunc("GET /api/admin/candidates", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.List)))
	mux.HandleFunc("POST /api/admin/candidates", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.Create)))
	mux.HandleFunc("PUT /api/admin/candidates", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.Update)))
	mux.HandleFunc("DELETE /api/admin/candidates", middleware.WithLogging(middleware.RequireAdmin(candidateHandler.Delete)))
	mux.HandleFunc("POST /api/admin/upload", middleware.WithLogging(middleware.RequireAdmin(uploadHandler.Upload)))
	mux.HandleFunc("DELETE /api/admin/upload", middleware.WithLogging(middleware.RequireAdmin(uploadHandler.Delete)))
	mux.HandleFunc("POST /api/admin/settings", middleware.WithLogging(middleware.RequireAdmin(adminHandler.Settings)))
	mux.HandleFunc("POST /api/admin/reset-votes", middleware.WithLogging(middleware.RequireAdmin(adminHandler.ResetVotes)))

	// Voting operations (public)
	mux.HandleFunc("POST /api/vote", middleware.WithLogging(voteHandler.Submit))
	mux.HandleFunc("GET /api/voter/status", middleware.WithLogging(voteHandler.Status))

	// Public reads
	mux.HandleFunc("GET /api/candidates", middleware.WithLogging(publicHandler.Candidates))
	mux.HandleFunc("GET /api/session", middleware.WithLogging(publicHandler.Session))
	mux.HandleFunc("GET /api/tally", middleware.WithLogging(publicHandler.Tally))

	// Change notification stream (no logging wrapper: long-lived)
	mux.HandleFunc("GET /api/events", eventsHandler.Stream)

	// Uploaded candidate photos
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("crownvote API v1"))
	})

	return mux
}
