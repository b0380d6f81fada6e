package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/f21events/crownvote/cliparse"
	"github.com/f21events/crownvote/db"
	"github.com/f21events/crownvote/middleware"
	"github.com/f21events/crownvote/notify"
	"github.com/f21events/crownvote/router"
	"github.com/f21events/crownvote/session"
	"github.com/f21events/crownvote/tally"
)

func main() {
	var err error

	// Load .env if present, then parse configuration
	_ = godotenv.Load()
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	dbConn, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables, seed row, notify triggers)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Change notification fabric
	hub := notify.NewHub()
	if cfg.ListenNotify {
		listener := notify.NewListener(cfg.DatabaseURL, hub)
		go func() {
			if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
				slog.Error("change feed listener stopped", "error", err)
			}
		}()
	}

	// Live tally
	agg := tally.New(dbConn, hub)
	go agg.Run(ctx)

	// Session controller
	ctrl := session.NewController(dbConn, hub)

	// Create router
	mux := router.NewRouter(dbConn, cfg, hub, agg, ctrl)

	// Create server (CORS wraps every route so browser clients can send
	// the X-Voter-ID header cross-origin)
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
