// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Crownvote API server.

Crownvote is a live event voting service: an audience votes once for a
King and once for a Queen from an admin-managed candidate pool, while a
countdown timer gates the session and leaderboards update in real time.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... ADMIN_PASSWORD=... go run main.go

Or with flags:

	go run main.go -p 3321 -d "postgres://..." --admin-password "..."

A .env file in the working directory is loaded automatically.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_PASSWORD (--admin-password): admin console passcode

Optional settings:

  - PORT (-p): server port (default: 3321)
  - UPLOAD_DIR (--upload-dir): candidate photo directory (default: uploads)
  - LISTEN_NOTIFY (--listen-notify): Postgres change feed (default: true)

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (admin, candidates, votes, tally, events)
  - router: route definitions using Go 1.22+ routing
  - middleware: admin gate, CORS, logging, JSON helpers
  - models: request/response types
  - auth: voter tokens and the admin cookie
  - notify: table-change pub/sub (in-process hub + Postgres LISTEN/NOTIFY)
  - voter: device identity and the vote state resolver
  - tally: live per-candidate vote counts and winner selection
  - session: the timer/voting state machine
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
