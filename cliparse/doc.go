// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse turns CLI flags and environment variables into a Config.

Flags win over environment variables; secrets should come from the
environment (main loads a .env file first, so a local .env works too).

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - ADMIN_PASSWORD (--admin-password): admin console passcode

Optional settings:

  - PORT (-p): server port (default 3321)
  - UPLOAD_DIR (--upload-dir): candidate photo directory (default "uploads")
  - LISTEN_NOTIFY (--listen-notify): Postgres change feed toggle (default true)
*/
package cliparse
