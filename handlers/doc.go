// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers.

Handlers are grouped by surface:

  - AdminHandler: login/logout, session actions, vote reset
  - CandidateHandler: candidate CRUD (admin)
  - UploadHandler: candidate photo storage (admin)
  - VoteHandler: vote submission and voter status (public)
  - PublicHandler: candidate list, session state, live tally (public)
  - EventsHandler: server-sent change notifications (public)

Each handler is a struct holding its dependencies, constructed by the
router. Errors are logged where they happen and surfaced to clients as
JSON {error, message} bodies.
*/
package handlers
