// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by the
handlers and the core packages.

Three persisted entities back the whole application:

  - Candidate: a person running for king or queen
  - Vote: one immutable row per (voter, category), enforced by the database
  - Settings: the singleton row controlling the voting session

VoteCount and Winners are derived, never stored.
*/
package models
