// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voter implements per-device voter identity and the vote state
resolver.

A device generates one "voter_<uuid>" token and keeps it forever (or
until its storage is wiped). DeviceFile is the file-backed equivalent of
a browser's local storage: it holds the token plus per-category vote
hints. Hints exist only so a client can keep working through a transient
ledger outage; the Resolver treats the votes table as the single source
of truth and rewrites or clears hints on every successful read.
*/
package voter
