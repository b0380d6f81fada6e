// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session is the timer and voting session state machine.

States are derived, never stored: Idle (voting inactive), Running (active
with the end timestamp in the future), Expired (active but past the end).
The Controller mutates the singleton settings row only through named
actions — start, stop, reveal, reset — keeping the transition set closed
and auditable. Start is rejected while Running; the original behavior of
silently restarting a live timer was an accident, not a feature.

Countdown is the client-side companion: it derives remaining time from
the shared end timestamp and fires a local time-up signal once.
*/
package session
