// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP route table using Go 1.22+ method
routing.

Everything under /api/admin except login and logout sits behind the
admin cookie gate. Voting, the candidate list, the session state, the
live tally, and the event stream are public.
*/
package router
