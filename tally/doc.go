// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package tally derives live per-candidate vote counts for the leaderboards
and winner reveal.

The aggregator holds the whole count set in memory, rebuilt from scratch
on every change signal from the notify hub. Winner ties break toward the
earliest created candidate, a deliberate, documented rule rather than
incidental query order.
*/
package tally
