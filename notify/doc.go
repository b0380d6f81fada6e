// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify implements the change notification fabric.

Components that derive state from the database (the tally aggregator, the
voter state resolver, SSE clients) subscribe to a table name on the Hub
and receive an empty signal meaning "re-fetch everything". Signals
coalesce and carry no payload on purpose: subscribers must not assume
ordering or exactly-once delivery.

Writes inside this process call Hub.Notify directly. Writes from other
instances arrive through Listener, which LISTENs on the Postgres channel
fed by the schema's statement-level triggers.
*/
package notify
