// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth holds the two identity mechanisms the application has:

  - Voter tokens: "voter_<uuid>" strings generated once per device and
    stored locally by the client. They are pseudonymous and carry no
    account; the database unique index on (voter_id, category) is what
    makes them matter.
  - The admin cookie: a passcode exchanged for an httpOnly cookie with the
    fixed value "1" and an 8 hour lifetime. Passcode comparison is
    constant time.
*/
package auth
