// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides the HTTP cross-cutting helpers: request
logging, the admin cookie gate, JSON encode/decode helpers, and CORS.

The admin gate redirects to /admin-login?from=<path> rather than
returning 401 so a browser lands on the login form and comes back to the
page it wanted.
*/
package middleware
