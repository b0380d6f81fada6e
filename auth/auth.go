// Copyright (c) 2026 Crownvote contributors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const (
	// AdminCookieName is the session cookie the admin area checks for.
	AdminCookieName = "kq_admin_auth"
	// AdminCookieValue is the only value that passes the gate.
	AdminCookieValue = "1"
	// AdminCookieMaxAge is 8 hours, matching the passcode session lifetime.
	AdminCookieMaxAge = 8 * 60 * 60

	// VoterIDPrefix marks tokens issued by NewVoterID.
	VoterIDPrefix = "voter_"
)

// NewVoterID creates a pseudonymous per-device voter token.
func NewVoterID() string {
	return VoterIDPrefix + uuid.NewString()
}

// ValidVoterID reports whether s looks like a token issued by NewVoterID.
func ValidVoterID(s string) bool {
	rest, ok := strings.CutPrefix(s, VoterIDPrefix)
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}

// CheckPassword compares the submitted passcode against the configured one
// in constant time.
func CheckPassword(got, want string) bool {
	return want != "" && hmac.Equal([]byte(got), []byte(want))
}

// SetAdminCookie attaches the admin session cookie to the response.
func SetAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    AdminCookieValue,
		Path:     "/",
		MaxAge:   AdminCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearAdminCookie expires the admin session cookie.
func ClearAdminCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// IsAdmin reports whether the request carries a valid admin session cookie.
func IsAdmin(r *http.Request) bool {
	c, err := r.Cookie(AdminCookieName)
	return err == nil && c.Value == AdminCookieValue
}
