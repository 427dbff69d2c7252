// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package auth

import (
	"net/http"
	"time"
)

// Session cookie configuration. The session model is bearer-cookie: there is
// no server-side session table, the HttpOnly cookie's presence is the entire
// access-control predicate, and its lifetime is the cookie's own expiry.
const (
	// SessionCookieName is the authoritative HttpOnly admin session cookie.
	SessionCookieName = "admin_session"

	// UICookieName mirrors the session for client-side UI affordances
	// (showing the logout button). It is never consulted for access control.
	UICookieName = "is_admin"

	// SessionTTL is the cookie lifetime for register and regular login.
	SessionTTL = 7 * 24 * time.Hour

	// LegacySessionTTL is the shorter lifetime for the legacy fallback login.
	LegacySessionTTL = 24 * time.Hour
)

// SessionManager issues, validates, and revokes the admin session cookie pair.
type SessionManager struct {
	secure bool
}

// NewSessionManager creates a SessionManager. secure controls the cookie
// Secure flag and should be true in production deployments behind HTTPS.
func NewSessionManager(secure bool) *SessionManager {
	return &SessionManager{secure: secure}
}

// Start marks the browsing context as an authenticated admin by setting the
// HttpOnly session cookie and its client-visible UI mirror.
func (m *SessionManager) Start(w http.ResponseWriter, ttl time.Duration) {
	http.SetCookie(w, m.sessionCookie(int(ttl.Seconds())))
	http.SetCookie(w, m.uiCookie(int(ttl.Seconds())))
}

// End deletes both cookies, returning the context to anonymous.
func (m *SessionManager) End(w http.ResponseWriter) {
	http.SetCookie(w, m.sessionCookie(-1))
	http.SetCookie(w, m.uiCookie(-1))
}

// Has reports whether the request carries the authoritative session cookie.
// This presence check is the sole access-control predicate for protected routes.
func (m *SessionManager) Has(r *http.Request) bool {
	_, err := r.Cookie(SessionCookieName)
	return err == nil
}

// Heal re-issues the UI cookie when the authoritative cookie is present but
// the mirror is missing (e.g. after manual cookie deletion). It repairs
// display state only and must never be used to grant access.
func (m *SessionManager) Heal(w http.ResponseWriter, r *http.Request) {
	if !m.Has(r) {
		return
	}
	if _, err := r.Cookie(UICookieName); err == nil {
		return
	}
	http.SetCookie(w, m.uiCookie(int(SessionTTL.Seconds())))
}

func (m *SessionManager) sessionCookie(maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (m *SessionManager) uiCookie(maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     UICookieName,
		Value:    "true",
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
