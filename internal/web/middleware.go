// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultLocale = "de"

// supportedLocales lists the site languages. German is the default and is
// served on bare paths without a prefix.
var supportedLocales = map[string]bool{
	"de": true,
	"en": true,
	"ar": true,
}

// publicPages render without a session; protectedPages require one.
var (
	publicPages = map[string]bool{
		"":                true,
		"login":           true,
		"register":        true,
		"forgot-password": true,
		"reset-password":  true,
	}
	protectedPages = map[string]bool{
		"invoice":  true,
		"requests": true,
		"admins":   true,
	}
)

// skipLocaleRouting reports whether a path bypasses locale handling:
// API routes, framework internals, and anything with a file extension.
func skipLocaleRouting(path string) bool {
	if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/_next") {
		return true
	}
	last := path[strings.LastIndex(path, "/")+1:]
	return strings.Contains(last, ".")
}

// splitLocale extracts the locale prefix from a page path. Bare paths get
// the default locale.
func (s *Server) splitLocale(path string) (locale, rest string) {
	trimmed := strings.TrimPrefix(path, "/")
	seg, tail, _ := strings.Cut(trimmed, "/")
	if supportedLocales[seg] {
		return seg, "/" + tail
	}
	return s.defaultLocale, path
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

// knownAPIRoutes enumerates the label values API paths may take. Anything
// else collapses so probing /api/<garbage> cannot mint new label values.
var knownAPIRoutes = map[string]bool{
	"/api/auth/register":        true,
	"/api/auth/login":           true,
	"/api/auth/logout":          true,
	"/api/auth/forgot-password": true,
	"/api/auth/reset-password":  true,
	"/api/requests":             true,
	"/api/admins":               true,
	"/api/invoices/pdf":         true,
}

// routeLabel keeps metric cardinality bounded: API paths collapse their id
// segment, unknown API paths collapse to one value, page paths collapse
// entirely.
func routeLabel(path string) string {
	if strings.HasPrefix(path, "/api/admins/") {
		return "/api/admins/{id}"
	}
	if strings.HasPrefix(path, "/api") {
		if knownAPIRoutes[path] {
			return path
		}
		return "/api/other"
	}
	if path == "/admin" {
		return path
	}
	return "page"
}

func (s *Server) withMetrics(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.metrics.HTTPRequestsTotal.
			WithLabelValues(routeLabel(r.URL.Path), strconv.Itoa(rec.status)).
			Inc()
	})
}

// withSessionHeal re-issues the client-visible UI cookie when the
// authoritative session cookie is present but the mirror is gone.
func (s *Server) withSessionHeal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Heal(w, r)
		next.ServeHTTP(w, r)
	})
}

// requireSession gates an API handler on the session cookie.
func (s *Server) requireSession(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.Has(r) {
			writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
			return
		}
		next(w, r)
	})
}
