// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"fmt"
	"net/http"
	"strings"
)

// handleAdminRedirect sends /admin to the invoice page or the login page,
// depending on whether the visitor already has a session.
func (s *Server) handleAdminRedirect(w http.ResponseWriter, r *http.Request) {
	target := fmt.Sprintf("/%s/login", s.defaultLocale)
	if s.sessions.Has(r) {
		target = fmt.Sprintf("/%s/invoice", s.defaultLocale)
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// handlePage is the locale-routed page fallback. Protected pages redirect to
// the locale's login page when no session cookie is present.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if skipLocaleRouting(r.URL.Path) {
		http.NotFound(w, r)
		return
	}

	locale, rest := s.splitLocale(r.URL.Path)
	page, _, _ := strings.Cut(strings.TrimPrefix(rest, "/"), "/")

	switch {
	case protectedPages[page]:
		if !s.sessions.Has(r) {
			http.Redirect(w, r, fmt.Sprintf("/%s/login", locale), http.StatusTemporaryRedirect)
			return
		}
	case publicPages[page]:
		// fall through to the shell
	default:
		http.NotFound(w, r)
		return
	}

	s.renderShell(w, locale, page)
}

// renderShell serves the minimal HTML document the client app boots from.
// The rendered front end ships separately; the server's job here is locale
// routing and the access gate.
func (s *Server) renderShell(w http.ResponseWriter, locale, page string) {
	dir := "ltr"
	if locale == "ar" {
		dir = "rtl"
	}
	if page == "" {
		page = "home"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang=%q dir=%q>
<head><meta charset="utf-8"><title>Zusammen Umzüge</title></head>
<body data-page=%q></body>
</html>
`, locale, dir, page)
}
