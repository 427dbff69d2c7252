// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"net/http"

	"github.com/zusammen-umzuege/zusammen/internal/quote"
)

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var sub quote.Submission
	if !decodeJSON(w, r, &sub) {
		return
	}

	req, err := s.quotes.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.QuoteSubmissionsTotal.Inc()
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"id":      req.ID.String(),
	})
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := s.quotes.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if reqs == nil {
		reqs = []*quote.MoveRequest{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}
