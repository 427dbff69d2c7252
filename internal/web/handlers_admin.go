// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	"github.com/zusammen-umzuege/zusammen/pkg/errutil"
)

type adminView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type createAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// toAdminView strips credential fields from a user for API responses.
func toAdminView(u *auth.User) adminView {
	return adminView{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	users, err := s.auth.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	views := make([]adminView, 0, len(users))
	for _, u := range users {
		views = append(views, toAdminView(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"admins": views})
}

func (s *Server) handleCreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.auth.CreateAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"admin":   toAdminView(user),
	})
}

func (s *Server) handleDeleteAdmin(w http.ResponseWriter, r *http.Request) {
	id, err := ulid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(errutil.KeyError))
		return
	}

	deleted, err := s.auth.DeleteUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorBody(errutil.KeyUserNotFound))
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
