// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"net/http"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
)

type registerRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (s *Server) recordAuthAttempt(outcome string) {
	if s.metrics != nil {
		s.metrics.AuthAttemptsTotal.WithLabelValues(outcome).Inc()
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	s.sessions.Start(w, auth.SessionTTL)
	writeJSON(w, http.StatusCreated, map[string]bool{"success": true})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ttl, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.recordAuthAttempt("failure")
		writeError(w, err)
		return
	}

	s.recordAuthAttempt("success")
	s.sessions.Start(w, ttl)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.End(w)
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if s.metrics != nil {
			s.metrics.ResetMailsTotal.WithLabelValues("failed").Inc()
		}
		writeError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ResetMailsTotal.WithLabelValues("ok").Inc()
	}
	// Unknown addresses get the same answer as known ones.
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.auth.ResetPassword(r.Context(), req.Token, req.Password, req.ConfirmPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
