// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package web serves the back-office HTTP API and the locale-routed pages.
package web

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	"github.com/zusammen-umzuege/zusammen/internal/observability"
	"github.com/zusammen-umzuege/zusammen/internal/quote"
)

// Options wires the server's collaborators.
type Options struct {
	Addr          string
	Auth          *auth.Service
	Quotes        *quote.Service
	Sessions      *auth.SessionManager
	Metrics       *observability.Metrics // optional
	DefaultLocale string
	Logger        *slog.Logger
}

// Server is the public HTTP server: JSON APIs plus locale-aware page routing.
type Server struct {
	addr          string
	listener      net.Listener
	httpServer    *http.Server
	auth          *auth.Service
	quotes        *quote.Service
	sessions      *auth.SessionManager
	metrics       *observability.Metrics
	defaultLocale string
	logger        *slog.Logger
	running       atomic.Bool
}

// NewServer creates a web server.
func NewServer(opts Options) (*Server, error) {
	if opts.Auth == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if opts.Quotes == nil {
		return nil, oops.Errorf("quote service is required")
	}
	if opts.Sessions == nil {
		return nil, oops.Errorf("session manager is required")
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = defaultLocale
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Server{
		addr:          opts.Addr,
		auth:          opts.Auth,
		quotes:        opts.Quotes,
		sessions:      opts.Sessions,
		metrics:       opts.Metrics,
		defaultLocale: opts.DefaultLocale,
		logger:        opts.Logger,
	}, nil
}

// Handler builds the full route table with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Auth API
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /api/auth/forgot-password", s.handleForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password", s.handleResetPassword)

	// Quote intake: submission is public, the listing is admin-only.
	mux.HandleFunc("POST /api/requests", s.handleCreateRequest)
	mux.Handle("GET /api/requests", s.requireSession(s.handleListRequests))

	// Admin management
	mux.Handle("GET /api/admins", s.requireSession(s.handleListAdmins))
	mux.Handle("POST /api/admins", s.requireSession(s.handleCreateAdmin))
	mux.Handle("DELETE /api/admins/{id}", s.requireSession(s.handleDeleteAdmin))

	// Invoices
	mux.Handle("POST /api/invoices/pdf", s.requireSession(s.handleInvoicePDF))

	// Back-office entry point
	mux.HandleFunc("GET /admin", s.handleAdminRedirect)

	// Everything else is a page path and goes through locale routing.
	mux.HandleFunc("/", s.handlePage)

	var h http.Handler = mux
	h = s.withSessionHeal(h)
	h = s.withMetrics(h)
	h = s.withLogging(h)
	return h
}

// Start begins serving. It returns an error channel that receives any error
// from the HTTP server after startup; the channel is closed on graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("web server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.logger.Error("web server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.logger.Info("web server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_web_server").Wrap(err)
		}
	}

	s.logger.Info("web server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
