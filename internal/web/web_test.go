// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	authmocks "github.com/zusammen-umzuege/zusammen/internal/auth/mocks"
	"github.com/zusammen-umzuege/zusammen/internal/quote"
	quotemocks "github.com/zusammen-umzuege/zusammen/internal/quote/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testDeps bundles the mocks behind a fully wired test server.
type testDeps struct {
	users    *authmocks.MockUserRepository
	resets   *authmocks.MockResetTokenRepository
	hasher   *authmocks.MockPasswordHasher
	mailer   *authmocks.MockResetMailer
	requests *quotemocks.MockRequestRepository
}

func newTestServer(t *testing.T) (*Server, *testDeps) {
	t.Helper()

	deps := &testDeps{
		users:    authmocks.NewMockUserRepository(t),
		resets:   authmocks.NewMockResetTokenRepository(t),
		hasher:   authmocks.NewMockPasswordHasher(t),
		mailer:   authmocks.NewMockResetMailer(t),
		requests: quotemocks.NewMockRequestRepository(t),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	authSvc, err := auth.NewService(deps.users, deps.resets, deps.hasher, deps.mailer, false, logger)
	require.NoError(t, err)

	quoteSvc, err := quote.NewService(deps.requests, logger)
	require.NoError(t, err)

	srv, err := NewServer(Options{
		Addr:     "127.0.0.1:0",
		Auth:     authSvc,
		Quotes:   quoteSvc,
		Sessions: auth.NewSessionManager(false),
		Logger:   logger,
	})
	require.NoError(t, err)
	return srv, deps
}

// doJSON runs a request against the full handler chain.
func doJSON(t *testing.T, srv *Server, method, path, body string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if withSession {
		req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "true"})
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// cookieByName finds a Set-Cookie entry in a response.
func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
