// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package errutil

import (
	"net/http"

	"github.com/samber/oops"
)

// User-facing error keys. The web frontend translates these; handlers must
// never leak internal error text to clients.
const (
	KeyPasswordMismatch      = "passwordMismatch"
	KeyEmailExists           = "emailExists"
	KeyError                 = "error"
	KeyInvalidOrExpiredToken = "invalidOrExpiredToken"
	KeyUserNotFound          = "userNotFound"
	KeyServerError           = "serverError"
)

// httpByCode maps internal error codes to transport status and user key.
// Expired and unknown tokens share one key on purpose: the form cannot help
// the user differently, and distinguishing them aids token guessing.
var httpByCode = map[string]struct {
	status int
	key    string
}{
	"AUTH_PASSWORD_MISMATCH":   {http.StatusBadRequest, KeyPasswordMismatch},
	"AUTH_EMAIL_EXISTS":        {http.StatusConflict, KeyEmailExists},
	"AUTH_INVALID_CREDENTIALS": {http.StatusUnauthorized, KeyError},
	"AUTH_ACCOUNT_LOCKED":      {http.StatusTooManyRequests, KeyError},
	"AUTH_INVALID_EMAIL":       {http.StatusBadRequest, KeyError},
	"AUTH_INVALID_NAME":        {http.StatusBadRequest, KeyError},
	"AUTH_EMPTY_PASSWORD":      {http.StatusBadRequest, KeyError},
	"RESET_TOKEN_INVALID":      {http.StatusBadRequest, KeyInvalidOrExpiredToken},
	"RESET_TOKEN_EXPIRED":      {http.StatusBadRequest, KeyInvalidOrExpiredToken},
	"RESET_USER_NOT_FOUND":     {http.StatusNotFound, KeyUserNotFound},
	"RESET_MAIL_FAILED":        {http.StatusInternalServerError, KeyServerError},
	"QUOTE_INVALID":            {http.StatusBadRequest, KeyError},
	"INVOICE_INVALID":          {http.StatusBadRequest, KeyError},
}

// HTTPStatus resolves an error to the HTTP status code and user-facing error
// key a handler should respond with. Unrecognized errors, including non-oops
// errors, come back as 500/serverError.
func HTTPStatus(err error) (int, string) {
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok {
			if m, found := httpByCode[code]; found {
				return m.status, m.key
			}
		}
	}
	return http.StatusInternalServerError, KeyServerError
}
