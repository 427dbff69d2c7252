// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

// Package auth provides the authentication core for the back office:
// password hashing, admin accounts, the cookie session model, and the
// password-reset token lifecycle.
package auth
