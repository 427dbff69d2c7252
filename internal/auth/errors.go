// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert violates the unique email
// constraint. The storage layer is the authoritative guard; application-level
// existence checks are a best-effort pre-check only.
var ErrDuplicateEmail = errors.New("email already registered")
