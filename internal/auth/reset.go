// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package auth

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ResetTokenExpiry is the server-enforced validity window for reset tokens.
// The reset email promises one hour; here it is actually checked.
const ResetTokenExpiry = time.Hour

// ResetToken represents a password reset request.
// The plaintext token travels in the reset link; only its SHA-256 hash is
// stored, so a leaked database dump cannot be replayed against the reset form.
type ResetToken struct {
	ID        ulid.ULID
	UserID    ulid.ULID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// NewResetToken creates a validated ResetToken instance.
func NewResetToken(userID ulid.ULID, tokenHash string, expiresAt time.Time) (*ResetToken, error) {
	if userID.Compare(ulid.ULID{}) == 0 {
		return nil, oops.Code("RESET_INVALID_USER").Errorf("user ID cannot be zero")
	}
	if tokenHash == "" {
		return nil, oops.Code("RESET_INVALID_HASH").Errorf("token hash cannot be empty")
	}
	if expiresAt.IsZero() {
		return nil, oops.Code("RESET_INVALID_EXPIRY").Errorf("expiry time cannot be zero")
	}

	return &ResetToken{
		ID:        ulid.Make(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// IsExpired returns true if the reset token has expired.
func (t *ResetToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

// IssueResetToken generates a fresh single-use token and its storage hash.
// The token is a v4 UUID: 122 bits of crypto/rand entropy, not derivable
// from the user id, a timestamp, or anything else observable.
// Returns (plaintext_token, sha256_hash).
func IssueResetToken() (token, hash string) {
	token = uuid.NewString()
	hash = HashResetToken(token)
	return token, hash
}

// HashResetToken computes the SHA-256 hash of a token for storage and lookup.
func HashResetToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

// VerifyResetToken checks if the plaintext token matches the stored hash.
// Uses constant-time comparison to prevent timing attacks.
func VerifyResetToken(token, hash string) bool {
	if token == "" || hash == "" {
		return false
	}
	computed := HashResetToken(token)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

// ResetTokenRepository manages password reset persistence.
type ResetTokenRepository interface {
	// Create stores a new reset token.
	Create(ctx context.Context, token *ResetToken) error

	// GetByTokenHash retrieves a reset token by its token hash.
	GetByTokenHash(ctx context.Context, tokenHash string) (*ResetToken, error)

	// Delete removes a reset token by ID.
	Delete(ctx context.Context, id ulid.ULID) error

	// DeleteByUser removes all reset tokens for a user.
	DeleteByUser(ctx context.Context, userID ulid.ULID) error

	// DeleteExpired removes all expired reset tokens and returns the count
	// of deleted records.
	DeleteExpired(ctx context.Context) (int64, error)
}
