// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// ResetMailer delivers a password-reset link to a user's email address.
// Implementations report success as a bool and never raise transport faults.
type ResetMailer interface {
	SendPasswordResetEmail(ctx context.Context, email, token string) bool
}

// Legacy fallback credentials observed in the deployment this replaces.
// Only honored when legacy login is explicitly enabled in configuration.
const (
	legacyEmail    = "admin"
	legacyPassword = "admin123"
)

// dummyPasswordHash is verified when a user doesn't exist so response time
// stays consistent with the real-user path. It is a syntactically valid
// bcrypt hash that can never match any password.
//
//nolint:gosec // G101: intentionally fake hash for timing consistency, not a credential.
const dummyPasswordHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service is the auth flow controller: it orchestrates the credential store,
// password hasher, token issuer, and mailer as atomic operations over a
// browsing context. Session cookies themselves are set by the transport layer
// (SessionManager) once an operation reports success.
type Service struct {
	users       UserRepository
	resets      ResetTokenRepository
	hasher      PasswordHasher
	mailer      ResetMailer
	legacyLogin bool
	logger      *slog.Logger

	// sleep waits out the progressive login throttle; injectable for tests.
	sleep func(ctx context.Context, d time.Duration)
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLoginThrottleWait replaces how the progressive login throttle waits.
// Tests substitute a no-op or recording function to avoid real sleeps.
func WithLoginThrottleWait(fn func(ctx context.Context, d time.Duration)) ServiceOption {
	return func(s *Service) { s.sleep = fn }
}

// NewService creates the auth flow controller. legacyLogin enables the
// hardcoded admin/admin123 fallback carried over from the old deployment;
// leave it off unless migrating an installation that still depends on it.
func NewService(users UserRepository, resets ResetTokenRepository, hasher PasswordHasher, mailer ResetMailer, legacyLogin bool, logger *slog.Logger, opts ...ServiceOption) (*Service, error) {
	if users == nil {
		return nil, oops.Errorf("user repository is required")
	}
	if resets == nil {
		return nil, oops.Errorf("reset token repository is required")
	}
	if hasher == nil {
		return nil, oops.Errorf("password hasher is required")
	}
	if mailer == nil {
		return nil, oops.Errorf("mailer is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		users:       users,
		resets:      resets,
		hasher:      hasher,
		mailer:      mailer,
		legacyLogin: legacyLogin,
		logger:      logger,
		sleep:       waitFor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// waitFor blocks for d or until the context is done.
func waitFor(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Register creates a new admin account. On success the caller starts a
// session for the browsing context (Anonymous -> Authenticated).
func (s *Service) Register(ctx context.Context, name, email, password, confirmPassword string) (*User, error) {
	if password != confirmPassword {
		return nil, oops.Code("AUTH_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}

	// Best-effort pre-check for a friendlier error; the unique index on
	// email remains the authoritative guard against the check-then-insert race.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, oops.Code("AUTH_EMAIL_EXISTS").With("email", email).Errorf("email already registered")
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	user, err := NewUser(name, email, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, oops.Code("AUTH_EMAIL_EXISTS").With("email", email).Errorf("email already registered")
		}
		return nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "create user").
			Wrap(err)
	}

	s.logger.Info("admin registered", "user_id", user.ID.String(), "email", email)
	return user, nil
}

// Login authenticates an admin. Returns the session lifetime the transport
// should use for the cookie pair. The failure is deliberately generic:
// "no such user" and "wrong password" are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (time.Duration, error) {
	user, lookupErr := s.users.GetByEmail(ctx, email)

	targetHash := dummyPasswordHash
	userExists := false
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return 0, oops.Code("AUTH_LOGIN_FAILED").
				With("operation", "get user by email").
				Wrap(lookupErr)
		}
	} else {
		targetHash = user.PasswordHash
		userExists = true
	}

	// Prior failures buy an increasing delay before the attempt is evaluated,
	// slowing brute force well before the hard lockout kicks in.
	if userExists {
		if throttle := CheckFailures(user.FailedAttempts, user.LockedUntil); throttle.Delay > 0 {
			s.sleep(ctx, throttle.Delay)
		}
	}

	// Always verify, against the dummy hash if needed, so response time does
	// not leak whether the email is registered.
	valid := s.hasher.Verify(password, targetHash)

	if !userExists || !valid {
		if userExists {
			user.RecordFailure()
			_ = s.users.Update(ctx, user) //nolint:errcheck // Best effort
		}
		if s.legacyLogin && email == legacyEmail && password == legacyPassword {
			s.logger.Warn("legacy fallback login used", "email", email)
			return LegacySessionTTL, nil
		}
		return 0, oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("invalid email or password")
	}

	// Lockout is checked after verification to keep the timing profile flat.
	if user.IsLocked() {
		return 0, oops.Code("AUTH_ACCOUNT_LOCKED").
			With("locked_until", user.LockedUntil).
			Errorf("account is temporarily locked")
	}

	user.RecordSuccess()
	_ = s.users.Update(ctx, user) //nolint:errcheck // Best effort, login succeeds regardless

	return SessionTTL, nil
}

// RequestPasswordReset starts the recovery sub-flow for an email address.
// For unknown emails it succeeds without creating a token or sending mail,
// so the caller-visible result never reveals whether the account exists.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.logger.Debug("reset requested for unknown email", "email", email)
			return nil
		}
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "get user by email").
			Wrap(err)
	}

	// At most one live token per user: clear prior tokens before issuing.
	// Delete-then-insert is not atomic across a crash; a residual orphan is
	// unusable noise since resets match on the exact token hash.
	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "delete existing tokens").
			Wrap(err)
	}

	token, hash := IssueResetToken()
	reset, err := NewResetToken(user.ID, hash, time.Now().Add(ResetTokenExpiry))
	if err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "new reset token").
			Wrap(err)
	}

	if err := s.resets.Create(ctx, reset); err != nil {
		return oops.Code("RESET_REQUEST_FAILED").
			With("operation", "create reset token").
			Wrap(err)
	}

	if ok := s.mailer.SendPasswordResetEmail(ctx, user.Email, token); !ok {
		return oops.Code("RESET_MAIL_FAILED").
			With("email", user.Email).
			Errorf("failed to send reset email")
	}

	s.logger.Info("password reset requested", "user_id", user.ID.String())
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
// It does not start a session; the user logs in afterwards.
func (s *Service) ResetPassword(ctx context.Context, token, password, confirmPassword string) error {
	if password != confirmPassword {
		return oops.Code("AUTH_PASSWORD_MISMATCH").Errorf("passwords do not match")
	}

	reset, err := s.resets.GetByTokenHash(ctx, HashResetToken(token))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("RESET_TOKEN_INVALID").Errorf("reset token not found")
		}
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "get token by hash").
			Wrap(err)
	}

	if reset.IsExpired() {
		return oops.Code("RESET_TOKEN_EXPIRED").Errorf("reset token has expired")
	}

	user, err := s.users.GetByID(ctx, reset.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code("RESET_USER_NOT_FOUND").
				With("user_id", reset.UserID.String()).
				Errorf("token owner no longer exists")
		}
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "get user by id").
			Wrap(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return oops.Code("RESET_PASSWORD_FAILED").
			With("operation", "update password").
			Wrap(err)
	}

	// Single-use: remove the consumed token (and any stragglers for the user).
	if err := s.resets.DeleteByUser(ctx, user.ID); err != nil {
		// The password was already updated; log and carry on.
		s.logger.Warn("failed to delete consumed reset token",
			"user_id", user.ID.String(), "error", err)
	}

	s.logger.Info("password reset completed", "user_id", user.ID.String())
	return nil
}

// ListUsers returns all admin accounts, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, oops.Code("AUTH_LIST_FAILED").
			With("operation", "list users").
			Wrap(err)
	}
	return users, nil
}

// CreateAdmin creates a new admin account on behalf of an authenticated
// admin. Unlike Register it takes no confirmation field and starts no session.
func (s *Service) CreateAdmin(ctx context.Context, name, email, password string) (*User, error) {
	return s.Register(ctx, name, email, password, password)
}

// DeleteUser removes an admin account. Idempotent; reports whether a record
// was removed.
func (s *Service) DeleteUser(ctx context.Context, id ulid.ULID) (bool, error) {
	removed, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, oops.Code("AUTH_DELETE_FAILED").
			With("operation", "delete user").
			With("user_id", id.String()).
			Wrap(err)
	}
	if removed {
		s.logger.Info("admin deleted", "user_id", id.String())
	}
	return removed, nil
}
