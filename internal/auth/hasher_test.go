// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
)

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	hasher := auth.NewBcryptHasher()

	t.Run("hashes and verifies a password", func(t *testing.T) {
		hash, err := hasher.Hash("sicher123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))

		assert.True(t, hasher.Verify("sicher123", hash))
		assert.False(t, hasher.Verify("falsch", hash))
	})

	t.Run("uses the configured cost", func(t *testing.T) {
		hash, err := hasher.Hash("sicher123")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, auth.BcryptCost, cost)
	})

	t.Run("same password yields different hashes", func(t *testing.T) {
		h1, err := hasher.Hash("sicher123")
		require.NoError(t, err)
		h2, err := hasher.Hash("sicher123")
		require.NoError(t, err)
		assert.NotEqual(t, h1, h2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})

	t.Run("verify fails closed on malformed hash", func(t *testing.T) {
		assert.False(t, hasher.Verify("sicher123", "not-a-bcrypt-hash"))
		assert.False(t, hasher.Verify("sicher123", ""))
	})
}
