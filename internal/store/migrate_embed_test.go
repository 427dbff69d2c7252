// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err, "should read embedded migrations directory")

	// 3 migrations, each with up and down = 6 files
	assert.GreaterOrEqual(t, len(entries), 6, "should have at least 6 migration files (3 up + 3 down)")

	fileNames := make(map[string]bool)
	for _, entry := range entries {
		fileNames[entry.Name()] = true
	}

	expectedFiles := []string{
		"000001_users.up.sql",
		"000001_users.down.sql",
		"000002_reset_tokens.up.sql",
		"000002_reset_tokens.down.sql",
		"000003_move_requests.up.sql",
		"000003_move_requests.down.sql",
	}
	for _, expected := range expectedFiles {
		assert.True(t, fileNames[expected], "should contain %s", expected)
	}

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		assert.True(t, pattern.MatchString(entry.Name()),
			"file %s should match pattern NNNNNN_name.(up|down).sql", entry.Name())
	}
}
