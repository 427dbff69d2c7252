// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package main

import (
	"context"
	"errors"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	authpg "github.com/zusammen-umzuege/zusammen/internal/auth/postgres"
	"github.com/zusammen-umzuege/zusammen/internal/config"
	"github.com/zusammen-umzuege/zusammen/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// seedConfig holds configuration for the seed command.
type seedConfig struct {
	timeout time.Duration
}

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	cfg := &seedConfig{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the bootstrap admin account",
		Long: `Creates the first admin account from auth.bootstrap_email and
auth.bootstrap_password. Idempotent: an existing account with that email is
left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, args, cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string, seedCfg *seedConfig) error {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		return err
	}

	if cfg.Auth.BootstrapEmail == "" || cfg.Auth.BootstrapPassword == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("auth.bootstrap_email and auth.bootstrap_password are required for seeding")
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals
	ctx, cancel := context.WithTimeout(cmd.Context(), seedCfg.timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	cmd.Println("Running migrations...")
	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		return err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close() //nolint:errcheck // close error is secondary to the migration failure
		return err
	}
	if err := migrator.Close(); err != nil {
		return err
	}

	hash, err := auth.NewBcryptHasher().Hash(cfg.Auth.BootstrapPassword)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "hash bootstrap password").Wrap(err)
	}

	user, err := auth.NewUser("Administrator", cfg.Auth.BootstrapEmail, hash)
	if err != nil {
		return oops.Code("SEED_FAILED").With("operation", "build bootstrap user").Wrap(err)
	}

	// The unique email index makes duplicate seeding a no-op.
	if err := authpg.NewUserRepository(pool).Create(ctx, user); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			cmd.Println("Bootstrap admin already exists, skipping seed")
			return nil
		}
		return oops.Code("SEED_FAILED").With("operation", "create bootstrap admin").Wrap(err)
	}

	cmd.Println("Bootstrap admin created:", cfg.Auth.BootstrapEmail)
	return nil
}
