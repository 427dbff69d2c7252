// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package main

import (
	"fmt"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zusammen-umzuege/zusammen/internal/config"
	"github.com/zusammen-umzuege/zusammen/internal/store"
)

// NewMigrateCmd creates the migrate subcommand with its actions.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long:  `Apply, roll back, and inspect schema migrations against the PostgreSQL database.`,
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateDownCmd())
	cmd.AddCommand(newMigrateStepsCmd())
	cmd.AddCommand(newMigrateVersionCmd())
	cmd.AddCommand(newMigrateForceCmd())
	cmd.AddCommand(newMigrateStatusCmd())

	return cmd
}

// withMigrator loads config, opens a migrator, and closes it afterwards.
func withMigrator(fn func(cmd *cobra.Command, m *store.Migrator) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile, nil)
		if err != nil {
			return err
		}

		m, err := store.NewMigrator(cfg.Database.URL)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := m.Close(); closeErr != nil {
				cmd.PrintErrln("warning: failed to close migrator:", closeErr)
			}
		}()

		return fn(cmd, m)
	}
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			if err := m.Up(); err != nil {
				return err
			}
			cmd.Println("Migrations applied")
			return nil
		}),
	}
}

func newMigrateDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			if err := m.Down(); err != nil {
				return err
			}
			cmd.Println("Migrations rolled back")
			return nil
		}),
	}
}

func newMigrateStepsCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "steps",
		Short: "Apply n migrations (negative rolls back)",
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			if n == 0 {
				return oops.Code("INVALID_STEPS").Errorf("steps count cannot be zero")
			}
			if err := m.Steps(n); err != nil {
				return err
			}
			cmd.Printf("Applied %d migration step(s)\n", n)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&n, "count", "n", 0, "number of steps (negative rolls back)")
	_ = cmd.MarkFlagRequired("count") //nolint:errcheck // flag is declared above

	return cmd
}

func newMigrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			version, dirty, err := m.Version()
			if err != nil {
				return err
			}
			if version == 0 {
				cmd.Println("No migrations applied")
				return nil
			}
			name, err := store.MigrationName(version)
			if err != nil {
				name = "unknown"
			}
			cmd.Printf("Version: %d (%s), dirty: %t\n", version, name, dirty)
			return nil
		}),
	}
}

func newMigrateForceCmd() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the migration version without running migrations",
		Long:  `Overrides the recorded schema version after manual repair of a dirty state.`,
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			if err := m.Force(version); err != nil {
				return err
			}
			cmd.Printf("Forced version to %d\n", version)
			return nil
		}),
	}

	cmd.Flags().IntVar(&version, "version", 0, "version to force")
	_ = cmd.MarkFlagRequired("version") //nolint:errcheck // flag is declared above

	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		RunE: withMigrator(func(cmd *cobra.Command, m *store.Migrator) error {
			applied, err := m.AppliedMigrations()
			if err != nil {
				return err
			}
			pending, err := m.PendingMigrations()
			if err != nil {
				return err
			}

			cmd.Println(formatMigrationList("Applied", applied))
			cmd.Println(formatMigrationList("Pending", pending))
			return nil
		}),
	}
}

func formatMigrationList(header string, versions []uint) string {
	out := fmt.Sprintf("%s (%d):", header, len(versions))
	if len(versions) == 0 {
		return out + " none"
	}
	for _, v := range versions {
		name, err := store.MigrationName(v)
		if err != nil {
			name = "unknown"
		}
		out += fmt.Sprintf("\n  %06d %s", v, name)
	}
	return out
}
