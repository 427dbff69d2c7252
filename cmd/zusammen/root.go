// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Zusammen CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zusammen",
		Short: "Zusammen Umzüge - moving company back office",
		Long: `Zusammen Umzüge back office: quote intake, admin accounts with
password recovery, and invoice generation for a moving company.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}
