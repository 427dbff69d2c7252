// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Zusammen Umzüge

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/zusammen-umzuege/zusammen/internal/auth"
	authpg "github.com/zusammen-umzuege/zusammen/internal/auth/postgres"
	"github.com/zusammen-umzuege/zusammen/internal/config"
	"github.com/zusammen-umzuege/zusammen/internal/logging"
	"github.com/zusammen-umzuege/zusammen/internal/mail"
	"github.com/zusammen-umzuege/zusammen/internal/observability"
	"github.com/zusammen-umzuege/zusammen/internal/quote"
	quotepg "github.com/zusammen-umzuege/zusammen/internal/quote/postgres"
	"github.com/zusammen-umzuege/zusammen/internal/store"
	"github.com/zusammen-umzuege/zusammen/internal/web"
)

const shutdownTimeout = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the back-office HTTP server",
		Long: `Start the HTTP server: public quote intake, the admin JSON API,
locale-routed pages, and the metrics/health endpoint.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().String("server.addr", "", "HTTP listen address")
	cmd.Flags().String("observability.addr", "", "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("log.format", "", "log format (json or text)")
	cmd.Flags().String("log.level", "", "log level (debug, info, warn, error)")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg config.Config) error {
	logging.SetDefault("zusammen", version, cfg.Log.Format, cfg.Log.Level)
	logger := slog.Default()

	logger.Info("starting back office",
		"addr", cfg.Server.Addr,
		"environment", cfg.Server.Environment)

	pool, err := store.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.Info("connected to database")

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

	logger.Info("migrations applied")

	// Wire services
	mailer := mail.NewSMTPMailer(cfg.SMTP, cfg.Server.SiteURL, cfg.Server.DefaultLocale, cfg.IsProduction(), logger)
	authSvc, err := auth.NewService(
		authpg.NewUserRepository(pool),
		authpg.NewResetTokenRepository(pool),
		auth.NewBcryptHasher(),
		mailer,
		cfg.Auth.LegacyLogin,
		logger,
	)
	if err != nil {
		return err
	}
	quoteSvc, err := quote.NewService(quotepg.NewRequestRepository(pool), logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Observability server: readiness is a database ping.
	var (
		obsServer *observability.Server
		metrics   *observability.Metrics
	)
	if cfg.Observability.Addr != "" {
		obsServer = observability.NewServer(cfg.Observability.Addr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return err
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	webServer, err := web.NewServer(web.Options{
		Addr:          cfg.Server.Addr,
		Auth:          authSvc,
		Quotes:        quoteSvc,
		Sessions:      auth.NewSessionManager(cfg.IsProduction()),
		Metrics:       metrics,
		DefaultLocale: cfg.Server.DefaultLocale,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	webErrCh, err := webServer.Start()
	if err != nil {
		if obsServer != nil {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer stopCancel()
			if stopErr := obsServer.Stop(stopCtx); stopErr != nil {
				logger.Warn("failed to stop observability server during cleanup", "error", stopErr)
			}
		}
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("Back office started on " + webServer.Addr())
	logger.Info("back office ready", "addr", webServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	var shutdownErr error
	if err := webServer.Stop(shutdownCtx); err != nil {
		logger.Warn("error stopping web server", "error", err)
		shutdownErr = err
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			logger.Warn("error stopping observability server", "error", err)
			shutdownErr = err
		}
	}
	if shutdownErr != nil {
		return oops.With("operation", "shutdown").Wrap(shutdownErr)
	}

	logger.Info("shutdown complete")
	return nil
}

// monitorServerErrors cancels the context when a server reports an error,
// triggering graceful shutdown of the whole process. It exits when an error
// arrives, the channel closes, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
