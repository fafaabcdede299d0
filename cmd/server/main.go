// WealthVault - Personal Finance and Portfolio Tracking API
// Copyright 2026 WealthVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/wealthvault/server

// Command server runs the WealthVault HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/wealthvault/server/internal/api"
	"github.com/wealthvault/server/internal/auth"
	"github.com/wealthvault/server/internal/config"
	"github.com/wealthvault/server/internal/database"
	"github.com/wealthvault/server/internal/logging"
	"github.com/wealthvault/server/internal/metrics"
)

const shutdownTimeout = 15 * time.Second

// sessionPruneInterval controls how often expired refresh sessions are
// removed.
const sessionPruneInterval = time.Hour

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("Server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Str("environment", cfg.Server.Environment).
		Msg("Starting WealthVault server")
	metrics.AppInfo.WithLabelValues(api.Version, runtime.Version()).Set(1)

	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	jwtManager, err := auth.NewJWTManager(&cfg.Security)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}
	sessions := auth.NewSessionStore(db, cfg.Security.RefreshTokenTTL)

	handler := api.NewHandler(db, cfg, jwtManager, sessions)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go pruneSessions(ctx, sessions)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("Server stopped")
	return nil
}

// pruneSessions periodically deletes expired refresh sessions.
func pruneSessions(ctx context.Context, sessions *auth.SessionStore) {
	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.PruneExpired(ctx)
			if err != nil {
				logging.Warn().Err(err).Msg("Session prune failed")
				continue
			}
			if n > 0 {
				logging.Debug().Int64("removed", n).Msg("Pruned expired sessions")
			}
		}
	}
}
