// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/sentinel/pkg/config"
	"github.com/AleutianAI/sentinel/server"
	"github.com/AleutianAI/sentinel/store"
)

const shutdownGrace = 10 * time.Second

// runServe starts the HTTP/WebSocket server and blocks until SIGINT
// or SIGTERM.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, "sentinel")
	defer logger.Close()

	gin.SetMode(gin.ReleaseMode)

	p, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	handlers := server.NewHandlers(p.evaluator)
	handlers.SetDefaultIterations(cfg.MaxIterations)

	var history *store.History
	if cfg.StorePath != "" {
		history, err = store.Open(store.Config{Path: cfg.StorePath, Logger: slog.Default()})
		if err != nil {
			return err
		}
		defer history.Close()
		handlers.WithHistory(history)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Hot-reload tunables that are safe to change on a live server:
	// log level, fallback substitution, default loop length.
	if watcher, werr := config.NewWatcher(configPath, newReloadHandler(logger, p, handlers)); werr == nil {
		go watcher.Start(ctx)
	} else if !os.IsNotExist(werr) {
		slog.Warn("Config watch disabled", "error", werr)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewRouter(handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting Sentinel server", "addr", cfg.ListenAddr, "provider", cfg.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down Sentinel server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
