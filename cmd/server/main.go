// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Command server runs the Tablerank aggregation service: it wires the
// catalog gateway, the entity cache and the aggregation orchestrator
// behind the HTTP API and handles graceful shutdown.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/tablekit/tablerank/internal/aggregate"
	"github.com/tablekit/tablerank/internal/api"
	"github.com/tablekit/tablerank/internal/catalog"
	"github.com/tablekit/tablerank/internal/config"
	"github.com/tablekit/tablerank/internal/logging"
	"github.com/tablekit/tablerank/internal/store"
)

// shutdownTimeout bounds the drain of in-flight requests on shutdown.
const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("backend", cfg.Store.Backend).
		Str("catalog", cfg.Catalog.BaseURL).
		Msg("Starting Tablerank")

	backing, cleanup, err := openStore(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open entity store")
	}
	defer cleanup()

	cache := store.NewEntityCache(backing, cfg.Store.MaxAge)
	gateway := catalog.NewClient(&cfg.Catalog)
	orchestrator := aggregate.New(gateway, cache)
	handler := api.NewHandler(orchestrator, cfg)

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, &cfg.API),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutting down")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// openStore opens the configured entity store backend and returns it
// with its cleanup function.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), func() {}, nil
	default:
		db, err := store.OpenBadger(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logging.Error().Err(err).Msg("Failed to close badger")
			}
		}
		return store.NewBadgerStore(db), cleanup, nil
	}
}
