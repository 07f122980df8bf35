// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package config defines the application configuration and loads it
// from layered sources (defaults, optional YAML file, environment
// variables) via Koanf v2.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Catalog CatalogConfig `koanf:"catalog"`
	Store   StoreConfig   `koanf:"store"`
	Scoring ScoringConfig `koanf:"scoring"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// CatalogConfig configures the catalog gateway client.
type CatalogConfig struct {
	// BaseURL is the root of the catalog XML API.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// MaxRetries bounds retries for queued (202) and rate-limited (429)
	// responses.
	MaxRetries int `koanf:"max_retries" validate:"min=0,max=10"`

	// RetryBaseDelay is the initial backoff delay; it doubles per retry.
	RetryBaseDelay time.Duration `koanf:"retry_base_delay"`

	// RequestsPerSecond is the courtesy rate limit toward the catalog
	// service.
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gt=0"`

	// BreakerFailures is the consecutive-failure threshold that opens
	// the circuit breaker.
	BreakerFailures int `koanf:"breaker_failures" validate:"min=1"`

	// BreakerOpenFor is how long the breaker stays open before probing.
	BreakerOpenFor time.Duration `koanf:"breaker_open_for"`
}

// StoreConfig configures the entity cache backend.
type StoreConfig struct {
	// Backend selects the physical store: "badger" or "memory".
	Backend string `koanf:"backend" validate:"oneof=badger memory"`

	// Path is the BadgerDB directory (badger backend only).
	Path string `koanf:"path"`

	// MaxAge is the age beyond which cached entries are refetched.
	// Zero keeps entries forever.
	MaxAge time.Duration `koanf:"max_age"`
}

// ScoringConfig carries the composite-index defaults: per-dimension
// weights (0 disables a dimension) and the ideal values used for the
// proximity dimensions.
type ScoringConfig struct {
	UserRatingWeight    float64 `koanf:"user_rating_weight" validate:"min=0"`
	AverageRatingWeight float64 `koanf:"average_rating_weight" validate:"min=0"`
	GeekRatingWeight    float64 `koanf:"geek_rating_weight" validate:"min=0"`
	PlayerCountWeight   float64 `koanf:"player_count_weight" validate:"min=0"`
	WeightFitWeight     float64 `koanf:"weight_fit_weight" validate:"min=0"`
	TimeFitWeight       float64 `koanf:"time_fit_weight" validate:"min=0"`

	// IdealWeight is the target complexity on the 1-5 scale.
	IdealWeight float64 `koanf:"ideal_weight" validate:"min=0,max=5"`

	// IdealTime is the target play time in minutes.
	IdealTime float64 `koanf:"ideal_time" validate:"min=0"`
}

// APIConfig configures the HTTP API surface.
type APIConfig struct {
	CORSOrigins     []string      `koanf:"cors_origins"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// MaxUsernames and MaxGameIDs bound one aggregation request.
	MaxUsernames int `koanf:"max_usernames" validate:"min=1"`
	MaxGameIDs   int `koanf:"max_game_ids" validate:"min=1"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for structural errors. It is run
// once after loading; an invalid configuration aborts startup.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Store.Backend == "badger" && c.Store.Path == "" {
		return fmt.Errorf("store.path is required for the badger backend")
	}
	return nil
}
