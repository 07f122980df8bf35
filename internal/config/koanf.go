// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tablerank/config.yaml",
	"/etc/tablerank/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8680,
			Timeout: 60 * time.Second,
		},
		Catalog: CatalogConfig{
			BaseURL:           "https://boardgamegeek.com",
			Timeout:           30 * time.Second,
			MaxRetries:        5,
			RetryBaseDelay:    1 * time.Second,
			RequestsPerSecond: 1.0, // Courtesy limit toward the catalog service
			BreakerFailures:   3,
			BreakerOpenFor:    60 * time.Second,
		},
		Store: StoreConfig{
			Backend: "badger",
			Path:    "/data/tablerank",
			MaxAge:  0, // Entries never go stale unless configured
		},
		Scoring: ScoringConfig{
			UserRatingWeight:    1.0,
			AverageRatingWeight: 1.0,
			GeekRatingWeight:    1.0,
			PlayerCountWeight:   1.0,
			WeightFitWeight:     1.0,
			TimeFitWeight:       1.0,
			IdealWeight:         2.5,
			IdealTime:           90,
		},
		API: APIConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			MaxUsernames:    10,
			MaxGameIDs:      200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in values
//  2. Config file: optional YAML file (if found)
//  3. Environment variables: override any setting
//
// Precedence: ENV > file > defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: optional config file
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated env strings become slices for known slice fields
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the first file found, or empty string.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"api.cors_origins",
}

// processSliceFields converts comma-separated string values to slices
// for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		// Already a slice (from YAML file)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config
// paths. Unmapped variables are skipped so that unrelated environment
// variables never pollute the configuration.
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"http_host":    "server.host",
		"http_port":    "server.port",
		"http_timeout": "server.timeout",

		"catalog_url":                 "catalog.base_url",
		"catalog_timeout":             "catalog.timeout",
		"catalog_max_retries":         "catalog.max_retries",
		"catalog_retry_base_delay":    "catalog.retry_base_delay",
		"catalog_requests_per_second": "catalog.requests_per_second",
		"catalog_breaker_failures":    "catalog.breaker_failures",
		"catalog_breaker_open_for":    "catalog.breaker_open_for",

		"store_backend": "store.backend",
		"store_path":    "store.path",
		"store_max_age": "store.max_age",

		"scoring_user_rating_weight":    "scoring.user_rating_weight",
		"scoring_average_rating_weight": "scoring.average_rating_weight",
		"scoring_geek_rating_weight":    "scoring.geek_rating_weight",
		"scoring_player_count_weight":   "scoring.player_count_weight",
		"scoring_weight_fit_weight":     "scoring.weight_fit_weight",
		"scoring_time_fit_weight":       "scoring.time_fit_weight",
		"scoring_ideal_weight":          "scoring.ideal_weight",
		"scoring_ideal_time":            "scoring.ideal_time",

		"cors_origins":        "api.cors_origins",
		"rate_limit_requests": "api.rate_limit_reqs",
		"rate_limit_window":   "api.rate_limit_window",
		"api_max_usernames":   "api.max_usernames",
		"api_max_game_ids":    "api.max_game_ids",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
