// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package store implements the entity cache: an injectable key/value
// store boundary plus a read-through layer that serializes domain
// entities as JSON.
//
// Two backends are provided. BadgerStore persists across restarts and
// is the production default; MemoryStore backs tests and ephemeral
// deployments. The cache enforces no expiry of its own; staleness is
// the caller's concern via the read-through layer's MaxAge knob.
//
// Failure policy: a corrupt or unparsable stored value is treated as a
// miss and re-derived by the caller, never surfaced as an error.
package store

import "strconv"

// Store is the physical key/value medium behind the entity cache.
// Keys are opaque strings namespaced by entity kind; values are
// JSON-serialized domain entities.
//
// Implementations must be safe for concurrent use. Writes are
// idempotent for equivalent values, so racing writers are harmless
// (last write wins).
type Store interface {
	// Get returns the stored value, or ok=false when the key is absent.
	// Backend read failures are reported as absent, not as errors.
	Get(key string) (value string, ok bool)

	// Put stores the value under the key, replacing any previous value.
	Put(key, value string) error

	// Delete removes the key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// GameKey returns the cache key for one game record.
func GameKey(id int) string {
	return "game-" + strconv.Itoa(id)
}

// UserStatsKey returns the cache key for one user's collection record.
func UserStatsKey(username string) string {
	return "userstats-" + username
}
