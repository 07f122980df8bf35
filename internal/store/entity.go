// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package store

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tablekit/tablerank/internal/logging"
	"github.com/tablekit/tablerank/internal/metrics"
	"github.com/tablekit/tablerank/internal/models"
)

// EntityCache is the read-through layer over a Store. It owns the JSON
// codec for domain entities and the staleness policy.
//
// Every read deserializes into a fresh value, so callers may annotate
// the returned entity for the current request without corrupting the
// cached baseline.
type EntityCache struct {
	store Store

	// maxAge is the age beyond which a cached entry is treated as a
	// miss. Zero disables the check (entries never go stale).
	maxAge time.Duration
}

// NewEntityCache creates a read-through cache over the given store.
func NewEntityCache(s Store, maxAge time.Duration) *EntityCache {
	return &EntityCache{store: s, maxAge: maxAge}
}

// userStatsRecord is the stored shape of one user's collection.
type userStatsRecord struct {
	Username string            `json:"username"`
	Stats    []models.UserStat `json:"stats"`
	CachedAt time.Time         `json:"cached_at"`
}

// Game returns the cached game record for id, or ok=false on a miss.
// Corrupt stored values and entries older than the configured maximum
// age count as misses.
func (c *EntityCache) Game(id int) (*models.Game, bool) {
	raw, ok := c.store.Get(GameKey(id))
	if !ok {
		metrics.RecordCacheMiss("game")
		return nil, false
	}

	var game models.Game
	if err := json.Unmarshal([]byte(raw), &game); err != nil {
		logging.Warn().Err(err).Int("game_id", id).Msg("Corrupt cached game, treating as miss")
		metrics.RecordCacheMiss("game")
		return nil, false
	}

	if c.stale(game.CachedAt) {
		metrics.RecordCacheMiss("game")
		return nil, false
	}

	metrics.RecordCacheHit("game")
	return &game, true
}

// PutGame writes a game record into the cache. Serialization failures
// are logged and swallowed; the entry simply stays absent for next time.
func (c *EntityCache) PutGame(game *models.Game) {
	data, err := json.Marshal(game)
	if err != nil {
		logging.Error().Err(err).Int("game_id", game.ID).Msg("Failed to serialize game for cache")
		return
	}
	if err := c.store.Put(GameKey(game.ID), string(data)); err != nil {
		logging.Warn().Err(err).Int("game_id", game.ID).Msg("Failed to write game to cache")
	}
}

// UserStats returns the cached collection record for username, or
// ok=false on a miss.
func (c *EntityCache) UserStats(username string) ([]models.UserStat, bool) {
	raw, ok := c.store.Get(UserStatsKey(username))
	if !ok {
		metrics.RecordCacheMiss("userstats")
		return nil, false
	}

	var record userStatsRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		logging.Warn().Err(err).Str("username", username).Msg("Corrupt cached collection, treating as miss")
		metrics.RecordCacheMiss("userstats")
		return nil, false
	}

	if c.stale(record.CachedAt) {
		metrics.RecordCacheMiss("userstats")
		return nil, false
	}

	metrics.RecordCacheHit("userstats")
	return record.Stats, true
}

// PutUserStats writes one user's collection record into the cache.
func (c *EntityCache) PutUserStats(username string, stats []models.UserStat) {
	record := userStatsRecord{
		Username: username,
		Stats:    stats,
		CachedAt: time.Now(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		logging.Error().Err(err).Str("username", username).Msg("Failed to serialize collection for cache")
		return
	}
	if err := c.store.Put(UserStatsKey(username), string(data)); err != nil {
		logging.Warn().Err(err).Str("username", username).Msg("Failed to write collection to cache")
	}
}

// stale reports whether an entry written at t is beyond the maximum age.
func (c *EntityCache) stale(t time.Time) bool {
	if c.maxAge == 0 || t.IsZero() {
		return false
	}
	return time.Since(t) > c.maxAge
}
