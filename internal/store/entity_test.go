// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/tablekit/tablerank/internal/models"
)

func testGame() *models.Game {
	return &models.Game{
		ID:            174430,
		Name:          "Gloomhaven",
		Thumbnail:     "https://example.invalid/thumb.jpg",
		Type:          models.TypeBaseGame,
		MinPlaytime:   60,
		MaxPlaytime:   120,
		AverageRating: 8.6,
		GeekRating:    8.4,
		AverageWeight: 3.9,
		PlayerCountStats: []models.PlayerCountStat{
			{
				PlayerCount:           3,
				BestVotes:             10,
				RecommendedVotes:      5,
				NotRecommendedVotes:   1,
				TotalVotes:            16,
				BestPercent:           0.625,
				RecommendedPercent:    0.3125,
				NotRecommendedPercent: 0.0625,
				Score:                 8.59375,
			},
		},
		CachedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestEntityCacheGameRoundTrip(t *testing.T) {
	cache := NewEntityCache(NewMemoryStore(), 0)
	want := testGame()

	cache.PutGame(want)

	got, ok := cache.Game(want.ID)
	if !ok {
		t.Fatal("Expected a cache hit after put")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestEntityCacheGameMiss(t *testing.T) {
	cache := NewEntityCache(NewMemoryStore(), 0)

	if _, ok := cache.Game(999); ok {
		t.Error("Expected a miss for an absent game")
	}
}

func TestEntityCacheCorruptValueIsMiss(t *testing.T) {
	backing := NewMemoryStore()
	cache := NewEntityCache(backing, 0)

	if err := backing.Put(GameKey(42), "{not json"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok := cache.Game(42); ok {
		t.Error("Expected a corrupt value to read as a miss")
	}

	if err := backing.Put(UserStatsKey("alice"), "[broken"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok := cache.UserStats("alice"); ok {
		t.Error("Expected a corrupt collection to read as a miss")
	}
}

func TestEntityCacheStaleness(t *testing.T) {
	cache := NewEntityCache(NewMemoryStore(), time.Hour)

	fresh := testGame()
	fresh.CachedAt = time.Now()
	cache.PutGame(fresh)
	if _, ok := cache.Game(fresh.ID); !ok {
		t.Error("Expected a fresh entry to hit")
	}

	old := testGame()
	old.ID = 13
	old.CachedAt = time.Now().Add(-2 * time.Hour)
	cache.PutGame(old)
	if _, ok := cache.Game(old.ID); ok {
		t.Error("Expected an entry past max age to miss")
	}
}

func TestEntityCacheFreshCopyPerRead(t *testing.T) {
	cache := NewEntityCache(NewMemoryStore(), 0)
	cache.PutGame(testGame())

	first, _ := cache.Game(174430)
	first.GRIndexRank = 1
	first.UserStats = append(first.UserStats, models.UserStat{Username: "alice"})

	second, _ := cache.Game(174430)
	if second.GRIndexRank != 0 || len(second.UserStats) != 0 {
		t.Error("Expected per-request annotations not to leak into the cached baseline")
	}
}

func TestEntityCacheUserStatsRoundTrip(t *testing.T) {
	cache := NewEntityCache(NewMemoryStore(), 0)
	rating := 8.5
	want := []models.UserStat{
		{Username: "alice", GameID: 174430, Rating: &rating, Owned: true,
			CachedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)},
		{Username: "alice", GameID: 13, Wishlisted: true,
			CachedAt: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)},
	}

	cache.PutUserStats("alice", want)

	got, ok := cache.UserStats("alice")
	if !ok {
		t.Fatal("Expected a cache hit after put")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	if _, ok := s.Get("missing"); ok {
		t.Error("Expected miss on empty store")
	}

	if err := s.Put("k", "v1"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put("k", "v2"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if v, ok := s.Get("k"); !ok || v != "v2" {
		t.Errorf("Expected v2, got %q ok=%v", v, ok)
	}
	if s.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", s.Len())
	}

	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
	if err := s.Delete("k"); err != nil {
		t.Errorf("Expected deleting an absent key to be a no-op, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	if got := GameKey(174430); got != "game-174430" {
		t.Errorf("Unexpected game key %q", got)
	}
	if got := UserStatsKey("alice"); got != "userstats-alice" {
		t.Errorf("Unexpected user stats key %q", got)
	}
}
