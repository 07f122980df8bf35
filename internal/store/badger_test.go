// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package store

import (
	"testing"
)

func TestBadgerStore(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer db.Close()

	s := NewBadgerStore(db)

	if _, ok := s.Get("missing"); ok {
		t.Error("Expected miss on empty store")
	}

	if err := s.Put(GameKey(1), `{"id":1}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if v, ok := s.Get(GameKey(1)); !ok || v != `{"id":1}` {
		t.Errorf("Expected stored value back, got %q ok=%v", v, ok)
	}

	if err := s.Put(GameKey(1), `{"id":1,"name":"x"}`); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if v, _ := s.Get(GameKey(1)); v != `{"id":1,"name":"x"}` {
		t.Errorf("Expected overwrite to win, got %q", v)
	}

	if err := s.Delete(GameKey(1)); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get(GameKey(1)); ok {
		t.Error("Expected miss after delete")
	}
	if err := s.Delete(GameKey(1)); err != nil {
		t.Errorf("Expected deleting an absent key to be a no-op, got %v", err)
	}
}

func TestEntityCacheOverBadger(t *testing.T) {
	db, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger failed: %v", err)
	}
	defer db.Close()

	cache := NewEntityCache(NewBadgerStore(db), 0)
	cache.PutGame(testGame())

	got, ok := cache.Game(174430)
	if !ok {
		t.Fatal("Expected a cache hit after put")
	}
	if got.Name != "Gloomhaven" || got.AverageRating != 8.6 {
		t.Errorf("Unexpected record: %+v", got)
	}
}
