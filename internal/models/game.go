// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package models defines the normalized domain model shared by the
// aggregation pipeline: games, per-player-count statistics, per-user
// rating records and the aggregation request/response shapes.
//
// Instances are created by the transform package from typed catalog
// documents, written once into the entity cache, and annotated per
// request by the aggregation orchestrator. Ranks are always assigned
// per request by the rank package and never persisted.
package models

import "time"

// Game types as reported by the catalog service.
const (
	TypeBaseGame  = "boardgame"
	TypeExpansion = "boardgameexpansion"
)

// Game is one board game or expansion in normalized form.
//
// ThreadSequence and GeekListSequence are 1-based positions of the game's
// first mention in the forum thread or curated list of the current request,
// or 0 when the game is absent from that source. They are per-request
// annotations, not intrinsic game facts, and are never cached.
type Game struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnail"`
	Type        string `json:"type"`
	MinPlaytime int    `json:"min_playtime"`
	MaxPlaytime int    `json:"max_playtime"`

	AverageRating float64 `json:"average_rating"`
	GeekRating    float64 `json:"geek_rating"`
	AverageWeight float64 `json:"average_weight"`

	PlayerCountStats []PlayerCountStat `json:"player_count_stats"`

	// UserStats holds the ratings of the requested users for this game.
	// Attached per request by the orchestrator; empty in cached entries.
	UserStats []UserStat `json:"user_stats,omitempty"`

	ThreadSequence   int `json:"thread_sequence"`
	GeekListSequence int `json:"geeklist_sequence"`

	// GRIndex is the composite suitability score under the request's
	// scoring configuration. Zero until computed; see the rank package.
	GRIndex     float64 `json:"gr_index"`
	GRIndexRank int     `json:"gr_index_rank"`

	// Rank slots for the simple dimensions, assigned per request.
	AverageRatingRank int `json:"average_rating_rank"`
	GeekRatingRank    int `json:"geek_rating_rank"`
	WeightRank        int `json:"weight_rank"`

	// DisplayRating is the rating surfaced for the requesting user:
	// their own rating when present, otherwise the community average,
	// otherwise the geek rating. DisplayRatingRank carries the user
	// rating's rank; substituted values always carry rank 0.
	DisplayRating     float64 `json:"display_rating"`
	DisplayRatingRank int     `json:"display_rating_rank"`

	CachedAt time.Time `json:"cached_at"`
}

// PlayerCountStat holds the community suggestion votes for one
// (game, player count) pair and the 0-10 suitability score derived
// from them.
//
// Only buckets with at least one vote and a not-recommended share below
// 0.9 survive the transform; see transform.GameFromDocument.
type PlayerCountStat struct {
	PlayerCount int `json:"player_count"`

	BestVotes           int `json:"best_votes"`
	RecommendedVotes    int `json:"recommended_votes"`
	NotRecommendedVotes int `json:"not_recommended_votes"`
	TotalVotes          int `json:"total_votes"`

	BestPercent           float64 `json:"best_percent"`
	RecommendedPercent    float64 `json:"recommended_percent"`
	NotRecommendedPercent float64 `json:"not_recommended_percent"`

	// Score is (bestPercent + recommendedPercent*0.75) * 10, a 0-10
	// suitability score weighting a Best vote 4/3 as heavily as a
	// Recommended vote.
	Score float64 `json:"score"`

	// Rank is assigned per request by the rank engine; 0 = unranked.
	Rank int `json:"rank"`
}

// UserStat is one (user, game) rating record from a user's collection.
type UserStat struct {
	Username string `json:"username"`
	GameID   int    `json:"game_id"`

	// Rating is nil when the catalog reports the game as not rated.
	Rating *float64 `json:"rating,omitempty"`

	// Rank is assigned per request by the rank engine; 0 = unranked.
	Rank int `json:"rank"`

	Owned      bool `json:"owned"`
	Wishlisted bool `json:"wishlisted"`

	CachedAt time.Time `json:"cached_at"`
}

// AggregationRequest names the four independent id sources of one
// aggregation: explicit game ids, usernames whose collections are
// merged in, and optional forum-thread and curated-list ids (0 = absent).
type AggregationRequest struct {
	Usernames  []string `json:"usernames"`
	GameIDs    []int    `json:"game_ids"`
	ThreadID   int      `json:"thread_id,omitempty"`
	GeekListID int      `json:"geeklist_id,omitempty"`
}

// IsEmpty reports whether the request names no source at all.
// An empty request short-circuits to an empty result without any
// gateway activity.
func (r AggregationRequest) IsEmpty() bool {
	return len(r.Usernames) == 0 && len(r.GameIDs) == 0 && r.ThreadID == 0 && r.GeekListID == 0
}

// AggregatedResult is the response of one aggregation request. It is
// owned exclusively by the caller; no shared mutable state survives
// between requests except the entity cache.
type AggregatedResult struct {
	Games         []Game `json:"games"`
	ThreadTitle   string `json:"thread_title,omitempty"`
	GeekListTitle string `json:"geeklist_title,omitempty"`
}
