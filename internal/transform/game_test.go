// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package transform

import (
	"math"
	"testing"

	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/models/bgg"
)

// playerCountBucket builds one poll bucket with the three outcomes.
func playerCountBucket(label string, best, recommended, notRecommended int) bgg.PollResults {
	return bgg.PollResults{
		NumPlayers: label,
		Result: []bgg.PollResult{
			{Value: "Best", NumVotes: best},
			{Value: "Recommended", NumVotes: recommended},
			{Value: "Not Recommended", NumVotes: notRecommended},
		},
	}
}

func gameDocument(buckets ...bgg.PollResults) *bgg.GameDocument {
	return &bgg.GameDocument{
		ID:          "174430",
		Type:        "boardgame",
		Thumbnail:   "https://example.invalid/thumb.jpg",
		Names:       []bgg.GameName{{Type: "alternate", Value: "Dungeon Crawl"}, {Type: "primary", Value: "Gloomhaven"}},
		MinPlaytime: bgg.IntValue{Value: 60},
		MaxPlaytime: bgg.IntValue{Value: 120},
		Polls:       []bgg.Poll{{Name: "suggested_numplayers", Results: buckets}},
		Statistics: bgg.Statistics{
			Ratings: bgg.Ratings{
				Average:       bgg.StringValue{Value: "8.6"},
				BayesAverage:  bgg.StringValue{Value: "8.4"},
				AverageWeight: bgg.StringValue{Value: "3.9"},
			},
		},
	}
}

func TestGameFromDocument(t *testing.T) {
	game := GameFromDocument(gameDocument(playerCountBucket("3", 10, 5, 1)))

	if game.ID != 174430 {
		t.Errorf("Expected id 174430, got %d", game.ID)
	}
	if game.Name != "Gloomhaven" {
		t.Errorf("Expected primary name Gloomhaven, got %q", game.Name)
	}
	if game.Type != models.TypeBaseGame {
		t.Errorf("Expected base game, got %q", game.Type)
	}
	if game.AverageRating != 8.6 || game.GeekRating != 8.4 || game.AverageWeight != 3.9 {
		t.Errorf("Unexpected ratings: %v %v %v", game.AverageRating, game.GeekRating, game.AverageWeight)
	}
	if game.MinPlaytime != 60 || game.MaxPlaytime != 120 {
		t.Errorf("Unexpected playtimes: %d %d", game.MinPlaytime, game.MaxPlaytime)
	}
	if game.GRIndex != 0 || game.GRIndexRank != 0 {
		t.Error("Composite index must be zero at transform time")
	}
	if game.CachedAt.IsZero() {
		t.Error("Expected cache timestamp to be set")
	}
}

func TestGameFromDocumentExpansion(t *testing.T) {
	doc := gameDocument()
	doc.Type = "boardgameexpansion"

	if game := GameFromDocument(doc); game.Type != models.TypeExpansion {
		t.Errorf("Expected expansion, got %q", game.Type)
	}
}

func TestGameFromDocumentNoPrimaryName(t *testing.T) {
	doc := gameDocument()
	doc.Names = []bgg.GameName{{Type: "alternate", Value: "Other"}}

	if game := GameFromDocument(doc); game.Name != "" {
		t.Errorf("Expected empty name without a primary entry, got %q", game.Name)
	}
}

func TestGameFromDocumentNonNumericStats(t *testing.T) {
	doc := gameDocument()
	doc.Statistics.Ratings.Average.Value = "N/A"
	doc.Statistics.Ratings.AverageWeight.Value = ""

	game := GameFromDocument(doc)
	if game.AverageRating != 0 || game.AverageWeight != 0 {
		t.Errorf("Expected zero for non-numeric stats, got %v %v", game.AverageRating, game.AverageWeight)
	}
}

func TestPlayerCountScoreFormula(t *testing.T) {
	game := GameFromDocument(gameDocument(playerCountBucket("4", 6, 2, 2)))

	if len(game.PlayerCountStats) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(game.PlayerCountStats))
	}

	stat := game.PlayerCountStats[0]
	if stat.PlayerCount != 4 {
		t.Errorf("Expected player count 4, got %d", stat.PlayerCount)
	}
	if stat.TotalVotes != 10 {
		t.Errorf("Expected 10 total votes, got %d", stat.TotalVotes)
	}
	if math.Abs(stat.BestPercent-0.6) > 1e-9 {
		t.Errorf("Expected best percent 0.6, got %v", stat.BestPercent)
	}
	if math.Abs(stat.RecommendedPercent-0.2) > 1e-9 {
		t.Errorf("Expected recommended percent 0.2, got %v", stat.RecommendedPercent)
	}
	if math.Abs(stat.Score-7.5) > 1e-9 {
		t.Errorf("Expected score 7.5, got %v", stat.Score)
	}

	sum := stat.BestPercent + stat.RecommendedPercent + stat.NotRecommendedPercent
	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("Expected percentages to sum to 1, got %v", sum)
	}
}

func TestPlayerCountBucketFilter(t *testing.T) {
	tests := []struct {
		name   string
		bucket bgg.PollResults
		kept   bool
	}{
		{"plain count with votes", playerCountBucket("2", 5, 3, 1), true},
		{"open-ended label", playerCountBucket("7+", 5, 3, 1), false},
		{"non-numeric label", playerCountBucket("many", 5, 3, 1), false},
		{"zero label", playerCountBucket("0", 5, 3, 1), false},
		{"no votes", playerCountBucket("3", 0, 0, 0), false},
		{"actively rejected", playerCountBucket("5", 1, 0, 9), false},
		{"just below rejection cutoff", playerCountBucket("5", 1, 1, 8), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := GameFromDocument(gameDocument(tt.bucket))
			kept := len(game.PlayerCountStats) == 1
			if kept != tt.kept {
				t.Errorf("Expected kept=%v, got %v", tt.kept, kept)
			}
		})
	}
}

func TestPlayerCountMissingOutcome(t *testing.T) {
	bucket := bgg.PollResults{
		NumPlayers: "2",
		Result:     []bgg.PollResult{{Value: "Best", NumVotes: 4}},
	}

	game := GameFromDocument(gameDocument(bucket))
	if len(game.PlayerCountStats) != 1 {
		t.Fatalf("Expected 1 bucket, got %d", len(game.PlayerCountStats))
	}
	stat := game.PlayerCountStats[0]
	if stat.RecommendedVotes != 0 || stat.NotRecommendedVotes != 0 {
		t.Error("Absent outcomes must count as zero votes")
	}
	if stat.TotalVotes != 4 {
		t.Errorf("Expected 4 total votes, got %d", stat.TotalVotes)
	}
	if math.Abs(stat.Score-10.0) > 1e-9 {
		t.Errorf("Expected score 10 for all-Best bucket, got %v", stat.Score)
	}
}
