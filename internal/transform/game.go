// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package transform maps raw catalog documents into the normalized
// domain model. All functions are pure except for the cache timestamp
// they stamp onto new records.
//
// Numeric fields the catalog reports as text are parsed tolerantly:
// a missing or non-numeric value becomes zero rather than an error.
// This is a documented fragility, not validated input; the catalog is
// a best-effort source, not a system of record.
package transform

import (
	"strconv"
	"time"

	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/models/bgg"
)

// playerCountPoll is the name of the suggested-player-count poll in
// game documents.
const playerCountPoll = "suggested_numplayers"

// Vote outcome labels within the player-count poll.
const (
	voteBest           = "Best"
	voteRecommended    = "Recommended"
	voteNotRecommended = "Not Recommended"
)

// notRecommendedCutoff drops player counts the community actively
// rejects: buckets where at least 90% of votes are Not Recommended.
const notRecommendedCutoff = 0.9

// playerCountScore derives the 0-10 suitability score for one bucket.
// A Best vote weighs 4/3 as heavily as a Recommended vote.
func playerCountScore(bestPercent, recommendedPercent float64) float64 {
	return (bestPercent + recommendedPercent*0.75) * 10.0
}

// GameFromDocument maps one raw catalog game document to a Game record.
//
// The primary name is selected; when none exists the name stays empty.
// The suggested-player-count poll is reduced to per-count statistics,
// keeping only buckets with a plain positive integer label (open-ended
// labels such as "7+" are excluded), at least one vote, and a
// not-recommended share below 0.9.
func GameFromDocument(doc *bgg.GameDocument) *models.Game {
	id, _ := strconv.Atoi(doc.ID)

	gameType := models.TypeBaseGame
	if doc.Type == models.TypeExpansion {
		gameType = models.TypeExpansion
	}

	game := &models.Game{
		ID:            id,
		Name:          primaryName(doc.Names),
		Thumbnail:     doc.Thumbnail,
		Type:          gameType,
		MinPlaytime:   doc.MinPlaytime.Value,
		MaxPlaytime:   doc.MaxPlaytime.Value,
		AverageRating: parseFloat(doc.Statistics.Ratings.Average.Value),
		GeekRating:    parseFloat(doc.Statistics.Ratings.BayesAverage.Value),
		AverageWeight: parseFloat(doc.Statistics.Ratings.AverageWeight.Value),
		CachedAt:      time.Now(),
	}

	for _, poll := range doc.Polls {
		if poll.Name != playerCountPoll {
			continue
		}
		for _, bucket := range poll.Results {
			if stat, ok := playerCountStat(bucket); ok {
				game.PlayerCountStats = append(game.PlayerCountStats, stat)
			}
		}
	}

	return game
}

// playerCountStat reduces one poll bucket to a PlayerCountStat.
// Returns ok=false when the bucket is excluded by label or by the
// retention filter.
func playerCountStat(bucket bgg.PollResults) (models.PlayerCountStat, bool) {
	count, err := strconv.Atoi(bucket.NumPlayers)
	if err != nil || count <= 0 {
		// Non-numeric or open-ended labels ("7+") never form a bucket
		return models.PlayerCountStat{}, false
	}

	stat := models.PlayerCountStat{PlayerCount: count}
	for _, result := range bucket.Result {
		switch result.Value {
		case voteBest:
			stat.BestVotes = result.NumVotes
		case voteRecommended:
			stat.RecommendedVotes = result.NumVotes
		case voteNotRecommended:
			stat.NotRecommendedVotes = result.NumVotes
		}
	}
	stat.TotalVotes = stat.BestVotes + stat.RecommendedVotes + stat.NotRecommendedVotes

	if stat.TotalVotes == 0 {
		return models.PlayerCountStat{}, false
	}

	total := float64(stat.TotalVotes)
	stat.BestPercent = float64(stat.BestVotes) / total
	stat.RecommendedPercent = float64(stat.RecommendedVotes) / total
	stat.NotRecommendedPercent = float64(stat.NotRecommendedVotes) / total
	stat.Score = playerCountScore(stat.BestPercent, stat.RecommendedPercent)

	if stat.NotRecommendedPercent >= notRecommendedCutoff {
		return models.PlayerCountStat{}, false
	}

	return stat, true
}

// primaryName selects the entry whose name type is "primary", falling
// back to the empty string when none exists.
func primaryName(names []bgg.GameName) string {
	for _, name := range names {
		if name.Type == "primary" {
			return name.Value
		}
	}
	return ""
}

// parseFloat parses a catalog float field, substituting zero for
// missing or non-numeric values.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}
