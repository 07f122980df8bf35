// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package rank

import "github.com/tablekit/tablerank/internal/models"

// FallbackRating returns the rating to display for a user and game and
// the rank it carries.
//
// When the user rated the game themselves, their rating and its rank
// are used. Otherwise the community average is substituted, and when
// that is also absent the geek rating. A fallback value always carries
// rank 0, signaling that the number is not the user's own opinion.
func FallbackRating(stat *models.UserStat, game *models.Game) (float64, int) {
	if stat != nil && stat.Rating != nil {
		return *stat.Rating, stat.Rank
	}
	if game.AverageRating > 0 {
		return game.AverageRating, 0
	}
	return game.GeekRating, 0
}

// AttachDisplayRatings fills each game's display rating and rank for
// username through the fallback policy. Run after user ranks are
// assigned so a user's own rating carries its rank.
func AttachDisplayRatings(games []models.Game, username string) {
	for i := range games {
		game := &games[i]
		var stat *models.UserStat
		for j := range game.UserStats {
			if game.UserStats[j].Username == username {
				stat = &game.UserStats[j]
				break
			}
		}
		game.DisplayRating, game.DisplayRatingRank = FallbackRating(stat, game)
	}
}
