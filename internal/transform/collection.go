// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package transform

import (
	"strconv"
	"time"

	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/models/bgg"
)

// notRatedValue is the catalog's literal for an unrated collection item.
const notRatedValue = "N/A"

// StatsFromCollection maps one raw collection document to UserStat
// records for the owning user.
//
// A rating of "N/A" becomes an absent rating. Items whose object id is
// not numeric are skipped. When the catalog reports the same game twice
// (multiple collection states), the first occurrence wins, so a merged
// result never carries two stats for one (username, game) pair.
func StatsFromCollection(doc *bgg.CollectionDocument, username string) []models.UserStat {
	stats := make([]models.UserStat, 0, len(doc.Items))
	seen := make(map[int]struct{}, len(doc.Items))

	now := time.Now()
	for _, item := range doc.Items {
		gameID, err := strconv.Atoi(item.ObjectID)
		if err != nil || gameID <= 0 {
			continue
		}
		if _, dup := seen[gameID]; dup {
			continue
		}
		seen[gameID] = struct{}{}

		stat := models.UserStat{
			Username:   username,
			GameID:     gameID,
			Owned:      item.Status.Own == "1",
			Wishlisted: item.Status.Wishlist == "1",
			CachedAt:   now,
		}

		if raw := item.Stats.Rating.Value; raw != "" && raw != notRatedValue {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				stat.Rating = &rating
			}
		}

		stats = append(stats, stat)
	}

	return stats
}
