// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package rank

import "github.com/tablekit/tablerank/internal/models"

// AssignGameRanks ranks every scorable dimension across a result set
// in place: average rating, geek rating, weight, each player-count
// bucket, per-user ratings and the composite index.
//
// This is the convenience entry point the presentation seam calls once
// per aggregation result; each dimension can equally be ranked in
// isolation through Assign.
func AssignGameRanks(games []models.Game, cfg CompositeConfig) {
	ptrs := make([]*models.Game, len(games))
	for i := range games {
		ptrs[i] = &games[i]
	}

	Assign(ptrs,
		func(g *models.Game) (float64, bool) { return g.AverageRating, g.AverageRating > 0 },
		func(g *models.Game, r int) { g.AverageRatingRank = r })

	Assign(ptrs,
		func(g *models.Game) (float64, bool) { return g.GeekRating, g.GeekRating > 0 },
		func(g *models.Game, r int) { g.GeekRatingRank = r })

	Assign(ptrs,
		func(g *models.Game) (float64, bool) { return g.AverageWeight, g.AverageWeight > 0 },
		func(g *models.Game, r int) { g.WeightRank = r })

	assignPlayerCountRanks(ptrs)
	assignUserRanks(ptrs)

	// Composite index: score first, then rank like any other dimension
	for _, g := range ptrs {
		if score, ok := cfg.Score(g); ok {
			g.GRIndex = score
		} else {
			g.GRIndex = 0
		}
	}
	Assign(ptrs,
		func(g *models.Game) (float64, bool) { return g.GRIndex, g.GRIndex > 0 },
		func(g *models.Game, r int) { g.GRIndexRank = r })
}

// assignPlayerCountRanks ranks each player-count bucket independently
// across all games that carry it.
func assignPlayerCountRanks(games []*models.Game) {
	counts := make(map[int][]*models.PlayerCountStat)
	for _, g := range games {
		for i := range g.PlayerCountStats {
			stat := &g.PlayerCountStats[i]
			counts[stat.PlayerCount] = append(counts[stat.PlayerCount], stat)
		}
	}
	for _, stats := range counts {
		Assign(stats,
			func(s *models.PlayerCountStat) (float64, bool) { return s.Score, true },
			func(s *models.PlayerCountStat, r int) { s.Rank = r })
	}
}

// assignUserRanks ranks each user's ratings independently across the
// result set. Unrated games stay unranked for that user.
func assignUserRanks(games []*models.Game) {
	byUser := make(map[string][]*models.UserStat)
	for _, g := range games {
		for i := range g.UserStats {
			stat := &g.UserStats[i]
			byUser[stat.Username] = append(byUser[stat.Username], stat)
		}
	}
	for _, stats := range byUser {
		Assign(stats,
			func(s *models.UserStat) (float64, bool) {
				if s.Rating == nil {
					return 0, false
				}
				return *s.Rating, true
			},
			func(s *models.UserStat, r int) { s.Rank = r })
	}
}
