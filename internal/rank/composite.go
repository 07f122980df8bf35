// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package rank

import (
	"math"

	"github.com/tablekit/tablerank/internal/models"
)

// CompositeConfig drives the GR Index: which dimensions participate,
// with what weight, and the ideal values for the proximity dimensions.
// A weight of zero disables a dimension.
//
// The composite is the weighted mean of the enabled dimensions'
// normalized 0-10 scores. Weight and play-time fit contribute a linear
// proximity score: 10 at the ideal value, falling to 0 at a full
// ideal-width of distance.
type CompositeConfig struct {
	UserRatingWeight    float64
	AverageRatingWeight float64
	GeekRatingWeight    float64
	PlayerCountWeight   float64
	WeightFitWeight     float64
	TimeFitWeight       float64

	// IdealWeight is the target complexity on the 1-5 scale.
	IdealWeight float64

	// IdealTime is the target play time in minutes.
	IdealTime float64

	// PlayerCount selects the player-count bucket feeding the
	// player-count-fit dimension. Zero disables it.
	PlayerCount int

	// Username selects whose rating feeds the user-rating dimension.
	// Empty disables it.
	Username string
}

// Score computes the composite index for one game. Returns ok=false
// when no enabled dimension has usable data, in which case the game is
// unranked on the composite dimension.
func (c CompositeConfig) Score(game *models.Game) (float64, bool) {
	var sum, weight float64

	add := func(w, score float64, ok bool) {
		if w > 0 && ok {
			sum += w * score
			weight += w
		}
	}

	userScore, userOK := c.userRating(game)
	add(c.UserRatingWeight, userScore, userOK)
	add(c.AverageRatingWeight, game.AverageRating, game.AverageRating > 0)
	add(c.GeekRatingWeight, game.GeekRating, game.GeekRating > 0)
	countScore, countOK := c.playerCountFit(game)
	add(c.PlayerCountWeight, countScore, countOK)
	add(c.WeightFitWeight, proximityScore(game.AverageWeight, c.IdealWeight), game.AverageWeight > 0 && c.IdealWeight > 0)
	timeScore, timeOK := c.timeFit(game)
	add(c.TimeFitWeight, timeScore, timeOK)

	if weight == 0 {
		return 0, false
	}
	return sum / weight, true
}

// userRating returns the configured user's own rating for the game.
func (c CompositeConfig) userRating(game *models.Game) (float64, bool) {
	if c.Username == "" {
		return 0, false
	}
	for i := range game.UserStats {
		stat := &game.UserStats[i]
		if stat.Username == c.Username && stat.Rating != nil {
			return *stat.Rating, true
		}
	}
	return 0, false
}

// playerCountFit returns the suitability score of the configured
// player-count bucket.
func (c CompositeConfig) playerCountFit(game *models.Game) (float64, bool) {
	if c.PlayerCount == 0 {
		return 0, false
	}
	for i := range game.PlayerCountStats {
		if game.PlayerCountStats[i].PlayerCount == c.PlayerCount {
			return game.PlayerCountStats[i].Score, true
		}
	}
	return 0, false
}

// timeFit scores the game's play-time midpoint against the ideal time.
func (c CompositeConfig) timeFit(game *models.Game) (float64, bool) {
	if c.IdealTime <= 0 {
		return 0, false
	}
	mid := float64(game.MinPlaytime+game.MaxPlaytime) / 2
	if mid <= 0 {
		return 0, false
	}
	return proximityScore(mid, c.IdealTime), true
}

// proximityScore maps linear distance from an ideal value to 0-10.
func proximityScore(actual, ideal float64) float64 {
	distance := math.Abs(actual-ideal) / ideal
	if distance > 1 {
		distance = 1
	}
	return 10 * (1 - distance)
}
