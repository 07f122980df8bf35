// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package aggregate sequences the aggregation pipeline: resolve the
// id sources, fetch and transform missing entities through the entity
// cache, attach per-source annotations and return the merged result.
//
// This package is the only one aware of all four id channels. Ranking
// is not performed here; the presentation seam invokes the rank engine
// per visible dimension on the returned result.
package aggregate

import (
	"context"
	"time"

	"github.com/tablekit/tablerank/internal/catalog"
	"github.com/tablekit/tablerank/internal/logging"
	"github.com/tablekit/tablerank/internal/metrics"
	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/resolver"
	"github.com/tablekit/tablerank/internal/store"
	"github.com/tablekit/tablerank/internal/transform"
)

// Orchestrator runs aggregation requests. Safe for concurrent use;
// the entity cache is the only state shared between requests.
type Orchestrator struct {
	gateway  catalog.Gateway
	cache    *store.EntityCache
	resolver *resolver.Resolver
}

// New creates an Orchestrator over the given gateway and entity cache.
func New(gateway catalog.Gateway, cache *store.EntityCache) *Orchestrator {
	return &Orchestrator{
		gateway:  gateway,
		cache:    cache,
		resolver: resolver.New(gateway, cache),
	}
}

// Aggregate resolves the request's sources, read-throughs every
// candidate game and returns the merged result with per-source
// annotations attached.
//
// An all-empty request short-circuits to an empty result without any
// gateway activity. Games that cannot be fetched are left out of the
// result rather than failing the aggregation; their cache slots stay
// empty for retry on a future request.
func (o *Orchestrator) Aggregate(ctx context.Context, req models.AggregationRequest) (*models.AggregatedResult, error) {
	start := time.Now()

	if req.IsEmpty() {
		return &models.AggregatedResult{Games: []models.Game{}}, nil
	}

	sources, err := o.resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	games, err := o.fetchGames(ctx, sources.CandidateIDs)
	if err != nil {
		return nil, err
	}

	result := &models.AggregatedResult{
		Games:         make([]models.Game, 0, len(games)),
		ThreadTitle:   sources.ThreadTitle,
		GeekListTitle: sources.GeekListTitle,
	}

	for _, id := range sources.CandidateIDs {
		game, ok := games[id]
		if !ok {
			continue
		}
		// Annotations go onto the fresh per-request copy; the cached
		// baseline keeps only intrinsic game facts.
		game.UserStats = sources.StatsByGame[id]
		game.ThreadSequence = sources.ThreadSeq[id]
		game.GeekListSequence = sources.GeekListSeq[id]
		result.Games = append(result.Games, *game)
	}

	metrics.RecordAggregation(time.Since(start), len(result.Games))
	logging.Ctx(ctx).Info().
		Int("candidates", len(sources.CandidateIDs)).
		Int("games", len(result.Games)).
		Dur("duration", time.Since(start)).
		Msg("Aggregation complete")

	return result, nil
}

// fetchGames read-throughs all candidate ids, batching every cache
// miss into a single gateway call. A failed batch degrades to the
// cached subset. The returned error is only ever the context's.
func (o *Orchestrator) fetchGames(ctx context.Context, ids []int) (map[int]*models.Game, error) {
	games := make(map[int]*models.Game, len(ids))
	var missing []int

	for _, id := range ids {
		if game, ok := o.cache.Game(id); ok {
			games[id] = game
		} else {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return games, nil
	}

	docs, err := o.gateway.FetchGames(ctx, missing)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logging.Ctx(ctx).Warn().Err(err).Ints("game_ids", missing).Msg("Games batch fetch failed, returning cached subset")
		return games, nil
	}

	for i := range docs {
		game := transform.GameFromDocument(&docs[i])
		if game.ID == 0 {
			continue
		}
		o.cache.PutGame(game)
		games[game.ID] = game
	}

	return games, nil
}
