// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package resolver merges the four independent game-id channels of an
// aggregation request (explicit ids, usernames' collections, forum
// thread mentions, curated list entries) into one deduplicated
// candidate set with per-source sequence metadata.
//
// Optional sources degrade silently: a failed or absent thread or list
// yields an empty sequence and title, and a failed collection fetch
// leaves that user's games out of this request. Partial results are
// always preferred over total failure.
package resolver

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/tablekit/tablerank/internal/catalog"
	"github.com/tablekit/tablerank/internal/logging"
	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/store"
	"github.com/tablekit/tablerank/internal/transform"
)

// permalinkPattern matches catalog game permalinks inside thread
// article bodies, e.g. ".../boardgame/174430/gloomhaven" or
// ".../boardgameexpansion/231934/...".
var permalinkPattern = regexp.MustCompile(`/boardgame(?:expansion)?/(\d+)`)

// Sources is the resolved candidate set of one aggregation request.
type Sources struct {
	// CandidateIDs is the deduplicated union of all four channels in
	// order of first appearance, explicit ids first.
	CandidateIDs []int

	// ThreadSeq and GeekListSeq map game id to its 1-based
	// first-occurrence position within that source.
	ThreadSeq   map[int]int
	GeekListSeq map[int]int

	ThreadTitle   string
	GeekListTitle string

	// StatsByGame groups the requested users' rating records by game.
	StatsByGame map[int][]models.UserStat
}

// Resolver resolves the id sources of aggregation requests.
type Resolver struct {
	gateway catalog.Gateway
	cache   *store.EntityCache
}

// New creates a Resolver over the given gateway and entity cache.
func New(gateway catalog.Gateway, cache *store.EntityCache) *Resolver {
	return &Resolver{gateway: gateway, cache: cache}
}

// Resolve merges the request's four id channels. Collection, thread
// and list fetches are dispatched concurrently and joined before the
// union is built; resolving all user-referenced ids is a prerequisite
// for the candidate set. The returned error is only ever the context's.
func (r *Resolver) Resolve(ctx context.Context, req models.AggregationRequest) (*Sources, error) {
	usernames := dedupSorted(req.Usernames)

	statsByUser := make([][]models.UserStat, len(usernames))
	var thread threadSource
	var list listSource

	g, gctx := errgroup.WithContext(ctx)

	for i, username := range usernames {
		g.Go(func() error {
			statsByUser[i] = r.userStats(gctx, username)
			return nil
		})
	}

	if req.ThreadID != 0 {
		g.Go(func() error {
			thread = r.threadSource(gctx, req.ThreadID)
			return nil
		})
	}

	if req.GeekListID != 0 {
		g.Go(func() error {
			list = r.listSource(gctx, req.GeekListID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sources := &Sources{
		ThreadSeq:     thread.seq,
		GeekListSeq:   list.seq,
		ThreadTitle:   thread.title,
		GeekListTitle: list.title,
		StatsByGame:   make(map[int][]models.UserStat),
	}
	if sources.ThreadSeq == nil {
		sources.ThreadSeq = map[int]int{}
	}
	if sources.GeekListSeq == nil {
		sources.GeekListSeq = map[int]int{}
	}

	// Union in first-appearance order across the four channels,
	// explicit ids first.
	seen := make(map[int]struct{})
	addID := func(id int) {
		if id <= 0 {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		sources.CandidateIDs = append(sources.CandidateIDs, id)
	}

	for _, id := range req.GameIDs {
		addID(id)
	}
	for _, stats := range statsByUser {
		for _, stat := range stats {
			addID(stat.GameID)
			sources.StatsByGame[stat.GameID] = append(sources.StatsByGame[stat.GameID], stat)
		}
	}
	for _, id := range thread.order {
		addID(id)
	}
	for _, id := range list.order {
		addID(id)
	}

	return sources, nil
}

// userStats read-throughs one user's collection. A gateway failure is
// logged and yields nothing; the cache slot stays empty for retry on a
// future request.
func (r *Resolver) userStats(ctx context.Context, username string) []models.UserStat {
	if stats, ok := r.cache.UserStats(username); ok {
		return stats
	}

	doc, err := r.gateway.FetchCollection(ctx, username)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("username", username).Msg("Collection fetch failed, skipping user")
		return nil
	}

	stats := transform.StatsFromCollection(doc, username)
	r.cache.PutUserStats(username, stats)
	return stats
}

// threadSource holds the resolved forum-thread channel.
type threadSource struct {
	order []int
	seq   map[int]int
	title string
}

// threadSource fetches a thread and extracts every distinct game id
// referenced via catalog permalinks in its article bodies, preserving
// first-occurrence order. Failures yield an empty source.
func (r *Resolver) threadSource(ctx context.Context, threadID int) threadSource {
	doc, err := r.gateway.FetchThread(ctx, threadID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("thread_id", threadID).Msg("Thread fetch failed, skipping source")
		return threadSource{}
	}

	src := threadSource{title: doc.Subject, seq: make(map[int]int)}
	for _, article := range doc.Articles {
		for _, match := range permalinkPattern.FindAllStringSubmatch(article.Body, -1) {
			id, err := strconv.Atoi(match[1])
			if err != nil || id <= 0 {
				continue
			}
			if _, dup := src.seq[id]; dup {
				continue
			}
			src.order = append(src.order, id)
			src.seq[id] = len(src.order)
		}
	}
	return src
}

// listSource holds the resolved curated-list channel.
type listSource struct {
	order []int
	seq   map[int]int
	title string
}

// listSource fetches a curated list and keeps its board-game entries
// in document order. Failures yield an empty source.
func (r *Resolver) listSource(ctx context.Context, listID int) listSource {
	doc, err := r.gateway.FetchGeekList(ctx, listID)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int("geeklist_id", listID).Msg("Geeklist fetch failed, skipping source")
		return listSource{}
	}

	src := listSource{title: doc.Title, seq: make(map[int]int)}
	for _, item := range doc.Items {
		if item.ObjectType != "thing" || !strings.HasPrefix(item.Subtype, "boardgame") {
			continue
		}
		id, err := strconv.Atoi(item.ObjectID)
		if err != nil || id <= 0 {
			continue
		}
		if _, dup := src.seq[id]; dup {
			continue
		}
		src.order = append(src.order, id)
		src.seq[id] = len(src.order)
	}
	return src
}

// dedupSorted deduplicates and orders usernames. Ordering is not
// needed for correctness, but a stable order avoids cache-key churn
// across repeated requests with reordered input.
func dedupSorted(usernames []string) []string {
	seen := make(map[string]struct{}, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, u := range usernames {
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
