// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package aggregate

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/models/bgg"
	"github.com/tablekit/tablerank/internal/store"
)

// fakeGateway serves game documents by id and counts batched calls.
type fakeGateway struct {
	games     map[int]bgg.GameDocument
	failGames bool

	gamesCalls      int
	lastBatch       []int
	collectionCalls int
}

func (f *fakeGateway) FetchGames(ctx context.Context, ids []int) ([]bgg.GameDocument, error) {
	f.gamesCalls++
	f.lastBatch = ids
	if f.failGames {
		return nil, errors.New("catalog unavailable")
	}
	docs := make([]bgg.GameDocument, 0, len(ids))
	for _, id := range ids {
		if doc, ok := f.games[id]; ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (f *fakeGateway) FetchCollection(ctx context.Context, username string) (*bgg.CollectionDocument, error) {
	f.collectionCalls++
	return &bgg.CollectionDocument{Items: []bgg.CollectionItem{
		{ObjectID: "20", Stats: bgg.CollectionStats{Rating: bgg.CollectionRating{Value: "8.5"}}},
	}}, nil
}

func (f *fakeGateway) FetchThread(ctx context.Context, id int) (*bgg.ThreadDocument, error) {
	return &bgg.ThreadDocument{
		Subject:  "Thread",
		Articles: []bgg.ThreadArticle{{Body: "/boardgame/10/a"}},
	}, nil
}

func (f *fakeGateway) FetchGeekList(ctx context.Context, id int) (*bgg.GeekListDocument, error) {
	return &bgg.GeekListDocument{
		Title: "List",
		Items: []bgg.GeekListItem{{ObjectType: "thing", Subtype: "boardgame", ObjectID: "30"}},
	}, nil
}

func gameDoc(id int, name string) bgg.GameDocument {
	return bgg.GameDocument{
		ID:    strconv.Itoa(id),
		Type:  "boardgame",
		Names: []bgg.GameName{{Type: "primary", Value: name}},
		Statistics: bgg.Statistics{Ratings: bgg.Ratings{
			Average:      bgg.StringValue{Value: "7.5"},
			BayesAverage: bgg.StringValue{Value: "7.0"},
		}},
	}
}

func newOrchestrator(gw *fakeGateway) *Orchestrator {
	return New(gw, store.NewEntityCache(store.NewMemoryStore(), 0))
}

func TestAggregateEmptyRequest(t *testing.T) {
	gw := &fakeGateway{}

	result, err := newOrchestrator(gw).Aggregate(context.Background(), models.AggregationRequest{})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if len(result.Games) != 0 {
		t.Errorf("Expected empty result, got %d games", len(result.Games))
	}
	if gw.gamesCalls != 0 || gw.collectionCalls != 0 {
		t.Error("Expected no gateway activity for an empty request")
	}
}

func TestAggregateBatchesMisses(t *testing.T) {
	gw := &fakeGateway{games: map[int]bgg.GameDocument{
		10: gameDoc(10, "Alpha"),
		20: gameDoc(20, "Beta"),
	}}

	result, err := newOrchestrator(gw).Aggregate(context.Background(), models.AggregationRequest{
		GameIDs: []int{10, 20},
	})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if gw.gamesCalls != 1 {
		t.Errorf("Expected 1 batched fetch, got %d", gw.gamesCalls)
	}
	if len(gw.lastBatch) != 2 {
		t.Errorf("Expected both ids in one batch, got %v", gw.lastBatch)
	}
	if len(result.Games) != 2 || result.Games[0].Name != "Alpha" || result.Games[1].Name != "Beta" {
		t.Errorf("Unexpected result: %+v", result.Games)
	}
}

func TestAggregateCacheIdempotence(t *testing.T) {
	gw := &fakeGateway{games: map[int]bgg.GameDocument{10: gameDoc(10, "Alpha")}}
	o := newOrchestrator(gw)

	req := models.AggregationRequest{GameIDs: []int{10}}
	first, err := o.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	second, err := o.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if gw.gamesCalls != 1 {
		t.Errorf("Expected the repeat request served from cache, got %d fetches", gw.gamesCalls)
	}
	if first.Games[0].Name != second.Games[0].Name ||
		first.Games[0].AverageRating != second.Games[0].AverageRating {
		t.Error("Expected identical game facts across cached repeats")
	}
}

func TestAggregatePartialBatchFailure(t *testing.T) {
	gw := &fakeGateway{games: map[int]bgg.GameDocument{10: gameDoc(10, "Alpha")}}
	o := newOrchestrator(gw)

	// Warm the cache with game 10
	if _, err := o.Aggregate(context.Background(), models.AggregationRequest{GameIDs: []int{10}}); err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	gw.failGames = true
	result, err := o.Aggregate(context.Background(), models.AggregationRequest{GameIDs: []int{10, 99}})
	if err != nil {
		t.Fatalf("Expected degraded result, got error: %v", err)
	}

	if len(result.Games) != 1 || result.Games[0].ID != 10 {
		t.Errorf("Expected the cached subset, got %+v", result.Games)
	}
}

func TestAggregateAnnotations(t *testing.T) {
	gw := &fakeGateway{games: map[int]bgg.GameDocument{
		10: gameDoc(10, "Alpha"),
		20: gameDoc(20, "Beta"),
		30: gameDoc(30, "Gamma"),
	}}

	result, err := newOrchestrator(gw).Aggregate(context.Background(), models.AggregationRequest{
		Usernames:  []string{"alice"},
		ThreadID:   7,
		GeekListID: 9,
	})
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}

	if result.ThreadTitle != "Thread" || result.GeekListTitle != "List" {
		t.Errorf("Unexpected titles: %q %q", result.ThreadTitle, result.GeekListTitle)
	}

	byID := make(map[int]models.Game)
	for _, g := range result.Games {
		byID[g.ID] = g
	}
	if len(byID) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(byID))
	}

	if s := byID[20].UserStats; len(s) != 1 || s[0].Username != "alice" {
		t.Errorf("Expected alice's stat on game 20, got %v", s)
	}
	if byID[10].ThreadSequence != 1 || byID[20].ThreadSequence != 0 {
		t.Errorf("Unexpected thread sequences: %d %d", byID[10].ThreadSequence, byID[20].ThreadSequence)
	}
	if byID[30].GeekListSequence != 1 || byID[10].GeekListSequence != 0 {
		t.Errorf("Unexpected list sequences: %d %d", byID[30].GeekListSequence, byID[10].GeekListSequence)
	}
}

func TestAggregateContextCancelled(t *testing.T) {
	gw := &fakeGateway{failGames: true}
	o := newOrchestrator(gw)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Aggregate(ctx, models.AggregationRequest{GameIDs: []int{10}}); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestGeneration(t *testing.T) {
	var g Generation

	first := g.Next()
	second := g.Next()
	if second != first+1 {
		t.Errorf("Expected monotonic generations, got %d then %d", first, second)
	}
	if !g.IsCurrent(second) {
		t.Error("Expected the latest generation to be current")
	}
	if g.IsCurrent(first) {
		t.Error("Expected a superseded generation to be stale")
	}
	if g.Current() != second {
		t.Errorf("Expected current %d, got %d", second, g.Current())
	}
}
