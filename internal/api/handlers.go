// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tablekit/tablerank/internal/aggregate"
	"github.com/tablekit/tablerank/internal/config"
	"github.com/tablekit/tablerank/internal/logging"
	"github.com/tablekit/tablerank/internal/models"
	"github.com/tablekit/tablerank/internal/rank"
)

// Handler carries the dependencies of the API endpoints.
type Handler struct {
	orchestrator *aggregate.Orchestrator
	cfg          *config.Config
	generation   *aggregate.Generation
	validate     *validator.Validate
}

// NewHandler creates the API handler set.
func NewHandler(orchestrator *aggregate.Orchestrator, cfg *config.Config) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		cfg:          cfg,
		generation:   &aggregate.Generation{},
		validate:     validator.New(),
	}
}

// aggregateParams is the parsed query of one aggregation request.
type aggregateParams struct {
	Usernames  []string `validate:"dive,min=1,max=64"`
	GameIDs    []int    `validate:"dive,gt=0"`
	ThreadID   int      `validate:"min=0"`
	GeekListID int      `validate:"min=0"`

	// Scoring overrides for the composite index.
	PlayerCount int     `validate:"min=0,max=20"`
	Username    string  `validate:"max=64"`
	IdealWeight float64 `validate:"min=0,max=5"`
	IdealTime   float64 `validate:"min=0"`
}

// Aggregate handles GET /api/v1/aggregate.
//
// Query parameters: usernames (comma-separated), ids (comma-separated
// game ids), thread, geeklist, and the composite-scoring knobs players,
// user, ideal_weight and ideal_time. The response carries the ranked
// aggregation result and a generation number; clients drop responses
// from superseded generations.
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	params, err := h.parseAggregateParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	gen := h.generation.Next()

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Server.Timeout)
	defer cancel()

	req := models.AggregationRequest{
		Usernames:  params.Usernames,
		GameIDs:    params.GameIDs,
		ThreadID:   params.ThreadID,
		GeekListID: params.GeekListID,
	}

	result, err := h.orchestrator.Aggregate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Client went away; nothing to write
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Msg("Aggregation failed")
		writeError(w, r, http.StatusGatewayTimeout, "aggregation_timeout", "aggregation did not complete in time")
		return
	}

	rank.AssignGameRanks(result.Games, h.compositeConfig(params))
	rank.AttachDisplayRatings(result.Games, params.Username)

	writeJSON(w, r, http.StatusOK, result, &APIMeta{
		Timestamp:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Generation: gen,
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"}, nil)
}

// parseAggregateParams parses and validates the aggregate query.
func (h *Handler) parseAggregateParams(r *http.Request) (*aggregateParams, error) {
	q := r.URL.Query()

	params := &aggregateParams{
		Usernames:   splitCSV(q.Get("usernames")),
		Username:    q.Get("user"),
		IdealWeight: h.cfg.Scoring.IdealWeight,
		IdealTime:   h.cfg.Scoring.IdealTime,
	}

	var err error
	if params.GameIDs, err = parseIntCSV(q.Get("ids")); err != nil {
		return nil, errors.New("ids must be a comma-separated list of integers")
	}
	if params.ThreadID, err = parseOptionalInt(q.Get("thread")); err != nil {
		return nil, errors.New("thread must be an integer")
	}
	if params.GeekListID, err = parseOptionalInt(q.Get("geeklist")); err != nil {
		return nil, errors.New("geeklist must be an integer")
	}
	if params.PlayerCount, err = parseOptionalInt(q.Get("players")); err != nil {
		return nil, errors.New("players must be an integer")
	}
	if raw := q.Get("ideal_weight"); raw != "" {
		if params.IdealWeight, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, errors.New("ideal_weight must be a number")
		}
	}
	if raw := q.Get("ideal_time"); raw != "" {
		if params.IdealTime, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, errors.New("ideal_time must be a number")
		}
	}

	if len(params.Usernames) > h.cfg.API.MaxUsernames {
		return nil, errors.New("too many usernames")
	}
	if len(params.GameIDs) > h.cfg.API.MaxGameIDs {
		return nil, errors.New("too many game ids")
	}
	if err := h.validate.Struct(params); err != nil {
		return nil, errors.New("request validation failed")
	}

	return params, nil
}

// compositeConfig builds the composite-scoring configuration from the
// configured default weights and the request's overrides.
func (h *Handler) compositeConfig(params *aggregateParams) rank.CompositeConfig {
	scoring := h.cfg.Scoring
	return rank.CompositeConfig{
		UserRatingWeight:    scoring.UserRatingWeight,
		AverageRatingWeight: scoring.AverageRatingWeight,
		GeekRatingWeight:    scoring.GeekRatingWeight,
		PlayerCountWeight:   scoring.PlayerCountWeight,
		WeightFitWeight:     scoring.WeightFitWeight,
		TimeFitWeight:       scoring.TimeFitWeight,
		IdealWeight:         params.IdealWeight,
		IdealTime:           params.IdealTime,
		PlayerCount:         params.PlayerCount,
		Username:            params.Username,
	}
}

// splitCSV splits a comma-separated parameter, dropping empty entries.
func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseIntCSV parses a comma-separated list of integers.
func parseIntCSV(raw string) ([]int, error) {
	var out []int
	for _, p := range splitCSV(raw) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// parseOptionalInt parses an optional integer parameter; empty is 0.
func parseOptionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
