// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package catalog implements the gateway to the board-game catalog
// service's XML API.
//
// Client Features:
//   - HTTP client with configurable timeout
//   - Courtesy rate limiting toward the catalog service (token bucket)
//   - Automatic retry with exponential backoff for HTTP 429 (rate
//     limited) and HTTP 202 (collection export queued) responses
//   - Circuit breaker protection against a failing upstream
//   - XML decoding into the typed documents of models/bgg
//   - Context support for cancellation and timeouts
//
// The gateway either returns a well-formed typed document or fails;
// callers own the degradation policy (absent thread/list sources are
// tolerated, missing games are retried on a later request).
package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tablekit/tablerank/internal/config"
	"github.com/tablekit/tablerank/internal/metrics"
	"github.com/tablekit/tablerank/internal/models/bgg"
)

// maxErrorBodySize limits the response body read for error reporting.
const maxErrorBodySize = 64 * 1024 // 64KB

// Gateway defines the four catalog operations the aggregation core
// consumes. Implemented by Client for production and by fakes in tests.
//
// All methods are safe for concurrent use.
type Gateway interface {
	// FetchGames retrieves game documents for the given ids in one
	// batched call.
	FetchGames(ctx context.Context, ids []int) ([]bgg.GameDocument, error)

	// FetchCollection retrieves one user's collection.
	FetchCollection(ctx context.Context, username string) (*bgg.CollectionDocument, error)

	// FetchThread retrieves one forum thread with article bodies.
	FetchThread(ctx context.Context, id int) (*bgg.ThreadDocument, error)

	// FetchGeekList retrieves one curated list.
	FetchGeekList(ctx context.Context, id int) (*bgg.GeekListDocument, error)
}

// Client is the production Gateway over the catalog XML API.
type Client struct {
	baseURL        string
	client         *http.Client
	limiter        *rate.Limiter
	breaker        *gobreaker.CircuitBreaker[[]byte]
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewClient creates a catalog client from configuration.
func NewClient(cfg *config.CatalogConfig) *Client {
	failures := uint32(cfg.BreakerFailures) //nolint:gosec // validated small positive int
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "catalog",
		Timeout: cfg.BreakerOpenFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		breaker:        breaker,
		maxRetries:     cfg.MaxRetries,
		retryBaseDelay: cfg.RetryBaseDelay,
	}
}

// FetchGames retrieves the game documents for ids with statistics in a
// single batched request. The catalog supports multi-id lookup; one
// call per batch respects its courtesy expectations.
func (c *Client) FetchGames(ctx context.Context, ids []int) ([]bgg.GameDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idList := make([]string, len(ids))
	for i, id := range ids {
		idList[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("id", strings.Join(idList, ","))
	params.Set("stats", "1")

	var items bgg.ThingItems
	if err := c.fetchXML(ctx, "thing", "/xmlapi2/thing", params, &items); err != nil {
		return nil, err
	}
	return items.Items, nil
}

// FetchCollection retrieves username's collection with per-item rating
// statistics. The catalog queues collection exports and answers 202
// until ready; the request loop retries those with backoff.
func (c *Client) FetchCollection(ctx context.Context, username string) (*bgg.CollectionDocument, error) {
	params := url.Values{}
	params.Set("username", username)
	params.Set("stats", "1")
	params.Set("subtype", "boardgame")

	var doc bgg.CollectionDocument
	if err := c.fetchXML(ctx, "collection", "/xmlapi2/collection", params, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FetchThread retrieves a forum thread including article bodies.
func (c *Client) FetchThread(ctx context.Context, id int) (*bgg.ThreadDocument, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))

	var doc bgg.ThreadDocument
	if err := c.fetchXML(ctx, "thread", "/xmlapi2/thread", params, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// FetchGeekList retrieves a curated list. The geeklist endpoint lives
// on the v1 XML API and addresses the list by path.
func (c *Client) FetchGeekList(ctx context.Context, id int) (*bgg.GeekListDocument, error) {
	var doc bgg.GeekListDocument
	if err := c.fetchXML(ctx, "geeklist", "/xmlapi/geeklist/"+strconv.Itoa(id), nil, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// fetchXML performs one catalog request through the rate limiter and
// circuit breaker and decodes the XML response into result.
func (c *Client) fetchXML(ctx context.Context, operation, path string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequestWithRetry(ctx, reqURL)
	})
	if err != nil {
		metrics.RecordGatewayRequest(operation, "error", time.Since(start))
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	metrics.RecordGatewayRequest(operation, "success", time.Since(start))

	if err := xml.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

// doRequestWithRetry performs an HTTP GET with automatic retry for
// queued (202) and rate-limited (429) responses, backing off
// exponentially between attempts. The context cancels backoff waits.
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read response body: %w", err)
			}
			return body, nil

		case http.StatusAccepted, http.StatusTooManyRequests:
			// Collection export queued or rate limited; retry after a wait
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("catalog not ready after %d attempts (HTTP %d)", attempt+1, resp.StatusCode)

		default:
			body := readBodyForError(resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
		}

		if attempt == c.maxRetries {
			break
		}

		delay := c.retryBaseDelay * time.Duration(1<<uint(attempt)) //nolint:gosec // attempt <= maxRetries <= 10

		select {
		case <-time.After(delay):
			// Next attempt
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, lastErr
}

// readBodyForError reads up to 64KB of the response body for error
// reporting, indicating truncation when the limit is hit.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
