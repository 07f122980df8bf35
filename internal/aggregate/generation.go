// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package aggregate

import "sync/atomic"

// Generation is a monotonically increasing request generation counter.
//
// Callers that supersede in-flight aggregations (a new request arrives
// while one is pending) stamp each request with Next() and drop any
// response whose generation is no longer current, so stale results are
// never written to user-visible state out of order. In-flight fetches
// are not aborted; their side effect is only a warmer cache.
type Generation struct {
	n atomic.Uint64
}

// Next advances the counter and returns the new generation.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current returns the latest generation.
func (g *Generation) Current() uint64 {
	return g.n.Load()
}

// IsCurrent reports whether gen is still the latest generation.
func (g *Generation) IsCurrent(gen uint64) bool {
	return g.n.Load() == gen
}
