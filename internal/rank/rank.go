// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package rank implements the generic multi-criteria rank engine.
//
// Ranking is applied independently per dimension (average rating, geek
// rating, weight, each player-count bucket, composite index); ranks are
// never shared or derived across dimensions. Items without a usable
// score always receive rank 0 (unranked) and never conflict with
// scored items.
//
// Ties are positional: equal scores keep their relative order after a
// stable sort and receive consecutive rank numbers, not shared ones.
package rank

import "sort"

// Assign gives each item a 1-based rank in descending score order.
//
// score reports an item's value and whether it has one; items without
// a score receive rank 0. setRank writes the rank back; pass pointer
// items (or closures over the backing slice) so the write sticks.
func Assign[T any](items []T, score func(T) (float64, bool), setRank func(T, int)) {
	scored := make([]int, 0, len(items))
	for i := range items {
		if _, ok := score(items[i]); ok {
			scored = append(scored, i)
		} else {
			setRank(items[i], 0)
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		sa, _ := score(items[scored[a]])
		sb, _ := score(items[scored[b]])
		return sa > sb
	})

	for pos, i := range scored {
		setRank(items[i], pos+1)
	}
}
