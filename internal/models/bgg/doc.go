// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

// Package bgg defines the typed documents produced by the catalog
// gateway from the BoardGameGeek XML API responses.
//
// These structs mirror the wire format of the four endpoints the
// gateway consumes (thing, collection, thread, geeklist). All strict
// parsing happens at the gateway boundary; the rest of the system only
// ever sees these typed shapes and never traverses raw XML.
//
// Numeric attributes that the API reports as text (ratings, object ids,
// player-count labels such as "7+") stay strings here. The transform
// package owns their interpretation, including the documented
// tolerance for non-numeric values.
package bgg
