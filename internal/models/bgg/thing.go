// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package bgg

import "encoding/xml"

// ThingItems is the envelope of the thing endpoint. One batched call
// carries any number of game documents.
type ThingItems struct {
	XMLName xml.Name       `xml:"items"`
	Items   []GameDocument `xml:"item"`
}

// GameDocument is one raw catalog game record, including the
// suggested-player-count poll and the statistics block requested with
// stats=1.
type GameDocument struct {
	ID          string     `xml:"id,attr"`
	Type        string     `xml:"type,attr"`
	Thumbnail   string     `xml:"thumbnail"`
	Names       []GameName `xml:"name"`
	MinPlayers  IntValue   `xml:"minplayers"`
	MaxPlayers  IntValue   `xml:"maxplayers"`
	MinPlaytime IntValue   `xml:"minplaytime"`
	MaxPlaytime IntValue   `xml:"maxplaytime"`
	Polls       []Poll     `xml:"poll"`
	Statistics  Statistics `xml:"statistics"`
}

// GameName is one name entry; Type is "primary" or "alternate".
type GameName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// IntValue is the catalog's value-attribute wrapper for integers.
type IntValue struct {
	Value int `xml:"value,attr"`
}

// Poll is one community poll. The suggested-player-count poll is named
// "suggested_numplayers".
type Poll struct {
	Name    string        `xml:"name,attr"`
	Title   string        `xml:"title,attr"`
	Results []PollResults `xml:"results"`
}

// PollResults is one poll bucket. For the player-count poll NumPlayers
// is the bucket label, a plain integer or an open-ended form like "7+".
type PollResults struct {
	NumPlayers string       `xml:"numplayers,attr"`
	Result     []PollResult `xml:"result"`
}

// PollResult is one vote outcome within a bucket: "Best", "Recommended"
// or "Not Recommended" for the player-count poll.
type PollResult struct {
	Value    string `xml:"value,attr"`
	NumVotes int    `xml:"numvotes,attr"`
}

// Statistics is the ratings block of a game document.
type Statistics struct {
	Ratings Ratings `xml:"ratings"`
}

// Ratings carries the community rating aggregates. Values arrive as
// text and may be missing or non-numeric; the transform substitutes
// zero in that case.
type Ratings struct {
	UsersRated    StringValue `xml:"usersrated"`
	Average       StringValue `xml:"average"`
	BayesAverage  StringValue `xml:"bayesaverage"`
	AverageWeight StringValue `xml:"averageweight"`
}

// StringValue is the catalog's value-attribute wrapper for text fields.
type StringValue struct {
	Value string `xml:"value,attr"`
}
