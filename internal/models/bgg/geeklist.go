// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package bgg

import "encoding/xml"

// GeekListDocument is one curated list. Items appear in document order,
// which defines the list sequence positions.
type GeekListDocument struct {
	XMLName xml.Name       `xml:"geeklist"`
	ID      string         `xml:"id,attr"`
	Title   string         `xml:"title"`
	Items   []GeekListItem `xml:"item"`
}

// GeekListItem is one list entry. Only entries with ObjectType "thing"
// and a board-game subtype refer to games; lists may also link people,
// companies or files.
type GeekListItem struct {
	ID         string `xml:"id,attr"`
	ObjectType string `xml:"objecttype,attr"`
	Subtype    string `xml:"subtype,attr"`
	ObjectID   string `xml:"objectid,attr"`
	ObjectName string `xml:"objectname,attr"`
}
