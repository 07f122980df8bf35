// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package bgg

import "encoding/xml"

// ThreadDocument is one forum thread with its article bodies. Game
// mentions are carried as catalog permalinks inside the HTML bodies;
// the resolver extracts them.
type ThreadDocument struct {
	XMLName  xml.Name        `xml:"thread"`
	ID       string          `xml:"id,attr"`
	Subject  string          `xml:"subject"`
	Articles []ThreadArticle `xml:"articles>article"`
}

// ThreadArticle is one post in a thread.
type ThreadArticle struct {
	ID       string `xml:"id,attr"`
	Username string `xml:"username,attr"`
	Body     string `xml:"body"`
}
