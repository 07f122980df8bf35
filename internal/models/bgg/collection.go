// Tablerank - Board Game Leaderboard Aggregation and Ranking
// Copyright 2026 Tablekit Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablekit/tablerank

package bgg

import "encoding/xml"

// CollectionDocument is the raw collection of one user as returned by
// the collection endpoint with stats=1.
type CollectionDocument struct {
	XMLName    xml.Name         `xml:"items"`
	TotalItems int              `xml:"totalitems,attr"`
	Items      []CollectionItem `xml:"item"`
}

// CollectionItem is one game entry in a user's collection.
type CollectionItem struct {
	ObjectID string           `xml:"objectid,attr"`
	Subtype  string           `xml:"subtype,attr"`
	Name     string           `xml:"name"`
	Status   CollectionStatus `xml:"status"`
	Stats    CollectionStats  `xml:"stats"`
}

// CollectionStatus carries the ownership flags. The API encodes
// booleans as "1"/"0" strings.
type CollectionStatus struct {
	Own      string `xml:"own,attr"`
	Wishlist string `xml:"wishlist,attr"`
}

// CollectionStats wraps the per-item rating of the collection owner.
type CollectionStats struct {
	Rating CollectionRating `xml:"rating"`
}

// CollectionRating is the owner's rating; "N/A" when the game is not
// rated.
type CollectionRating struct {
	Value string `xml:"value,attr"`
}
