// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package catalog defines the narrow port through which browse and playback
// reach the remote media catalog. HTTP and auth live behind Client.
package catalog

import (
	"context"
	"errors"

	"github.com/ManuGH/mediabrowse/internal/classify"
)

// ErrItemNotFound is returned by GetItem when the catalog has no such entry.
var ErrItemNotFound = errors.New("catalog item not found")

// Client is the capability the core depends on.
type Client interface {
	// GetItem fetches one catalog entry by id.
	GetItem(ctx context.Context, id string) (Item, error)
	// GetItems runs a query; the zero Query lists the top-level libraries.
	GetItems(ctx context.Context, q Query) ([]Item, error)
	// GetPlaybackInfo negotiates media sources for id. A nil result means the
	// catalog answered without playback info.
	GetPlaybackInfo(ctx context.Context, id string, profile PlaybackProfile) (*PlaybackInfo, error)
	// ArtworkURL returns the primary image URL for id.
	ArtworkURL(id string) string
	// ServerURL returns the catalog base URL without trailing slash.
	ServerURL() string
	// AuthToken returns the token appended to stream URLs.
	AuthToken() string
}

// Item is a catalog entry. The core treats it as read-only.
type Item struct {
	ID       string              `json:"Id"`
	Name     string              `json:"Name"`
	Type     classify.NativeType `json:"Type"`
	IsFolder bool                `json:"IsFolder"`
}

// SortOrder is the direction of a sorted query.
type SortOrder string

const (
	SortAscending  SortOrder = "Ascending"
	SortDescending SortOrder = "Descending"
)

// SortByName is the sort key used by every child listing.
const SortByName = "SortName"

// Query filters a GetItems call.
type Query struct {
	ParentID  string
	ID        string
	SortBy    string
	SortOrder SortOrder
}

// ChildrenOf returns the listing query for a container.
func ChildrenOf(parentID string) Query {
	return Query{ParentID: parentID, SortBy: SortByName, SortOrder: SortAscending}
}

// ByID returns the single-item query for a leaf.
func ByID(id string) Query {
	return Query{ID: id}
}

// IsZero reports whether q is the top-level libraries query.
func (q Query) IsZero() bool {
	return q == Query{}
}

// PlaybackInfo is the catalog's answer to a playback negotiation.
type PlaybackInfo struct {
	MediaSources []MediaSource `json:"MediaSources"`
}

// MediaSource is one candidate stream offered for an item.
type MediaSource struct {
	ID                   string `json:"Id"`
	Container            string `json:"Container"`
	Bitrate              *int64 `json:"Bitrate,omitempty"`
	SupportsDirectStream bool   `json:"SupportsDirectStream"`
	SupportsTranscoding  bool   `json:"SupportsTranscoding"`
	TranscodingURL       string `json:"TranscodingUrl,omitempty"`
	TranscodingContainer string `json:"TranscodingContainer,omitempty"`
}
