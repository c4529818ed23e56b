// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	CatalogOperationKey = "catalog.operation"
	CatalogItemIDKey    = "catalog.item_id"
	CatalogParentIDKey  = "catalog.parent_id"
	CatalogResultKey    = "catalog.result"

	BrowseKindKey       = "browse.kind"
	BrowseChildrenKey   = "browse.children"
	BrowseContainerPlay = "browse.container_playback"

	PlaybackMethodKey      = "playback.method"
	PlaybackSourceIDKey    = "playback.media_source_id"
	PlaybackCandidatesKey  = "playback.candidates"
	PlaybackMimeTypeKey    = "playback.mime_type"
	PlaybackDisplayTypeKey = "playback.display_type"
)

// CatalogAttributes creates span attributes for a catalog call.
func CatalogAttributes(op, itemID, parentID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(CatalogOperationKey, op)}
	if itemID != "" {
		attrs = append(attrs, attribute.String(CatalogItemIDKey, itemID))
	}
	if parentID != "" {
		attrs = append(attrs, attribute.String(CatalogParentIDKey, parentID))
	}
	return attrs
}

// BrowseAttributes creates span attributes for a browse call.
func BrowseAttributes(kind, itemID string, containerPlayback bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(BrowseKindKey, kind),
		attribute.String(CatalogItemIDKey, itemID),
		attribute.Bool(BrowseContainerPlay, containerPlayback),
	}
}

// PlaybackAttributes creates span attributes for a resolved stream.
func PlaybackAttributes(method, sourceID, mimeType string, candidates int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(PlaybackMethodKey, method),
		attribute.String(PlaybackSourceIDKey, sourceID),
		attribute.String(PlaybackMimeTypeKey, mimeType),
		attribute.Int(PlaybackCandidatesKey, candidates),
	}
}
