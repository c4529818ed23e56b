// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldRequestID = "request_id"
	FieldComponent = "component"
	FieldEvent     = "event"

	// Catalog fields
	FieldItemID      = "item_id"
	FieldIdentifier  = "identifier"
	FieldKind        = "kind"
	FieldNativeType  = "native_type"
	FieldDisplayType = "display_type"
	FieldChildren    = "children"
	FieldOperation   = "op"

	// Playback fields
	FieldMediaSourceID = "media_source_id"
	FieldMethod        = "method"
	FieldMimeType      = "mime_type"
	FieldCandidates    = "candidates"
	FieldWeight        = "weight"

	// Path / URL fields
	FieldURL     = "url"
	FieldBaseURL = "base_url"
	FieldPath    = "path"
)
