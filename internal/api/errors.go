// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/classify"
	"github.com/ManuGH/mediabrowse/internal/jellyfin"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/playback"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// classifyError maps a domain error to its status and stable error code.
func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, mediaid.ErrMalformedIdentifier):
		return http.StatusBadRequest, "malformed_identifier"
	case errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, playback.ErrNoPlaybackInfo):
		return http.StatusUnprocessableEntity, "no_playback_info"
	case errors.Is(err, playback.ErrNoSuitableSource):
		return http.StatusUnprocessableEntity, "no_suitable_source"
	case errors.Is(err, classify.ErrUnknownMediaType):
		return http.StatusBadGateway, "unknown_media_type"
	case errors.Is(err, jellyfin.ErrForbidden):
		return http.StatusBadGateway, "catalog_forbidden"
	case errors.Is(err, jellyfin.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "catalog_timeout"
	case errors.Is(err, jellyfin.ErrUnavailable):
		return http.StatusServiceUnavailable, "catalog_unavailable"
	case errors.Is(err, jellyfin.ErrUpstream), errors.Is(err, jellyfin.ErrBadResponse):
		return http.StatusBadGateway, "catalog_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError logs err and writes the mapped error response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classifyError(err)
	reqID := xglog.RequestIDFromContext(r.Context())

	logger := xglog.WithComponentFromContext(r.Context(), "api")
	level := zerolog.WarnLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.ErrorLevel
	}
	logger.WithLevel(level).Err(err).
		Int("status", status).
		Str(xglog.FieldPath, r.URL.Path).
		Msg("request failed")

	writeJSON(w, status, ErrorResponse{Error: code, Detail: err.Error(), RequestID: reqID})
}
