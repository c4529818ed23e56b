// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/mediasource"
)

// GET /api/v1/browse?id=<identifier>&container_playback=<bool>
func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts []mediasource.BrowseOption
	if raw := q.Get("container_playback"); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:  "invalid_parameter",
				Detail: fmt.Sprintf("container_playback: %q is not a boolean", raw),
			})
			return
		}
		if allow {
			opts = append(opts, mediasource.WithContainerPlayback())
		}
	}

	node, err := s.service.Browse(r.Context(), q.Get("id"), opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// GET /api/v1/resolve?id=<identifier>
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		writeError(w, r, fmt.Errorf("%w: id is required", mediaid.ErrMalformedIdentifier))
		return
	}

	media, err := s.service.Resolve(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}
