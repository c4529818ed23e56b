// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package mediasource is the entry point hosts call to browse the catalog and
// resolve playable items.
package mediasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/mediabrowse/internal/browse"
	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/classify"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/metrics"
	"github.com/ManuGH/mediabrowse/internal/playback"
)

// Source combines tree building and playback resolution over one catalog.
type Source struct {
	builder  *browse.Builder
	resolver *playback.Resolver
	logger   zerolog.Logger
}

// New returns a Source reading from client.
func New(client catalog.Client, opts ...playback.Option) *Source {
	return &Source{
		builder:  browse.NewBuilder(client),
		resolver: playback.NewResolver(client, opts...),
		logger:   xglog.WithComponent("mediasource"),
	}
}

type browseOptions struct {
	containerPlayback bool
}

// BrowseOption tunes a Browse call.
type BrowseOption func(*browseOptions)

// WithContainerPlayback marks albums, seasons, playlists and similar
// containers as playable.
func WithContainerPlayback() BrowseOption {
	return func(o *browseOptions) { o.containerPlayback = true }
}

// Browse returns the node for identifier. The empty identifier is the root.
func (s *Source) Browse(ctx context.Context, identifier string, opts ...BrowseOption) (*browse.Node, error) {
	var o browseOptions
	for _, opt := range opts {
		opt(&o)
	}

	id, err := mediaid.Parse(identifier)
	if err != nil {
		metrics.RecordBrowse("", "malformed", 0)
		return nil, err
	}

	node, err := s.builder.Browse(ctx, id, o.containerPlayback)
	if err != nil {
		metrics.RecordBrowse(id.Kind, errorResult(err), 0)
		logger := xglog.WithContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldIdentifier, id.String()).
			Msg("browse failed")
		return nil, err
	}

	metrics.RecordBrowse(id.Kind, "success", len(node.Children))
	return node, nil
}

// Resolve returns the stream for a playable identifier.
func (s *Source) Resolve(ctx context.Context, identifier string) (playback.Media, error) {
	id, err := mediaid.Decode(identifier)
	if err != nil {
		metrics.RecordResolve("", "malformed")
		return playback.Media{}, err
	}
	if id.ID == "" {
		metrics.RecordResolve("", "malformed")
		return playback.Media{}, fmt.Errorf("%w: empty item id in %q", mediaid.ErrMalformedIdentifier, identifier)
	}

	media, err := s.resolver.Resolve(ctx, id)
	if err != nil {
		metrics.RecordResolve("", errorResult(err))
		logger := xglog.WithContext(ctx, s.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldIdentifier, id.String()).
			Msg("resolve failed")
		return playback.Media{}, err
	}

	metrics.RecordResolve(media.Method, "success")
	return media, nil
}

func errorResult(err error) string {
	switch {
	case errors.Is(err, catalog.ErrItemNotFound):
		return "not_found"
	case errors.Is(err, playback.ErrNoPlaybackInfo):
		return "no_playback_info"
	case errors.Is(err, playback.ErrNoSuitableSource):
		return "no_suitable_source"
	case errors.Is(err, classify.ErrUnknownMediaType):
		return "unknown_type"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
