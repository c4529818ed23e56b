// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package playback turns a playable identifier into a stream URL and MIME type.
package playback

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/classify"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/telemetry"
)

var (
	// ErrNoPlaybackInfo means the catalog returned no media sources.
	ErrNoPlaybackInfo = errors.New("no playback info")
	// ErrNoSuitableSource means no candidate could be streamed.
	ErrNoSuitableSource = errors.New("no suitable media source")
)

// Stream delivery methods.
const (
	MethodDirectStream = "direct_stream"
	MethodTranscode    = "transcode"
)

// Media is a resolved stream.
type Media struct {
	URL           string `json:"url"`
	MimeType      string `json:"mime_type"`
	Method        string `json:"method"`
	MediaSourceID string `json:"media_source_id"`
}

// Resolver negotiates playback with the catalog.
type Resolver struct {
	client  catalog.Client
	profile catalog.PlaybackProfile
	logger  zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithProfile replaces the device profile sent to the catalog.
func WithProfile(p catalog.PlaybackProfile) Option {
	return func(r *Resolver) { r.profile = p }
}

// NewResolver returns a resolver using DefaultProfile unless overridden.
func NewResolver(client catalog.Client, opts ...Option) *Resolver {
	r := &Resolver{
		client:  client,
		profile: DefaultProfile(),
		logger:  xglog.WithComponent("playback"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve negotiates sources for id and builds the stream URL of the best one.
func (r *Resolver) Resolve(ctx context.Context, id mediaid.ID) (media Media, err error) {
	ctx, span := telemetry.StartSpan(ctx, "playback.resolve")
	defer func() { telemetry.EndSpan(span, err) }()

	logger := xglog.WithContext(ctx, r.logger).With().
		Str(xglog.FieldIdentifier, id.String()).
		Logger()

	info, err := r.client.GetPlaybackInfo(ctx, id.ID, r.profile)
	if err != nil {
		return Media{}, fmt.Errorf("playback info for %s: %w", id.ID, err)
	}
	if info == nil || info.MediaSources == nil {
		logger.Error().Str(xglog.FieldItemID, id.ID).Msg("no playback info for item")
		return Media{}, fmt.Errorf("%w: item %s", ErrNoPlaybackInfo, id.ID)
	}
	logger.Debug().Int(xglog.FieldCandidates, len(info.MediaSources)).Msg("playback info received")

	sel, err := Select(info.MediaSources)
	if err != nil {
		return Media{}, fmt.Errorf("item %s: %w", id.ID, err)
	}

	media, err = r.build(id, sel.Source)
	if err != nil {
		return Media{}, fmt.Errorf("item %s: %w", id.ID, err)
	}

	if media.MimeType == MimeTypeUnknown {
		logger.Warn().
			Str(xglog.FieldMediaSourceID, media.MediaSourceID).
			Msg("media source declares no container")
	}

	span.SetAttributes(telemetry.PlaybackAttributes(media.Method, media.MediaSourceID, media.MimeType, len(info.MediaSources))...)
	logger.Debug().
		Str(xglog.FieldMethod, media.Method).
		Str(xglog.FieldMediaSourceID, media.MediaSourceID).
		Float64(xglog.FieldWeight, sel.Weight).
		Str(xglog.FieldURL, xglog.MaskURL(media.URL)).
		Msg("stream resolved")
	return media, nil
}

// Stream routes on the Jellyfin server. Video streams live under the plural
// "Videos" path; "/Video/{id}/stream" is not served.
const (
	RouteAudio = "Audio"
	RouteVideo = "Videos"
)

// MimeTypeUnknown is reported when a source declares no container.
const MimeTypeUnknown = "application/octet-stream"

func mimeType(prefix, container string) string {
	if container == "" {
		return MimeTypeUnknown
	}
	return prefix + container
}

func (r *Resolver) build(id mediaid.ID, src catalog.MediaSource) (Media, error) {
	audio := classify.DisplayType(id.Kind) == classify.TypeTrack
	mimePrefix, route := "video/", RouteVideo
	if audio {
		mimePrefix, route = "audio/", RouteAudio
	}

	switch {
	case src.SupportsDirectStream:
		return Media{
			URL:           DirectStreamURL(r.client.ServerURL(), route, id.ID, src.ID, r.client.AuthToken()),
			MimeType:      mimeType(mimePrefix, src.Container),
			Method:        MethodDirectStream,
			MediaSourceID: src.ID,
		}, nil
	case src.SupportsTranscoding && src.TranscodingURL != "":
		container := src.TranscodingContainer
		if container == "" {
			container = src.Container
		}
		return Media{
			URL:           r.client.ServerURL() + src.TranscodingURL,
			MimeType:      mimeType(mimePrefix, container),
			Method:        MethodTranscode,
			MediaSourceID: src.ID,
		}, nil
	default:
		return Media{}, ErrNoSuitableSource
	}
}

// DirectStreamURL builds the static stream URL for one media source.
func DirectStreamURL(base, route, itemID, sourceID, token string) string {
	return fmt.Sprintf("%s/%s/%s/stream?static=true&MediaSourceId=%s&api_key=%s",
		base, route, url.PathEscape(itemID), url.QueryEscape(sourceID), url.QueryEscape(token))
}
