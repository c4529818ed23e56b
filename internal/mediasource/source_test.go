// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package mediasource

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/catalog/catalogtest"
	"github.com/ManuGH/mediabrowse/internal/classify"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/playback"
)

func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m, labels) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(m *dto.Metric, want map[string]string) bool {
	got := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		got[lp.GetName()] = lp.GetValue()
	}
	for k, v := range want {
		if got[k] != v {
			return false
		}
	}
	return true
}

func musicFake() *catalogtest.Fake {
	fake := catalogtest.New()
	fake.Libraries = []catalog.Item{{ID: "L1", Name: "Music", Type: classify.NativeCollectionFolder, IsFolder: true}}
	fake.AddItem(catalog.Item{ID: "A1", Name: "Album", Type: classify.NativeMusicAlbum, IsFolder: true})
	fake.AddItem(catalog.Item{ID: "T1", Name: "Track", Type: classify.NativeAudio})
	fake.SetChildren("A1", catalog.Item{ID: "T1", Name: "Track", Type: classify.NativeAudio})
	fake.Playback["T1"] = &catalog.PlaybackInfo{MediaSources: []catalog.MediaSource{
		{ID: "ms1", Container: "mp3", SupportsDirectStream: true},
	}}
	return fake
}

func TestSource_BrowseRoot(t *testing.T) {
	before := counterValue(t, "mediabrowse_browse_total", map[string]string{"kind": "library", "result": "success"})

	node, err := New(musicFake()).Browse(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, mediaid.Root, node.Identifier)
	require.Len(t, node.Children, 1)

	after := counterValue(t, "mediabrowse_browse_total", map[string]string{"kind": "library", "result": "success"})
	assert.Equal(t, before+1, after)
}

func TestSource_BrowseWithPrefixedIdentifier(t *testing.T) {
	node, err := New(musicFake()).Browse(context.Background(), "media-source://jellyfin/album~~A1")
	require.NoError(t, err)
	assert.Equal(t, "Album", node.Title)
	assert.False(t, node.Playable)
}

func TestSource_BrowseRoundTripsIdentifier(t *testing.T) {
	fake := musicFake()
	fake.AddItem(catalog.Item{ID: "P1", Name: "Road Trip", Type: classify.NativePlaylist, IsFolder: true})
	fake.SetChildren("P1", catalog.Item{ID: "T1", Name: "Track", Type: classify.NativeAudio})

	node, err := New(fake).Browse(context.Background(), "playlist~~P1")
	require.NoError(t, err)
	assert.Equal(t, "playlist~~P1", node.Identifier.String())
	require.Len(t, node.Children, 1)

	child, err := New(fake).Browse(context.Background(), node.Children[0].Identifier.String())
	require.NoError(t, err)
	assert.Equal(t, node.Children[0].Identifier, child.Identifier)
}

func TestSource_BrowseContainerPlayback(t *testing.T) {
	node, err := New(musicFake()).Browse(context.Background(), "album~~A1", WithContainerPlayback())
	require.NoError(t, err)
	assert.True(t, node.Playable)
}

func TestSource_BrowseMalformed(t *testing.T) {
	_, err := New(musicFake()).Browse(context.Background(), "no-separator")
	assert.ErrorIs(t, err, mediaid.ErrMalformedIdentifier)
}

func TestSource_BrowseUnknownType(t *testing.T) {
	fake := musicFake()
	fake.Libraries = append(fake.Libraries, catalog.Item{ID: "X", Type: classify.NativeType("Photo")})

	before := counterValue(t, "mediabrowse_browse_total", map[string]string{"kind": "library", "result": "unknown_type"})
	_, err := New(fake).Browse(context.Background(), "")
	assert.ErrorIs(t, err, classify.ErrUnknownMediaType)
	after := counterValue(t, "mediabrowse_browse_total", map[string]string{"kind": "library", "result": "unknown_type"})
	assert.Equal(t, before+1, after)
}

func TestSource_Resolve(t *testing.T) {
	before := counterValue(t, "mediabrowse_resolve_total", map[string]string{"method": "direct_stream", "result": "success"})

	media, err := New(musicFake()).Resolve(context.Background(), "track~~T1")
	require.NoError(t, err)
	assert.Equal(t, "http://h/Audio/T1/stream?static=true&MediaSourceId=ms1&api_key=tok", media.URL)
	assert.Equal(t, "audio/mp3", media.MimeType)

	after := counterValue(t, "mediabrowse_resolve_total", map[string]string{"method": "direct_stream", "result": "success"})
	assert.Equal(t, before+1, after)
}

func TestSource_ResolveErrors(t *testing.T) {
	src := New(musicFake())

	_, err := src.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, mediaid.ErrMalformedIdentifier)

	_, err = src.Resolve(context.Background(), "track~~")
	assert.ErrorIs(t, err, mediaid.ErrMalformedIdentifier)

	_, err = src.Resolve(context.Background(), "movie~~missing")
	assert.ErrorIs(t, err, playback.ErrNoPlaybackInfo)
}

func TestErrorResult(t *testing.T) {
	assert.Equal(t, "not_found", errorResult(catalog.ErrItemNotFound))
	assert.Equal(t, "no_playback_info", errorResult(playback.ErrNoPlaybackInfo))
	assert.Equal(t, "no_suitable_source", errorResult(playback.ErrNoSuitableSource))
	assert.Equal(t, "unknown_type", errorResult(classify.ErrUnknownMediaType))
	assert.Equal(t, "canceled", errorResult(context.Canceled))
	assert.Equal(t, "error", errorResult(assert.AnError))
}

func TestSource_FailuresAreLogged(t *testing.T) {
	var buf bytes.Buffer
	xglog.Configure(xglog.Config{Output: &buf, Level: "debug"})
	t.Cleanup(func() { xglog.Configure(xglog.Config{Output: os.Stdout, Level: "info"}) })

	src := New(musicFake())
	ctx := xglog.ContextWithRequestID(context.Background(), "req-7")

	_, err := src.Browse(ctx, "album~~missing")
	require.ErrorIs(t, err, catalog.ErrItemNotFound)
	_, err = src.Resolve(ctx, "track~~missing")
	require.ErrorIs(t, err, playback.ErrNoPlaybackInfo)

	out := buf.String()
	assert.Contains(t, out, "browse failed")
	assert.Contains(t, out, "album~~missing")
	assert.Contains(t, out, "resolve failed")
	assert.Contains(t, out, "track~~missing")
	assert.Contains(t, out, "req-7")
}
