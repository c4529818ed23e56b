// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package classify

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTables_Contract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		native        NativeType
		wantType      DisplayType
		wantClass     DisplayClass
		wantPlay      bool
		wantPlayQueue bool
	}{
		{NativeMovie, TypeMovie, ClassMovie, true, true},
		{NativeSeries, TypeTVShow, ClassTVShow, false, true},
		{NativeSeason, TypeSeason, ClassSeason, false, true},
		{NativeEpisode, TypeEpisode, ClassEpisode, true, true},
		{NativeMusicAlbum, TypeAlbum, ClassAlbum, false, true},
		{NativeMusicArtist, TypeArtist, ClassArtist, false, true},
		{NativeAudio, TypeTrack, ClassTrack, true, true},
		{NativeBoxSet, TypeDirectory, ClassDirectory, false, true},
		{NativeFolder, TypeDirectory, ClassDirectory, false, false},
		{NativeCollectionFolder, TypeDirectory, ClassDirectory, false, false},
		{NativePlaylist, TypeDirectory, ClassDirectory, false, true},
		{NativeMusic, TypeAlbum, ClassDirectory, false, false},
	}

	require.Len(t, tests, len(NativeTypes), "every native type must have a contract row")

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.native), func(t *testing.T) {
			t.Parallel()

			dt, err := DisplayTypeOf(tt.native)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, dt)

			dc, err := DisplayClassOf(tt.native)
			require.NoError(t, err)
			assert.Equal(t, tt.wantClass, dc)

			play, err := IsPlayable(tt.native, false)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlay, play, "browse playability")

			queue, err := IsPlayable(tt.native, true)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPlayQueue, queue, "container playback playability")
		})
	}
}

func TestTables_UnknownTypeIsRejected(t *testing.T) {
	t.Parallel()

	for _, tag := range []NativeType{"", "TvChannel", "movie", "Photo", "AudioBook"} {
		_, err := DisplayTypeOf(tag)
		assert.ErrorIs(t, err, ErrUnknownMediaType)

		_, err = DisplayClassOf(tag)
		assert.ErrorIs(t, err, ErrUnknownMediaType)

		_, err = IsPlayable(tag, true)
		assert.ErrorIs(t, err, ErrUnknownMediaType)

		_, err = Classify(tag, false)
		var typed *UnknownMediaTypeError
		require.True(t, errors.As(err, &typed))
		assert.Equal(t, tag, typed.Type)
	}
}

func TestIsContainerKind(t *testing.T) {
	t.Parallel()

	for _, k := range []string{"directory", "artist", "album", "playlist", "tvshow", "season"} {
		assert.Truef(t, IsContainerKind(k), "kind %s", k)
	}
	for _, k := range []string{"track", "movie", "episode", "library", "", "whatever"} {
		assert.Falsef(t, IsContainerKind(k), "kind %s", k)
	}
}

func TestClassOfKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ClassTrack, ClassOfKind("track"))
	assert.Equal(t, ClassMovie, ClassOfKind("movie"))
	assert.Equal(t, ClassDirectory, ClassOfKind("mystery"))
}
