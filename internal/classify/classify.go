// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package classify maps native catalog item types onto the display vocabulary
// used by browse trees. The tables are closed: unknown types are an error.
package classify

import (
	"errors"
	"fmt"
)

// NativeType is the catalog's own item type tag.
type NativeType string

const (
	NativeMovie            NativeType = "Movie"
	NativeSeries           NativeType = "Series"
	NativeSeason           NativeType = "Season"
	NativeEpisode          NativeType = "Episode"
	NativeMusicAlbum       NativeType = "MusicAlbum"
	NativeMusicArtist      NativeType = "MusicArtist"
	NativeAudio            NativeType = "Audio"
	NativeBoxSet           NativeType = "BoxSet"
	NativeFolder           NativeType = "Folder"
	NativeCollectionFolder NativeType = "CollectionFolder"
	NativePlaylist         NativeType = "Playlist"
	NativeMusic            NativeType = "Music"
)

// NativeTypes lists every tag the tables know about.
var NativeTypes = []NativeType{
	NativeMovie, NativeSeries, NativeSeason, NativeEpisode,
	NativeMusicAlbum, NativeMusicArtist, NativeAudio, NativeBoxSet,
	NativeFolder, NativeCollectionFolder, NativePlaylist, NativeMusic,
}

// DisplayType is the content type tag carried in identifiers and nodes.
type DisplayType string

const (
	TypeLibrary   DisplayType = "library"
	TypeDirectory DisplayType = "directory"
	TypeMovie     DisplayType = "movie"
	TypeTVShow    DisplayType = "tvshow"
	TypeSeason    DisplayType = "season"
	TypeEpisode   DisplayType = "episode"
	TypeAlbum     DisplayType = "album"
	TypeArtist    DisplayType = "artist"
	TypeTrack     DisplayType = "track"
	TypePlaylist  DisplayType = "playlist"
)

// DisplayClass drives how a host renders a node.
type DisplayClass string

const (
	ClassDirectory DisplayClass = "directory"
	ClassMovie     DisplayClass = "movie"
	ClassTVShow    DisplayClass = "tv_show"
	ClassSeason    DisplayClass = "season"
	ClassEpisode   DisplayClass = "episode"
	ClassAlbum     DisplayClass = "album"
	ClassArtist    DisplayClass = "artist"
	ClassTrack     DisplayClass = "track"
	ClassPlaylist  DisplayClass = "playlist"
)

// ErrUnknownMediaType is returned for native types outside the closed tables.
var ErrUnknownMediaType = errors.New("unknown media type")

// UnknownMediaTypeError carries the offending tag.
type UnknownMediaTypeError struct {
	Type NativeType
}

func (e *UnknownMediaTypeError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownMediaType, string(e.Type))
}

func (e *UnknownMediaTypeError) Unwrap() error {
	return ErrUnknownMediaType
}

func unknown(t NativeType) error {
	return &UnknownMediaTypeError{Type: t}
}

// DisplayTypeOf maps a native type to its display type.
func DisplayTypeOf(t NativeType) (DisplayType, error) {
	switch t {
	case NativeMovie:
		return TypeMovie, nil
	case NativeSeries:
		return TypeTVShow, nil
	case NativeSeason:
		return TypeSeason, nil
	case NativeEpisode:
		return TypeEpisode, nil
	case NativeMusic, NativeMusicAlbum:
		return TypeAlbum, nil
	case NativeAudio:
		return TypeTrack, nil
	case NativeBoxSet, NativeFolder, NativeCollectionFolder, NativePlaylist:
		return TypeDirectory, nil
	case NativeMusicArtist:
		return TypeArtist, nil
	default:
		return "", unknown(t)
	}
}

// DisplayClassOf maps a native type to its display class.
func DisplayClassOf(t NativeType) (DisplayClass, error) {
	switch t {
	case NativeMovie:
		return ClassMovie, nil
	case NativeSeries:
		return ClassTVShow, nil
	case NativeSeason:
		return ClassSeason, nil
	case NativeEpisode:
		return ClassEpisode, nil
	case NativeMusic, NativeBoxSet, NativeFolder, NativeCollectionFolder, NativePlaylist:
		return ClassDirectory, nil
	case NativeMusicArtist:
		return ClassArtist, nil
	case NativeMusicAlbum:
		return ClassAlbum, nil
	case NativeAudio:
		return ClassTrack, nil
	default:
		return "", unknown(t)
	}
}

// IsPlayable reports whether an item of type t can be handed to a player.
// Ambiguous containers (series, albums, playlists, ...) are playable only when
// allowContainerPlayback is set, which lets callers queue a whole container.
func IsPlayable(t NativeType, allowContainerPlayback bool) (bool, error) {
	switch t {
	case NativeMovie, NativeEpisode, NativeAudio:
		return true, nil
	case NativeFolder, NativeCollectionFolder, NativeMusic:
		return false, nil
	case NativeSeries, NativeSeason, NativeBoxSet, NativePlaylist, NativeMusicArtist, NativeMusicAlbum:
		return allowContainerPlayback, nil
	default:
		return false, unknown(t)
	}
}

// IsContainerKind reports whether an identifier kind is browsed as a container
// (its children are listed by parent id) rather than as a single leaf.
func IsContainerKind(kind string) bool {
	switch DisplayType(kind) {
	case TypeDirectory, TypeArtist, TypeAlbum, TypePlaylist, TypeTVShow, TypeSeason:
		return true
	default:
		return false
	}
}

// ClassOfKind returns the display class for an identifier kind without a
// catalog lookup. Unknown kinds render as directories.
func ClassOfKind(kind string) DisplayClass {
	switch DisplayType(kind) {
	case TypeMovie:
		return ClassMovie
	case TypeTVShow:
		return ClassTVShow
	case TypeSeason:
		return ClassSeason
	case TypeEpisode:
		return ClassEpisode
	case TypeAlbum:
		return ClassAlbum
	case TypeArtist:
		return ClassArtist
	case TypeTrack:
		return ClassTrack
	case TypePlaylist:
		return ClassPlaylist
	default:
		return ClassDirectory
	}
}

// Classification bundles all three lookups for one native type.
type Classification struct {
	Type     DisplayType
	Class    DisplayClass
	Playable bool
}

// Classify runs all three tables for t.
func Classify(t NativeType, allowContainerPlayback bool) (Classification, error) {
	dt, err := DisplayTypeOf(t)
	if err != nil {
		return Classification{}, err
	}
	dc, err := DisplayClassOf(t)
	if err != nil {
		return Classification{}, err
	}
	playable, err := IsPlayable(t, allowContainerPlayback)
	if err != nil {
		return Classification{}, err
	}
	return Classification{Type: dt, Class: dc, Playable: playable}, nil
}
