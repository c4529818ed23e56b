// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

import "github.com/ManuGH/mediabrowse/internal/catalog"

// ProfileName identifies this client to the catalog's negotiation logic.
const ProfileName = "mediabrowse"

// DefaultProfile returns the device profile sent with every negotiation.
// Callers get a fresh copy.
func DefaultProfile() catalog.PlaybackProfile {
	videoAudio := "aac,mp3,opus,flac,vorbis"
	videoCodecs := "h264,mpeg4,mpeg2video"

	return catalog.PlaybackProfile{
		Name:                             ProfileName,
		MaxStreamingBitrate:              25000 * 1000,
		MusicStreamingTranscodingBitrate: 1920000,
		TimelineOffsetSeconds:            5,
		TranscodingProfiles: []catalog.TranscodingProfile{
			{Type: "Audio", Container: "mp3", Protocol: "http", AudioCodec: "mp3", MaxAudioChannels: "2"},
			{Type: "Video", Container: "mp4", Protocol: "http", AudioCodec: videoAudio, VideoCodec: videoCodecs, MaxAudioChannels: "6"},
			{Type: "Photo", Container: "jpeg"},
		},
		DirectPlayProfiles: []catalog.DirectPlayProfile{
			{Type: "Audio", Container: "mp3", AudioCodec: "mp3"},
			{Type: "Audio", Container: "m4a,m4b", AudioCodec: "aac"},
			{Type: "Video", Container: "mp4,m4v", AudioCodec: videoAudio, VideoCodec: videoCodecs, MaxAudioChannels: "6"},
		},
		ResponseProfiles:  []struct{}{},
		ContainerProfiles: []struct{}{},
		CodecProfiles:     []struct{}{},
		SubtitleProfiles: []catalog.SubtitleProfile{
			{Format: "srt", Method: "External"},
			{Format: "srt", Method: "Embed"},
			{Format: "ass", Method: "External"},
			{Format: "ass", Method: "Embed"},
			{Format: "sub", Method: "Embed"},
			{Format: "sub", Method: "External"},
			{Format: "ssa", Method: "Embed"},
			{Format: "ssa", Method: "External"},
			{Format: "smi", Method: "Embed"},
			{Format: "smi", Method: "External"},
			// The server refuses these image-based formats as external files.
			{Format: "pgssub", Method: "Embed"},
			{Format: "dvdsub", Method: "Embed"},
			{Format: "pgs", Method: "Embed"},
		},
	}
}
