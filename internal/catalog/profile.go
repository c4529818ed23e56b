// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

// PlaybackProfile declares the client's streaming capabilities. It is an
// opaque contract with the catalog's negotiation logic and is forwarded as-is.
type PlaybackProfile struct {
	Name                             string               `json:"Name"`
	MaxStreamingBitrate              int64                `json:"MaxStreamingBitrate"`
	MusicStreamingTranscodingBitrate int64                `json:"MusicStreamingTranscodingBitrate"`
	TimelineOffsetSeconds            int                  `json:"TimelineOffsetSeconds"`
	TranscodingProfiles              []TranscodingProfile `json:"TranscodingProfiles"`
	DirectPlayProfiles               []DirectPlayProfile  `json:"DirectPlayProfiles"`
	ResponseProfiles                 []struct{}           `json:"ResponseProfiles"`
	ContainerProfiles                []struct{}           `json:"ContainerProfiles"`
	CodecProfiles                    []struct{}           `json:"CodecProfiles"`
	SubtitleProfiles                 []SubtitleProfile    `json:"SubtitleProfiles"`
}

// TranscodingProfile describes one acceptable transcode target.
type TranscodingProfile struct {
	Type             string `json:"Type"`
	Container        string `json:"Container"`
	Protocol         string `json:"Protocol,omitempty"`
	AudioCodec       string `json:"AudioCodec,omitempty"`
	VideoCodec       string `json:"VideoCodec,omitempty"`
	MaxAudioChannels string `json:"MaxAudioChannels,omitempty"`
}

// DirectPlayProfile describes one container/codec set the client plays natively.
type DirectPlayProfile struct {
	Type             string `json:"Type"`
	Container        string `json:"Container"`
	AudioCodec       string `json:"AudioCodec,omitempty"`
	VideoCodec       string `json:"VideoCodec,omitempty"`
	MaxAudioChannels string `json:"MaxAudioChannels,omitempty"`
}

// SubtitleProfile describes how a subtitle format may be delivered.
type SubtitleProfile struct {
	Format string `json:"Format"`
	Method string `json:"Method"`
}
