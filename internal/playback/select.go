// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

import "github.com/ManuGH/mediabrowse/internal/catalog"

// directStreamBonus outweighs any realistic bitrate difference.
const directStreamBonus = 50000

// Selection is the winning candidate of Select.
type Selection struct {
	Index  int
	Source catalog.MediaSource
	Weight float64
}

// Weight scores one candidate: direct-stream capability first, then bitrate
// in kbit/s. A missing bitrate counts as zero.
func Weight(src catalog.MediaSource) float64 {
	w := 0.0
	if src.SupportsDirectStream {
		w = directStreamBonus
	}
	if src.Bitrate != nil {
		w += float64(*src.Bitrate) / 1000
	}
	return w
}

// Select picks the heaviest candidate. Ties keep the earliest one and a
// candidate must weigh more than zero to be chosen.
func Select(sources []catalog.MediaSource) (Selection, error) {
	best := Selection{Index: -1}
	for i, src := range sources {
		if w := Weight(src); w > best.Weight {
			best = Selection{Index: i, Source: src, Weight: w}
		}
	}
	if best.Index < 0 {
		return Selection{}, ErrNoSuitableSource
	}
	return best, nil
}
