// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package browse

import (
	"github.com/ManuGH/mediabrowse/internal/classify"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
)

// RootTitle is the title of the synthetic root node.
const RootTitle = "Media Library"

// Node is one entry of a browse tree. Nodes are built fresh per request and
// owned by the caller.
type Node struct {
	Identifier   mediaid.ID            `json:"identifier"`
	DisplayClass classify.DisplayClass `json:"display_class"`
	DisplayType  classify.DisplayType  `json:"display_type"`
	Title        string                `json:"title"`
	Playable     bool                  `json:"playable"`
	Expandable   bool                  `json:"expandable"`
	ThumbnailURL string                `json:"thumbnail_url,omitempty"`
	Children     []Node                `json:"children"`
}

func rootNode(children []Node) *Node {
	return &Node{
		Identifier:   mediaid.Root,
		DisplayClass: classify.ClassDirectory,
		DisplayType:  classify.TypeLibrary,
		Title:        RootTitle,
		Playable:     false,
		Expandable:   true,
		Children:     children,
	}
}
