// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package browse assembles browse tree nodes from catalog queries.
package browse

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/mediabrowse/internal/catalog"
	"github.com/ManuGH/mediabrowse/internal/classify"
	xglog "github.com/ManuGH/mediabrowse/internal/log"
	"github.com/ManuGH/mediabrowse/internal/mediaid"
	"github.com/ManuGH/mediabrowse/internal/telemetry"
)

// Builder turns identifiers into browse nodes.
type Builder struct {
	client catalog.Client
	logger zerolog.Logger
}

// NewBuilder returns a builder reading from client.
func NewBuilder(client catalog.Client) *Builder {
	return &Builder{
		client: client,
		logger: xglog.WithComponent("browse"),
	}
}

// Browse builds the node for id. allowContainerPlayback marks ambiguous
// containers (albums, seasons, ...) as playable.
func (b *Builder) Browse(ctx context.Context, id mediaid.ID, allowContainerPlayback bool) (node *Node, err error) {
	ctx, span := telemetry.StartSpan(ctx, "browse.build")
	span.SetAttributes(telemetry.BrowseAttributes(id.Kind, id.ID, allowContainerPlayback)...)
	defer func() { telemetry.EndSpan(span, err) }()

	switch {
	case id.IsRoot():
		node, err = b.root(ctx, allowContainerPlayback)
	case classify.IsContainerKind(id.Kind):
		node, err = b.container(ctx, id, allowContainerPlayback)
	default:
		node, err = b.leaf(ctx, id, allowContainerPlayback)
	}
	if err != nil {
		return nil, err
	}

	b.logger.Debug().
		Str(xglog.FieldRequestID, xglog.RequestIDFromContext(ctx)).
		Str(xglog.FieldIdentifier, id.String()).
		Int(xglog.FieldChildren, len(node.Children)).
		Msg("browse node built")
	return node, nil
}

func (b *Builder) root(ctx context.Context, allowContainerPlayback bool) (*Node, error) {
	items, err := b.client.GetItems(ctx, catalog.Query{})
	if err != nil {
		return nil, fmt.Errorf("list libraries: %w", err)
	}
	children, err := b.children(items, allowContainerPlayback)
	if err != nil {
		return nil, err
	}
	return rootNode(children), nil
}

func (b *Builder) container(ctx context.Context, id mediaid.ID, allowContainerPlayback bool) (*Node, error) {
	var (
		item  catalog.Item
		items []catalog.Item
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if item, err = b.client.GetItem(gctx, id.ID); err != nil {
			return fmt.Errorf("get item %s: %w", id.ID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = b.client.GetItems(gctx, catalog.ChildrenOf(id.ID)); err != nil {
			return fmt.Errorf("list children of %s: %w", id.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cls, err := classify.Classify(item.Type, allowContainerPlayback)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", item.ID, err)
	}
	children, err := b.children(items, allowContainerPlayback)
	if err != nil {
		return nil, err
	}

	// The node answers for the requested identifier; the item only supplies
	// title, artwork and playability.
	return &Node{
		Identifier:   id,
		DisplayClass: classify.ClassOfKind(id.Kind),
		DisplayType:  classify.DisplayType(id.Kind),
		Title:        item.Name,
		Playable:     cls.Playable,
		Expandable:   true,
		ThumbnailURL: b.client.ArtworkURL(item.ID),
		Children:     children,
	}, nil
}

// leaf builds a single playable node. The catalog lookup only enriches the
// title and display class; identifier and display type stay as requested, and
// a missing item leaves the identifier-only shell.
func (b *Builder) leaf(ctx context.Context, id mediaid.ID, allowContainerPlayback bool) (*Node, error) {
	items, err := b.client.GetItems(ctx, catalog.ByID(id.ID))
	if err != nil {
		return nil, fmt.Errorf("get leaf %s: %w", id.ID, err)
	}

	node := &Node{
		Identifier:   id,
		DisplayClass: classify.ClassOfKind(id.Kind),
		DisplayType:  classify.DisplayType(id.Kind),
		Playable:     true,
		Expandable:   false,
		ThumbnailURL: b.client.ArtworkURL(id.ID),
		Children:     []Node{},
	}
	for _, item := range items {
		if item.ID != id.ID {
			continue
		}
		cls, err := classify.Classify(item.Type, allowContainerPlayback)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", item.ID, err)
		}
		node.DisplayClass = cls.Class
		node.Title = item.Name
		break
	}
	return node, nil
}

// children classifies items in catalog order. One unknown type fails the set.
func (b *Builder) children(items []catalog.Item, allowContainerPlayback bool) ([]Node, error) {
	out := make([]Node, 0, len(items))
	for _, item := range items {
		cls, err := classify.Classify(item.Type, allowContainerPlayback)
		if err != nil {
			return nil, fmt.Errorf("child %s: %w", item.ID, err)
		}
		out = append(out, Node{
			Identifier:   mediaid.New(string(cls.Type), item.ID),
			DisplayClass: cls.Class,
			DisplayType:  cls.Type,
			Title:        item.Name,
			Playable:     cls.Playable,
			Expandable:   item.IsFolder,
			ThumbnailURL: b.client.ArtworkURL(item.ID),
			Children:     []Node{},
		})
	}
	return out, nil
}
