// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package catalogtest provides an in-memory catalog.Client for tests.
package catalogtest

import (
	"context"
	"fmt"
	"sync"

	"github.com/ManuGH/mediabrowse/internal/catalog"
)

// Fake is a scriptable catalog.Client. Zero value is usable; fields may be
// set directly before the fake is shared with the code under test.
type Fake struct {
	mu sync.Mutex

	BaseURL string
	Token   string

	Items     map[string]catalog.Item
	Children  map[string][]catalog.Item
	Libraries []catalog.Item
	Playback  map[string]*catalog.PlaybackInfo

	ItemErr     error
	ItemsErr    error
	PlaybackErr error

	queries   []catalog.Query
	itemCalls []string
	profiles  []catalog.PlaybackProfile
}

var _ catalog.Client = (*Fake)(nil)

// New returns a fake with base URL "http://h" and token "tok".
func New() *Fake {
	return &Fake{
		BaseURL:  "http://h",
		Token:    "tok",
		Items:    map[string]catalog.Item{},
		Children: map[string][]catalog.Item{},
		Playback: map[string]*catalog.PlaybackInfo{},
	}
}

// AddItem registers item for GetItem and ByID queries.
func (f *Fake) AddItem(item catalog.Item) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Items == nil {
		f.Items = map[string]catalog.Item{}
	}
	f.Items[item.ID] = item
	return f
}

// SetChildren registers the ordered children of parentID.
func (f *Fake) SetChildren(parentID string, items ...catalog.Item) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Children == nil {
		f.Children = map[string][]catalog.Item{}
	}
	f.Children[parentID] = items
	return f
}

func (f *Fake) GetItem(_ context.Context, id string) (catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.itemCalls = append(f.itemCalls, id)
	if f.ItemErr != nil {
		return catalog.Item{}, f.ItemErr
	}
	item, ok := f.Items[id]
	if !ok {
		return catalog.Item{}, fmt.Errorf("%w: %s", catalog.ErrItemNotFound, id)
	}
	return item, nil
}

func (f *Fake) GetItems(_ context.Context, q catalog.Query) ([]catalog.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.ItemsErr != nil {
		return nil, f.ItemsErr
	}
	switch {
	case q.ID != "":
		if item, ok := f.Items[q.ID]; ok {
			return []catalog.Item{item}, nil
		}
		return nil, nil
	case q.ParentID != "":
		return append([]catalog.Item(nil), f.Children[q.ParentID]...), nil
	default:
		return append([]catalog.Item(nil), f.Libraries...), nil
	}
}

func (f *Fake) GetPlaybackInfo(_ context.Context, id string, profile catalog.PlaybackProfile) (*catalog.PlaybackInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, profile)
	if f.PlaybackErr != nil {
		return nil, f.PlaybackErr
	}
	return f.Playback[id], nil
}

func (f *Fake) ArtworkURL(id string) string {
	return f.BaseURL + "/Items/" + id + "/Images/Primary"
}

func (f *Fake) ServerURL() string { return f.BaseURL }

func (f *Fake) AuthToken() string { return f.Token }

// Queries returns the GetItems queries seen so far.
func (f *Fake) Queries() []catalog.Query {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.Query(nil), f.queries...)
}

// ItemCalls returns the ids passed to GetItem so far.
func (f *Fake) ItemCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.itemCalls...)
}

// Profiles returns the playback profiles forwarded so far.
func (f *Fake) Profiles() []catalog.PlaybackProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]catalog.PlaybackProfile(nil), f.profiles...)
}
