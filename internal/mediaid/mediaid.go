// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package mediaid encodes and decodes the composite identifiers that address
// browse nodes and playable items across calls ("kind~~id").
package mediaid

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator joins kind and catalog id. Catalog ids never contain it.
	Separator = "~~"

	// URIPrefix is the media-source scheme/domain prefix hosts may prepend.
	URIPrefix = "media-source://jellyfin/"

	// KindLibrary addresses the synthetic catalog root.
	KindLibrary = "library"
)

// ErrMalformedIdentifier is returned when an identifier carries no separator.
var ErrMalformedIdentifier = errors.New("malformed media identifier")

// ID is a decoded composite identifier.
type ID struct {
	Kind string
	ID   string
}

// Root is the identifier of the catalog root node.
var Root = ID{Kind: KindLibrary, ID: KindLibrary}

// New returns an ID for kind and catalog id.
func New(kind, id string) ID {
	return ID{Kind: kind, ID: id}
}

// IsRoot reports whether the identifier addresses the catalog root.
func (i ID) IsRoot() bool {
	return i.Kind == "" || i.Kind == KindLibrary
}

// String returns the encoded form.
func (i ID) String() string {
	return Encode(i.Kind, i.ID)
}

// URI returns the encoded form with the media-source prefix.
func (i ID) URI() string {
	return URIPrefix + i.String()
}

// MarshalText implements encoding.TextMarshaler so IDs travel as opaque strings.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(b []byte) error {
	parsed, err := Decode(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Encode joins kind and id with the separator.
func Encode(kind, id string) string {
	return kind + Separator + id
}

// Decode strips an optional media-source prefix and splits on the first separator.
// Everything after the first separator is the id, even if it contains further separators.
func Decode(identifier string) (ID, error) {
	text := strings.TrimPrefix(identifier, URIPrefix)
	kind, id, ok := strings.Cut(text, Separator)
	if !ok {
		return ID{}, fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}
	return ID{Kind: kind, ID: id}, nil
}

// Parse decodes identifier, mapping an absent identifier to the catalog root.
func Parse(identifier string) (ID, error) {
	if identifier == "" {
		return Root, nil
	}
	return Decode(identifier)
}
