// Package domain contains the core domain types and validation logic.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"strings"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// ErrNameRequired is returned when a draft has no name after trimming.
	ErrNameRequired = errors.New("name is required")

	// ErrSlugRequired is returned when neither the slug nor the name
	// normalizes to a non-empty slug.
	ErrSlugRequired = errors.New("slug is required")
)

// =============================================================================
// Display Fallbacks
// =============================================================================

const (
	// PublicPathPrefix is where each restaurant's public page lives.
	PublicPathPrefix = "/r/"

	// UnnamedLabel is shown for records without a name.
	UnnamedLabel = "Sem nome"

	// NoSlugLabel is shown in the slug badge for records without a slug.
	NoSlugLabel = "sem-slug"

	// PlaceholderSlug fills the public path when a record has no slug.
	PlaceholderSlug = "seu-slug"
)

// =============================================================================
// Restaurant
// =============================================================================

// Restaurant is a restaurant record as known to the remote API.
// ID is assigned by the server and is empty for records that only exist
// locally (see Draft.Record).
type Restaurant struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// DisplayName returns the name to render, falling back to UnnamedLabel.
func (r Restaurant) DisplayName() string {
	if strings.TrimSpace(r.Name) == "" {
		return UnnamedLabel
	}
	return r.Name
}

// SlugLabel returns the slug to render, falling back to NoSlugLabel.
func (r Restaurant) SlugLabel() string {
	if r.Slug == "" {
		return NoSlugLabel
	}
	return r.Slug
}

// PublicPath returns the public page path for the restaurant, e.g. "/r/maria-acai".
func (r Restaurant) PublicPath() string {
	if r.Slug == "" {
		return PublicPathPrefix + PlaceholderSlug
	}
	return PublicPathPrefix + r.Slug
}

// Key returns a stable identifier for rendering: the ID when known,
// otherwise the slug.
func (r Restaurant) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Slug
}

// =============================================================================
// Draft
// =============================================================================

// Draft is a client-constructed restaurant that has not been persisted yet.
// Drafts are only built through NewDraft, so Name is trimmed and non-empty
// and Slug is normalized and non-empty.
type Draft struct {
	Name string
	Slug string
}

// NewDraft validates form input and builds a Draft.
// A blank slug defaults to the normalized name; a typed slug is normalized.
func NewDraft(name, slug string) (Draft, error) {
	name = strings.TrimSpace(name)

	source := slug
	if strings.TrimSpace(source) == "" {
		source = name
	}
	d := Draft{Name: name, Slug: Slugify(source)}

	if d.Name == "" {
		return Draft{}, ErrNameRequired
	}
	if d.Slug == "" {
		return Draft{}, ErrSlugRequired
	}
	return d, nil
}

// Record returns the draft as a Restaurant without a server ID.
func (d Draft) Record() Restaurant {
	return Restaurant{Name: d.Name, Slug: d.Slug}
}
