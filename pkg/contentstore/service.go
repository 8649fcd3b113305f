package contentstore

import (
	"context"
	"time"
)

// Service defines the read-only query interface over loaded content.
type Service interface {
	// Load reads every source file, validates it, and builds the index.
	// It must be called exactly once, before any query. On failure the
	// store stays unloaded; there is no partial index.
	Load(ctx context.Context) error

	// Artwork operations
	GetArtwork(slug, locale string) (*Artwork, error)
	ListArtworks(locale string, opts ...ListArtworksOption) ([]*Artwork, error)

	// Exhibition operations. The reference time for "upcoming" is passed
	// explicitly; the store never reads the wall clock.
	ListExhibitions(locale string, now time.Time, opts ...ListExhibitionsOption) ([]*Exhibition, error)

	// Page operations
	GetPage(slug, locale string) (*Page, error)
	ListPages(locale string) ([]*Page, error)

	// Locales returns every locale seen across loaded records, sorted.
	Locales() []string

	// Stats describes the loaded index.
	Stats() (Stats, error)
}

// ArtworkFilter holds the recognized artwork list filters. All set
// fields must match (exact match, except Color which is a membership
// test against the colors set).
type ArtworkFilter struct {
	Medium       *string
	Year         *int
	Color        *string
	Collection   *string
	FeaturedOnly bool
}

// ListArtworksOption represents a functional option for listing artworks.
type ListArtworksOption func(*ArtworkFilter)

// WithMedium filters by exact medium match.
func WithMedium(medium string) ListArtworksOption {
	return func(f *ArtworkFilter) {
		f.Medium = &medium
	}
}

// WithYear filters by exact year match.
func WithYear(year int) ListArtworksOption {
	return func(f *ArtworkFilter) {
		f.Year = &year
	}
}

// WithColor filters by membership in the artwork's colors set.
func WithColor(color string) ListArtworksOption {
	return func(f *ArtworkFilter) {
		f.Color = &color
	}
}

// WithCollection filters by exact collection match.
func WithCollection(collection string) ListArtworksOption {
	return func(f *ArtworkFilter) {
		f.Collection = &collection
	}
}

// WithFeaturedOnly restricts results to featured artworks.
func WithFeaturedOnly() ListArtworksOption {
	return func(f *ArtworkFilter) {
		f.FeaturedOnly = true
	}
}

func (f *ArtworkFilter) matches(a *Artwork) bool {
	if f.Medium != nil && a.Medium != *f.Medium {
		return false
	}
	if f.Year != nil && a.Year != *f.Year {
		return false
	}
	if f.Color != nil && !a.HasColor(*f.Color) {
		return false
	}
	if f.Collection != nil && a.Collection != *f.Collection {
		return false
	}
	if f.FeaturedOnly && !a.Featured {
		return false
	}
	return true
}

// ExhibitionFilter holds the recognized exhibition list filters.
type ExhibitionFilter struct {
	UpcomingOnly bool
}

// ListExhibitionsOption represents a functional option for listing exhibitions.
type ListExhibitionsOption func(*ExhibitionFilter)

// WithUpcomingOnly restricts results to exhibitions whose end date is on
// or after the reference time passed to ListExhibitions.
func WithUpcomingOnly() ListExhibitionsOption {
	return func(f *ExhibitionFilter) {
		f.UpcomingOnly = true
	}
}
