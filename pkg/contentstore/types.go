package contentstore

import "time"

// Kind is the domain type for content record kinds.
type Kind string

// Content kind constants (typed).
const (
	KindArtwork    Kind = "artwork"
	KindExhibition Kind = "exhibition"
	KindPage       Kind = "page"
)

// Record is the base shape shared by all content kinds. Slug and Locale
// together with the kind form the identity key; Meta preserves the raw
// front-matter mapping, including fields the store does not validate.
type Record struct {
	Slug   string         `json:"slug"`
	Locale string         `json:"locale"`
	Kind   Kind           `json:"kind"`
	Body   string         `json:"body"`
	Meta   map[string]any `json:"meta,omitempty"`

	// Path is the source file the record was loaded from, kept for
	// diagnostics only.
	Path string `json:"-"`
}

// ImageRef is a single image reference on an artwork. Declaration order
// in the source file is display order.
type ImageRef struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// PressRef is a single press link on an exhibition.
type PressRef struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Artwork is a content record describing a single work.
type Artwork struct {
	Record

	Title      string     `json:"title"`
	Year       int        `json:"year"`
	Medium     string     `json:"medium"`
	Dimensions string     `json:"dimensions,omitempty"`
	Colors     []string   `json:"colors,omitempty"`
	Collection string     `json:"collection,omitempty"`
	Price      *float64   `json:"price,omitempty"`
	Images     []ImageRef `json:"images,omitempty"`
	Featured   bool       `json:"featured"`
}

// HasColor reports whether the artwork declares the given color.
func (a *Artwork) HasColor(color string) bool {
	for _, c := range a.Colors {
		if c == color {
			return true
		}
	}
	return false
}

// Exhibition is a content record describing a show. Dates carry date
// granularity only and are stored at UTC midnight.
type Exhibition struct {
	Record

	Name      string     `json:"name"`
	Location  string     `json:"location"`
	StartDate time.Time  `json:"start_date"`
	EndDate   time.Time  `json:"end_date"`
	Press     []PressRef `json:"press,omitempty"`
}

// Upcoming reports whether the exhibition is still running on the given
// date. The reference time is always passed in by the caller so queries
// stay deterministic and testable.
func (e *Exhibition) Upcoming(now time.Time) bool {
	return !e.EndDate.Before(now.UTC().Truncate(24 * time.Hour))
}

// Page is a free-form content record (about, contact, etc.).
type Page struct {
	Record

	Title string `json:"title"`
}

// Stats describes a loaded store. LoadID changes on every successful
// load, which lets callers tell reloads apart in logs and status checks.
type Stats struct {
	LoadID      string    `json:"load_id"`
	LoadedAt    time.Time `json:"loaded_at"`
	Artworks    int       `json:"artworks"`
	Exhibitions int       `json:"exhibitions"`
	Pages       int       `json:"pages"`
	Locales     []string  `json:"locales"`
}
