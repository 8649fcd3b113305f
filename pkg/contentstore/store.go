package contentstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kadar77/sarangoo-content/pkg/contentstore/frontmatter"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/source"
)

// Default directory names per kind under the content root.
const (
	DefaultArtworksDir    = "artworks"
	DefaultExhibitionsDir = "exhibitions"
	DefaultPagesDir       = "pages"
)

type recordKey struct {
	kind   Kind
	locale string
	slug   string
}

// store implements the Service interface.
type store struct {
	src         source.Source
	dirs        map[Kind]string
	parallelism int

	loaded   bool
	loadID   uuid.UUID
	loadedAt time.Time

	artworks            map[recordKey]*Artwork
	pages               map[recordKey]*Page
	artworksByLocale    map[string][]*Artwork
	exhibitionsByLocale map[string][]*Exhibition
	pagesByLocale       map[string][]*Page
	locales             []string
}

// Option represents a functional option for configuring the store.
type Option func(*store)

// WithSource sets the content source for the store.
func WithSource(src source.Source) Option {
	return func(s *store) {
		s.src = src
	}
}

// WithKindDir overrides the directory name a kind is loaded from.
func WithKindDir(kind Kind, dir string) Option {
	return func(s *store) {
		s.dirs[kind] = dir
	}
}

// WithParallelism bounds how many source files are parsed concurrently
// during Load.
func WithParallelism(n int) Option {
	return func(s *store) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// New creates an unloaded store with the given options. A source is
// required; call Load before querying.
func New(opts ...Option) (Service, error) {
	s := &store{
		dirs: map[Kind]string{
			KindArtwork:    DefaultArtworksDir,
			KindExhibition: DefaultExhibitionsDir,
			KindPage:       DefaultPagesDir,
		},
		parallelism: 8,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.src == nil {
		return nil, fmt.Errorf("source is required")
	}

	return s, nil
}

type fileRef struct {
	kind Kind
	key  string
}

// Load parses every content file and builds the index. Files are parsed
// concurrently; results are merged single-threaded after every file has
// been read, so a failure anywhere leaves the store unloaded rather than
// partially populated.
func (s *store) Load(ctx context.Context) error {
	if s.loaded {
		return errors.New("store already loaded")
	}

	var files []fileRef
	for _, kind := range []Kind{KindArtwork, KindExhibition, KindPage} {
		keys, err := s.src.List(ctx, s.dirs[kind])
		if err != nil {
			return fmt.Errorf("list %s: %w", s.dirs[kind], err)
		}
		for _, key := range keys {
			files = append(files, fileRef{kind: kind, key: key})
		}
	}

	results := make([]any, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, f := range files {
		g.Go(func() error {
			data, err := s.src.Read(gctx, f.key)
			if err != nil {
				return &LoadError{Path: f.key, Err: err}
			}
			rec, err := parseRecord(f.kind, f.key, data)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Merge in listing order. Listing is sorted, so duplicate detection
	// does not depend on parse scheduling.
	artworks := make(map[recordKey]*Artwork)
	pages := make(map[recordKey]*Page)
	artworksByLocale := make(map[string][]*Artwork)
	exhibitionsByLocale := make(map[string][]*Exhibition)
	pagesByLocale := make(map[string][]*Page)
	seen := make(map[recordKey]string)
	localeSet := make(map[string]struct{})

	for _, res := range results {
		switch rec := res.(type) {
		case *Artwork:
			k := recordKey{KindArtwork, rec.Locale, rec.Slug}
			if prev, ok := seen[k]; ok {
				return duplicateErr(rec.Path, k, prev)
			}
			seen[k] = rec.Path
			artworks[k] = rec
			artworksByLocale[rec.Locale] = append(artworksByLocale[rec.Locale], rec)
			localeSet[rec.Locale] = struct{}{}
		case *Exhibition:
			k := recordKey{KindExhibition, rec.Locale, rec.Slug}
			if prev, ok := seen[k]; ok {
				return duplicateErr(rec.Path, k, prev)
			}
			seen[k] = rec.Path
			exhibitionsByLocale[rec.Locale] = append(exhibitionsByLocale[rec.Locale], rec)
			localeSet[rec.Locale] = struct{}{}
		case *Page:
			k := recordKey{KindPage, rec.Locale, rec.Slug}
			if prev, ok := seen[k]; ok {
				return duplicateErr(rec.Path, k, prev)
			}
			seen[k] = rec.Path
			pages[k] = rec
			pagesByLocale[rec.Locale] = append(pagesByLocale[rec.Locale], rec)
			localeSet[rec.Locale] = struct{}{}
		}
	}

	// Stable query order: artworks by year descending then slug,
	// exhibitions by start date descending then slug, pages by slug.
	for _, list := range artworksByLocale {
		sort.SliceStable(list, func(i, j int) bool {
			if list[i].Year != list[j].Year {
				return list[i].Year > list[j].Year
			}
			return list[i].Slug < list[j].Slug
		})
	}
	for _, list := range exhibitionsByLocale {
		sort.SliceStable(list, func(i, j int) bool {
			if !list[i].StartDate.Equal(list[j].StartDate) {
				return list[i].StartDate.After(list[j].StartDate)
			}
			return list[i].Slug < list[j].Slug
		})
	}
	for _, list := range pagesByLocale {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Slug < list[j].Slug
		})
	}

	locales := make([]string, 0, len(localeSet))
	for locale := range localeSet {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	s.artworks = artworks
	s.pages = pages
	s.artworksByLocale = artworksByLocale
	s.exhibitionsByLocale = exhibitionsByLocale
	s.pagesByLocale = pagesByLocale
	s.locales = locales
	s.loadID = uuid.New()
	s.loadedAt = time.Now().UTC()
	s.loaded = true

	return nil
}

func duplicateErr(path string, k recordKey, prev string) error {
	return &LoadError{
		Path:  path,
		Field: "slug",
		Err:   fmt.Errorf("%w: %s %q (locale %s) already declared in %s", ErrDuplicateSlug, k.kind, k.slug, k.locale, prev),
	}
}

func parseRecord(kind Kind, path string, data []byte) (any, error) {
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)}
	}

	base, err := decodeBase(kind, path, meta, body)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindArtwork:
		return decodeArtwork(path, base, meta)
	case KindExhibition:
		return decodeExhibition(path, base, meta)
	case KindPage:
		return decodePage(path, base, meta)
	default:
		return nil, fmt.Errorf("unknown content kind %q", kind)
	}
}

// Artwork operations

func (s *store) GetArtwork(slug, locale string) (*Artwork, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	a, ok := s.artworks[recordKey{KindArtwork, locale, slug}]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *store) ListArtworks(locale string, opts ...ListArtworksOption) ([]*Artwork, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	var filter ArtworkFilter
	for _, opt := range opts {
		opt(&filter)
	}

	var out []*Artwork
	for _, a := range s.artworksByLocale[locale] {
		if filter.matches(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Exhibition operations

func (s *store) ListExhibitions(locale string, now time.Time, opts ...ListExhibitionsOption) ([]*Exhibition, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}

	var filter ExhibitionFilter
	for _, opt := range opts {
		opt(&filter)
	}

	var out []*Exhibition
	for _, e := range s.exhibitionsByLocale[locale] {
		if filter.UpcomingOnly && !e.Upcoming(now) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Page operations

func (s *store) GetPage(slug, locale string) (*Page, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	p, ok := s.pages[recordKey{KindPage, locale, slug}]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *store) ListPages(locale string) ([]*Page, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	out := make([]*Page, len(s.pagesByLocale[locale]))
	copy(out, s.pagesByLocale[locale])
	return out, nil
}

func (s *store) Locales() []string {
	out := make([]string, len(s.locales))
	copy(out, s.locales)
	return out
}

func (s *store) Stats() (Stats, error) {
	if !s.loaded {
		return Stats{}, ErrNotLoaded
	}
	return Stats{
		LoadID:      s.loadID.String(),
		LoadedAt:    s.loadedAt,
		Artworks:    len(s.artworks),
		Exhibitions: countExhibitions(s.exhibitionsByLocale),
		Pages:       len(s.pages),
		Locales:     s.Locales(),
	}, nil
}

func countExhibitions(byLocale map[string][]*Exhibition) int {
	n := 0
	for _, list := range byLocale {
		n += len(list)
	}
	return n
}
