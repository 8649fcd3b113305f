package contentstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/source/memory"
)

const pinkComposition = `---
slug: pink-composition-01
lang: en
title: Pink Composition No. 1
year: 2024
medium: Oil on canvas
dimensions: 100 x 80 cm
colors:
  - pink
  - white
  - pink
collection: compositions
price: 2400
featured: true
series: compositions-iv
images:
  - src: /images/pink-composition-01-a.jpg
    alt: Front view
  - /images/pink-composition-01-b.jpg
---
A large composition in layered pink.
`

const blueStudy = `---
slug: blue-study-02
lang: en
title: Blue Study No. 2
year: 2023
medium: Watercolor
colors:
  - blue
---
`

const springShow = `---
slug: spring-show-2025
lang: en
name: Spring Show
location: Stockholm
startDate: 2025-03-01
endDate: 2025-03-30
press:
  - label: Review
    url: https://example.com/review
---
Group show.
`

const aboutPage = `---
slug: about
lang: en
title: About
---
Painter based in Stockholm.
`

func newStore(t *testing.T, files map[string]string) contentstore.Service {
	t.Helper()

	src := memory.New()
	for key, body := range files {
		src.Put(key, []byte(body))
	}

	svc, err := contentstore.New(contentstore.WithSource(src))
	require.NoError(t, err)
	return svc
}

func loadStore(t *testing.T, files map[string]string) contentstore.Service {
	t.Helper()

	svc := newStore(t, files)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func TestStoreCreation(t *testing.T) {
	svc, err := contentstore.New()
	assert.Error(t, err)
	assert.Nil(t, svc)

	svc, err = contentstore.New(contentstore.WithSource(memory.New()))
	assert.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestLoadRoundTrip(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/pink-composition-01.md": pinkComposition,
	})

	a, err := svc.GetArtwork("pink-composition-01", "en")
	require.NoError(t, err)

	assert.Equal(t, "pink-composition-01", a.Slug)
	assert.Equal(t, "en", a.Locale)
	assert.Equal(t, contentstore.KindArtwork, a.Kind)
	assert.Equal(t, "Pink Composition No. 1", a.Title)
	assert.Equal(t, 2024, a.Year)
	assert.Equal(t, "Oil on canvas", a.Medium)
	assert.Equal(t, "100 x 80 cm", a.Dimensions)
	assert.Equal(t, []string{"pink", "white"}, a.Colors, "colors are a set, declaration order kept")
	assert.Equal(t, "compositions", a.Collection)
	require.NotNil(t, a.Price)
	assert.Equal(t, 2400.0, *a.Price)
	assert.True(t, a.Featured)
	assert.Equal(t, []contentstore.ImageRef{
		{Src: "/images/pink-composition-01-a.jpg", Alt: "Front view"},
		{Src: "/images/pink-composition-01-b.jpg"},
	}, a.Images, "image order is declaration order")
	assert.Equal(t, "A large composition in layered pink.\n", a.Body)

	// Unrecognized header fields are preserved, not validated.
	assert.Equal(t, "compositions-iv", a.Meta["series"])
}

func TestLoadMissingRequiredField(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		body  string
		field string
	}{
		{
			name:  "missing slug",
			file:  "artworks/a.md",
			body:  "---\nlang: en\ntitle: T\nyear: 2024\nmedium: Oil\n---\n",
			field: "slug",
		},
		{
			name:  "missing lang",
			file:  "artworks/a.md",
			body:  "---\nslug: a\ntitle: T\nyear: 2024\nmedium: Oil\n---\n",
			field: "lang",
		},
		{
			name:  "missing year",
			file:  "artworks/a.md",
			body:  "---\nslug: a\nlang: en\ntitle: T\nmedium: Oil\n---\n",
			field: "year",
		},
		{
			name:  "missing exhibition end date",
			file:  "exhibitions/e.md",
			body:  "---\nslug: e\nlang: en\nname: N\nlocation: L\nstartDate: 2025-01-01\n---\n",
			field: "endDate",
		},
		{
			name:  "missing page title",
			file:  "pages/p.md",
			body:  "---\nslug: p\nlang: en\n---\n",
			field: "title",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStore(t, map[string]string{tt.file: tt.body})

			err := svc.Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, contentstore.ErrMissingField)

			var loadErr *contentstore.LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Equal(t, tt.file, loadErr.Path)
			assert.Equal(t, tt.field, loadErr.Field)

			// Failed load leaves no partial store behind.
			_, qerr := svc.GetArtwork("a", "en")
			assert.ErrorIs(t, qerr, contentstore.ErrNotLoaded)
		})
	}
}

func TestLoadInvalidFieldValues(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "year not an integer",
			file: "artworks/a.md",
			body: "---\nslug: a\nlang: en\ntitle: T\nyear: twenty\nmedium: Oil\n---\n",
		},
		{
			name: "slug not url-safe",
			file: "artworks/a.md",
			body: "---\nslug: not a slug\nlang: en\ntitle: T\nyear: 2024\nmedium: Oil\n---\n",
		},
		{
			name: "bad locale tag",
			file: "artworks/a.md",
			body: "---\nslug: a\nlang: \"!!\"\ntitle: T\nyear: 2024\nmedium: Oil\n---\n",
		},
		{
			name: "end date before start date",
			file: "exhibitions/e.md",
			body: "---\nslug: e\nlang: en\nname: N\nlocation: L\nstartDate: 2025-06-01\nendDate: 2025-01-01\n---\n",
		},
		{
			name: "press entry without url",
			file: "exhibitions/e.md",
			body: "---\nslug: e\nlang: en\nname: N\nlocation: L\nstartDate: 2025-01-01\nendDate: 2025-02-01\npress:\n  - label: Review\n---\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newStore(t, map[string]string{tt.file: tt.body})

			err := svc.Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, contentstore.ErrInvalidField)
		})
	}
}

func TestLoadMalformedFrontMatter(t *testing.T) {
	svc := newStore(t, map[string]string{
		"artworks/a.md": "no front matter here\n",
	})

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contentstore.ErrMalformedFrontMatter)

	var loadErr *contentstore.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "artworks/a.md", loadErr.Path)
}

func TestLoadDuplicateSlug(t *testing.T) {
	first := "---\nslug: dup\nlang: en\ntitle: First\nyear: 2024\nmedium: Oil\n---\n"
	second := "---\nslug: dup\nlang: en\ntitle: Second\nyear: 2023\nmedium: Ink\n---\n"

	svc := newStore(t, map[string]string{
		"artworks/a-first.md":  first,
		"artworks/b-second.md": second,
	})

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, contentstore.ErrDuplicateSlug)

	var loadErr *contentstore.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "artworks/b-second.md", loadErr.Path, "merge order follows the sorted listing")
	assert.Contains(t, loadErr.Error(), "artworks/a-first.md")
}

func TestDuplicateSlugAllowedAcrossLocales(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/about-en.md": "---\nslug: red-field\nlang: en\ntitle: Red Field\nyear: 2022\nmedium: Oil\n---\n",
		"artworks/about-ja.md": "---\nslug: red-field\nlang: ja\ntitle: 赤の野原\nyear: 2022\nmedium: Oil\n---\n",
	})

	en, err := svc.GetArtwork("red-field", "en")
	require.NoError(t, err)
	assert.Equal(t, "Red Field", en.Title)

	ja, err := svc.GetArtwork("red-field", "ja")
	require.NoError(t, err)
	assert.Equal(t, "赤の野原", ja.Title)

	assert.Equal(t, []string{"en", "ja"}, svc.Locales())
}

func TestListArtworksFilters(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/pink-composition-01.md": pinkComposition,
		"artworks/blue-study-02.md":       blueStudy,
	})

	t.Run("year filter", func(t *testing.T) {
		got, err := svc.ListArtworks("en", contentstore.WithYear(2024))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pink-composition-01", got[0].Slug)
	})

	t.Run("medium filter", func(t *testing.T) {
		got, err := svc.ListArtworks("en", contentstore.WithMedium("Watercolor"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "blue-study-02", got[0].Slug)
	})

	t.Run("color membership", func(t *testing.T) {
		got, err := svc.ListArtworks("en", contentstore.WithColor("white"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pink-composition-01", got[0].Slug)
	})

	t.Run("collection filter", func(t *testing.T) {
		got, err := svc.ListArtworks("en", contentstore.WithCollection("compositions"))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pink-composition-01", got[0].Slug)
	})

	t.Run("featured only", func(t *testing.T) {
		got, err := svc.ListArtworks("en", contentstore.WithFeaturedOnly())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pink-composition-01", got[0].Slug)
	})

	t.Run("combined filters exclude", func(t *testing.T) {
		got, err := svc.ListArtworks("en",
			contentstore.WithYear(2024),
			contentstore.WithMedium("Watercolor"),
		)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown locale lists empty", func(t *testing.T) {
		got, err := svc.ListArtworks("de")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestListArtworksStableOrder(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/pink-composition-01.md": pinkComposition,
		"artworks/blue-study-02.md":       blueStudy,
		"artworks/amber-grid-03.md":       "---\nslug: amber-grid-03\nlang: en\ntitle: Amber Grid\nyear: 2024\nmedium: Oil on canvas\n---\n",
	})

	want := []string{"amber-grid-03", "pink-composition-01", "blue-study-02"}

	for i := 0; i < 3; i++ {
		got, err := svc.ListArtworks("en")
		require.NoError(t, err)

		slugs := make([]string, len(got))
		for j, a := range got {
			slugs[j] = a.Slug
		}
		assert.Equal(t, want, slugs, "year descending, slug ascending, repeatable")
	}
}

func TestListExhibitionsUpcoming(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"exhibitions/spring-show-2025.md": springShow,
	})

	t.Run("past reference date includes show", func(t *testing.T) {
		now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
		got, err := svc.ListExhibitions("en", now, contentstore.WithUpcomingOnly())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "spring-show-2025", got[0].Slug)
		assert.Equal(t, "Spring Show", got[0].Name)
		assert.Equal(t, "Stockholm", got[0].Location)
		assert.Equal(t, []contentstore.PressRef{{Label: "Review", URL: "https://example.com/review"}}, got[0].Press)
	})

	t.Run("end date itself still counts", func(t *testing.T) {
		now := time.Date(2025, 3, 30, 23, 0, 0, 0, time.UTC)
		got, err := svc.ListExhibitions("en", now, contentstore.WithUpcomingOnly())
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("later reference date excludes show", func(t *testing.T) {
		now := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
		got, err := svc.ListExhibitions("en", now, contentstore.WithUpcomingOnly())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("without upcoming filter everything lists", func(t *testing.T) {
		now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		got, err := svc.ListExhibitions("en", now)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestPages(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"pages/about.md":   aboutPage,
		"pages/contact.md": "---\nslug: contact\nlang: en\ntitle: Contact\n---\n",
	})

	p, err := svc.GetPage("about", "en")
	require.NoError(t, err)
	assert.Equal(t, "About", p.Title)
	assert.Equal(t, "Painter based in Stockholm.\n", p.Body)

	pages, err := svc.ListPages("en")
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "about", pages[0].Slug)
	assert.Equal(t, "contact", pages[1].Slug)
}

func TestQueryNotFound(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/pink-composition-01.md": pinkComposition,
	})

	_, err := svc.GetArtwork("never-loaded", "en")
	assert.ErrorIs(t, err, contentstore.ErrNotFound)

	_, err = svc.GetArtwork("pink-composition-01", "ja")
	assert.ErrorIs(t, err, contentstore.ErrNotFound, "locale is part of the identity key")

	_, err = svc.GetPage("missing", "en")
	assert.ErrorIs(t, err, contentstore.ErrNotFound)
}

func TestQueriesBeforeLoad(t *testing.T) {
	svc := newStore(t, nil)

	_, err := svc.GetArtwork("x", "en")
	assert.ErrorIs(t, err, contentstore.ErrNotLoaded)

	_, err = svc.ListArtworks("en")
	assert.ErrorIs(t, err, contentstore.ErrNotLoaded)

	_, err = svc.ListExhibitions("en", time.Now())
	assert.ErrorIs(t, err, contentstore.ErrNotLoaded)

	_, err = svc.Stats()
	assert.ErrorIs(t, err, contentstore.ErrNotLoaded)
}

func TestLoadIsOneWay(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"pages/about.md": aboutPage,
	})

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already loaded")
}

func TestStats(t *testing.T) {
	svc := loadStore(t, map[string]string{
		"artworks/pink-composition-01.md": pinkComposition,
		"artworks/blue-study-02.md":       blueStudy,
		"exhibitions/spring-show-2025.md": springShow,
		"pages/about.md":                  aboutPage,
	})

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Artworks)
	assert.Equal(t, 1, stats.Exhibitions)
	assert.Equal(t, 1, stats.Pages)
	assert.Equal(t, []string{"en"}, stats.Locales)
	assert.NotEmpty(t, stats.LoadID)
	assert.False(t, stats.LoadedAt.IsZero())
}
