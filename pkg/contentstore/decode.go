package contentstore

import (
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const dateLayout = "2006-01-02"

func decodeBase(kind Kind, path string, meta map[string]any, body string) (Record, error) {
	slug, err := requireString(path, meta, "slug")
	if err != nil {
		return Record{}, err
	}
	if strings.ContainsAny(slug, "/ \t") {
		return Record{}, invalidField(path, "slug", fmt.Errorf("%q is not URL-safe", slug))
	}

	// Locale comes from the front matter, not from directory layout.
	// "lang" is the canonical field name; "locale" is accepted as an alias.
	raw, err := requireOneOf(path, meta, "lang", "locale")
	if err != nil {
		return Record{}, err
	}
	tag, parseErr := language.Parse(raw)
	if parseErr != nil {
		return Record{}, invalidField(path, "lang", fmt.Errorf("%q is not a valid language tag: %v", raw, parseErr))
	}

	return Record{
		Slug:   slug,
		Locale: tag.String(),
		Kind:   kind,
		Body:   body,
		Meta:   meta,
		Path:   path,
	}, nil
}

func decodeArtwork(path string, base Record, meta map[string]any) (*Artwork, error) {
	title, err := requireString(path, meta, "title")
	if err != nil {
		return nil, err
	}
	year, err := requireInt(path, meta, "year")
	if err != nil {
		return nil, err
	}
	medium, err := requireString(path, meta, "medium")
	if err != nil {
		return nil, err
	}
	dimensions, err := optionalString(path, meta, "dimensions")
	if err != nil {
		return nil, err
	}
	colors, err := optionalStringList(path, meta, "colors")
	if err != nil {
		return nil, err
	}
	collection, err := optionalString(path, meta, "collection")
	if err != nil {
		return nil, err
	}
	price, err := optionalFloat(path, meta, "price")
	if err != nil {
		return nil, err
	}
	images, err := decodeImages(path, meta)
	if err != nil {
		return nil, err
	}
	featured, err := optionalBool(path, meta, "featured")
	if err != nil {
		return nil, err
	}

	return &Artwork{
		Record:     base,
		Title:      title,
		Year:       year,
		Medium:     medium,
		Dimensions: dimensions,
		Colors:     dedupe(colors),
		Collection: collection,
		Price:      price,
		Images:     images,
		Featured:   featured,
	}, nil
}

func decodeExhibition(path string, base Record, meta map[string]any) (*Exhibition, error) {
	name, err := requireString(path, meta, "name")
	if err != nil {
		return nil, err
	}
	location, err := requireString(path, meta, "location")
	if err != nil {
		return nil, err
	}
	start, err := requireDate(path, meta, "startDate")
	if err != nil {
		return nil, err
	}
	end, err := requireDate(path, meta, "endDate")
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, invalidField(path, "endDate", fmt.Errorf("end date %s precedes start date %s", end.Format(dateLayout), start.Format(dateLayout)))
	}
	press, err := decodePress(path, meta)
	if err != nil {
		return nil, err
	}

	return &Exhibition{
		Record:    base,
		Name:      name,
		Location:  location,
		StartDate: start,
		EndDate:   end,
		Press:     press,
	}, nil
}

func decodePage(path string, base Record, meta map[string]any) (*Page, error) {
	title, err := requireString(path, meta, "title")
	if err != nil {
		return nil, err
	}
	return &Page{Record: base, Title: title}, nil
}

// Field extraction helpers. Every failure wraps ErrMissingField or
// ErrInvalidField inside a LoadError carrying the file path.

func missingField(path, field string) error {
	return &LoadError{Path: path, Field: field, Err: ErrMissingField}
}

func invalidField(path, field string, err error) error {
	return &LoadError{Path: path, Field: field, Err: fmt.Errorf("%w: %v", ErrInvalidField, err)}
}

func requireString(path string, meta map[string]any, field string) (string, error) {
	v, ok := meta[field]
	if !ok {
		return "", missingField(path, field)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(path, field, fmt.Errorf("expected string, got %T", v))
	}
	if strings.TrimSpace(s) == "" {
		return "", missingField(path, field)
	}
	return s, nil
}

func requireOneOf(path string, meta map[string]any, fields ...string) (string, error) {
	for _, field := range fields {
		if _, ok := meta[field]; ok {
			return requireString(path, meta, field)
		}
	}
	return "", missingField(path, fields[0])
}

func optionalString(path string, meta map[string]any, field string) (string, error) {
	v, ok := meta[field]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalidField(path, field, fmt.Errorf("expected string, got %T", v))
	}
	return s, nil
}

func requireInt(path string, meta map[string]any, field string) (int, error) {
	v, ok := meta[field]
	if !ok {
		return 0, missingField(path, field)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, invalidField(path, field, fmt.Errorf("expected integer, got %v", v))
}

func optionalFloat(path string, meta map[string]any, field string) (*float64, error) {
	v, ok := meta[field]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case int:
		f := float64(n)
		return &f, nil
	case int64:
		f := float64(n)
		return &f, nil
	case float64:
		return &n, nil
	}
	return nil, invalidField(path, field, fmt.Errorf("expected number, got %T", v))
}

func optionalBool(path string, meta map[string]any, field string) (bool, error) {
	v, ok := meta[field]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, invalidField(path, field, fmt.Errorf("expected boolean, got %T", v))
	}
	return b, nil
}

func optionalStringList(path string, meta map[string]any, field string) ([]string, error) {
	v, ok := meta[field]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalidField(path, field, fmt.Errorf("expected list, got %T", v))
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalidField(path, field, fmt.Errorf("expected string entry, got %T", item))
		}
		out = append(out, s)
	}
	return out, nil
}

// requireDate accepts either a bare YAML date (decoded as time.Time) or
// a "YYYY-MM-DD" string, normalized to UTC midnight.
func requireDate(path string, meta map[string]any, field string) (time.Time, error) {
	v, ok := meta[field]
	if !ok {
		return time.Time{}, missingField(path, field)
	}
	switch d := v.(type) {
	case time.Time:
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
	case string:
		t, err := time.ParseInLocation(dateLayout, d, time.UTC)
		if err != nil {
			return time.Time{}, invalidField(path, field, fmt.Errorf("expected %s date: %v", dateLayout, err))
		}
		return t, nil
	}
	return time.Time{}, invalidField(path, field, fmt.Errorf("expected date, got %T", v))
}

// decodeImages accepts list entries that are either a bare source string
// or a {src, alt} mapping. Declaration order is preserved.
func decodeImages(path string, meta map[string]any) ([]ImageRef, error) {
	v, ok := meta["images"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalidField(path, "images", fmt.Errorf("expected list, got %T", v))
	}
	out := make([]ImageRef, 0, len(items))
	for _, item := range items {
		switch entry := item.(type) {
		case string:
			out = append(out, ImageRef{Src: entry})
		case map[string]any:
			src, _ := entry["src"].(string)
			if src == "" {
				return nil, invalidField(path, "images", fmt.Errorf("image entry missing src"))
			}
			alt, _ := entry["alt"].(string)
			out = append(out, ImageRef{Src: src, Alt: alt})
		default:
			return nil, invalidField(path, "images", fmt.Errorf("expected string or mapping entry, got %T", item))
		}
	}
	return out, nil
}

// decodePress requires {label, url} on every entry. Declaration order is
// preserved.
func decodePress(path string, meta map[string]any) ([]PressRef, error) {
	v, ok := meta["press"]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, invalidField(path, "press", fmt.Errorf("expected list, got %T", v))
	}
	out := make([]PressRef, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, invalidField(path, "press", fmt.Errorf("expected mapping entry, got %T", item))
		}
		label, _ := entry["label"].(string)
		url, _ := entry["url"].(string)
		if label == "" || url == "" {
			return nil, invalidField(path, "press", fmt.Errorf("press entry requires label and url"))
		}
		out = append(out, PressRef{Label: label, URL: url})
	}
	return out, nil
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
