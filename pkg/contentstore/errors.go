package contentstore

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound indicates no record exists for a (kind, locale, slug)
	// lookup. This is a normal query outcome, not a load failure.
	ErrNotFound = errors.New("record not found")

	// ErrNotLoaded indicates a query against a store whose Load has not
	// completed successfully.
	ErrNotLoaded = errors.New("store not loaded")

	// ErrMissingField indicates a required front-matter field is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a front-matter field is present but has
	// the wrong type or an unparseable value.
	ErrInvalidField = errors.New("invalid field value")

	// ErrDuplicateSlug indicates two records collide on (kind, locale, slug).
	ErrDuplicateSlug = errors.New("duplicate slug")

	// ErrMalformedFrontMatter indicates the front-matter block could not
	// be parsed into a metadata mapping.
	ErrMalformedFrontMatter = errors.New("malformed front matter")
)

// LoadError is a load-time validation failure. It always carries the
// offending source path; Field is set when a specific front-matter field
// violated a constraint.
type LoadError struct {
	Path  string
	Field string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("load %s: field %q: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
