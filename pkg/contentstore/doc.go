// Package contentstore loads, validates, and indexes portfolio content
// authored as markdown files with YAML front matter.
//
// Content is organized one directory per kind (artworks, exhibitions,
// pages) under a common root. Load reads every source file through a
// source.Source, validates required fields per kind, and builds an
// in-memory index keyed by (kind, locale, slug). The load is atomic: any
// validation failure aborts the whole load and no partial index is ever
// served.
//
// After a successful Load the store is immutable, so any number of
// goroutines may query it concurrently without locking. Lookups for
// absent slugs return ErrNotFound; that is a normal outcome during
// routing, not a failure.
package contentstore
