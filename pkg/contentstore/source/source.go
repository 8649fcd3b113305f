// Package source defines where content files are read from. A Source is
// the store's only upstream collaborator; implementations exist for the
// local filesystem, an in-memory map (tests, fixtures), and S3-compatible
// object storage.
package source

import "context"

// Source enumerates and reads content files. Keys are slash-separated
// paths relative to the content root (e.g. "artworks/blue-study-02.md").
type Source interface {
	// List returns the keys of every content file under the given
	// directory, sorted. A missing directory is not an error; it lists
	// as empty.
	List(ctx context.Context, dir string) ([]string, error)

	// Read returns the raw bytes of the file at key.
	Read(ctx context.Context, key string) ([]byte, error)
}
