// Package fs implements a source.Source over a local directory tree.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kadar77/sarangoo-content/pkg/contentstore/source"
)

// Source reads content files from a directory on the local filesystem.
type Source struct {
	baseDir string
}

// New creates a filesystem source rooted at baseDir. The directory must
// exist; content loading should fail loudly on a mistyped root rather
// than serve an empty site.
func New(baseDir string) (source.Source, error) {
	if baseDir == "" {
		return nil, errors.New("base directory is required")
	}
	info, err := os.Stat(baseDir)
	if err != nil {
		return nil, fmt.Errorf("content root %s: %w", baseDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", baseDir)
	}
	return &Source{baseDir: baseDir}, nil
}

// List walks baseDir/dir and returns every markdown file as a key
// relative to the base directory. fs.WalkDir visits entries in lexical
// order, so the listing is deterministic.
func (s *Source) List(ctx context.Context, dir string) ([]string, error) {
	root := filepath.Join(s.baseDir, filepath.FromSlash(dir))
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	var keys []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		keys = append(keys, path.Join(dir, filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return keys, nil
}

// Read returns the bytes of the file at key.
func (s *Source) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}
