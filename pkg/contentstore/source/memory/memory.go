// Package memory implements an in-memory source.Source, used for tests
// and programmatic fixtures.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Source holds content files in a map keyed by slash-separated path.
type Source struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// New creates an empty in-memory source.
func New() *Source {
	return &Source{files: make(map[string][]byte)}
}

// Put stores a file under the given key, replacing any previous content.
func (s *Source) Put(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[key] = data
}

// List returns all keys under dir, sorted.
func (s *Source) List(ctx context.Context, dir string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := dir + "/"
	var keys []string
	for key := range s.files {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Read returns the bytes stored under key.
func (s *Source) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[key]
	if !ok {
		return nil, fmt.Errorf("read %s: file not found", key)
	}
	return data, nil
}
