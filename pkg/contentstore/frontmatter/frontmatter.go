// Package frontmatter splits a content file into its YAML header and
// free-text body. The header is delimited by "---" lines at the very top
// of the file; everything after the closing delimiter is the body, which
// the store treats as opaque markdown.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var delimiter = []byte("---")

// Parsing errors.
var (
	ErrMissingDelimiter = errors.New("front matter delimiter not found")
	ErrEmptyHeader      = errors.New("front matter header is empty")
)

// Parse splits data into the front-matter mapping and the body. The file
// must begin with an opening "---" line and contain a closing one.
func Parse(data []byte) (map[string]any, string, error) {
	lines := bytes.SplitAfter(data, []byte("\n"))
	if len(lines) == 0 || !isDelimiter(lines[0]) {
		return nil, "", fmt.Errorf("%w: file does not start with %q", ErrMissingDelimiter, "---")
	}

	var header []byte
	var body []byte
	closed := false
	for i := 1; i < len(lines); i++ {
		if isDelimiter(lines[i]) {
			body = bytes.Join(lines[i+1:], nil)
			closed = true
			break
		}
		header = append(header, lines[i]...)
	}
	if !closed {
		return nil, "", fmt.Errorf("%w: closing %q missing", ErrMissingDelimiter, "---")
	}
	if len(bytes.TrimSpace(header)) == 0 {
		return nil, "", ErrEmptyHeader
	}

	meta := make(map[string]any)
	if err := yaml.Unmarshal(header, &meta); err != nil {
		return nil, "", fmt.Errorf("parse front matter: %w", err)
	}

	return meta, string(bytes.TrimLeft(body, "\n")), nil
}

func isDelimiter(line []byte) bool {
	return bytes.Equal(bytes.TrimRight(line, "\r\n"), delimiter)
}
