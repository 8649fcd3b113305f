// Package markdown renders content bodies to sanitized HTML for the
// HTTP surface. The store itself never interprets bodies; rendering is
// opt-in per request.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Both are safe for concurrent use once constructed.
var (
	renderer = goldmark.New(goldmark.WithExtensions(extension.GFM))
	policy   = bluemonday.UGCPolicy()
)

// ToHTML converts a markdown body to HTML and strips any markup outside
// the user-generated-content policy (scripts, event handlers, etc.).
func ToHTML(body string) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
