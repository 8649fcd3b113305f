// Command validate loads a content directory and reports the first
// validation failure with file and field context. It exits non-zero on
// failure so site builds can gate on it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
	fssource "github.com/kadar77/sarangoo-content/pkg/contentstore/source/fs"
)

func main() {
	root := flag.String("content", "./content", "content root directory")
	flag.Parse()

	src, err := fssource.New(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	store, err := contentstore.New(contentstore.WithSource(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := store.Load(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "content validation failed:\n  %v\n", err)
		os.Exit(1)
	}

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("content ok: %d artworks, %d exhibitions, %d pages, locales %v\n",
		stats.Artworks, stats.Exhibitions, stats.Pages, stats.Locales)
}
