// Package config loads server configuration from the environment and
// assembles a loaded content store from it.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/source"
	fssource "github.com/kadar77/sarangoo-content/pkg/contentstore/source/fs"
	s3source "github.com/kadar77/sarangoo-content/pkg/contentstore/source/s3"
)

// ServerConfig represents server configuration for the content service.
//
// CONTENT_URL selects the content source:
//   - "file:///path/to/content" or "file://./content" for a local tree
//   - "s3://bucket/prefix?region=eu-north-1&endpoint=...&path_style=true"
//     for content synced to object storage
type ServerConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"` // development, production, testing

	ContentURL    string `env:"CONTENT_URL" env-default:"file://./content"`
	DefaultLocale string `env:"DEFAULT_LOCALE" env-default:"en"`

	// WatchContent enables the fsnotify reloader for filesystem sources.
	WatchContent bool `env:"WATCH_CONTENT" env-default:"false"`

	LoadParallelism int `env:"LOAD_PARALLELISM" env-default:"8"`

	// S3 credentials fall back to the default AWS chain when unset.
	S3AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

// Load reads the server configuration from the environment.
func Load() (*ServerConfig, error) {
	var cfg ServerConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}
	if c.ContentURL == "" {
		return errors.New("content_url is required")
	}
	if c.DefaultLocale == "" {
		return errors.New("default_locale is required")
	}
	return nil
}

// ContentRoot returns the local directory for file:// content URLs, or
// "" for non-filesystem sources. Used by the dev-mode watcher.
func (c *ServerConfig) ContentRoot() string {
	if strings.HasPrefix(c.ContentURL, "file://") {
		return strings.TrimPrefix(c.ContentURL, "file://")
	}
	return ""
}

// BuildSource creates a content source from CONTENT_URL.
func (c *ServerConfig) BuildSource() (source.Source, error) {
	switch {
	case strings.HasPrefix(c.ContentURL, "file://"):
		root := strings.TrimPrefix(c.ContentURL, "file://")
		if root == "" {
			return nil, errors.New("filesystem path cannot be empty in CONTENT_URL")
		}
		return fssource.New(root)

	case strings.HasPrefix(c.ContentURL, "s3://"):
		return c.buildS3Source()

	default:
		return nil, fmt.Errorf("unsupported CONTENT_URL format: %s (use 'file://...' or 's3://...')", c.ContentURL)
	}
}

func (c *ServerConfig) buildS3Source() (source.Source, error) {
	u, err := url.Parse(c.ContentURL)
	if err != nil {
		return nil, fmt.Errorf("parse CONTENT_URL: %w", err)
	}
	if u.Host == "" {
		return nil, errors.New("S3 bucket name cannot be empty in CONTENT_URL")
	}

	q := u.Query()
	cfg := s3source.Config{
		Bucket:          u.Host,
		Prefix:          strings.Trim(u.Path, "/"),
		Region:          q.Get("region"),
		Endpoint:        q.Get("endpoint"),
		UsePathStyle:    q.Get("path_style") == "true",
		AccessKeyID:     c.S3AccessKeyID,
		SecretAccessKey: c.S3SecretAccessKey,
	}
	return s3source.New(cfg)
}

// BuildStore assembles a store from the configuration and loads it.
func (c *ServerConfig) BuildStore(ctx context.Context) (contentstore.Service, error) {
	src, err := c.BuildSource()
	if err != nil {
		return nil, fmt.Errorf("failed to build content source: %w", err)
	}

	store, err := contentstore.New(
		contentstore.WithSource(src),
		contentstore.WithParallelism(c.LoadParallelism),
	)
	if err != nil {
		return nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
