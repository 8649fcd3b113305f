package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/api"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/config"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/watch"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := cfg.BuildStore(ctx)
	if err != nil {
		logger.Error("failed to load content", "error", err)
		os.Exit(1)
	}
	if stats, err := store.Stats(); err == nil {
		logger.Info("content loaded",
			"load_id", stats.LoadID,
			"artworks", stats.Artworks,
			"exhibitions", stats.Exhibitions,
			"pages", stats.Pages,
			"locales", stats.Locales,
		)
	}

	var provider api.StoreProvider = api.Static(store)
	if cfg.WatchContent && cfg.ContentRoot() != "" {
		reloader := watch.NewReloader(store, func(ctx context.Context) (contentstore.Service, error) {
			return cfg.BuildStore(ctx)
		}, logger)
		go func() {
			if err := reloader.Watch(ctx, cfg.ContentRoot()); err != nil {
				logger.Error("content watcher stopped", "error", err)
			}
		}()
		provider = reloader
		logger.Info("watching content for changes", "root", cfg.ContentRoot())
	}

	handler := api.NewHandler(provider, cfg.DefaultLocale, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Mount("/api/v1", handler.Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logger.Info("content server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
