// Package api exposes the content store over a read-only JSON API.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/kadar77/sarangoo-content/pkg/contentstore"
	"github.com/kadar77/sarangoo-content/pkg/contentstore/markdown"
)

// StoreProvider yields the current store. A static store satisfies it
// via Static; the dev-mode reloader satisfies it with whatever store
// loaded successfully last.
type StoreProvider interface {
	Store() contentstore.Service
}

type staticProvider struct {
	svc contentstore.Service
}

func (p staticProvider) Store() contentstore.Service { return p.svc }

// Static wraps an already loaded store as a StoreProvider.
func Static(svc contentstore.Service) StoreProvider {
	return staticProvider{svc: svc}
}

// Handler handles HTTP requests against the content store.
type Handler struct {
	provider      StoreProvider
	defaultLocale string
	logger        *slog.Logger
}

// NewHandler creates a content API handler. A nil logger falls back to
// slog.Default.
func NewHandler(provider StoreProvider, defaultLocale string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		provider:      provider,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// Routes returns the routes for the content API.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/artworks", h.ListArtworks)
	r.Get("/artworks/{slug}", h.GetArtwork)
	r.Get("/exhibitions", h.ListExhibitions)
	r.Get("/pages/{slug}", h.GetPage)
	r.Get("/status", h.Status)

	return r
}

// ArtworkResponse is the response body for an artwork.
type ArtworkResponse struct {
	Slug       string                 `json:"slug"`
	Locale     string                 `json:"locale"`
	Title      string                 `json:"title"`
	Year       int                    `json:"year"`
	Medium     string                 `json:"medium"`
	Dimensions string                 `json:"dimensions,omitempty"`
	Colors     []string               `json:"colors,omitempty"`
	Collection string                 `json:"collection,omitempty"`
	Price      *float64               `json:"price,omitempty"`
	Images     []contentstore.ImageRef `json:"images,omitempty"`
	Featured   bool                   `json:"featured"`
	Body       string                 `json:"body"`
	BodyHTML   string                 `json:"body_html,omitempty"`
}

// ExhibitionResponse is the response body for an exhibition. Dates carry
// date granularity only.
type ExhibitionResponse struct {
	Slug      string                  `json:"slug"`
	Locale    string                  `json:"locale"`
	Name      string                  `json:"name"`
	Location  string                  `json:"location"`
	StartDate string                  `json:"start_date"`
	EndDate   string                  `json:"end_date"`
	Press     []contentstore.PressRef `json:"press,omitempty"`
	Body      string                  `json:"body"`
	BodyHTML  string                  `json:"body_html,omitempty"`
}

// PageResponse is the response body for a page.
type PageResponse struct {
	Slug     string `json:"slug"`
	Locale   string `json:"locale"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	BodyHTML string `json:"body_html,omitempty"`
}

// ErrorResponse is the response body for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ListArtworks lists artworks for a locale, honoring the recognized
// filter query parameters (medium, year, color, collection, featured).
func (h *Handler) ListArtworks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var opts []contentstore.ListArtworksOption
	if v := q.Get("medium"); v != "" {
		opts = append(opts, contentstore.WithMedium(v))
	}
	if v := q.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			h.respondError(w, r, http.StatusBadRequest, "invalid year")
			return
		}
		opts = append(opts, contentstore.WithYear(year))
	}
	if v := q.Get("color"); v != "" {
		opts = append(opts, contentstore.WithColor(v))
	}
	if v := q.Get("collection"); v != "" {
		opts = append(opts, contentstore.WithCollection(v))
	}
	if q.Get("featured") == "true" {
		opts = append(opts, contentstore.WithFeaturedOnly())
	}

	artworks, err := h.provider.Store().ListArtworks(h.locale(r), opts...)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	resp := make([]ArtworkResponse, 0, len(artworks))
	for _, a := range artworks {
		ar, err := h.artworkResponse(a, wantHTML(r))
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		resp = append(resp, ar)
	}
	render.JSON(w, r, resp)
}

// GetArtwork returns a single artwork by slug.
func (h *Handler) GetArtwork(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	artwork, err := h.provider.Store().GetArtwork(slug, h.locale(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	resp, err := h.artworkResponse(artwork, wantHTML(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, resp)
}

// ListExhibitions lists exhibitions for a locale. With ?upcoming=true
// only exhibitions whose end date is on or after the request time are
// returned; the request time is the injected "now" for the query.
func (h *Handler) ListExhibitions(w http.ResponseWriter, r *http.Request) {
	var opts []contentstore.ListExhibitionsOption
	if r.URL.Query().Get("upcoming") == "true" {
		opts = append(opts, contentstore.WithUpcomingOnly())
	}

	exhibitions, err := h.provider.Store().ListExhibitions(h.locale(r), time.Now().UTC(), opts...)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	resp := make([]ExhibitionResponse, 0, len(exhibitions))
	for _, e := range exhibitions {
		er, err := h.exhibitionResponse(e, wantHTML(r))
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		resp = append(resp, er)
	}
	render.JSON(w, r, resp)
}

// GetPage returns a single page by slug.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := h.provider.Store().GetPage(slug, h.locale(r))
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	resp := PageResponse{
		Slug:   page.Slug,
		Locale: page.Locale,
		Title:  page.Title,
		Body:   page.Body,
	}
	if wantHTML(r) {
		html, err := markdown.ToHTML(page.Body)
		if err != nil {
			h.renderError(w, r, err)
			return
		}
		resp.BodyHTML = html
	}
	render.JSON(w, r, resp)
}

// Status reports the loaded index: load ID, record counts, load time.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	stats, err := h.provider.Store().Stats()
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	render.JSON(w, r, stats)
}

func (h *Handler) artworkResponse(a *contentstore.Artwork, html bool) (ArtworkResponse, error) {
	resp := ArtworkResponse{
		Slug:       a.Slug,
		Locale:     a.Locale,
		Title:      a.Title,
		Year:       a.Year,
		Medium:     a.Medium,
		Dimensions: a.Dimensions,
		Colors:     a.Colors,
		Collection: a.Collection,
		Price:      a.Price,
		Images:     a.Images,
		Featured:   a.Featured,
		Body:       a.Body,
	}
	if html {
		rendered, err := markdown.ToHTML(a.Body)
		if err != nil {
			return ArtworkResponse{}, err
		}
		resp.BodyHTML = rendered
	}
	return resp, nil
}

func (h *Handler) exhibitionResponse(e *contentstore.Exhibition, html bool) (ExhibitionResponse, error) {
	resp := ExhibitionResponse{
		Slug:      e.Slug,
		Locale:    e.Locale,
		Name:      e.Name,
		Location:  e.Location,
		StartDate: e.StartDate.Format("2006-01-02"),
		EndDate:   e.EndDate.Format("2006-01-02"),
		Press:     e.Press,
		Body:      e.Body,
	}
	if html {
		rendered, err := markdown.ToHTML(e.Body)
		if err != nil {
			return ExhibitionResponse{}, err
		}
		resp.BodyHTML = rendered
	}
	return resp, nil
}

func (h *Handler) locale(r *http.Request) string {
	if v := r.URL.Query().Get("locale"); v != "" {
		return v
	}
	return h.defaultLocale
}

func wantHTML(r *http.Request) bool {
	return r.URL.Query().Get("render") == "html"
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, contentstore.ErrNotFound):
		h.respondError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, contentstore.ErrNotLoaded):
		h.respondError(w, r, http.StatusServiceUnavailable, "content not loaded")
	default:
		h.logger.Error("request failed", "path", r.URL.Path, "error", err)
		h.respondError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: msg})
}
