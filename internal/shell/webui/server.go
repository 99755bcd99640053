// Package webui serves the restaurant panel as server-rendered HTML.
package webui

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/core/notice"
	"github.com/xcalota/panel/internal/shell/panel"
	"github.com/xcalota/panel/internal/shell/restapi"
)

//go:embed templates/*.html
var templatesFS embed.FS

// =============================================================================
// Server
// =============================================================================

// Config holds web UI configuration.
type Config struct {
	APIBaseURL string // Shown in the header badge
}

// Server renders the panel and handles its form posts.
type Server struct {
	panel   *panel.Panel
	logger  *slog.Logger
	apiHost string
	tmpl    *template.Template
}

// NewServer creates a new web UI server.
func NewServer(cfg Config, p *panel.Panel, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Server{
		panel:   p,
		logger:  logger,
		apiHost: apiHost(cfg.APIBaseURL),
		tmpl:    tmpl,
	}, nil
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", s.handleIndex)
	r.Get("/state", s.handleState)
	r.Get("/slug", s.handleSlug)
	r.Post("/form", s.handleForm)
	r.Post("/restaurants", s.handleCreate)
	r.Post("/notices/{topic}", s.handleNotice)

	return r
}

// =============================================================================
// Handlers
// =============================================================================

// pageData is what the index template renders.
type pageData struct {
	panel.View
	APIHost string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("refresh") != "0" {
		// Failures are reflected in the view's ListError.
		_ = s.panel.Refresh(r.Context())
	}

	data := pageData{
		View:    s.panel.View(r.URL.Query().Get("q")),
		APIHost: s.apiHost,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("failed to render panel", "error", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.panel.View(r.URL.Query().Get("q")))
}

func (s *Server) handleSlug(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, SlugResponse{Slug: domain.Slugify(r.URL.Query().Get("text"))})
}

// handleForm applies keystrokes from the create form and answers with the
// form as it now stands, including the suggested slug.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	var upd FormUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	if upd.Name != nil {
		s.panel.SetName(*upd.Name)
	}
	if upd.Slug != nil {
		s.panel.SetSlug(*upd.Slug)
	}
	s.writeJSON(w, http.StatusOK, s.panel.Form())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if isJSON(r) {
		s.handleCreateJSON(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.panel.Notify(notice.KindError, notice.MsgFillRequired)
		http.Redirect(w, r, "/?refresh=0", http.StatusSeeOther)
		return
	}

	// The outcome is carried by the panel's notice.
	_, _ = s.panel.Submit(r.Context(), r.PostForm.Get("nome"), r.PostForm.Get("slug"))
	http.Redirect(w, r, "/?refresh=0", http.StatusSeeOther)
}

func (s *Server) handleCreateJSON(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	created, err := s.panel.Submit(r.Context(), req.name(), req.Slug)
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusCreated, RestaurantResponse{
			ID:         created.ID,
			Name:       created.Name,
			Slug:       created.Slug,
			PublicPath: created.PublicPath(),
		})
	case errors.Is(err, domain.ErrNameRequired), errors.Is(err, domain.ErrSlugRequired):
		s.writeError(w, http.StatusBadRequest, notice.MsgFillRequired, "validation_error")
	case errors.Is(err, panel.ErrSubmitInFlight):
		s.writeError(w, http.StatusConflict, notice.MsgSubmitPending, "in_flight")
	case errors.Is(err, restapi.ErrCreateFailed):
		s.writeError(w, http.StatusBadGateway, notice.MsgCreateFailed, "create_failed")
	default:
		s.writeError(w, http.StatusInternalServerError, notice.MsgCreateFailed, "internal_error")
	}
}

// noticeTopics maps the panel's "coming soon" buttons to their messages.
var noticeTopics = map[string]string{
	"roadmap": notice.MsgRoadmap,
	"edit":    notice.MsgEditSoon,
}

func (s *Server) handleNotice(w http.ResponseWriter, r *http.Request) {
	msg, ok := noticeTopics[chi.URLParam(r, "topic")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.panel.Notify(notice.KindInfo, msg)
	http.Redirect(w, r, "/?refresh=0", http.StatusSeeOther)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode JSON", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

// apiHost strips the scheme for display, e.g. "3.138.190.230/api".
func apiHost(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host + strings.TrimRight(u.Path, "/")
}
