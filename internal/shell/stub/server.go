// Package stub serves a small restaurant API with the same shape as the one
// the panel consumes. It backs local development and the end-to-end tests.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/xcalota/panel/internal/core/domain"
	"github.com/xcalota/panel/internal/core/validation"
	"github.com/xcalota/panel/internal/shell/store"
)

// =============================================================================
// Envelope
// =============================================================================

// Envelope selects how list responses are wrapped.
type Envelope string

const (
	EnvelopeArray Envelope = "array" // [...]
	EnvelopeItems Envelope = "items" // {"items": [...]}
	EnvelopeData  Envelope = "data"  // {"data": [...]}, create also answers {"data": {...}}
)

// ParseEnvelope validates an envelope name. Empty means EnvelopeArray.
func ParseEnvelope(s string) (Envelope, error) {
	switch e := Envelope(strings.ToLower(strings.TrimSpace(s))); e {
	case "":
		return EnvelopeArray, nil
	case EnvelopeArray, EnvelopeItems, EnvelopeData:
		return e, nil
	default:
		return "", fmt.Errorf("unknown envelope %q (want array, items or data)", s)
	}
}

// =============================================================================
// Server
// =============================================================================

// Config holds stub API configuration.
type Config struct {
	Store    store.Store
	Logger   *slog.Logger
	Envelope Envelope

	// NameField is the JSON key used for names in responses: "name" or "nome".
	NameField string

	// ReadDisabled makes GET /api/restaurants and GET /api/restaurants/{id}
	// answer 404, like a backend that only implements create.
	ReadDisabled bool

	// FailCreate makes every create answer 500.
	FailCreate bool
}

// Server is the stub restaurant API.
type Server struct {
	cfg    Config
	logger *slog.Logger
}

// NewServer creates a stub API server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Envelope == "" {
		cfg.Envelope = EnvelopeArray
	}
	if cfg.NameField == "" {
		cfg.NameField = "name"
	}
	return &Server{cfg: cfg, logger: cfg.Logger}
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	router := mux.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(recoveryMiddleware(s.logger))

	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/openapi.json", openapiHandler).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/restaurants", s.handleList).Methods("GET")
	api.HandleFunc("/restaurants", s.handleCreate).Methods("POST")
	api.HandleFunc("/restaurants/{id}", s.handleGet).Methods("GET")

	return router
}

// =============================================================================
// Handlers
// =============================================================================

// createRequest accepts either "name" or "nome".
type createRequest struct {
	Name string `json:"name"`
	Nome string `json:"nome"`
	Slug string `json:"slug"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadDisabled {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	list, err := s.listAll(r.Context())
	if err != nil {
		s.logger.Error("failed to list restaurants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list restaurants")
		return
	}

	records := make([]map[string]string, 0, len(list))
	for _, rest := range list {
		records = append(records, s.record(rest))
	}

	switch s.cfg.Envelope {
	case EnvelopeItems:
		writeJSON(w, http.StatusOK, map[string]any{"items": records})
	case EnvelopeData:
		writeJSON(w, http.StatusOK, map[string]any{"data": records})
	default:
		writeJSON(w, http.StatusOK, records)
	}
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if s.cfg.ReadDisabled {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	id := mux.Vars(r)["id"]
	rest, err := s.cfg.Store.GetRestaurant(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "restaurant not found")
			return
		}
		s.logger.Error("failed to get restaurant", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "failed to get restaurant")
		return
	}

	s.writeRecord(w, http.StatusOK, *rest)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.FailCreate {
		writeError(w, http.StatusInternalServerError, "create disabled")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	name := validation.RestaurantName(req.Nome, req.Name)
	slug := strings.TrimSpace(req.Slug)
	if field, msg := validation.ValidateCreateRestaurantFields(name, slug); field != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg, "field": field})
		return
	}

	rest := &domain.Restaurant{ID: uuid.NewString(), Name: name, Slug: slug}
	if err := s.cfg.Store.CreateRestaurant(r.Context(), rest); err != nil {
		s.logger.Error("failed to create restaurant", "error", err, "slug", slug)
		status := http.StatusInternalServerError
		if errors.Is(err, store.ErrDuplicateID) {
			status = http.StatusConflict
		}
		writeError(w, status, "failed to create restaurant")
		return
	}

	s.logger.Info("restaurant created", "id", rest.ID, "slug", rest.Slug)
	s.writeRecord(w, http.StatusCreated, *rest)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// listAll reads every stored restaurant, page by page.
func (s *Server) listAll(ctx context.Context) ([]domain.Restaurant, error) {
	opts := store.DefaultListOptions()
	var all []domain.Restaurant
	for {
		page, err := s.cfg.Store.ListRestaurants(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < opts.Limit {
			return all, nil
		}
		opts.Offset += len(page)
	}
}

// writeRecord writes a single restaurant, wrapped in {"data": ...} under the
// data envelope.
func (s *Server) writeRecord(w http.ResponseWriter, status int, r domain.Restaurant) {
	if s.cfg.Envelope == EnvelopeData {
		writeJSON(w, status, map[string]any{"data": s.record(r)})
		return
	}
	writeJSON(w, status, s.record(r))
}

// record renders a restaurant with the configured name key.
func (s *Server) record(r domain.Restaurant) map[string]string {
	return map[string]string{
		"id":            r.ID,
		s.cfg.NameField: r.Name,
		"slug":          r.Slug,
	}
}

// =============================================================================
// Middleware
// =============================================================================

// requestIDMiddleware echoes or generates an X-Request-ID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = "req_" + uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns a 500 error.
func recoveryMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
					writeError(w, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// =============================================================================
// Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
