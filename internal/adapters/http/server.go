package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/exitintent"
	"github.com/aretw0/exitintent/internal/config"
	"github.com/aretw0/exitintent/internal/logging"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ActivateRequest mounts or reconfigures a remote session.
// Options is a partial option map overlaid on the defaults.
type ActivateRequest struct {
	session.Init
	Options map[string]any `json:"options,omitempty"`
}

// EventsRequest carries a batch of client events.
type EventsRequest struct {
	Events []session.Input `json:"events"`
}

// Server exposes a session.Manager over HTTP.
type Server struct {
	Manager  *session.Manager
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
	// Defaults is the base configuration request options are overlaid on.
	Defaults domain.Config
}

// HandlerOption configures the handler built by NewHandler.
type HandlerOption func(*Server)

// WithDefaults sets the base configuration for activations.
func WithDefaults(cfg domain.Config) HandlerOption {
	return func(s *Server) {
		s.Defaults = cfg
	}
}

// NewHandler creates a new HTTP handler for the session manager.
// A nil gatherer disables the /metrics route.
func NewHandler(manager *session.Manager, gatherer prometheus.Gatherer, logger *slog.Logger, opts ...HandlerOption) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{Manager: manager, Gatherer: gatherer, Logger: logger, Defaults: domain.DefaultConfig()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.List)
		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", s.Activate)
			r.Get("/", s.Status)
			r.Delete("/", s.Deactivate)
			r.Post("/events", s.Events)
		})
	})

	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": exitintent.Version,
	})
}

// List handles GET /sessions.
func (s *Server) List(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Manager.List()})
}

// Activate handles PUT /sessions/{id}.
func (s *Server) Activate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	cfg, err := config.Overlay(s.Defaults, body.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}

	status, err := s.Manager.Activate(r.Context(), id, body.Init, cfg)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// Events handles POST /sessions/{id}/events.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body EventsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	status, err := s.Manager.Dispatch(r.Context(), id, body.Events)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// Status handles GET /sessions/{id}.
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	status, err := s.Manager.Status(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, status)
}

// Deactivate handles DELETE /sessions/{id}. With ?end=true the session marker is dropped too.
func (s *Server) Deactivate(w http.ResponseWriter, r *http.Request) {
	end := r.URL.Query().Get("end") == "true"
	if err := s.Manager.Deactivate(r.Context(), chi.URLParam(r, "id"), end); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidConfig), errors.Is(err, session.ErrInvalidInput):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		s.Logger.Error("request failed", "err", err)
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Warn("encode error", "err", err)
	}
}
