package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/dgallion1/wikinav/internal/config"
	"github.com/dgallion1/wikinav/internal/content"
	"github.com/dgallion1/wikinav/internal/session"
	"github.com/dgallion1/wikinav/internal/statestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for wikinav.
type Server struct {
	router   chi.Router
	library  *content.Library
	sessions *session.Registry
	stats    *statestore.Instrumented
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server.
// stats may be nil when the state backend is not instrumented.
func NewServer(library *content.Library, sessions *session.Registry, stats *statestore.Instrumented, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		library:  library,
		sessions: sessions,
		stats:    stats,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Get("/api/tree", s.handleTree)
	r.Get("/api/nav", s.handleNav)
	r.Post("/api/nav/toggle", s.handleToggle)
	r.Get("/api/nav/expanded", s.handleExpanded)
	r.Post("/api/nav/reset", s.handleReset)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.WikinavAPIKey, s.log))

		r.Post("/api/reload", s.handleReload)
		r.Get("/api/sessions", s.handleListSessions)
		r.Delete("/api/sessions/{sessionID}", s.handleDeleteSession)
		r.Get("/api/stats/state", s.handleStateStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
