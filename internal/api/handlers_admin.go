package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/wikinav/internal/navtree"
	"github.com/dgallion1/wikinav/internal/session"
	"github.com/go-chi/chi/v5"
)

// handleReload rebuilds the tree from the content directory. Subscribed
// session managers pick up the new tree.
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.library.Load(r.Context()); err != nil {
		var malformed *navtree.MalformedPathError
		if errors.As(err, &malformed) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, "reload failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "reloaded",
		"pages":  len(s.library.Records()),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"live": s.sessions.Count()}
	persisted, err := s.sessions.Persisted(r.Context())
	if err != nil {
		s.log.Warn("listing persisted sessions failed", "error", err)
		resp["persisted_error"] = err.Error()
	} else if persisted != nil {
		resp["persisted"] = persisted
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if !session.ValidID(id) {
		jsonError(w, "invalid session id", http.StatusBadRequest)
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStateStats(w http.ResponseWriter, r *http.Request) {
	if s.stats == nil {
		jsonError(w, "state stats unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.stats.Stats())
}
