package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/wikinav/internal/expansion"
	"github.com/dgallion1/wikinav/internal/session"
)

const (
	sessionHeader = "X-Session-ID"
	sessionCookie = "wikinav_session"
)

// navResponse carries the projected view. The root is always open, so
// View.Children is the top level of the navigation.
type navResponse struct {
	Session string              `json:"session"`
	View    *expansion.ViewNode `json:"view"`
}

type toggleRequest struct {
	ID string `json:"id"`
}

// currentSession resolves the caller's session from the header or cookie,
// starting a new one when neither names a usable session.
func (s *Server) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if session.ValidID(id) {
		if sess, err := s.sessions.Open(r.Context(), id); err == nil {
			w.Header().Set(sessionHeader, sess.ID)
			return sess
		}
	}

	sess := s.sessions.Create(r.Context())
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sess.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(sessionHeader, sess.ID)
	return sess
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"tree": s.library.Tree()})
}

func (s *Server) handleNav(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	writeJSON(w, http.StatusOK, navResponse{Session: sess.ID, View: sess.Manager.View()})
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	id, err := expansion.ParseDirID(req.ID)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if id == expansion.RootID {
		jsonError(w, "the root directory is always open", http.StatusBadRequest)
		return
	}

	sess := s.currentSession(w, r)
	view, err := sess.Manager.Toggle(r.Context(), id)
	if errors.Is(err, expansion.ErrNotDirectory) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "toggle failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, navResponse{Session: sess.ID, View: view})
}

func (s *Server) handleExpanded(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"session":  sess.ID,
		"expanded": sess.Manager.Expanded(),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess := s.currentSession(w, r)
	view := sess.Manager.Reset(r.Context())
	writeJSON(w, http.StatusOK, navResponse{Session: sess.ID, View: view})
}
