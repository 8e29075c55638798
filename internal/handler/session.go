package handler

import (
	"net/http"

	"github.com/pkordes/hos-planner/internal/domain"
)

// SessionResponse describes the current session.
type SessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	IsAdmin       bool         `json:"is_admin"`
	User          *domain.User `json:"user,omitempty"`
}

func (s *Server) currentSession() SessionResponse {
	resp := SessionResponse{
		Authenticated: s.Current.IsAuthenticated(),
		IsAdmin:       s.Current.IsAdmin(),
	}
	if u, ok := s.Current.User(); ok && resp.Authenticated {
		resp.User = &u
	}
	return resp
}

// GetSession handles GET /session.
func (s *Server) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentSession())
}

// Login handles POST /session.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if !decodeBody(w, r, &creds) {
		return
	}
	if _, err := s.Sessions.Login(r.Context(), creds); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.OnSessionChange()
	writeJSON(w, http.StatusOK, s.currentSession())
}

// Register handles POST /session/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if !decodeBody(w, r, &reg) {
		return
	}
	if _, err := s.Sessions.Register(r.Context(), reg); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.OnSessionChange()
	writeJSON(w, http.StatusCreated, s.currentSession())
}

// Logout handles DELETE /session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Logout(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.OnSessionChange()
	w.WriteHeader(http.StatusNoContent)
}
