package handler

import (
	"net/http"

	"github.com/pkordes/hos-planner/internal/domain"
)

// ListDutyStatuses handles GET /trips/{id}/duty-statuses.
func (s *Server) ListDutyStatuses(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	statuses, err := s.DutyStatuses.ListByTrip(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statuses)
}

// CreateDutyStatus handles POST /trips/{id}/duty-statuses.
func (s *Server) CreateDutyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in domain.DutyStatusInput
	if !decodeBody(w, r, &in) {
		return
	}
	created, err := s.DutyStatuses.Create(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}
