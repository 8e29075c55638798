package handler

import (
	"net/http"

	"github.com/pkordes/hos-planner/internal/domain"
)

// ListTrips handles GET /trips.
// Supports ?status=, ?limit= and ?offset= (passed to the HOS API) and
// ?search= and ?vehicle= (dashboard filter, applied over all trips).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var (
		status, search *string
		limit, offset  *int
		vehicle        *int
	)
	if !optionalQuery(w, r, "status", &status) ||
		!optionalQuery(w, r, "limit", &limit) ||
		!optionalQuery(w, r, "offset", &offset) ||
		!optionalQuery(w, r, "search", &search) ||
		!optionalQuery(w, r, "vehicle", &vehicle) {
		return
	}

	params := domain.NewTripListParams(status, limit, offset)

	var (
		trips []domain.Trip
		err   error
	)
	if search != nil || vehicle != nil {
		f := domain.TripFilter{Status: params.Status}
		if search != nil {
			f.Search = *search
		}
		if vehicle != nil {
			f.VehicleID = *vehicle
		}
		trips, err = s.Trips.Search(r.Context(), f)
	} else {
		trips, err = s.Trips.List(r.Context(), params)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trips)
}

// GetTripSummary handles GET /trips/summary.
func (s *Server) GetTripSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.Trips.Summary(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var in domain.TripInput
	if !decodeBody(w, r, &in) {
		return
	}
	created, err := s.Trips.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetTrip handles GET /trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	trip, err := s.Trips.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}

// UpdateTrip handles PATCH /trips/{id}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd domain.TripUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	updated, err := s.Trips.Update(r.Context(), id, upd)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTrip handles DELETE /trips/{id}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.Trips.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CalculateRoute handles POST /trips/{id}/route.
func (s *Server) CalculateRoute(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	route, err := s.Trips.CalculateRoute(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, route)
}
