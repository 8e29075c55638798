package handler

import (
	"net/http"

	"github.com/pkordes/hos-planner/internal/domain"
)

// ListVehicles handles GET /vehicles.
func (s *Server) ListVehicles(w http.ResponseWriter, r *http.Request) {
	vs, err := s.Fleet.Vehicles(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vs)
}

// CreateVehicle handles POST /vehicles.
func (s *Server) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in domain.VehicleInput
	if !decodeBody(w, r, &in) {
		return
	}
	v, err := s.Fleet.CreateVehicle(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// ListCarriers handles GET /carriers.
func (s *Server) ListCarriers(w http.ResponseWriter, r *http.Request) {
	cs, err := s.Fleet.Carriers(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// CreateCarrier handles POST /carriers. Admin only.
func (s *Server) CreateCarrier(w http.ResponseWriter, r *http.Request) {
	var in domain.CarrierInput
	if !decodeBody(w, r, &in) {
		return
	}
	c, err := s.Fleet.CreateCarrier(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}
