package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/timeline"
)

// TimelineResponse is the trip-details timeline of one date.
type TimelineResponse struct {
	Date     openapi_types.Date `json:"date"`
	Segments []timeline.Segment `json:"segments"`
	Totals   []timeline.Total   `json:"totals"`
}

// GenerateRequest is the body of POST /trips/{id}/eld-logs/generate.
type GenerateRequest struct {
	Date openapi_types.Date `json:"date"`
}

// ListELDLogs handles GET /trips/{id}/eld-logs.
func (s *Server) ListELDLogs(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	logs, err := s.ELDLogs.ListByTrip(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

// GenerateELDLog handles POST /trips/{id}/eld-logs/generate.
func (s *Server) GenerateELDLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req GenerateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := s.ELDLogs.Generate(r.Context(), id, req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// ViewELDLog handles GET /trips/{id}/eld-logs/view?date=YYYY-MM-DD[&miles=N].
// miles is a preview mileage used only when no log exists for the date.
func (s *Server) ViewELDLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	var miles *float64
	if !optionalQuery(w, r, "miles", &miles) {
		return
	}
	view, err := s.ELDLogs.View(r.Context(), id, date, miles)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// GetTimeline handles GET /trips/{id}/timeline?date=YYYY-MM-DD.
func (s *Server) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	segments, err := s.ELDLogs.Timeline(r.Context(), id, date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TimelineResponse{Date: date, Segments: segments, Totals: timeline.Totals(segments)})
}
