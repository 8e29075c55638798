package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/handler"
)

// ---- session guard ---------------------------------------------------------

func TestTrips_401_WithoutSession(t *testing.T) {
	trips := &mockTrips{
		list: func(_ context.Context, _ domain.TripListParams) ([]domain.Trip, error) {
			t.Fatal("service must not be called without a session")
			return nil, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips, Current: &fakeCurrent{}})

	rec := do(t, h, http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not_authenticated", decodeError(t, rec).Code)
}

// ---- GET /trips ------------------------------------------------------------

func TestListTrips_200(t *testing.T) {
	var got domain.TripListParams
	trips := &mockTrips{
		list: func(_ context.Context, p domain.TripListParams) ([]domain.Trip, error) {
			got = p
			return []domain.Trip{tripFixture(1), tripFixture(2)}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips?status=PLANNED&limit=10", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TripPlanned, got.Status)
	assert.Equal(t, 10, got.Limit)
	var resp []domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2)
}

func TestListTrips_200_Empty(t *testing.T) {
	trips := &mockTrips{
		list: func(_ context.Context, _ domain.TripListParams) ([]domain.Trip, error) {
			return []domain.Trip{}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Must be a JSON array, not null.
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListTrips_SearchUsesFilter(t *testing.T) {
	var got domain.TripFilter
	trips := &mockTrips{
		search: func(_ context.Context, f domain.TripFilter) ([]domain.Trip, error) {
			got = f
			return []domain.Trip{tripFixture(3)}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips?search=indiana&vehicle=4&status=IN_PROGRESS", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.TripFilter{Search: "indiana", VehicleID: 4, Status: domain.TripInProgress}, got)
}

func TestListTrips_400_BadLimit(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{}})

	rec := do(t, h, http.MethodGet, "/trips?limit=lots", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "limit")
}

func TestListTrips_401_SessionExpired(t *testing.T) {
	trips := &mockTrips{
		list: func(_ context.Context, _ domain.TripListParams) ([]domain.Trip, error) {
			return nil, fmt.Errorf("service.TripService.List: %w", domain.ErrSessionExpired)
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session_expired", decodeError(t, rec).Code)
}

// ---- GET /trips/summary ----------------------------------------------------

func TestGetTripSummary_200(t *testing.T) {
	trips := &mockTrips{
		summary: func(_ context.Context) (domain.TripSummary, error) {
			return domain.TripSummary{Total: 3, Planned: 1, InProgress: 1, Completed: 1, AverageCycleHours: 20}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips/summary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.TripSummary
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Total)
	assert.InDelta(t, 20, resp.AverageCycleHours, 0.001)
}

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	var got domain.TripInput
	trips := &mockTrips{
		create: func(_ context.Context, in domain.TripInput) (domain.Trip, error) {
			got = in
			return tripFixture(11), nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{
		"vehicle":                4,
		"current_location_input": []float64{-87.6, 41.8},
		"pickup_location_input":  []float64{-86.1, 39.7},
		"dropoff_location_input": []float64{-84.5, 39.1},
		"current_cycle_hours":    12.5,
		"start_time":             "2025-03-10T08:00:00Z",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 4, got.Vehicle)
	assert.InDelta(t, 41.8, got.CurrentLocation.Lat, 0.0001)
	var resp domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 11, resp.ID)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	trips := &mockTrips{
		create: func(_ context.Context, _ domain.TripInput) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w: vehicle is required", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{"current_cycle_hours": 3})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	e := decodeError(t, rec)
	assert.Equal(t, "validation_error", e.Code)
	assert.Equal(t, "vehicle is required", e.Message)
}

func TestCreateTrip_413_BodyTooLarge(t *testing.T) {
	trips := &mockTrips{}
	inner := newHTTPHandler(handler.Deps{Trips: trips})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 16)
		inner.ServeHTTP(w, r)
	})

	rec := do(t, h, http.MethodPost, "/trips", map[string]any{"pickup_location_name": "a very long place name indeed"})

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeError(t, rec).Code)
}

// ---- GET /trips/{id} -------------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	trips := &mockTrips{
		get: func(_ context.Context, id int) (domain.Trip, error) {
			return tripFixture(id), nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips/42", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 42, resp.ID)
	assert.Equal(t, "Indianapolis, IN", resp.PickupLocationName)
}

func TestGetTrip_404(t *testing.T) {
	trips := &mockTrips{
		get: func(_ context.Context, _ int) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", domain.ErrNotFound)
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodGet, "/trips/99", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Code)
}

func TestGetTrip_400_InvalidID(t *testing.T) {
	h := newHTTPHandler(handler.Deps{Trips: &mockTrips{}})

	rec := do(t, h, http.MethodGet, "/trips/not-a-number", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decodeError(t, rec).Code)
}

// ---- PATCH /trips/{id} -----------------------------------------------------

func TestUpdateTrip_200(t *testing.T) {
	var got domain.TripUpdate
	trips := &mockTrips{
		update: func(_ context.Context, id int, upd domain.TripUpdate) (domain.Trip, error) {
			got = upd
			trip := tripFixture(id)
			trip.Status = *upd.Status
			return trip, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodPatch, "/trips/7", map[string]string{"status": "IN_PROGRESS"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got.Status)
	assert.Equal(t, domain.TripInProgress, *got.Status)
	assert.Nil(t, got.CurrentCycleHours)
	var resp domain.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, domain.TripInProgress, resp.Status)
}

func TestUpdateTrip_422_UpstreamConflict(t *testing.T) {
	trips := &mockTrips{
		update: func(_ context.Context, _ int, _ domain.TripUpdate) (domain.Trip, error) {
			return domain.Trip{}, &domain.APIError{Status: http.StatusConflict, Message: "trip already completed"}
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodPatch, "/trips/7", map[string]string{"status": "PLANNED"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "trip already completed", decodeError(t, rec).Message)
}

// ---- DELETE /trips/{id} ----------------------------------------------------

func TestDeleteTrip_204(t *testing.T) {
	var deleted int
	trips := &mockTrips{
		delete: func(_ context.Context, id int) error {
			deleted = id
			return nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodDelete, "/trips/5", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 5, deleted)
}

func TestDeleteTrip_502_UpstreamDown(t *testing.T) {
	trips := &mockTrips{
		delete: func(_ context.Context, _ int) error {
			return &domain.APIError{Message: "dial tcp: connection refused"}
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodDelete, "/trips/5", nil)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "upstream_unavailable", decodeError(t, rec).Code)
}

// ---- POST /trips/{id}/route ------------------------------------------------

func TestCalculateRoute_200(t *testing.T) {
	trips := &mockTrips{
		calculateRoute: func(_ context.Context, id int) (domain.RouteResponse, error) {
			return domain.RouteResponse{TotalMiles: 412.7, DutyStatuses: []domain.DutyStatus{}}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Trips: trips})

	rec := do(t, h, http.MethodPost, "/trips/5/route", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.RouteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.InDelta(t, 412.7, resp.TotalMiles, 0.001)
}
