package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/handler"
)

func TestListDutyStatuses_200(t *testing.T) {
	duty := &mockDuty{
		list: func(_ context.Context, tripID int) ([]domain.DutyStatus, error) {
			return []domain.DutyStatus{{ID: 1, Trip: tripID, Status: domain.OffDuty}}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{DutyStatuses: duty})

	rec := do(t, h, http.MethodGet, "/trips/5/duty-statuses", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.DutyStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, domain.OffDuty, resp[0].Status)
}

func TestCreateDutyStatus_201(t *testing.T) {
	var (
		gotTrip int
		got     domain.DutyStatusInput
	)
	duty := &mockDuty{
		create: func(_ context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error) {
			gotTrip, got = tripID, in
			return domain.DutyStatus{ID: 12, Trip: tripID, Status: in.Status, StartTime: in.StartTime, EndTime: in.EndTime}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{DutyStatuses: duty})

	rec := do(t, h, http.MethodPost, "/trips/5/duty-statuses", map[string]any{
		"status":               "DRIVING",
		"start_time":           "2025-03-10T08:00:00Z",
		"end_time":             "2025-03-10T11:30:00Z",
		"location":             []float64{-86.1, 39.7},
		"location_description": "Indianapolis, IN",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 5, gotTrip)
	assert.Equal(t, domain.Driving, got.Status)
	assert.Equal(t, 3*time.Hour+30*time.Minute, got.EndTime.Sub(got.StartTime))
}

func TestCreateDutyStatus_422(t *testing.T) {
	duty := &mockDuty{
		create: func(_ context.Context, _ int, _ domain.DutyStatusInput) (domain.DutyStatus, error) {
			return domain.DutyStatus{}, fmt.Errorf("service.DutyStatusService.Create: %w: end_time must be after start_time", domain.ErrValidation)
		},
	}
	h := newHTTPHandler(handler.Deps{DutyStatuses: duty})

	rec := do(t, h, http.MethodPost, "/trips/5/duty-statuses", map[string]any{"status": "DRIVING"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "end_time must be after start_time", decodeError(t, rec).Message)
}
