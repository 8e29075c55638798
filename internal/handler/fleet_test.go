package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/handler"
)

func TestListVehicles_200(t *testing.T) {
	fleet := &mockFleet{
		vehicles: func(_ context.Context) ([]domain.Vehicle, error) {
			return []domain.Vehicle{{ID: 4, VehicleNumber: "T-100", LicensePlate: "ABC123", State: "IN", Carrier: 1}}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet})

	rec := do(t, h, http.MethodGet, "/vehicles", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []domain.Vehicle
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "T-100", resp[0].VehicleNumber)
}

func TestCreateVehicle_403_NonAdmin(t *testing.T) {
	fleet := &mockFleet{
		createVehicle: func(_ context.Context, _ domain.VehicleInput) (domain.Vehicle, error) {
			t.Fatal("service must not be called for a non-admin")
			return domain.Vehicle{}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet})

	rec := do(t, h, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number": "T-200",
		"license_plate":  "XYZ987",
		"state":          "OH",
		"carrier":        1,
	})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Code)
}

func TestCreateVehicle_201_Admin(t *testing.T) {
	var got domain.VehicleInput
	fleet := &mockFleet{
		createVehicle: func(_ context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
			got = in
			return domain.Vehicle{ID: 9, VehicleNumber: in.VehicleNumber, LicensePlate: in.LicensePlate, State: in.State, Carrier: in.Carrier}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet, Current: &fakeCurrent{user: admin()}})

	rec := do(t, h, http.MethodPost, "/vehicles", map[string]any{
		"vehicle_number": "T-200",
		"license_plate":  "XYZ987",
		"state":          "oh",
		"carrier":        1,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "T-200", got.VehicleNumber)
}

func TestListCarriers_200(t *testing.T) {
	fleet := &mockFleet{
		carriers: func(_ context.Context) ([]domain.Carrier, error) {
			return []domain.Carrier{{ID: 1, Name: "Acme Freight", MainOfficeAddress: "1 Main St, Columbus, OH"}}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet})

	rec := do(t, h, http.MethodGet, "/carriers", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Freight")
}

func TestCreateCarrier_403_NonAdmin(t *testing.T) {
	fleet := &mockFleet{
		createCarrier: func(_ context.Context, _ domain.CarrierInput) (domain.Carrier, error) {
			t.Fatal("service must not be called for a non-admin")
			return domain.Carrier{}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet})

	rec := do(t, h, http.MethodPost, "/carriers", map[string]string{"name": "Acme", "main_office_address": "1 Main St"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeError(t, rec).Code)
}

func TestCreateCarrier_201_Admin(t *testing.T) {
	fleet := &mockFleet{
		createCarrier: func(_ context.Context, in domain.CarrierInput) (domain.Carrier, error) {
			return domain.Carrier{ID: 2, Name: in.Name, MainOfficeAddress: in.MainOfficeAddress}, nil
		},
	}
	h := newHTTPHandler(handler.Deps{Fleet: fleet, Current: &fakeCurrent{user: admin()}})

	rec := do(t, h, http.MethodPost, "/carriers", map[string]string{"name": "Acme", "main_office_address": "1 Main St, Columbus"})

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp domain.Carrier
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 2, resp.ID)
}
