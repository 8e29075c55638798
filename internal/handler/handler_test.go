package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/handler"
	"github.com/pkordes/hos-planner/internal/service"
	"github.com/pkordes/hos-planner/internal/timeline"
)

// Test doubles for the handler's consumer interfaces.
// Set only the method fields your test needs; an unset field answers with
// errUnexpectedCall, which the server maps to 500.

var errUnexpectedCall = errors.New("unexpected call to unset mock method")

type mockSessions struct {
	login    func(ctx context.Context, creds domain.Credentials) (domain.User, error)
	register func(ctx context.Context, reg domain.Registration) (domain.User, error)
	logout   func(ctx context.Context) error
}

func (m *mockSessions) Login(ctx context.Context, c domain.Credentials) (domain.User, error) {
	if m.login == nil {
		return domain.User{}, errUnexpectedCall
	}
	return m.login(ctx, c)
}
func (m *mockSessions) Register(ctx context.Context, r domain.Registration) (domain.User, error) {
	if m.register == nil {
		return domain.User{}, errUnexpectedCall
	}
	return m.register(ctx, r)
}
func (m *mockSessions) Logout(ctx context.Context) error {
	if m.logout == nil {
		return errUnexpectedCall
	}
	return m.logout(ctx)
}

// fakeCurrent is a settable session.
type fakeCurrent struct {
	user *domain.User
}

func (f *fakeCurrent) IsAuthenticated() bool { return f.user != nil }
func (f *fakeCurrent) IsAdmin() bool         { return f.user != nil && f.user.IsAdmin }
func (f *fakeCurrent) User() (domain.User, bool) {
	if f.user == nil {
		return domain.User{}, false
	}
	return *f.user, true
}

type mockTrips struct {
	list           func(ctx context.Context, p domain.TripListParams) ([]domain.Trip, error)
	search         func(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	summary        func(ctx context.Context) (domain.TripSummary, error)
	get            func(ctx context.Context, id int) (domain.Trip, error)
	create         func(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	update         func(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error)
	delete         func(ctx context.Context, id int) error
	calculateRoute func(ctx context.Context, id int) (domain.RouteResponse, error)
}

func (m *mockTrips) List(ctx context.Context, p domain.TripListParams) ([]domain.Trip, error) {
	if m.list == nil {
		return nil, errUnexpectedCall
	}
	return m.list(ctx, p)
}
func (m *mockTrips) Search(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	if m.search == nil {
		return nil, errUnexpectedCall
	}
	return m.search(ctx, f)
}
func (m *mockTrips) Summary(ctx context.Context) (domain.TripSummary, error) {
	if m.summary == nil {
		return domain.TripSummary{}, errUnexpectedCall
	}
	return m.summary(ctx)
}
func (m *mockTrips) Get(ctx context.Context, id int) (domain.Trip, error) {
	if m.get == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.get(ctx, id)
}
func (m *mockTrips) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	if m.create == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.create(ctx, in)
}
func (m *mockTrips) Update(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error) {
	if m.update == nil {
		return domain.Trip{}, errUnexpectedCall
	}
	return m.update(ctx, id, upd)
}
func (m *mockTrips) Delete(ctx context.Context, id int) error {
	if m.delete == nil {
		return errUnexpectedCall
	}
	return m.delete(ctx, id)
}
func (m *mockTrips) CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error) {
	if m.calculateRoute == nil {
		return domain.RouteResponse{}, errUnexpectedCall
	}
	return m.calculateRoute(ctx, id)
}

type mockDuty struct {
	list   func(ctx context.Context, tripID int) ([]domain.DutyStatus, error)
	create func(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error)
}

func (m *mockDuty) ListByTrip(ctx context.Context, tripID int) ([]domain.DutyStatus, error) {
	if m.list == nil {
		return nil, errUnexpectedCall
	}
	return m.list(ctx, tripID)
}
func (m *mockDuty) Create(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error) {
	if m.create == nil {
		return domain.DutyStatus{}, errUnexpectedCall
	}
	return m.create(ctx, tripID, in)
}

type mockLogs struct {
	list     func(ctx context.Context, tripID int) ([]domain.ELDLog, error)
	generate func(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error)
	view     func(ctx context.Context, tripID int, date openapi_types.Date, miles *float64) (service.LogView, error)
	timeline func(ctx context.Context, tripID int, date openapi_types.Date) ([]timeline.Segment, error)
}

func (m *mockLogs) ListByTrip(ctx context.Context, tripID int) ([]domain.ELDLog, error) {
	if m.list == nil {
		return nil, errUnexpectedCall
	}
	return m.list(ctx, tripID)
}
func (m *mockLogs) Generate(ctx context.Context, tripID int, d openapi_types.Date) (domain.GenerateResult, error) {
	if m.generate == nil {
		return domain.GenerateResult{}, errUnexpectedCall
	}
	return m.generate(ctx, tripID, d)
}
func (m *mockLogs) View(ctx context.Context, tripID int, d openapi_types.Date, miles *float64) (service.LogView, error) {
	if m.view == nil {
		return service.LogView{}, errUnexpectedCall
	}
	return m.view(ctx, tripID, d, miles)
}
func (m *mockLogs) Timeline(ctx context.Context, tripID int, d openapi_types.Date) ([]timeline.Segment, error) {
	if m.timeline == nil {
		return nil, errUnexpectedCall
	}
	return m.timeline(ctx, tripID, d)
}

type mockFleet struct {
	vehicles      func(ctx context.Context) ([]domain.Vehicle, error)
	carriers      func(ctx context.Context) ([]domain.Carrier, error)
	createVehicle func(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)
	createCarrier func(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error)
}

func (m *mockFleet) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	if m.vehicles == nil {
		return nil, errUnexpectedCall
	}
	return m.vehicles(ctx)
}
func (m *mockFleet) Carriers(ctx context.Context) ([]domain.Carrier, error) {
	if m.carriers == nil {
		return nil, errUnexpectedCall
	}
	return m.carriers(ctx)
}
func (m *mockFleet) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	if m.createVehicle == nil {
		return domain.Vehicle{}, errUnexpectedCall
	}
	return m.createVehicle(ctx, in)
}
func (m *mockFleet) CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error) {
	if m.createCarrier == nil {
		return domain.Carrier{}, errUnexpectedCall
	}
	return m.createCarrier(ctx, in)
}

// compile-time checks.
var (
	_ handler.SessionServicer    = (*mockSessions)(nil)
	_ handler.SessionReader      = (*fakeCurrent)(nil)
	_ handler.TripServicer       = (*mockTrips)(nil)
	_ handler.DutyStatusServicer = (*mockDuty)(nil)
	_ handler.ELDLogServicer     = (*mockLogs)(nil)
	_ handler.FleetServicer      = (*mockFleet)(nil)
)

// ---- helpers ---------------------------------------------------------------

func driver() *domain.User {
	return &domain.User{ID: 5, Username: "dana", Email: "dana@example.com"}
}

func admin() *domain.User {
	return &domain.User{ID: 1, Username: "ops", Email: "ops@example.com", IsAdmin: true}
}

// newHTTPHandler wires a Server with the given deps, logged in as a driver
// unless d.Current is set.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Current == nil {
		d.Current = &fakeCurrent{user: driver()}
	}
	d.Logger = discardLogger()
	return handler.NewServer(d).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, target, rdr)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var body handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error
}

func tripFixture(id int) domain.Trip {
	return domain.Trip{
		ID:                 id,
		PickupLocation:     domain.GeoPoint{Lon: -86.1, Lat: 39.7},
		PickupLocationName: "Indianapolis, IN",
		CurrentCycleHours:  12.5,
		StartTime:          time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		Status:             domain.TripPlanned,
	}
}
