package service_test

import (
	"context"
	"sync"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/cache"
	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which doubles as an
// assertion that the network was not touched.

type mockTripAPI struct {
	listTrips      func(ctx context.Context, params domain.TripListParams) ([]domain.Trip, error)
	getTrip        func(ctx context.Context, id int) (domain.Trip, error)
	createTrip     func(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	updateTrip     func(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error)
	deleteTrip     func(ctx context.Context, id int) error
	calculateRoute func(ctx context.Context, id int) (domain.RouteResponse, error)
}

func (m *mockTripAPI) ListTrips(ctx context.Context, p domain.TripListParams) ([]domain.Trip, error) {
	return m.listTrips(ctx, p)
}
func (m *mockTripAPI) GetTrip(ctx context.Context, id int) (domain.Trip, error) {
	return m.getTrip(ctx, id)
}
func (m *mockTripAPI) CreateTrip(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	return m.createTrip(ctx, in)
}
func (m *mockTripAPI) UpdateTrip(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error) {
	return m.updateTrip(ctx, id, upd)
}
func (m *mockTripAPI) DeleteTrip(ctx context.Context, id int) error {
	return m.deleteTrip(ctx, id)
}
func (m *mockTripAPI) CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error) {
	return m.calculateRoute(ctx, id)
}

type mockDutyAPI struct {
	list   func(ctx context.Context, tripID int) ([]domain.DutyStatus, error)
	create func(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error)
}

func (m *mockDutyAPI) ListDutyStatuses(ctx context.Context, tripID int) ([]domain.DutyStatus, error) {
	return m.list(ctx, tripID)
}
func (m *mockDutyAPI) CreateDutyStatus(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error) {
	return m.create(ctx, tripID, in)
}

type mockELDAPI struct {
	list     func(ctx context.Context, tripID int) ([]domain.ELDLog, error)
	generate func(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error)
}

func (m *mockELDAPI) ListELDLogs(ctx context.Context, tripID int) ([]domain.ELDLog, error) {
	return m.list(ctx, tripID)
}
func (m *mockELDAPI) GenerateELDLog(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error) {
	return m.generate(ctx, tripID, date)
}

type mockFleetAPI struct {
	listVehicles  func(ctx context.Context) ([]domain.Vehicle, error)
	createVehicle func(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)
	listCarriers  func(ctx context.Context) ([]domain.Carrier, error)
	createCarrier func(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error)
}

func (m *mockFleetAPI) ListVehicles(ctx context.Context) ([]domain.Vehicle, error) {
	return m.listVehicles(ctx)
}
func (m *mockFleetAPI) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	return m.createVehicle(ctx, in)
}
func (m *mockFleetAPI) ListCarriers(ctx context.Context) ([]domain.Carrier, error) {
	return m.listCarriers(ctx)
}
func (m *mockFleetAPI) CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error) {
	return m.createCarrier(ctx, in)
}

// compile-time checks.
var (
	_ service.TripAPI       = (*mockTripAPI)(nil)
	_ service.DutyStatusAPI = (*mockDutyAPI)(nil)
	_ service.ELDLogAPI     = (*mockELDAPI)(nil)
	_ service.FleetAPI      = (*mockFleetAPI)(nil)
)

// ---- helpers ---------------------------------------------------------------

// counter counts calls per name.
type counter struct {
	mu sync.Mutex
	n  map[string]int
}

func newCounter() *counter { return &counter{n: map[string]int{}} }

func (c *counter) inc(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n[name]++
}

func (c *counter) get(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n[name]
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCaches() (*service.Caches, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return service.NewCaches(service.DefaultTTLs(), cache.WithClock(clock.Now)), clock
}

func trip(id int, status domain.TripStatus) domain.Trip {
	return domain.Trip{
		ID:                id,
		Status:            status,
		CurrentCycleHours: 10,
		StartTime:         time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func duty(id, tripID int, kind domain.DutyStatusKind, start, end time.Time) domain.DutyStatus {
	return domain.DutyStatus{ID: id, Trip: tripID, Status: kind, StartTime: start, EndTime: end}
}

func date(s string) openapi_types.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}
