// Package handler implements the HTTP handlers of the companion server.
// All handlers are methods on Server. Routes are mounted on a chi router by
// Handler; cross-cutting middleware (request id, logging, CORS, body limits)
// is applied by the caller in main.go.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/middleware"
	"github.com/pkordes/hos-planner/internal/service"
	"github.com/pkordes/hos-planner/internal/timeline"
)

// SessionServicer is the login/logout surface the session handlers use.
type SessionServicer interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (domain.User, error)
	Logout(ctx context.Context) error
}

// SessionReader exposes the current session. *session.Store satisfies it.
type SessionReader interface {
	middleware.SessionChecker
	User() (domain.User, bool)
}

// TripServicer defines the trip operations the handlers depend on.
type TripServicer interface {
	List(ctx context.Context, params domain.TripListParams) ([]domain.Trip, error)
	Search(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error)
	Summary(ctx context.Context) (domain.TripSummary, error)
	Get(ctx context.Context, id int) (domain.Trip, error)
	Create(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	Update(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error)
	Delete(ctx context.Context, id int) error
	CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error)
}

// DutyStatusServicer defines the duty-status operations the handlers depend on.
type DutyStatusServicer interface {
	ListByTrip(ctx context.Context, tripID int) ([]domain.DutyStatus, error)
	Create(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error)
}

// ELDLogServicer defines the ELD log operations the handlers depend on.
type ELDLogServicer interface {
	ListByTrip(ctx context.Context, tripID int) ([]domain.ELDLog, error)
	Generate(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error)
	View(ctx context.Context, tripID int, date openapi_types.Date, previewMiles *float64) (service.LogView, error)
	Timeline(ctx context.Context, tripID int, date openapi_types.Date) ([]timeline.Segment, error)
}

// FleetServicer defines the vehicle and carrier operations the handlers depend on.
type FleetServicer interface {
	Vehicles(ctx context.Context) ([]domain.Vehicle, error)
	Carriers(ctx context.Context) ([]domain.Carrier, error)
	CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)
	CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error)
}

// Deps are the Server's collaborators. OnSessionChange, when set, runs after
// every successful login, registration and logout; main.go uses it to drop
// the previous user's cached data.
type Deps struct {
	Sessions        SessionServicer
	Current         SessionReader
	Trips           TripServicer
	DutyStatuses    DutyStatusServicer
	ELDLogs         ELDLogServicer
	Fleet           FleetServicer
	OnSessionChange func()
	Logger          *slog.Logger
}

// Server holds the dependencies shared by every handler.
type Server struct {
	Deps
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.OnSessionChange == nil {
		d.OnSessionChange = func() {}
	}
	return &Server{Deps: d}
}

// Handler returns the router serving every endpoint.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/session", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Post("/", s.Login)
		r.Post("/register", s.Register)
		r.Delete("/", s.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(s.Current))

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/summary", s.GetTripSummary)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Patch("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Post("/route", s.CalculateRoute)
				r.Get("/duty-statuses", s.ListDutyStatuses)
				r.Post("/duty-statuses", s.CreateDutyStatus)
				r.Get("/timeline", s.GetTimeline)
				r.Get("/eld-logs", s.ListELDLogs)
				r.Post("/eld-logs/generate", s.GenerateELDLog)
				r.Get("/eld-logs/view", s.ViewELDLog)
			})
		})

		r.Get("/vehicles", s.ListVehicles)
		r.Get("/carriers", s.ListCarriers)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(s.Current))
			r.Post("/vehicles", s.CreateVehicle)
			r.Post("/carriers", s.CreateCarrier)
		})
	})

	return r
}
