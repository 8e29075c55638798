package service

import (
	"context"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/domain"
)

// The interfaces below are the slices of *apiclient.Client each service uses.
// Declaring them here lets the services be tested with hand-written doubles.

// TripAPI is the remote trips resource.
type TripAPI interface {
	ListTrips(ctx context.Context, params domain.TripListParams) ([]domain.Trip, error)
	GetTrip(ctx context.Context, id int) (domain.Trip, error)
	CreateTrip(ctx context.Context, in domain.TripInput) (domain.Trip, error)
	UpdateTrip(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id int) error
	CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error)
}

// DutyStatusAPI is the remote duty-status resource of a trip.
type DutyStatusAPI interface {
	ListDutyStatuses(ctx context.Context, tripID int) ([]domain.DutyStatus, error)
	CreateDutyStatus(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error)
}

// ELDLogAPI is the remote ELD log resource of a trip.
type ELDLogAPI interface {
	ListELDLogs(ctx context.Context, tripID int) ([]domain.ELDLog, error)
	GenerateELDLog(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error)
}

// FleetAPI is the remote vehicles and carriers resources.
type FleetAPI interface {
	ListVehicles(ctx context.Context) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error)
	ListCarriers(ctx context.Context) ([]domain.Carrier, error)
	CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error)
}
