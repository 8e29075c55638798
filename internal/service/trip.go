// Package service contains the client-side business logic of the HOS trip
// planner. Services validate inputs, serve reads through the entity caches,
// and invalidate the affected collections after every successful mutation.
// No HTTP lives here; services depend on API interfaces, not on the client.
package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hos-planner/internal/domain"
)

// TripService implements trip reads and mutations.
type TripService struct {
	api    TripAPI
	caches *Caches
}

// NewTripService constructs a TripService.
func NewTripService(api TripAPI, caches *Caches) *TripService {
	return &TripService{api: api, caches: caches}
}

// List returns the trips matching params, cached per distinct params.
func (s *TripService) List(ctx context.Context, params domain.TripListParams) ([]domain.Trip, error) {
	if params.Status != "" && !params.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown trip status %q", domain.ErrValidation, params.Status)
	}
	trips, err := s.caches.Trips.Get(ctx, params.Key(), func(ctx context.Context) ([]domain.Trip, error) {
		return s.api.ListTrips(ctx, params)
	})
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	return trips, nil
}

// Get returns one trip.
func (s *TripService) Get(ctx context.Context, id int) (domain.Trip, error) {
	if id <= 0 {
		return domain.Trip{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	trip, err := s.caches.Trip.Get(ctx, idKey(id), func(ctx context.Context) (domain.Trip, error) {
		return s.api.GetTrip(ctx, id)
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// Summary returns the dashboard counters over every trip.
func (s *TripService) Summary(ctx context.Context) (domain.TripSummary, error) {
	trips, err := s.List(ctx, domain.TripListParams{})
	if err != nil {
		return domain.TripSummary{}, err
	}
	return domain.SummarizeTrips(trips), nil
}

// Search lists all trips and applies the dashboard filter client-side.
func (s *TripService) Search(ctx context.Context, f domain.TripFilter) ([]domain.Trip, error) {
	trips, err := s.List(ctx, domain.TripListParams{})
	if err != nil {
		return nil, err
	}
	return domain.FilterTrips(trips, f), nil
}

// Create validates and creates a trip, then invalidates the trips list.
func (s *TripService) Create(ctx context.Context, in domain.TripInput) (domain.Trip, error) {
	if err := validateTripInput(in); err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.api.CreateTrip(ctx, in)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	s.caches.Trips.InvalidateAll()
	s.caches.Trip.Set(idKey(trip.ID), trip)
	return trip, nil
}

// Update applies a partial update. The trips list is invalidated and the
// returned trip replaces the cached single trip.
func (s *TripService) Update(ctx context.Context, id int, upd domain.TripUpdate) (domain.Trip, error) {
	if id <= 0 {
		return domain.Trip{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	if err := validateTripUpdate(upd); err != nil {
		return domain.Trip{}, err
	}
	trip, err := s.api.UpdateTrip(ctx, id, upd)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	s.caches.Trips.InvalidateAll()
	s.caches.Trip.Set(idKey(id), trip)
	return trip, nil
}

// SetStatus moves a trip to status, e.g. PLANNED to IN_PROGRESS when the
// driver starts it. Whether the transition is allowed is up to the server.
func (s *TripService) SetStatus(ctx context.Context, id int, status domain.TripStatus) (domain.Trip, error) {
	return s.Update(ctx, id, domain.TripUpdate{Status: &status})
}

// Delete removes a trip and drops everything cached for it.
func (s *TripService) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	if err := s.api.DeleteTrip(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	key := idKey(id)
	s.caches.Trips.InvalidateAll()
	s.caches.Trip.Invalidate(key)
	s.caches.DutyStatuses.Invalidate(key)
	s.caches.ELDLogs.Invalidate(key)
	return nil
}

// CalculateRoute asks the server for the HOS-compliant plan. The server
// stores the planned duty statuses, so the trip's duty statuses are
// invalidated.
func (s *TripService) CalculateRoute(ctx context.Context, id int) (domain.RouteResponse, error) {
	if id <= 0 {
		return domain.RouteResponse{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	route, err := s.api.CalculateRoute(ctx, id)
	if err != nil {
		return domain.RouteResponse{}, fmt.Errorf("service.TripService.CalculateRoute: %w", err)
	}
	s.caches.DutyStatuses.Invalidate(idKey(id))
	return route, nil
}

// ---- validation ----

func validateTripInput(in domain.TripInput) error {
	if in.Vehicle <= 0 {
		return fmt.Errorf("%w: vehicle is required", domain.ErrValidation)
	}
	for name, p := range map[string]domain.GeoPoint{
		"current_location": in.CurrentLocation,
		"pickup_location":  in.PickupLocation,
		"dropoff_location": in.DropoffLocation,
	} {
		if !p.Valid() {
			return fmt.Errorf("%w: %s is not a valid coordinate", domain.ErrValidation, name)
		}
	}
	if err := validateCycleHours(in.CurrentCycleHours); err != nil {
		return err
	}
	if in.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", domain.ErrValidation)
	}
	if in.Status != "" && !in.Status.Valid() {
		return fmt.Errorf("%w: unknown trip status %q", domain.ErrValidation, in.Status)
	}
	return nil
}

func validateTripUpdate(upd domain.TripUpdate) error {
	if upd.Status == nil && upd.CurrentCycleHours == nil && upd.StartTime == nil && upd.Vehicle == nil {
		return fmt.Errorf("%w: nothing to update", domain.ErrValidation)
	}
	if upd.Status != nil && !upd.Status.Valid() {
		return fmt.Errorf("%w: unknown trip status %q", domain.ErrValidation, *upd.Status)
	}
	if upd.CurrentCycleHours != nil {
		if err := validateCycleHours(*upd.CurrentCycleHours); err != nil {
			return err
		}
	}
	if upd.StartTime != nil && upd.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time must not be empty", domain.ErrValidation)
	}
	if upd.Vehicle != nil && *upd.Vehicle <= 0 {
		return fmt.Errorf("%w: vehicle must be positive", domain.ErrValidation)
	}
	return nil
}

func validateCycleHours(h float64) error {
	if h < 0 || h > domain.MaxCycleHours {
		return fmt.Errorf("%w: current_cycle_hours must be between 0 and %d", domain.ErrValidation, domain.MaxCycleHours)
	}
	return nil
}
