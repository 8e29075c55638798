package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkordes/hos-planner/internal/domain"
)

// FleetService implements vehicle and carrier reads and creation.
type FleetService struct {
	api    FleetAPI
	caches *Caches
}

// NewFleetService constructs a FleetService.
func NewFleetService(api FleetAPI, caches *Caches) *FleetService {
	return &FleetService{api: api, caches: caches}
}

// Vehicles returns the vehicles visible to the user.
func (s *FleetService) Vehicles(ctx context.Context) ([]domain.Vehicle, error) {
	vs, err := s.caches.Vehicles.Get(ctx, allKey, s.api.ListVehicles)
	if err != nil {
		return nil, fmt.Errorf("service.FleetService.Vehicles: %w", err)
	}
	return vs, nil
}

// Carriers returns the carriers visible to the user.
func (s *FleetService) Carriers(ctx context.Context) ([]domain.Carrier, error) {
	cs, err := s.caches.Carriers.Get(ctx, allKey, s.api.ListCarriers)
	if err != nil {
		return nil, fmt.Errorf("service.FleetService.Carriers: %w", err)
	}
	return cs, nil
}

var statePattern = regexp.MustCompile(`^[A-Z]{2}$`)

// CreateVehicle validates and registers a vehicle, then invalidates the
// vehicles list. The state is normalized to upper case.
func (s *FleetService) CreateVehicle(ctx context.Context, in domain.VehicleInput) (domain.Vehicle, error) {
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	in.LicensePlate = strings.TrimSpace(in.LicensePlate)
	in.State = strings.ToUpper(strings.TrimSpace(in.State))
	switch {
	case in.VehicleNumber == "":
		return domain.Vehicle{}, fmt.Errorf("%w: vehicle_number is required", domain.ErrValidation)
	case in.LicensePlate == "":
		return domain.Vehicle{}, fmt.Errorf("%w: license_plate is required", domain.ErrValidation)
	case !statePattern.MatchString(in.State):
		return domain.Vehicle{}, fmt.Errorf("%w: state must be a two-letter code", domain.ErrValidation)
	case in.Carrier <= 0:
		return domain.Vehicle{}, fmt.Errorf("%w: carrier is required", domain.ErrValidation)
	}
	v, err := s.api.CreateVehicle(ctx, in)
	if err != nil {
		return domain.Vehicle{}, fmt.Errorf("service.FleetService.CreateVehicle: %w", err)
	}
	s.caches.Vehicles.InvalidateAll()
	return v, nil
}

// CreateCarrier validates and registers a carrier, then invalidates the
// carriers list.
func (s *FleetService) CreateCarrier(ctx context.Context, in domain.CarrierInput) (domain.Carrier, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.MainOfficeAddress = strings.TrimSpace(in.MainOfficeAddress)
	if in.Name == "" {
		return domain.Carrier{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if in.MainOfficeAddress == "" {
		return domain.Carrier{}, fmt.Errorf("%w: main_office_address is required", domain.ErrValidation)
	}
	c, err := s.api.CreateCarrier(ctx, in)
	if err != nil {
		return domain.Carrier{}, fmt.Errorf("service.FleetService.CreateCarrier: %w", err)
	}
	s.caches.Carriers.InvalidateAll()
	return c, nil
}
