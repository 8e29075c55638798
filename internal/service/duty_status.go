package service

import (
	"context"
	"fmt"

	"github.com/pkordes/hos-planner/internal/domain"
)

// DutyStatusService implements duty-status reads and appends.
type DutyStatusService struct {
	api    DutyStatusAPI
	caches *Caches
}

// NewDutyStatusService constructs a DutyStatusService.
func NewDutyStatusService(api DutyStatusAPI, caches *Caches) *DutyStatusService {
	return &DutyStatusService{api: api, caches: caches}
}

// ListByTrip returns the duty statuses of a trip in server order.
func (s *DutyStatusService) ListByTrip(ctx context.Context, tripID int) ([]domain.DutyStatus, error) {
	if tripID <= 0 {
		return nil, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	statuses, err := s.caches.DutyStatuses.Get(ctx, idKey(tripID), func(ctx context.Context) ([]domain.DutyStatus, error) {
		return s.api.ListDutyStatuses(ctx, tripID)
	})
	if err != nil {
		return nil, fmt.Errorf("service.DutyStatusService.ListByTrip: %w", err)
	}
	return statuses, nil
}

// Create validates and appends a duty status, then invalidates the owning
// trip's duty statuses.
func (s *DutyStatusService) Create(ctx context.Context, tripID int, in domain.DutyStatusInput) (domain.DutyStatus, error) {
	if tripID <= 0 {
		return domain.DutyStatus{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	if err := validateDutyStatusInput(in); err != nil {
		return domain.DutyStatus{}, err
	}
	ds, err := s.api.CreateDutyStatus(ctx, tripID, in)
	if err != nil {
		return domain.DutyStatus{}, fmt.Errorf("service.DutyStatusService.Create: %w", err)
	}
	s.caches.DutyStatuses.Invalidate(idKey(tripID))
	if ds.Trip != tripID {
		s.caches.DutyStatuses.Invalidate(idKey(ds.Trip))
	}
	return ds, nil
}

func validateDutyStatusInput(in domain.DutyStatusInput) error {
	if !in.Status.Valid() {
		return fmt.Errorf("%w: unknown duty status %q", domain.ErrValidation, in.Status)
	}
	if in.StartTime.IsZero() || in.EndTime.IsZero() {
		return fmt.Errorf("%w: start_time and end_time are required", domain.ErrValidation)
	}
	if !in.EndTime.After(in.StartTime) {
		return fmt.Errorf("%w: end_time must be after start_time", domain.ErrValidation)
	}
	if !in.Location.Valid() {
		return fmt.Errorf("%w: location is not a valid coordinate", domain.ErrValidation)
	}
	return nil
}
