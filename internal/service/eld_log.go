package service

import (
	"context"
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"golang.org/x/sync/errgroup"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/eldlog"
	"github.com/pkordes/hos-planner/internal/timeline"
)

// LogView is an assembled ELD log day with its graph.
type LogView struct {
	eldlog.View
	Segments []timeline.Segment `json:"segments"`
	Totals   []timeline.Total   `json:"totals"`
}

// ELDLogService implements ELD log reads, generation and the log view.
type ELDLogService struct {
	api    ELDLogAPI
	trips  *TripService
	duty   *DutyStatusService
	caches *Caches
	loc    *time.Location
}

// NewELDLogService constructs an ELDLogService. loc decides which calendar
// date a duty status belongs to; nil means UTC.
func NewELDLogService(api ELDLogAPI, trips *TripService, duty *DutyStatusService, caches *Caches, loc *time.Location) *ELDLogService {
	if loc == nil {
		loc = time.UTC
	}
	return &ELDLogService{api: api, trips: trips, duty: duty, caches: caches, loc: loc}
}

// ListByTrip returns the server-generated logs of a trip.
func (s *ELDLogService) ListByTrip(ctx context.Context, tripID int) ([]domain.ELDLog, error) {
	if tripID <= 0 {
		return nil, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	logs, err := s.caches.ELDLogs.Get(ctx, idKey(tripID), func(ctx context.Context) ([]domain.ELDLog, error) {
		return s.api.ListELDLogs(ctx, tripID)
	})
	if err != nil {
		return nil, fmt.Errorf("service.ELDLogService.ListByTrip: %w", err)
	}
	return logs, nil
}

// Generate asks the server to generate the log for date, then invalidates
// the trip's logs.
func (s *ELDLogService) Generate(ctx context.Context, tripID int, date openapi_types.Date) (domain.GenerateResult, error) {
	if tripID <= 0 {
		return domain.GenerateResult{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}
	if date.Time.IsZero() {
		return domain.GenerateResult{}, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	res, err := s.api.GenerateELDLog(ctx, tripID, date)
	if err != nil {
		return domain.GenerateResult{}, fmt.Errorf("service.ELDLogService.Generate: %w", err)
	}
	s.caches.ELDLogs.Invalidate(idKey(tripID))
	return res, nil
}

// View assembles the log of trip tripID for date and lays its duty statuses
// out on the ELD grid. previewMiles is used only when no log has been
// generated for the date; nil leaves the mileage unknown.
func (s *ELDLogService) View(ctx context.Context, tripID int, date openapi_types.Date, previewMiles *float64) (LogView, error) {
	if tripID <= 0 {
		return LogView{}, fmt.Errorf("%w: trip id must be positive", domain.ErrValidation)
	}

	var (
		trip     domain.Trip
		statuses []domain.DutyStatus
		logs     []domain.ELDLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		trip, err = s.trips.Get(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.duty.ListByTrip(gctx, tripID)
		return err
	})
	g.Go(func() (err error) {
		logs, err = s.ListByTrip(gctx, tripID)
		return err
	})
	if err := g.Wait(); err != nil {
		return LogView{}, fmt.Errorf("service.ELDLogService.View: %w", err)
	}

	opts := []eldlog.Option{eldlog.WithLogs(logs), eldlog.InLocation(s.loc)}
	if previewMiles != nil {
		opts = append(opts, eldlog.WithPreviewMiles(*previewMiles))
	}
	view := eldlog.Assemble(trip, statuses, date, opts...)

	segments := timeline.Builder{Location: s.loc}.Build(view.DutyStatuses, date)
	return LogView{View: view, Segments: segments, Totals: timeline.Totals(segments)}, nil
}

// Timeline returns the trip-details timeline for date, colored with the
// details palette.
func (s *ELDLogService) Timeline(ctx context.Context, tripID int, date openapi_types.Date) ([]timeline.Segment, error) {
	statuses, err := s.duty.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ELDLogService.Timeline: %w", err)
	}
	palette := timeline.DetailsPalette
	return timeline.Builder{Location: s.loc, Palette: &palette}.Build(statuses, date), nil
}

// Location is the timezone used for date matching.
func (s *ELDLogService) Location() *time.Location { return s.loc }
