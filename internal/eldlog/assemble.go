// Package eldlog assembles the viewable daily log of a trip from its duty
// statuses and the server-reported ELD logs.
package eldlog

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/hos-planner/internal/domain"
	"github.com/pkordes/hos-planner/internal/timeline"
)

// View is one trip day as shown on the ELD log screen.
// TotalMiles is nil when no server log exists for the date and no preview
// value was supplied; it is never filled with a placeholder.
// LogID is nil for a preview of a log that has not been generated yet.
type View struct {
	TripID       int                 `json:"trip_id"`
	Date         openapi_types.Date  `json:"date"`
	TotalMiles   *float64            `json:"total_miles"`
	LogID        *int                `json:"log_id,omitempty"`
	DutyStatuses []domain.DutyStatus `json:"duty_statuses"`
}

// Preview reports whether the view is not backed by a generated log.
func (v View) Preview() bool { return v.LogID == nil }

type options struct {
	logs         []domain.ELDLog
	previewMiles *float64
	loc          *time.Location
}

// Option configures Assemble.
type Option func(*options)

// WithLogs supplies the trip's server-generated logs. A log for the requested
// date provides TotalMiles and LogID.
func WithLogs(logs []domain.ELDLog) Option {
	return func(o *options) { o.logs = logs }
}

// WithPreviewMiles supplies a user-entered mileage for a log that has not been
// generated yet. It is ignored when a server log exists for the date.
func WithPreviewMiles(miles float64) Option {
	return func(o *options) { o.previewMiles = &miles }
}

// InLocation sets the timezone that decides which calendar date a duty status
// belongs to. Defaults to UTC.
func InLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// Assemble builds the view of trip for date. DutyStatuses is exactly the
// records whose start time falls on date, in input order. Assemble has no
// side effects: equal inputs give equal views.
func Assemble(trip domain.Trip, statuses []domain.DutyStatus, date openapi_types.Date, opts ...Option) View {
	o := options{loc: time.UTC}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = time.UTC
	}

	v := View{
		TripID:       trip.ID,
		Date:         date,
		DutyStatuses: timeline.SelectDate(statuses, date, o.loc),
	}

	if log, ok := findLog(o.logs, trip.ID, date); ok {
		id := log.ID
		v.LogID = &id
		if log.TotalMiles != nil {
			miles := *log.TotalMiles
			v.TotalMiles = &miles
		}
		return v
	}
	if o.previewMiles != nil {
		miles := *o.previewMiles
		v.TotalMiles = &miles
	}
	return v
}

// findLog returns the trip's log for date. Log dates are civil dates, so they
// are compared field by field without any timezone conversion.
func findLog(logs []domain.ELDLog, tripID int, date openapi_types.Date) (domain.ELDLog, bool) {
	y, m, d := date.Date()
	for _, l := range logs {
		if l.Trip != tripID {
			continue
		}
		ly, lm, ld := l.Date.Date()
		if ly == y && lm == m && ld == d {
			return l, true
		}
	}
	return domain.ELDLog{}, false
}
