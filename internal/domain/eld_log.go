package domain

import (
	"fmt"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ELDLog is a server-generated daily log for a trip.
// TotalMiles is nil when the server did not report it; it is never filled in
// by the client.
type ELDLog struct {
	ID           int                `json:"id"`
	Trip         int                `json:"trip"`
	Date         openapi_types.Date `json:"date"`
	TotalMiles   *float64           `json:"total_miles"`
	DutyStatuses []DutyStatus       `json:"duty_statuses,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// Validate checks the fields every ELD log payload must carry.
func (l ELDLog) Validate() error {
	if l.ID <= 0 {
		return fmt.Errorf("%w: eld log id is required", ErrMalformedResponse)
	}
	if l.Trip <= 0 {
		return fmt.Errorf("%w: eld log %d has no trip", ErrMalformedResponse, l.ID)
	}
	if l.Date.Time.IsZero() {
		return fmt.Errorf("%w: eld log %d has no date", ErrMalformedResponse, l.ID)
	}
	return nil
}

// GenerateResult is the outcome of POST /trips/{id}/eld-logs/generate/.
type GenerateResult struct {
	Message string   `json:"message,omitempty"`
	Logs    []ELDLog `json:"logs"`
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (openapi_types.Date, error) {
	t, err := time.Parse(openapi_types.DateFormat, s)
	if err != nil {
		return openapi_types.Date{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return openapi_types.Date{Time: t}, nil
}

// SameDate reports whether t, viewed in loc, falls on the calendar date d.
func SameDate(t time.Time, d openapi_types.Date, loc *time.Location) bool {
	if loc == nil {
		loc = time.UTC
	}
	y, m, day := t.In(loc).Date()
	dy, dm, dd := d.Time.Date()
	return y == dy && m == dm && day == dd
}
