package domain

import (
	"fmt"
	"time"
)

// DutyStatusKind is one of the four mutually exclusive driver duty states.
type DutyStatusKind string

const (
	Driving          DutyStatusKind = "DRIVING"
	OnDutyNotDriving DutyStatusKind = "ON_DUTY_NOT_DRIVING"
	OffDuty          DutyStatusKind = "OFF_DUTY"
	SleeperBerth     DutyStatusKind = "SLEEPER_BERTH"
)

// DutyStatusKinds lists the known kinds in ELD grid row order.
var DutyStatusKinds = []DutyStatusKind{OffDuty, SleeperBerth, Driving, OnDutyNotDriving}

// Valid reports whether k is one of the known duty status kinds.
func (k DutyStatusKind) Valid() bool {
	switch k {
	case Driving, OnDutyNotDriving, OffDuty, SleeperBerth:
		return true
	}
	return false
}

// DutyStatus is one interval of a trip's duty timeline, [StartTime, EndTime).
// Records are append-only; the client never mutates them.
type DutyStatus struct {
	ID                  int            `json:"id"`
	Trip                int            `json:"trip"`
	Status              DutyStatusKind `json:"status"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             time.Time      `json:"end_time"`
	Location            GeoPoint       `json:"location"`
	LocationDescription string         `json:"location_description"`
	Remarks             string         `json:"remarks,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// Validate checks the fields every duty status payload must carry.
// The kind is not checked: renderers fall back to a default for kinds they
// do not know, so a newer server can add one without breaking the client.
func (d DutyStatus) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: duty status id is required", ErrMalformedResponse)
	}
	if d.Trip <= 0 {
		return fmt.Errorf("%w: duty status %d has no trip", ErrMalformedResponse, d.ID)
	}
	if d.Status == "" {
		return fmt.Errorf("%w: duty status %d has no status", ErrMalformedResponse, d.ID)
	}
	if d.StartTime.IsZero() || d.EndTime.IsZero() {
		return fmt.Errorf("%w: duty status %d needs start_time and end_time", ErrMalformedResponse, d.ID)
	}
	return nil
}

// Duration returns EndTime - StartTime.
func (d DutyStatus) Duration() time.Duration {
	return d.EndTime.Sub(d.StartTime)
}

// DutyStatusInput is the body of POST /trips/{id}/duty-status/.
type DutyStatusInput struct {
	Status              DutyStatusKind `json:"status"`
	StartTime           time.Time      `json:"start_time"`
	EndTime             time.Time      `json:"end_time"`
	Location            GeoPoint       `json:"location"`
	LocationDescription string         `json:"location_description"`
	Remarks             string         `json:"remarks,omitempty"`
}
