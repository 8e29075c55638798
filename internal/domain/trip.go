// Package domain contains the client-side data model of the HOS trip planner:
// the entities returned by the remote API, the inputs sent to it, and the
// error taxonomy shared by every other internal package.
package domain

import (
	"fmt"
	"time"
)

// TripStatus is the lifecycle state of a trip.
// Transitions are PLANNED → IN_PROGRESS → COMPLETED. The server owns the
// rule; the client does not enforce it.
type TripStatus string

const (
	TripPlanned    TripStatus = "PLANNED"
	TripInProgress TripStatus = "IN_PROGRESS"
	TripCompleted  TripStatus = "COMPLETED"
)

// Valid reports whether s is one of the known trip statuses.
func (s TripStatus) Valid() bool {
	switch s {
	case TripPlanned, TripInProgress, TripCompleted:
		return true
	}
	return false
}

// MaxCycleHours is the 70-hour/8-day on-duty budget.
const MaxCycleHours = 70

// Trip is a planned or running trip for one driver and vehicle.
type Trip struct {
	ID                  int        `json:"id"`
	Driver              *Driver    `json:"driver,omitempty"`
	Vehicle             *Vehicle   `json:"vehicle,omitempty"`
	CurrentLocation     GeoPoint   `json:"current_location"`
	CurrentLocationName string     `json:"current_location_name,omitempty"`
	PickupLocation      GeoPoint   `json:"pickup_location"`
	PickupLocationName  string     `json:"pickup_location_name,omitempty"`
	DropoffLocation     GeoPoint   `json:"dropoff_location"`
	DropoffLocationName string     `json:"dropoff_location_name,omitempty"`
	CurrentCycleHours   float64    `json:"current_cycle_hours"`
	StartTime           time.Time  `json:"start_time"`
	Status              TripStatus `json:"status"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Validate checks the fields every trip payload must carry.
func (t Trip) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: trip id is required", ErrMalformedResponse)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: trip %d has unknown status %q", ErrMalformedResponse, t.ID, t.Status)
	}
	if t.CurrentCycleHours < 0 || t.CurrentCycleHours > MaxCycleHours {
		return fmt.Errorf("%w: trip %d cycle hours %.2f out of range", ErrMalformedResponse, t.ID, t.CurrentCycleHours)
	}
	if t.StartTime.IsZero() {
		return fmt.Errorf("%w: trip %d start_time is required", ErrMalformedResponse, t.ID)
	}
	return nil
}

// TripInput is the body of POST /trips/.
type TripInput struct {
	Vehicle             int        `json:"vehicle"`
	CurrentLocation     GeoPoint   `json:"current_location_input"`
	CurrentLocationName string     `json:"current_location_name"`
	PickupLocation      GeoPoint   `json:"pickup_location_input"`
	PickupLocationName  string     `json:"pickup_location_name"`
	DropoffLocation     GeoPoint   `json:"dropoff_location_input"`
	DropoffLocationName string     `json:"dropoff_location_name"`
	CurrentCycleHours   float64    `json:"current_cycle_hours"`
	StartTime           time.Time  `json:"start_time"`
	Status              TripStatus `json:"status,omitempty"`
}

// TripUpdate is the body of PATCH /trips/{id}/. Nil fields are left unchanged.
type TripUpdate struct {
	Status            *TripStatus `json:"status,omitempty"`
	CurrentCycleHours *float64    `json:"current_cycle_hours,omitempty"`
	StartTime         *time.Time  `json:"start_time,omitempty"`
	Vehicle           *int        `json:"vehicle,omitempty"`
}

// RouteResponse is the server-computed HOS-compliant plan for a trip.
// Geometry is GeoJSON passed through untouched.
type RouteResponse struct {
	DutyStatuses []DutyStatus `json:"duty_statuses"`
	Geometry     any          `json:"geometry"`
	TotalMiles   float64      `json:"total_miles"`
}

// Validate checks every duty status in the plan.
func (r RouteResponse) Validate() error {
	for _, ds := range r.DutyStatuses {
		if err := ds.Validate(); err != nil {
			return err
		}
	}
	if r.TotalMiles < 0 {
		return fmt.Errorf("%w: total_miles must not be negative", ErrMalformedResponse)
	}
	return nil
}
