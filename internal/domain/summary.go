package domain

import "strings"

// TripSummary holds the dashboard counters over a list of trips.
type TripSummary struct {
	Total             int     `json:"total"`
	Planned           int     `json:"planned"`
	InProgress        int     `json:"in_progress"`
	Completed         int     `json:"completed"`
	AverageCycleHours float64 `json:"average_cycle_hours"`
}

// SummarizeTrips counts trips per status and averages their cycle hours.
// An empty list yields a zero summary.
func SummarizeTrips(trips []Trip) TripSummary {
	s := TripSummary{Total: len(trips)}
	var hours float64
	for _, t := range trips {
		switch t.Status {
		case TripPlanned:
			s.Planned++
		case TripInProgress:
			s.InProgress++
		case TripCompleted:
			s.Completed++
		}
		hours += t.CurrentCycleHours
	}
	if len(trips) > 0 {
		s.AverageCycleHours = hours / float64(len(trips))
	}
	return s
}

// TripFilter narrows a trip list the way the dashboard search box does.
// Zero fields match everything.
type TripFilter struct {
	// Search is matched case-insensitively against pickup and dropoff names
	// and the vehicle number.
	Search    string
	Status    TripStatus
	VehicleID int
}

// FilterTrips returns the trips matching f, preserving order.
// Always returns a non-nil slice.
func FilterTrips(trips []Trip, f TripFilter) []Trip {
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Trip, 0, len(trips))
	for _, t := range trips {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.VehicleID != 0 && (t.Vehicle == nil || t.Vehicle.ID != f.VehicleID) {
			continue
		}
		if needle != "" && !tripMatches(t, needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func tripMatches(t Trip, needle string) bool {
	fields := []string{t.PickupLocationName, t.DropoffLocationName}
	if t.Vehicle != nil {
		fields = append(fields, t.Vehicle.VehicleNumber)
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
