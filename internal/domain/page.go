package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// TripListParams carries the optional filters of GET /trips/.
// Limit is capped at 100 by NewTripListParams.
type TripListParams struct {
	// Status restricts the list to one trip status. Empty means all.
	Status TripStatus
	// Limit is the maximum number of trips to return. Zero means server default.
	Limit int
	// Offset is the number of trips to skip.
	Offset int
}

// NewTripListParams builds TripListParams from optional query values.
// Nil pointers and out-of-range values fall back to the server defaults.
func NewTripListParams(status *string, limit, offset *int) TripListParams {
	var p TripListParams
	if status != nil {
		p.Status = TripStatus(strings.ToUpper(*status))
	}
	if limit != nil && *limit >= 1 {
		p.Limit = *limit
		if p.Limit > 100 {
			p.Limit = 100
		}
	}
	if offset != nil && *offset >= 0 {
		p.Offset = *offset
	}
	return p
}

// Query encodes the params as URL query values. Zero values are omitted.
func (p TripListParams) Query() url.Values {
	q := url.Values{}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q.Set("offset", strconv.Itoa(p.Offset))
	}
	return q
}

// Key returns a stable cache key for the params.
func (p TripListParams) Key() string {
	return p.Query().Encode()
}
