package service

import (
	"strconv"
	"time"

	"github.com/pkordes/hos-planner/internal/cache"
	"github.com/pkordes/hos-planner/internal/domain"
)

// TTLs are the staleness thresholds per collection.
type TTLs struct {
	Trips time.Duration // trips list and single trips
	Fleet time.Duration // vehicles and carriers
	Duty  time.Duration // duty statuses and ELD logs
}

// DefaultTTLs returns 5 minutes for trips, 10 for vehicles and carriers,
// and 2 for duty statuses and ELD logs.
func DefaultTTLs() TTLs {
	return TTLs{Trips: 5 * time.Minute, Fleet: 10 * time.Minute, Duty: 2 * time.Minute}
}

// Caches holds one cache per entity collection.
type Caches struct {
	Trips        *cache.Cache[[]domain.Trip]       // keyed by TripListParams.Key
	Trip         *cache.Cache[domain.Trip]         // keyed by trip id
	Vehicles     *cache.Cache[[]domain.Vehicle]    // single key
	Carriers     *cache.Cache[[]domain.Carrier]    // single key
	DutyStatuses *cache.Cache[[]domain.DutyStatus] // keyed by trip id
	ELDLogs      *cache.Cache[[]domain.ELDLog]     // keyed by trip id
}

// NewCaches creates empty caches. opts are applied to every cache.
func NewCaches(ttl TTLs, opts ...cache.Option) *Caches {
	return &Caches{
		Trips:        cache.New[[]domain.Trip]("trips", ttl.Trips, opts...),
		Trip:         cache.New[domain.Trip]("trip", ttl.Trips, opts...),
		Vehicles:     cache.New[[]domain.Vehicle]("vehicles", ttl.Fleet, opts...),
		Carriers:     cache.New[[]domain.Carrier]("carriers", ttl.Fleet, opts...),
		DutyStatuses: cache.New[[]domain.DutyStatus]("duty_statuses", ttl.Duty, opts...),
		ELDLogs:      cache.New[[]domain.ELDLog]("eld_logs", ttl.Duty, opts...),
	}
}

// Reset drops every cached value. Called when the session changes, since
// every collection is scoped to the logged-in user.
func (c *Caches) Reset() {
	c.Trips.InvalidateAll()
	c.Trip.InvalidateAll()
	c.Vehicles.InvalidateAll()
	c.Carriers.InvalidateAll()
	c.DutyStatuses.InvalidateAll()
	c.ELDLogs.InvalidateAll()
}

const allKey = "all"

func idKey(id int) string { return strconv.Itoa(id) }
