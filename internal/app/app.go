// Package app wires the session store, API client, caches and services
// from a Config. Both binaries build on it; neither contains business logic.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkordes/hos-planner/internal/apiclient"
	"github.com/pkordes/hos-planner/internal/cache"
	"github.com/pkordes/hos-planner/internal/config"
	"github.com/pkordes/hos-planner/internal/metrics"
	"github.com/pkordes/hos-planner/internal/repo"
	"github.com/pkordes/hos-planner/internal/service"
	"github.com/pkordes/hos-planner/internal/session"
)

// App holds the wired components.
type App struct {
	Store        *session.Store
	Sessions     *session.Service
	Client       *apiclient.Client
	Caches       *service.Caches
	Trips        *service.TripService
	DutyStatuses *service.DutyStatusService
	ELDLogs      *service.ELDLogService
	Fleet        *service.FleetService
}

// New opens the configured session backend, restores any persisted session
// and builds the services. m may be nil. The returned func releases the
// backend connection.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, m *metrics.Metrics) (*App, func(), error) {
	kv, closeKV, err := repo.Open(ctx, repo.Options{
		Backend:       cfg.StoreBackend,
		Scope:         cfg.SessionScope,
		DatabaseURL:   cfg.DatabaseURL,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("app.New: %w", err)
	}

	store := session.NewStore(kv, logger)
	if err := store.Restore(ctx); err != nil {
		closeKV()
		return nil, nil, fmt.Errorf("app.New: restore session: %w", err)
	}

	client := apiclient.New(cfg.APIBaseURL, store,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithLogger(logger),
		apiclient.WithMetrics(m),
	)

	caches := service.NewCaches(service.TTLs{
		Trips: cfg.CacheTTLTrips,
		Fleet: cfg.CacheTTLFleet,
		Duty:  cfg.CacheTTLDuty,
	}, cache.WithMetrics(m))

	trips := service.NewTripService(client, caches)
	duty := service.NewDutyStatusService(client, caches)

	return &App{
		Store:        store,
		Sessions:     session.NewService(store, client, logger),
		Client:       client,
		Caches:       caches,
		Trips:        trips,
		DutyStatuses: duty,
		ELDLogs:      service.NewELDLogService(client, trips, duty, caches, cfg.Timezone),
		Fleet:        service.NewFleetService(client, caches),
	}, closeKV, nil
}
