// Package main is the entry point for the HOS planner companion server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Embedded IANA database so TIMELINE_TZ works in minimal containers.
	_ "time/tzdata"

	"github.com/pkordes/hos-planner/internal/app"
	"github.com/pkordes/hos-planner/internal/config"
	"github.com/pkordes/hos-planner/internal/handler"
	"github.com/pkordes/hos-planner/internal/metrics"
	"github.com/pkordes/hos-planner/internal/middleware"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		// Use plain stderr before the logger is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// --- Metrics ----------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Session store, API client, services ------------------------------
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	a, closeStore, err := app.New(startCtx, cfg, logger, m)
	cancelStart()
	if err != nil {
		slog.Error("failed to initialise", "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("session store ready",
		"backend", cfg.StoreBackend,
		"authenticated", a.Store.IsAuthenticated(),
	)

	srv := handler.NewServer(handler.Deps{
		Sessions:        a.Sessions,
		Current:         a.Store,
		Trips:           a.Trips,
		DutyStatuses:    a.DutyStatuses,
		ELDLogs:         a.ELDLogs,
		Fleet:           a.Fleet,
		OnSessionChange: a.Caches.Reset,
		Logger:          logger,
	})

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	// The request id is forwarded to the HOS API as X-Request-ID.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Mount("/", srv.Handler())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout must outlast one upstream request plus its refresh and retry.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 3*cfg.HTTPTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr, "upstream", cfg.APIBaseURL)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
