// Package metrics defines the Prometheus collectors shared by the API client,
// the entity caches and the companion server.
// Every method is safe on a nil *Metrics so tests and the CLI can skip metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "hos_planner"

// Metrics groups the collectors.
type Metrics struct {
	CacheLookups     *prometheus.CounterVec
	CacheLoads       *prometheus.CounterVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	TokenRefreshes   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Entity cache lookups by cache and result (hit, miss, shared).",
		}, []string{"cache", "result"}),
		CacheLoads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_loads_total",
			Help:      "Upstream loads started by entity caches, by outcome.",
		}, []string{"cache", "outcome"}),
		UpstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the HOS API by method and status code (0 for transport errors).",
		}, []string{"method", "code"}),
		UpstreamDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests sent to the HOS API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		TokenRefreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_refreshes_total",
			Help:      "Access token refresh attempts by result (ok, failed, no_refresh_token).",
		}, []string{"result"}),
	}
}

// CacheLookup counts one lookup on cache with result hit, miss or shared.
func (m *Metrics) CacheLookup(cache, result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// CacheLoad counts one upstream load on cache.
func (m *Metrics) CacheLoad(cache string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.CacheLoads.WithLabelValues(cache, outcome).Inc()
}

// Upstream records one request to the HOS API.
func (m *Metrics) Upstream(method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.UpstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Refresh records one token refresh attempt.
func (m *Metrics) Refresh(result string) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(result).Inc()
}
