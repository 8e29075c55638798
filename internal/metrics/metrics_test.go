package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/pkordes/hos-planner/internal/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.CacheLookup("trips", "hit")
	m.CacheLookup("trips", "hit")
	m.CacheLoad("trips", errors.New("boom"))
	m.Upstream("GET", 200, 15*time.Millisecond)
	m.Refresh("ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("trips", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLoads.WithLabelValues("trips", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UpstreamRequests.WithLabelValues("GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenRefreshes.WithLabelValues("ok")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.CacheLookup("trips", "miss")
		m.CacheLoad("trips", nil)
		m.Upstream("GET", 0, time.Second)
		m.Refresh("failed")
	})
}
