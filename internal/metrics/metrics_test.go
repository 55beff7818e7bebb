package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRequest("tmdb", "ok", 20*time.Millisecond)
	m.ObserveRequest("tmdb", "ok", 30*time.Millisecond)
	m.ObserveRequest("tvmaze", "http_error", time.Millisecond)
	m.CacheHit("tmdb")
	m.Degraded("tmdb.detail", "not_found")
	m.ObserveMatchDistance(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("tmdb", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.upstreamRequests.WithLabelValues("tvmaze", "http_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheHits.WithLabelValues("tmdb")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degraded.WithLabelValues("tmdb.detail", "not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.matchDistance))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("tmdb", "ok", time.Second)
		m.CacheHit("tmdb")
		m.Degraded("op", "transport")
		m.ObserveMatchDistance(1)
	})
}
