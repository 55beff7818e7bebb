package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mediagate"

// Metrics holds the collectors shared by the catalog clients.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	cacheHits        *prometheus.CounterVec
	degraded         *prometheus.CounterVec
	matchDistance    prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outbound catalog requests by catalog and outcome.",
		}, []string{"catalog", "outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of outbound catalog requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"catalog"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_cache_hits_total",
			Help:      "Catalog reads served from the response cache.",
		}, []string{"catalog"}),
		degraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_total",
			Help:      "Operations that returned an empty or absent value after an error.",
		}, []string{"operation", "kind"}),
		matchDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_match_title_distance",
			Help:      "Edit distance between the queried title and the selected watch-provider candidate.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
	}

	reg.MustRegister(m.upstreamRequests, m.upstreamDuration, m.cacheHits, m.degraded, m.matchDistance)
	return m
}

// ObserveRequest records one upstream round trip
func (m *Metrics) ObserveRequest(catalog, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(catalog, outcome).Inc()
	m.upstreamDuration.WithLabelValues(catalog).Observe(elapsed.Seconds())
}

// CacheHit records a read served from the response cache
func (m *Metrics) CacheHit(catalog string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(catalog).Inc()
}

// Degraded records an operation collapsing an error into its fallback value
func (m *Metrics) Degraded(operation, kind string) {
	if m == nil {
		return
	}
	m.degraded.WithLabelValues(operation, kind).Inc()
}

// ObserveMatchDistance records the title distance of a provider match
func (m *Metrics) ObserveMatchDistance(distance int) {
	if m == nil {
		return
	}
	m.matchDistance.Observe(float64(distance))
}
