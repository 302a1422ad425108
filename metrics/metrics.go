// Package metrics records operator-facing counters: Prometheus collectors
// for scraping plus a lightweight snapshot served on the stats endpoint.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteseeker_requests_total",
		Help: "Chat requests by routed intent",
	}, []string{"intent"})

	requestLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "siteseeker_request_latency_ms",
		Help:    "End-to-end chat request latency in milliseconds",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	})

	stageSurvivors = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "siteseeker_pipeline_stage_survivors",
		Help:    "Candidate count surviving each pipeline stage",
		Buckets: []float64{0, 1, 2, 3, 5, 10},
	}, []string{"stage"})

	collaboratorFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteseeker_collaborator_failures_total",
		Help: "Failed calls to external collaborators",
	}, []string{"collaborator"})

	geocodeCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siteseeker_geocode_cache_total",
		Help: "Geocode cache hits and misses",
	}, []string{"outcome"})
)

func ensureRegistered() {
	once.Do(func() {
		prometheus.MustRegister(requestsTotal, requestLatency, stageSurvivors,
			collaboratorFailures, geocodeCache)
	})
}

// Snapshot is the stats-endpoint view of the process counters.
type Snapshot struct {
	Requests        int64 `json:"requests"`
	Lookups         int64 `json:"lookups"`
	OpenEnded       int64 `json:"open_ended"`
	Unresolved      int64 `json:"unresolved"`
	EmptyResults    int64 `json:"empty_results"`
	CollaboratorErr int64 `json:"collaborator_errors"`
}

var snap struct {
	requests        atomic.Int64
	lookups         atomic.Int64
	openEnded       atomic.Int64
	unresolved      atomic.Int64
	emptyResults    atomic.Int64
	collaboratorErr atomic.Int64
}

// ObserveRequest records a routed request and its latency.
func ObserveRequest(intentLabel string, start time.Time) {
	ensureRegistered()
	requestsTotal.WithLabelValues(intentLabel).Inc()
	requestLatency.Observe(float64(time.Since(start).Milliseconds()))
	snap.requests.Add(1)
	switch intentLabel {
	case "lookup":
		snap.lookups.Add(1)
	case "open-ended":
		snap.openEnded.Add(1)
	}
}

// ObserveStage records a pipeline stage's survivor count.
func ObserveStage(stage string, survivors int) {
	ensureRegistered()
	stageSurvivors.WithLabelValues(stage).Observe(float64(survivors))
}

// ObserveUnresolved counts a request that ended location-unresolved.
func ObserveUnresolved() {
	snap.unresolved.Add(1)
}

// ObserveEmptyResults counts a pipeline run that narrowed to nothing.
func ObserveEmptyResults() {
	snap.emptyResults.Add(1)
}

// ObserveCollaboratorFailure counts a failed collaborator call.
func ObserveCollaboratorFailure(collaborator string) {
	ensureRegistered()
	collaboratorFailures.WithLabelValues(collaborator).Inc()
	snap.collaboratorErr.Add(1)
}

// ObserveGeocodeCache counts a geocode cache hit or miss.
func ObserveGeocodeCache(hit bool) {
	ensureRegistered()
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	geocodeCache.WithLabelValues(outcome).Inc()
}

// Stats returns the current snapshot.
func Stats() Snapshot {
	return Snapshot{
		Requests:        snap.requests.Load(),
		Lookups:         snap.lookups.Load(),
		OpenEnded:       snap.openEnded.Load(),
		Unresolved:      snap.unresolved.Load(),
		EmptyResults:    snap.emptyResults.Load(),
		CollaboratorErr: snap.collaboratorErr.Load(),
	}
}
