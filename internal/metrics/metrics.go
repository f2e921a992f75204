// Package metrics provides the centralized Prometheus registry for the dashboard.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "matchboard"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SelectionRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bet_selection_runs_total",
		Help:      "Total number of value bet selection runs",
	})
	SelectionCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bet_cache_hits_total",
		Help:      "Total number of value bet requests served from cache",
	})
	ExclusionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "value_bet_exclusions_total",
		Help:      "Total number of matches excluded from the value bet selection by reason",
	}, []string{"reason"})
	MalformedScoresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "h2h_malformed_scores_total",
		Help:      "Total number of head-to-head scores skipped during aggregation",
	})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route and status code",
	}, []string{"route", "code"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter",
	})
)

// Gauge metrics
var (
	ValueBetCandidates = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "value_bet_candidates",
		Help:      "Number of candidates in the latest value bet selection",
	})
	FeedSubscribers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "value_bet_feed_subscribers",
		Help:      "Number of connected websocket feed subscribers",
	})
)

// Histogram metrics
var (
	SelectionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "value_bet_selection_duration_seconds",
		Help:      "Duration of value bet selection including snapshot load",
		Buckets:   prometheus.DefBuckets,
	})
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		registry.MustRegister(SelectionRunsTotal)
		registry.MustRegister(SelectionCacheHitsTotal)
		registry.MustRegister(ExclusionsTotal)
		registry.MustRegister(MalformedScoresTotal)
		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(RateLimitedTotal)

		registry.MustRegister(ValueBetCandidates)
		registry.MustRegister(FeedSubscribers)

		registry.MustRegister(SelectionDuration)
		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordSelection records a completed selection run.
func RecordSelection(durationSeconds float64, candidates, malformedScores int, excluded map[string]int) {
	SelectionRunsTotal.Inc()
	SelectionDuration.Observe(durationSeconds)
	ValueBetCandidates.Set(float64(candidates))
	MalformedScoresTotal.Add(float64(malformedScores))
	for reason, count := range excluded {
		ExclusionsTotal.WithLabelValues(reason).Add(float64(count))
	}
}

// RecordCacheHit records a selection served from cache.
func RecordCacheHit() {
	SelectionCacheHitsTotal.Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(route, code string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, code).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited() {
	RateLimitedTotal.Inc()
}

// UpdateFeedSubscribers sets the number of websocket subscribers.
func UpdateFeedSubscribers(count int) {
	FeedSubscribers.Set(float64(count))
}
