// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the daedap server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daedap_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daedap_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks the number of active SSE streaming connections.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "daedap_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// ModelRequestsTotal counts rounds sent to the model backend.
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daedap_model_requests_total",
			Help: "Model backend requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ModelLatency records model backend round latency in seconds.
	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "daedap_model_latency_seconds",
			Help:    "Model backend latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// TurnsPerRequest records how many model rounds each conversation took.
	TurnsPerRequest = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "daedap_turns_per_request",
			Help:    "Model rounds per conversation",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "daedap_ratelimit_rejected_total",
			Help: "Requests rejected by rate limiting",
		},
		[]string{"tier"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		ModelRequestsTotal,
		ModelLatency,
		TurnsPerRequest,
		RateLimitRejectedTotal,
	)
}
