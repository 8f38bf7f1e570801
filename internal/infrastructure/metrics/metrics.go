package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Triage console metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Agent calls
	AgentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "agent_requests_total",
			Help:      "Total remote agent invocations",
		},
		[]string{"kind", "status"},
	)

	AgentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "agent_request_duration_seconds",
			Help:      "Remote agent round-trip duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"kind"},
	)

	// Conversations
	ConversationsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "conversations_created_total",
			Help:      "Total conversations created",
		},
	)

	SummariesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "summaries_generated_total",
			Help:      "Total conversation summaries generated",
		},
		[]string{"trigger"},
	)

	// Auth requests
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "triage",
			Subsystem: "console",
			Name:      "auth_requests_total",
			Help:      "Total authentication attempts",
		},
		[]string{"status"},
	)
)

// RecordRequest records one handled HTTP request.
func RecordRequest(method, endpoint, status string, duration float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordAgentCall records one remote agent invocation.
func RecordAgentCall(kind, status string, seconds float64) {
	AgentRequestsTotal.WithLabelValues(kind, status).Inc()
	AgentRequestDuration.WithLabelValues(kind).Observe(seconds)
}
