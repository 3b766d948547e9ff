package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
		[]string{"service"},
	)

	// Business metrics
	RidesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rides_total",
			Help: "Total number of ride lifecycle transitions",
		},
		[]string{"service", "status"},
	)

	WebSocketConnectionsGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "websocket_connections_total",
			Help: "Current number of active WebSocket connections",
		},
		[]string{"service"},
	)

	RideEventsPushedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ride_events_pushed_total",
			Help: "Ride event messages pushed over WebSocket",
		},
		[]string{"service", "event", "outcome"},
	)

	// Infrastructure metrics
	DatabaseQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"repo", "operation", "status"},
	)

	EventFeedPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_feed_published_total",
			Help: "Ride events published to the RabbitMQ feed",
		},
		[]string{"service", "event", "status"},
	)
)

// RecordHTTPMetrics records counter and duration for one served request.
func RecordHTTPMetrics(service, method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	HttpRequestsTotal.WithLabelValues(service, method, path, code).Inc()
	HttpRequestDuration.WithLabelValues(service, method, path, code).Observe(duration.Seconds())
}

// RecordPush records the outcome of a single WebSocket push attempt.
func RecordPush(service, event string, delivered bool) {
	outcome := "delivered"
	if !delivered {
		outcome = "dropped"
	}
	RideEventsPushedTotal.WithLabelValues(service, event, outcome).Inc()
}
