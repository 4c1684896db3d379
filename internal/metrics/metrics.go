// Package metrics registers the Prometheus collectors served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialchat_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "socialchat_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Realtime
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "socialchat_realtime_connections",
			Help: "Current number of live websocket connections",
		},
	)

	RealtimeEventsDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialchat_realtime_events_delivered_total",
			Help: "Events enqueued on a live connection",
		},
		[]string{"event"},
	)

	RealtimeEventsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialchat_realtime_events_dropped_total",
			Help: "Events not delivered, by reason",
		},
		[]string{"reason"}, // "offline", "unavailable"
	)

	// Notifications
	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialchat_notifications_total",
			Help: "Notification deliveries by channel and outcome",
		},
		[]string{"channel", "outcome"},
	)
)

func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func RecordDelivered(event string) {
	RealtimeEventsDelivered.WithLabelValues(event).Inc()
}

func RecordDropped(reason string) {
	RealtimeEventsDropped.WithLabelValues(reason).Inc()
}

func RecordNotification(channel string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	NotificationsSent.WithLabelValues(channel, outcome).Inc()
}
