package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BookingsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_bookings_created_total",
			Help: "Booking creation attempts by result",
		},
		[]string{"result"},
	)

	BookingStatusChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_booking_status_changes_total",
			Help: "Booking status changes by target status",
		},
		[]string{"status"},
	)

	StatusDispatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_status_dispatch_total",
			Help: "Status strategy executions by strategy and result",
		},
		[]string{"strategy", "result"},
	)

	NotificationsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservation_notifications_purged_total",
			Help: "Notifications removed by retention cleanup",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reservation_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"method", "route", "status"},
	)
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
