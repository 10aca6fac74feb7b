package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staywise_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staywise_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	bookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staywise_booking_attempts_total",
		Help: "Booking creation attempts by result",
	}, []string{"result"})

	bookingRevenue = promauto.NewCounter(prometheus.CounterOpts{
		Name: "staywise_booking_revenue_total",
		Help: "Sum of totalPrice over confirmed bookings",
	})

	eventPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staywise_event_publish_total",
		Help: "booking.confirmed publish attempts by result",
	}, []string{"result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "staywise_rate_limited_total",
		Help: "Requests rejected by the token bucket, by backend",
	}, []string{"backend"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveBooking counts a booking attempt.  result is one of confirmed,
// rejected or error; totalPrice is only added for confirmed bookings.
func ObserveBooking(result string, totalPrice float64) {
	bookingAttempts.WithLabelValues(result).Inc()
	if result == "confirmed" && totalPrice > 0 {
		bookingRevenue.Add(totalPrice)
	}
}

// ObserveEventPublish counts a publish attempt with result ok or error.
func ObserveEventPublish(result string) {
	eventPublishes.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts a rejected request for the redis or local backend.
func ObserveRateLimited(backend string) {
	rateLimited.WithLabelValues(backend).Inc()
}
