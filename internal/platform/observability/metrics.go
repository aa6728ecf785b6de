package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide Prometheus collectors. One instance is
// built at bootstrap and shared by the HTTP server and the notification
// dispatcher.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	NotificationsSentTotal   *prometheus.CounterVec
	NotificationsFailedTotal *prometheus.CounterVec
	ListingTransitionsTotal  *prometheus.CounterVec
}

// IncListingTransition satisfies the listing service's transition counter
// port. Nil-safe so tests can run without a registry.
func (m *Metrics) IncListingTransition(action string) {
	if m == nil || m.ListingTransitionsTotal == nil {
		return
	}
	m.ListingTransitionsTotal.WithLabelValues(action).Inc()
}

// IncNotificationSent and IncNotificationFailed satisfy the notification
// service's delivery counter port.
func (m *Metrics) IncNotificationSent(template string) {
	if m == nil || m.NotificationsSentTotal == nil {
		return
	}
	m.NotificationsSentTotal.WithLabelValues(template).Inc()
}

func (m *Metrics) IncNotificationFailed(template string) {
	if m == nil || m.NotificationsFailedTotal == nil {
		return
	}
	m.NotificationsFailedTotal.WithLabelValues(template).Inc()
}

func NewMetrics(serviceName string) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		Registry: registry,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "caravan_http_requests_total",
			Help:        "HTTP requests by route and status class.",
			ConstLabels: constLabels,
		}, []string{"route", "method", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "caravan_http_request_duration_seconds",
			Help:        "HTTP request latency by route.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"route", "method"}),
		NotificationsSentTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "caravan_notifications_sent_total",
			Help:        "Push/email notifications delivered, by template.",
			ConstLabels: constLabels,
		}, []string{"template"}),
		NotificationsFailedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "caravan_notifications_failed_total",
			Help:        "Push/email notification delivery failures, by template.",
			ConstLabels: constLabels,
		}, []string{"template"}),
		ListingTransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "caravan_listing_transitions_total",
			Help:        "Listing status transitions, by action.",
			ConstLabels: constLabels,
		}, []string{"action"}),
	}
}
