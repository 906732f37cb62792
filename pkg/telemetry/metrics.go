package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus instruments for the account lifecycle service.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	accountsCreated *prometheus.CounterVec
	slugConflicts   prometheus.Counter
	emailSends      *prometheus.CounterVec
	paymentEvents   *prometheus.CounterVec
}

// NewMetrics registers and returns the service metrics.
func NewMetrics() *Metrics {
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffsort_http_requests_total",
		Help: "Counts HTTP requests by method, route, and status.",
	}, []string{"method", "route", "status"})

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "staffsort_http_duration_seconds",
		Help:    "HTTP request latency per method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	accountsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffsort_accounts_created_total",
		Help: "Accounts created by product type.",
	}, []string{"product"})

	slugConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "staffsort_slug_conflicts_total",
		Help: "Slug uniqueness conflicts surfaced at insert.",
	})

	emailSends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffsort_email_sends_total",
		Help: "Email send attempts by result.",
	}, []string{"result"})

	paymentEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "staffsort_payment_events_total",
		Help: "Payment gateway interactions by stage and outcome.",
	}, []string{"stage", "outcome"})

	prometheus.MustRegister(
		httpRequests,
		httpDuration,
		accountsCreated,
		slugConflicts,
		emailSends,
		paymentEvents,
	)

	return &Metrics{
		httpRequests:    httpRequests,
		httpDuration:    httpDuration,
		accountsCreated: accountsCreated,
		slugConflicts:   slugConflicts,
		emailSends:      emailSends,
		paymentEvents:   paymentEvents,
	}
}

// ObserveHTTPRequest records a request and its latency.
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	routeLabel := sanitizeLabel(route)
	m.httpRequests.WithLabelValues(method, routeLabel, status).Inc()
	m.httpDuration.WithLabelValues(method, routeLabel).Observe(duration.Seconds())
}

// ObserveAccountCreated increments the account creation counter.
func (m *Metrics) ObserveAccountCreated(product string) {
	if m == nil {
		return
	}
	m.accountsCreated.WithLabelValues(sanitizeLabel(product)).Inc()
}

// ObserveSlugConflict counts an insert lost to a concurrent slug claim.
func (m *Metrics) ObserveSlugConflict() {
	if m == nil {
		return
	}
	m.slugConflicts.Inc()
}

// ObserveEmailSend records a send attempt outcome.
func (m *Metrics) ObserveEmailSend(result string) {
	if m == nil {
		return
	}
	m.emailSends.WithLabelValues(sanitizeLabel(result)).Inc()
}

// ObservePaymentEvent records a gateway interaction outcome.
func (m *Metrics) ObservePaymentEvent(stage, outcome string) {
	if m == nil {
		return
	}
	m.paymentEvents.WithLabelValues(sanitizeLabel(stage), sanitizeLabel(outcome)).Inc()
}

func sanitizeLabel(val string) string {
	if val == "" {
		return "unknown"
	}
	return val
}
