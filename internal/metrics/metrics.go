package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cognicard/internal/domain"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the library service.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Library mutations by resource (folder, deck, card, attempt), op and outcome
	MutationsTotal *prometheus.CounterVec

	CardsImportedTotal prometheus.Counter
	ImportRowsFailed   prometheus.Counter

	RateLimitedTotal prometheus.Counter
}

// NewMetrics creates and registers the service metrics on the default registry.
// Registration happens once per process; later calls return the same set.
//
// Metrics:
//   - cognicard_http_requests_total{method,route,status}
//   - cognicard_http_request_duration_seconds{method,route}
//   - cognicard_library_mutations_total{resource,op,outcome}
//   - cognicard_cards_imported_total
//   - cognicard_import_rows_failed_total
//   - cognicard_rate_limited_total
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cognicard_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "route", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "cognicard_http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),
			MutationsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "cognicard_library_mutations_total",
					Help: "Library mutations by resource, operation and outcome",
				},
				[]string{"resource", "op", "outcome"}, // outcome: ok, conflict, invalid, not_found, error
			),
			CardsImportedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "cognicard_cards_imported_total",
				Help: "Cards created by CSV import",
			}),
			ImportRowsFailed: promauto.NewCounter(prometheus.CounterOpts{
				Name: "cognicard_import_rows_failed_total",
				Help: "CSV rows rejected during import",
			}),
			RateLimitedTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "cognicard_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			}),
		}
	})
	return globalMetrics
}

// RecordMutation counts a library mutation. Safe on a nil receiver.
func (m *Metrics) RecordMutation(resource, op string, err error) {
	if m == nil {
		return
	}
	m.MutationsTotal.WithLabelValues(resource, op, Outcome(err)).Inc()
}

// RecordImport counts imported and rejected rows. Safe on a nil receiver.
func (m *Metrics) RecordImport(created, failed int) {
	if m == nil {
		return
	}
	m.CardsImportedTotal.Add(float64(created))
	m.ImportRowsFailed.Add(float64(failed))
}

// RecordRequest records one HTTP request. Safe on a nil receiver.
func (m *Metrics) RecordRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordRateLimited counts a rejected request. Safe on a nil receiver.
func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.RateLimitedTotal.Inc()
}

// Outcome buckets an error into a low-cardinality label
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
