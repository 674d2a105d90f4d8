// Package metrics records Prometheus metrics for option access and for the
// remote stores options are kept in.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	config "github.com/CodeMyAss/Commodus"
)

// Namespace prefixes every metric name.
const Namespace = "commodus"

// Access results.
const (
	ResultOK       = "ok"
	ResultMissing  = "missing"
	ResultMismatch = "mismatch"
	ResultError    = "error"
)

// Metrics holds the option collectors.
type Metrics struct {
	accessTotal       *prometheus.CounterVec
	accessDuration    *prometheus.HistogramVec
	backendOpsTotal   *prometheus.CounterVec
	backendOpDuration *prometheus.HistogramVec
}

var _ config.AccessLogger = (*Metrics)(nil)

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		accessTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "options",
				Name:      "access_total",
				Help:      "Total number of option reads and writes",
			},
			[]string{"op", "source", "result"},
		),
		accessDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "options",
				Name:      "access_duration_seconds",
				Help:      "Duration of option store access in seconds",
				Buckets:   []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"op"},
		),
		backendOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of store backend operations",
			},
			[]string{"backend", "operation", "status"},
		),
		backendOpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Subsystem: "store",
				Name:      "operation_duration_seconds",
				Help:      "Duration of store backend operations in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
			[]string{"backend", "operation"},
		),
	}
}

// LogAccess implements config.AccessLogger.
func (m *Metrics) LogAccess(event config.AccessEvent) {
	if m == nil {
		return
	}
	op := string(event.Op)
	m.accessTotal.WithLabelValues(op, string(event.Source), accessResult(event)).Inc()
	m.accessDuration.WithLabelValues(op).Observe(event.Duration.Seconds())
}

// ObserveBackend records one backend operation.
func (m *Metrics) ObserveBackend(backend, operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendOpsTotal.WithLabelValues(backend, operation, status).Inc()
	m.backendOpDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
}

// AccessTotal returns the access counter for the given labels.
func (m *Metrics) AccessTotal(op config.AccessOp, source config.Source, result string) prometheus.Counter {
	return m.accessTotal.WithLabelValues(string(op), string(source), result)
}

// BackendOpsTotal returns the backend counter for the given labels.
func (m *Metrics) BackendOpsTotal(backend, operation, status string) prometheus.Counter {
	return m.backendOpsTotal.WithLabelValues(backend, operation, status)
}

func accessResult(event config.AccessEvent) string {
	switch {
	case event.Err != nil:
		return ResultError
	case event.Mismatch:
		return ResultMismatch
	case event.Op == config.AccessRead && !event.Found:
		return ResultMissing
	default:
		return ResultOK
	}
}
